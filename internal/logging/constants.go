package logging

// Standardized field names for structured logging.
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category_id"
	FieldRole          = "line_role"
	FieldRule          = "rule"
	FieldCount         = "count"
	FieldMatched       = "matched"
	FieldMonths        = "months"
	FieldAmount        = "amount"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldFile          = "file_path"
	FieldFormat        = "format"
)
