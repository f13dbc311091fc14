package models

// Category groups transactions. ParentID builds an optional hierarchy that the
// engine only walks when a classification map asks for it.
type Category struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Type     CategoryType `json:"type" yaml:"type"`
	ParentID string       `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// CategoriesConfig represents the structure of the categories YAML file.
// Bank accounts and payment methods live in the same file.
type CategoriesConfig struct {
	Categories     []Category      `yaml:"categories"`
	BankAccounts   []BankAccount   `yaml:"bank_accounts,omitempty"`
	PaymentMethods []PaymentMethod `yaml:"payment_methods,omitempty"`
}

// BankAccount is reference data owned by the data provider.
type BankAccount struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// PaymentMethod is reference data owned by the data provider.
type PaymentMethod struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Snapshot is the already-loaded, already-validated input of one engine run.
type Snapshot struct {
	Transactions   []Transaction
	Categories     []Category
	BankAccounts   []BankAccount
	PaymentMethods []PaymentMethod
}

// CategoryIndex maps category IDs to categories.
func CategoryIndex(categories []Category) map[string]Category {
	index := make(map[string]Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}
