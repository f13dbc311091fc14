// Package report renders engine artifacts as JSON, YAML or CSV.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/finstat/internal/aggregator"
	"fjacquet/finstat/internal/engine"
	"fjacquet/finstat/internal/fileutils"
	"fjacquet/finstat/internal/insights"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/statement"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// ReportGenerator renders artifacts. Output carries no currency symbols or
// locale formatting; amounts are plain decimal strings.
type ReportGenerator struct {
	logger    logging.Logger
	delimiter rune
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{
		logger:    logging.Component(logger, "report"),
		delimiter: ',',
	}
}

// SetDelimiter sets the CSV field delimiter.
func (g *ReportGenerator) SetDelimiter(delim rune) {
	g.delimiter = delim
}

// GenerateReport renders artifact in format. artifact is an aggregator.Result,
// a statement.Result, a []insights.Insight or an *engine.Report.
func (g *ReportGenerator) GenerateReport(artifact interface{}, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Render(&buf, artifact, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes artifact to w in format.
func (g *ReportGenerator) Render(w io.Writer, artifact interface{}, format string) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(artifact)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(artifact); err == nil {
			err = enc.Close()
		}
	case FormatCSV:
		err = g.renderCSV(w, artifact)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		g.logger.WithError(err).Error("Failed to render report", logging.F(logging.FieldFormat, format))
		return fmt.Errorf("failed to render %s report: %w", format, err)
	}
	return nil
}

// WriteFile renders artifact into filePath, creating parent directories.
func (g *ReportGenerator) WriteFile(filePath string, artifact interface{}, format string) error {
	data, err := g.GenerateReport(artifact, format)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFile(filePath, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	g.logger.Info("Report written",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldFormat, format))
	return nil
}

func (g *ReportGenerator) renderCSV(w io.Writer, artifact interface{}) error {
	var rows interface{}
	switch a := artifact.(type) {
	case aggregator.Result:
		rows = summaryRows(a)
	case *aggregator.Result:
		rows = summaryRows(*a)
	case statement.Result:
		rows = a.Lines
	case *statement.Result:
		rows = a.Lines
	case []insights.Insight:
		rows = a
	case *engine.Report:
		rows = metricRows(a)
	default:
		return fmt.Errorf("no CSV layout for %T", artifact)
	}

	writer := csv.NewWriter(w)
	writer.Comma = g.delimiter
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer))
}
