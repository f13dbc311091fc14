// Package store is the file-based data provider: transactions from CSV,
// categories and reference data from YAML, and the classification map from
// YAML.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/finstat/internal/fileutils"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/reporterror"
	"fjacquet/finstat/internal/statement"

	"gopkg.in/yaml.v3"
)

// Default file names, resolved by FindConfigFile.
const (
	DefaultTransactionsFile   = "transactions.csv"
	DefaultCategoriesFile     = "categories.yaml"
	DefaultClassificationFile = "classification.yaml"
)

// Provider supplies the engine inputs.
type Provider interface {
	LoadSnapshot() (models.Snapshot, error)
	LoadClassification() (statement.ClassificationMap, error)
}

// FileStore loads snapshots from files.
type FileStore struct {
	TransactionsFile   string
	CategoriesFile     string
	ClassificationFile string
	Delimiter          rune

	logger logging.Logger
}

// NewFileStore creates a store. Empty file names fall back to the defaults.
func NewFileStore(transactionsFile, categoriesFile, classificationFile string, logger logging.Logger) *FileStore {
	if transactionsFile == "" {
		transactionsFile = DefaultTransactionsFile
	}
	if categoriesFile == "" {
		categoriesFile = DefaultCategoriesFile
	}
	if classificationFile == "" {
		classificationFile = DefaultClassificationFile
	}
	return &FileStore{
		TransactionsFile:   transactionsFile,
		CategoriesFile:     categoriesFile,
		ClassificationFile: classificationFile,
		Delimiter:          ',',
		logger:             logging.Component(logger, "store"),
	}
}

// FindConfigFile looks for a data file in standard locations
func (s *FileStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return fileutils.FirstExisting(filename)
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("data", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "finstat", filename))
	}
	return fileutils.FirstExisting(locations...)
}

// LoadSnapshot loads transactions, categories and reference data.
func (s *FileStore) LoadSnapshot() (models.Snapshot, error) {
	transactions, err := s.LoadTransactions()
	if err != nil {
		return models.Snapshot{}, err
	}
	reference, err := s.LoadReferenceData()
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{
		Transactions:   transactions,
		Categories:     reference.Categories,
		BankAccounts:   reference.BankAccounts,
		PaymentMethods: reference.PaymentMethods,
	}, nil
}

// LoadTransactions reads the transactions CSV. A missing file is an error.
func (s *FileStore) LoadTransactions() ([]models.Transaction, error) {
	filePath, err := s.FindConfigFile(s.TransactionsFile)
	if err != nil {
		return nil, &reporterror.LoadError{FilePath: s.TransactionsFile, Err: err}
	}

	rows, err := ReadCSVFile[TransactionRow](filePath, s.Delimiter)
	if err != nil {
		return nil, &reporterror.LoadError{FilePath: filePath, Err: err}
	}

	transactions := make([]models.Transaction, 0, len(rows))
	firstLine := make(map[string]int, len(rows))
	for i, row := range rows {
		line := i + 1
		tx, err := row.ToTransaction(filePath, line)
		if err == nil {
			if first, dup := firstLine[tx.ID]; dup {
				err = &reporterror.LoadError{FilePath: filePath, Line: line, Field: "id", Err: &reporterror.InvalidTransactionError{
					TransactionID: tx.ID,
					Field:         "id",
					Reason:        fmt.Sprintf("duplicate id, first seen on line %d", first),
				}}
			}
		}
		if err != nil {
			s.logger.WithError(err).Error("Rejected transaction row", logging.F(logging.FieldFile, filePath))
			return nil, err
		}
		firstLine[tx.ID] = line
		transactions = append(transactions, tx)
	}

	s.logger.Debug("Loaded transactions",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(transactions)))
	return transactions, nil
}

// LoadReferenceData reads the categories YAML file. A missing file yields
// empty reference data: every category then renders as uncategorized.
func (s *FileStore) LoadReferenceData() (models.CategoriesConfig, error) {
	var reference models.CategoriesConfig
	found, err := s.readYAML(s.CategoriesFile, &reference)
	if err != nil {
		return models.CategoriesConfig{}, err
	}
	if !found {
		s.logger.Warn("Categories file not found", logging.F(logging.FieldFile, s.CategoriesFile))
		return models.CategoriesConfig{Categories: []models.Category{}}, nil
	}
	if reference.Categories == nil {
		reference.Categories = []models.Category{}
	}
	s.logger.Debug("Loaded categories", logging.F(logging.FieldCount, len(reference.Categories)))
	return reference, nil
}

// LoadClassification reads and validates the classification map. A missing
// file yields an empty map: every expense is then reported as unclassified.
func (s *FileStore) LoadClassification() (statement.ClassificationMap, error) {
	var cm statement.ClassificationMap
	found, err := s.readYAML(s.ClassificationFile, &cm)
	if err != nil {
		return statement.ClassificationMap{}, err
	}
	if !found {
		s.logger.Warn("Classification file not found", logging.F(logging.FieldFile, s.ClassificationFile))
		return statement.ClassificationMap{Categories: map[string]statement.LineRole{}}, nil
	}
	if err := cm.Validate(); err != nil {
		return statement.ClassificationMap{}, &reporterror.LoadError{FilePath: s.ClassificationFile, Err: err}
	}
	if cm.Categories == nil {
		cm.Categories = map[string]statement.LineRole{}
	}
	s.logger.Debug("Loaded classification map",
		logging.F(logging.FieldCount, len(cm.Categories)),
		logging.F("tags", len(cm.Tags)))
	return cm, nil
}

// readYAML resolves filename and decodes it into out. It reports false when
// the file does not exist.
func (s *FileStore) readYAML(filename string, out interface{}) (bool, error) {
	filePath, err := s.FindConfigFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &reporterror.LoadError{FilePath: filename, Err: err}
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path comes from configuration
	if err != nil {
		return false, &reporterror.LoadError{FilePath: filePath, Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, &reporterror.LoadError{FilePath: filePath, Err: fmt.Errorf("error parsing YAML: %w", err)}
	}
	return true, nil
}
