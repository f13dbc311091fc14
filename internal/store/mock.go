package store

import (
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/statement"
)

// MockStore is an in-memory Provider for testing.
type MockStore struct {
	Snapshot       models.Snapshot
	Classification statement.ClassificationMap

	// Error flags for testing error conditions
	LoadSnapshotError       error
	LoadClassificationError error
}

// LoadSnapshot returns a copy of the mock snapshot.
func (m *MockStore) LoadSnapshot() (models.Snapshot, error) {
	if m.LoadSnapshotError != nil {
		return models.Snapshot{}, m.LoadSnapshotError
	}
	snapshot := m.Snapshot
	snapshot.Transactions = append([]models.Transaction(nil), m.Snapshot.Transactions...)
	snapshot.Categories = append([]models.Category(nil), m.Snapshot.Categories...)
	return snapshot, nil
}

// LoadClassification returns a copy of the mock classification map.
func (m *MockStore) LoadClassification() (statement.ClassificationMap, error) {
	if m.LoadClassificationError != nil {
		return statement.ClassificationMap{}, m.LoadClassificationError
	}
	cm := statement.ClassificationMap{Categories: make(map[string]statement.LineRole, len(m.Classification.Categories))}
	for k, v := range m.Classification.Categories {
		cm.Categories[k] = v
	}
	if m.Classification.Tags != nil {
		cm.Tags = make(map[string]statement.LineRole, len(m.Classification.Tags))
		for k, v := range m.Classification.Tags {
			cm.Tags[k] = v
		}
	}
	return cm, nil
}

var (
	_ Provider = (*FileStore)(nil)
	_ Provider = (*MockStore)(nil)
)
