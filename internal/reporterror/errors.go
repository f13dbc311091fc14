// Package reporterror defines the typed errors raised around the reporting engine.
// Degenerate arithmetic (zero denominators) and empty inputs are never errors.
package reporterror

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every input-contract violation.
var ErrInvalidInput = errors.New("invalid input")

// InvalidTransactionError reports a transaction that breaks the input contract
// (negative amount, missing due date, unknown status, ...).
type InvalidTransactionError struct {
	TransactionID string
	Field         string
	Value         string
	Reason        string
}

func (e *InvalidTransactionError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid transaction %q: %s='%s': %s",
			e.TransactionID, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid transaction %q: %s: %s", e.TransactionID, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidTransactionError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidClassificationError reports a classification map entry naming an
// unknown line role, or an otherwise unusable classification.
type InvalidClassificationError struct {
	Key    string
	Role   string
	Reason string
}

func (e *InvalidClassificationError) Error() string {
	return fmt.Sprintf("invalid classification for %q (role '%s'): %s", e.Key, e.Role, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidClassificationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidParameterError reports an out-of-range engine parameter such as a
// negative tax rate.
type InvalidParameterError struct {
	Name   string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s='%s': %s", e.Name, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidInput
}

// LoadError represents a failure while loading snapshot data from a file.
type LoadError struct {
	FilePath string
	Line     int
	Field    string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to load %s (row %d, field %s): %v", e.FilePath, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.FilePath, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
