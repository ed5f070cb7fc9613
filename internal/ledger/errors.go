package ledger

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorCode categorizes storage failures.
type ErrorCode string

const (
	// ErrCodeUnavailable indicates the storage engine could not be
	// reached or timed out (busy, locked, I/O, cancelled context).
	// The caller may retry with a fresh call; the ledger never retries
	// internally.
	ErrCodeUnavailable ErrorCode = "STORAGE_UNAVAILABLE"

	// ErrCodeConstraint indicates a schema-enforced invariant was hit
	// unexpectedly. Treated as a bug signal rather than routine.
	ErrCodeConstraint ErrorCode = "CONSTRAINT_VIOLATION"
)

// StoreError is a typed storage failure surfaced by ledger operations.
// Every failed Apply or query returns one; the transaction it came from
// has been rolled back in full.
type StoreError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Op names the ledger operation that failed.
	Op string

	// Err is the underlying storage-engine error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsUnavailable returns true if the error is a storage-unavailable failure.
// Uses errors.As to handle wrapped errors.
func IsUnavailable(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeUnavailable
	}
	return false
}

// IsConstraint returns true if the error is a constraint violation.
// Uses errors.As to handle wrapped errors.
func IsConstraint(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeConstraint
	}
	return false
}

// storeErr wraps a storage-engine error with the operation name and a
// failure category derived from the SQLite result code.
func storeErr(op string, err error) *StoreError {
	code := ErrCodeUnavailable
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		code = ErrCodeConstraint
	}
	return &StoreError{Code: code, Op: op, Err: err}
}
