// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between different failure
// scenarios without parsing driver error strings. For example,
// ErrDuplicateReference indicates that a generated booking reference
// code collided with an existing one and the caller should generate a
// new code and retry the insert.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrDuplicateReference is returned when an insert violates the unique
// reference_code constraint. The booking service retries with a freshly
// generated code a bounded number of times.
var ErrDuplicateReference = errors.New("duplicate reference code")

// isDuplicateKey reports whether the error is a MySQL duplicate-entry
// violation (error number 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// TxRunner executes a function within a database transaction, committing
// when the function returns nil and rolling back otherwise. The booking
// service depends on this type through a small interface so tests can
// run the function with a nil transaction against in-memory fakes.
type TxRunner struct {
	DB *sql.DB
}

// NewTxRunner returns a TxRunner bound to the given database.
func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{DB: db} }

// RunTx begins a transaction, invokes fn and commits on success. Any
// error from fn (or the commit) rolls the transaction back and is
// returned unchanged so typed domain errors survive the boundary.
func (t *TxRunner) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
