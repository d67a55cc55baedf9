// Package store defines the contract every DAO in the store manager honours.
//
// A DAO owns exactly one connection for its lifetime and releases it in Close.
// All operations are synchronous and take a context that bounds the call.
//
// # Guarantees
//
//   - SelectAll returns records ordered by ascending identifier.
//   - Insert returns the identifier assigned by the store. Identifiers start at 1
//     and are never reused for another record; 0 means "no identifier".
//   - Update, Delete and DeleteAll report how many records they touched. Zero is
//     never an error: deleting a missing id is a no-op.
//   - Failures are returned as *Error so callers can tell "no data"
//     (an empty slice and a nil error) from "store unreachable" (ErrUnavailable).
//
// Whether a caller degrades silently or surfaces the failure is the caller's
// decision; see the controller package for both policies.
package store

import "context"

//go:generate mockgen -source=store.go -destination=mock_store.go -package=store

// Store is the CRUD contract implemented by productstore.ProductDAO and
// userstore.UserDAO.
type Store[T any] interface {
	// SelectAll returns every record ordered by ascending identifier.
	SelectAll(ctx context.Context) ([]T, error)

	// Insert persists record and returns its newly assigned identifier.
	// On failure it returns 0 and the error; nothing is persisted.
	Insert(ctx context.Context, record T) (int64, error)

	// Update overwrites the mutable fields of the record with the same identifier.
	// It returns the number of records changed.
	Update(ctx context.Context, record T) (int64, error)

	// Delete removes the record with the given identifier and returns the number removed.
	Delete(ctx context.Context, id int64) (int64, error)

	// DeleteAll removes every record and returns the number removed.
	DeleteAll(ctx context.Context) (int64, error)

	// Close releases the connection. It is safe to call more than once.
	Close() error
}
