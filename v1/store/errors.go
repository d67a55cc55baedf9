package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every DAO. Use errors.Is to test for them; the
// concrete value returned by a DAO is a *Error carrying the failing operation
// and the underlying driver error.
var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("store: record not found")

	// ErrUnavailable is returned when the backing store cannot be reached or
	// the DAO was never connected.
	ErrUnavailable = errors.New("store: unavailable")

	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("store: duplicate key")

	// ErrInvalid is returned when the caller passes a record the store cannot act on,
	// such as an update without an identifier.
	ErrInvalid = errors.New("store: invalid record")
)

// Kind classifies a store failure.
type Kind uint8

const (
	// KindStore is any store-level failure that has no more specific kind.
	KindStore Kind = iota
	KindNotFound
	KindUnavailable
	KindDuplicate
	KindInvalid
)

// String returns the lowercase name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindDuplicate:
		return "duplicate"
	case KindInvalid:
		return "invalid"
	default:
		return "store_error"
	}
}

// sentinel returns the exported error matching k, or nil for KindStore.
func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindUnavailable:
		return ErrUnavailable
	case KindDuplicate:
		return ErrDuplicateKey
	case KindInvalid:
		return ErrInvalid
	default:
		return nil
	}
}

// Error is the error type returned by every DAO operation.
type Error struct {
	// Op is the DAO operation that failed, e.g. "products.insert".
	Op string
	// Kind classifies the failure.
	Kind Kind
	// Err is the underlying driver error. It may be nil for kinds that are
	// fully described by their sentinel (e.g. a disconnected DAO).
	Err error
}

// NewError builds a *Error. A nil err with KindStore yields nil.
func NewError(op string, kind Kind, err error) error {
	if err == nil && kind == KindStore {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
}

// Unwrap exposes the underlying driver error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of err. Errors that are not a *Error, but wrap one of
// the sentinels, are classified by the sentinel; anything else is KindStore.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicate
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	}
	return KindStore
}

// Translator maps backend driver errors to a Kind. Connection components
// (mariadb, mongodb) provide one.
type Translator func(err error) Kind

// Wrap classifies err with translate and wraps it as a *Error for op.
// A nil err returns nil. Errors that already are a *Error keep their kind.
func Wrap(op string, err error, translate Translator) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return err
	}

	kind := KindStore
	if translate != nil {
		kind = translate(err)
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
