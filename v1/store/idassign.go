package store

import "context"

// IDAssigner is the strategy a DAO uses to pick the identifier for a new record.
//
// Both backends satisfy the same contract: the store hands out a unique,
// monotonically non-decreasing integer per insert. Relational tables get it from
// auto-increment on write (StoreAssigned); the document store gets it from a
// counter document (userstore.Counter).
type IDAssigner interface {
	// NextID returns the identifier for the next insert. Zero means the backend
	// assigns the identifier itself while writing the record.
	NextID(ctx context.Context) (int64, error)
}

// StoreAssigned leaves identifier assignment to the backend (auto-increment).
type StoreAssigned struct{}

// NextID always returns 0.
func (StoreAssigned) NextID(context.Context) (int64, error) {
	return 0, nil
}

// IDAssignerFunc adapts a function to IDAssigner.
type IDAssignerFunc func(ctx context.Context) (int64, error)

// NextID calls f(ctx).
func (f IDAssignerFunc) NextID(ctx context.Context) (int64, error) {
	return f(ctx)
}
