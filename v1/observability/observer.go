// Package observability defines the hooks store components use to report
// their operations, and a Tracker that combines them with OpenTelemetry spans.
package observability

import "time"

// OperationContext describes one completed store operation.
type OperationContext struct {
	// Component is the reporting component, e.g. "mariadb" or "mongodb".
	Component string
	// Operation is the DAO operation, e.g. "insert".
	Operation string
	// Resource is the table or collection the operation touched.
	Resource string
	// Duration is the wall time of the operation.
	Duration time.Duration
	// Error is the operation error, nil on success.
	Error error
	// Size is the number of records returned or affected.
	Size int64
}

// Observer receives a notification after every store operation.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
