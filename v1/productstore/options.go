package productstore

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/storemanager/v1/observability"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// DefaultQueryTimeout bounds every DAO operation when no WithQueryTimeout is given.
const DefaultQueryTimeout = 10 * time.Second

// Option configures a ProductDAO.
type Option func(*ProductDAO)

// WithLogger sets the logger. Without it the DAO logs nothing.
func WithLogger(log Logger) Option {
	return func(d *ProductDAO) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithObserver reports every operation to observer.
func WithObserver(observer observability.Observer) Option {
	return func(d *ProductDAO) {
		d.tracker.Observer = observer
	}
}

// WithTracer traces operations with tracer instead of the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *ProductDAO) {
		d.tracker.Tracer = tracer
	}
}

// WithQueryTimeout bounds each operation. Non-positive values are ignored.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(d *ProductDAO) {
		if timeout > 0 {
			d.queryTimeout = timeout
		}
	}
}

// WithIDAssigner replaces the default auto-increment id assignment.
func WithIDAssigner(assigner store.IDAssigner) Option {
	return func(d *ProductDAO) {
		if assigner != nil {
			d.assigner = assigner
		}
	}
}

// WithAutoMigrate creates the products table when the DAO connects.
func WithAutoMigrate(enabled bool) Option {
	return func(d *ProductDAO) {
		d.autoMigrate = enabled
	}
}
