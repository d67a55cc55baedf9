package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Aleph-Alpha/storemanager"

// Tracker opens a span per store operation and reports the finished operation
// to an optional Observer. The zero value is usable: it traces through the
// global OpenTelemetry provider and observes nothing.
type Tracker struct {
	Component string
	Resource  string
	Observer  Observer
	Tracer    trace.Tracer
}

// NewTracker returns a Tracker for component/resource.
func NewTracker(component, resource string, observer Observer) *Tracker {
	return &Tracker{
		Component: component,
		Resource:  resource,
		Observer:  observer,
	}
}

// Done finishes an operation started with Start. size is the number of records
// returned or affected.
type Done func(err error, size int64)

// Start opens a span named "<component>.<operation>" and returns the derived
// context together with the function that ends it.
func (t *Tracker) Start(ctx context.Context, operation string) (context.Context, Done) {
	tracer := t.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	ctx, span := tracer.Start(ctx, t.Component+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", t.Component),
			attribute.String("db.collection.name", t.Resource),
			attribute.String("db.operation.name", operation),
		),
	)
	start := time.Now()

	return ctx, func(err error, size int64) {
		span.SetAttributes(attribute.Int64("db.response.returned_rows", size))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if t.Observer != nil {
			t.Observer.ObserveOperation(OperationContext{
				Component: t.Component,
				Operation: operation,
				Resource:  t.Resource,
				Duration:  time.Since(start),
				Error:     err,
				Size:      size,
			})
		}
	}
}
