// Package tracer sets up OpenTelemetry tracing for the store manager.
//
// Store components create spans through observability.Tracker against the
// global provider; this package installs that provider and optionally exports
// spans over OTLP/HTTP.
package tracer
