package tracer

// Config holds the tracing settings.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string

	// AppEnv is recorded as the deployment environment, e.g. "development".
	AppEnv string

	// EnableExport sends spans to an OTLP/HTTP collector. The endpoint is taken
	// from the standard OTEL_EXPORTER_OTLP_* environment variables.
	EnableExport bool
}
