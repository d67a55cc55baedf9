package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config holds the logger settings.
type Config struct {
	// Level is one of debug, info, warning or error. Anything else falls back to info.
	Level string

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods when the context carries an active span.
	EnableTracing bool
}
