// Package logger provides structured logging for the store manager.
//
// It wraps Uber's zap with a small, uniform method set: every level takes a
// message, an optional error and optional maps of structured fields.
//
// # Direct Usage (Without FX)
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       "info",
//		ServiceName: "storemanager",
//	})
//
//	log.Info("Product created", nil, map[string]interface{}{
//		"product_id": 7,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule, // Provides *LoggerClient and logger.Logger
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: "info", ServiceName: "storemanager"}
//		}),
//	)
//
// # Tracing Integration
//
// With EnableTracing set, the *WithContext methods add trace_id and span_id
// fields when the context carries an active OpenTelemetry span.
//
// # Output
//
// Entries are JSON on stderr. The interactive menu owns stdout.
package logger
