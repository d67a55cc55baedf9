package logger

import (
	"context"
	"errors"
	"syscall"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the logger package.
// It provides *LoggerClient and exposes it as the Logger interface,
// and registers a shutdown hook that flushes buffered entries.
//
// Dependencies required by this module:
// - A logger.Config instance must be available in the dependency injection container
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
		ProvideLogger,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// ProvideLogger exposes the concrete *LoggerClient as the Logger interface.
func ProvideLogger(l *LoggerClient) Logger {
	return l
}

// RegisterLoggerLifecycle handles cleanup (sync) of the Zap logger.
//
// Sync on stderr returns EINVAL/ENOTTY on most terminals; those are ignored.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *LoggerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := client.Zap.Sync()
			if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
				return nil
			}
			return err
		},
	})
}
