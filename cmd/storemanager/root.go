package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/storemanager/v1/config"
	"github.com/Aleph-Alpha/storemanager/v1/controller"
	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/menu"
	"github.com/Aleph-Alpha/storemanager/v1/metrics"
	"github.com/Aleph-Alpha/storemanager/v1/mongodb"
	"github.com/Aleph-Alpha/storemanager/v1/productstore"
	"github.com/Aleph-Alpha/storemanager/v1/tracer"
	"github.com/Aleph-Alpha/storemanager/v1/userstore"
)

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "storemanager",
		Short:        "Manage the store's products and users from the console",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// appOptions is the application graph. It populates both controllers.
//
// Module invokes run in order, so the user store connects before the product
// store opens its pool. A MongoDB failure then aborts the build with nothing
// else to release.
func appOptions(cfg *config.Config, products **controller.ProductController, users **controller.UserController) []fx.Option {
	return []fx.Option{
		cfg.Module(),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		mongodb.FXModule,
		userstore.FXModule,
		productstore.FXModule,
		controller.FXModule,
		fx.Populate(products, users),
	}
}

// fxLogger routes fx's own events through the application logger at debug level.
func fxLogger(l *logger.LoggerClient) fxevent.Logger {
	zl := &fxevent.ZapLogger{Logger: l.Zap}
	zl.UseLogLevel(zapcore.DebugLevel)
	return zl
}

// run starts the application, hands the console to the menu and stops the
// application once the operator quits.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	var (
		products *controller.ProductController
		users    *controller.UserController
	)
	app := fx.New(append(appOptions(cfg, &products, &users), fx.WithLogger(fxLogger))...)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build storemanager: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start storemanager: %w", err)
	}

	runErr := menu.New(in, out, products, users).Run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return errors.Join(runErr, app.Stop(stopCtx))
}
