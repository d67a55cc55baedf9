// Package metrics collects Prometheus metrics for store operations.
//
// *Metrics implements observability.Observer, so it plugs straight into the
// DAOs' observer option. Every DAO call increments store_operations_total with
// its outcome ("ok", "unavailable", "not_found", ...) and feeds the duration
// histogram.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//		ServiceName: "storemanager",
//	})
//	dao, err := userstore.New(ctx, cfg, userstore.WithObserver(m))
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		fx.Provide(func() metrics.Config {
//			return metrics.Config{Address: ":9090", ServiceName: "storemanager"}
//		}),
//	)
//
// The /metrics endpoint is only served when Address is set. The store manager
// is an interactive tool, so it is off by default.
package metrics
