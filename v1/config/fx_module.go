package config

import "go.uber.org/fx"

// Module supplies every component configuration held by c to the fx graph.
// The MongoDB connection settings are also supplied on their own for
// mongodb.FXModule.
func (c *Config) Module() fx.Option {
	return fx.Module("config",
		fx.Supply(
			c.Products,
			c.Users,
			c.Users.Database,
			c.Logger,
			c.Metrics,
			c.Tracer,
		),
	)
}
