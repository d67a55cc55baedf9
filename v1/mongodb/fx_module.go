package mongodb

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
)

// FXModule provides a connected *MongoDB and disconnects it when the application stops.
var FXModule = fx.Module("mongodb",
	fx.Provide(
		NewMongoDBClientWithDI,
	),
	fx.Invoke(RegisterMongoDBLifecycle),
)

// MongoDBParams groups the dependencies needed to create a MongoDB client.
type MongoDBParams struct {
	fx.In

	Config Config
	Logger logger.Logger
}

// NewMongoDBClientWithDI creates a new MongoDB client using dependency injection.
func NewMongoDBClientWithDI(params MongoDBParams) (*MongoDB, error) {
	return NewMongoDB(context.Background(), params.Config, params.Logger)
}

// MongoDBLifeCycleParams groups the dependencies needed for MongoDB lifecycle management.
type MongoDBLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	MongoDB   *MongoDB
}

// RegisterMongoDBLifecycle disconnects the client on application stop.
func RegisterMongoDBLifecycle(params MongoDBLifeCycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return params.MongoDB.GracefulShutdown()
		},
	})
}
