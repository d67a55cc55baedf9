package userstore

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/mongodb"
	"github.com/Aleph-Alpha/storemanager/v1/observability"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// Config is the user store configuration.
type Config struct {
	Database     mongodb.Config
	QueryTimeout time.Duration
}

// FXModule provides the user DAO as *UserDAO and as store.Store[model.User],
// and closes it when the application stops. It runs on the *mongodb.MongoDB
// provided by mongodb.FXModule, so a failed connection fails application start.
var FXModule = fx.Module("userstore",
	fx.Provide(
		NewUserDAOWithDI,
		AsStore,
	),
	fx.Invoke(RegisterUserStoreLifecycle),
)

// UserStoreParams groups the dependencies needed to create the user DAO.
type UserStoreParams struct {
	fx.In

	Config   Config
	Client   *mongodb.MongoDB
	Logger   logger.Logger
	Observer observability.Observer `optional:"true"`
}

// NewUserDAOWithDI creates the user DAO using dependency injection.
func NewUserDAOWithDI(params UserStoreParams) (*UserDAO, error) {
	return NewWithClient(context.Background(), params.Client,
		WithLogger(params.Logger),
		WithObserver(params.Observer),
		WithQueryTimeout(params.Config.QueryTimeout),
	)
}

// AsStore exposes the DAO through the generic store contract.
func AsStore(d *UserDAO) store.Store[model.User] {
	return d
}

// UserStoreLifeCycleParams groups the dependencies needed for lifecycle management.
type UserStoreLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	DAO       *UserDAO
}

// RegisterUserStoreLifecycle closes the DAO on application stop.
func RegisterUserStoreLifecycle(params UserStoreLifeCycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return params.DAO.Close()
		},
	})
}
