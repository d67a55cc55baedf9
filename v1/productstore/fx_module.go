package productstore

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/mariadb"
	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/observability"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// Config is the product store configuration.
type Config struct {
	Database     mariadb.Config
	QueryTimeout time.Duration
	AutoMigrate  bool
}

// FXModule provides the product DAO as *ProductDAO and as store.Store[model.Product],
// and closes it when the application stops. An unreachable database does not
// fail application start.
var FXModule = fx.Module("productstore",
	fx.Provide(
		NewProductDAOWithDI,
		AsStore,
	),
	fx.Invoke(RegisterProductStoreLifecycle),
)

// ProductStoreParams groups the dependencies needed to create the product DAO.
type ProductStoreParams struct {
	fx.In

	Config   Config
	Logger   logger.Logger
	Observer observability.Observer `optional:"true"`
}

// NewProductDAOWithDI creates the product DAO using dependency injection.
func NewProductDAOWithDI(params ProductStoreParams) *ProductDAO {
	return New(params.Config.Database,
		WithLogger(params.Logger),
		WithObserver(params.Observer),
		WithQueryTimeout(params.Config.QueryTimeout),
		WithAutoMigrate(params.Config.AutoMigrate),
	)
}

// AsStore exposes the DAO through the generic store contract.
func AsStore(d *ProductDAO) store.Store[model.Product] {
	return d
}

// ProductStoreLifeCycleParams groups the dependencies needed for lifecycle management.
type ProductStoreLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	DAO       *ProductDAO
}

// RegisterProductStoreLifecycle closes the DAO on application stop.
func RegisterProductStoreLifecycle(params ProductStoreLifeCycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return params.DAO.Close()
		},
	})
}
