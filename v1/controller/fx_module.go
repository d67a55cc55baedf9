package controller

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// FXModule provides both controllers. The stores they wrap are closed by
// their own modules, so no lifecycle hooks are registered here.
var FXModule = fx.Module("controller",
	fx.Provide(
		NewProductControllerWithDI,
		NewUserController,
	),
)

// ProductControllerParams groups the dependencies of the product controller.
type ProductControllerParams struct {
	fx.In

	Store  store.Store[model.Product]
	Logger logger.Logger
}

// NewProductControllerWithDI creates the product controller using dependency injection.
func NewProductControllerWithDI(params ProductControllerParams) *ProductController {
	return NewProductController(params.Store, params.Logger)
}
