package controller

import (
	"context"

	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// Logger is the logging contract used by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// ProductController exposes the product store to the menu and hides its failures.
type ProductController struct {
	store  store.Store[model.Product]
	logger Logger
}

// NewProductController wraps s.
func NewProductController(s store.Store[model.Product], log Logger) *ProductController {
	return &ProductController{store: s, logger: log}
}

// ListProducts returns every product, or an empty slice if the store failed.
func (c *ProductController) ListProducts(ctx context.Context) []model.Product {
	products, err := c.store.SelectAll(ctx)
	if err != nil {
		c.warn("list", err)
		return []model.Product{}
	}
	return products
}

// CreateProduct stores p and returns its id, or 0 if the store failed.
func (c *ProductController) CreateProduct(ctx context.Context, p model.Product) int64 {
	id, err := c.store.Insert(ctx, p)
	if err != nil {
		c.warn("create", err)
		return 0
	}
	return id
}

// UpdateProduct persists p and returns the number of rows changed.
func (c *ProductController) UpdateProduct(ctx context.Context, p model.Product) int64 {
	n, err := c.store.Update(ctx, p)
	if err != nil {
		c.warn("update", err)
		return 0
	}
	return n
}

// DeleteProduct removes the product with id and returns the number removed.
func (c *ProductController) DeleteProduct(ctx context.Context, id int64) int64 {
	n, err := c.store.Delete(ctx, id)
	if err != nil {
		c.warn("delete", err)
		return 0
	}
	return n
}

// DeleteAllProducts removes every product and returns the number removed.
func (c *ProductController) DeleteAllProducts(ctx context.Context) int64 {
	n, err := c.store.DeleteAll(ctx)
	if err != nil {
		c.warn("delete_all", err)
		return 0
	}
	return n
}

// Shutdown closes the store. A close failure is logged.
func (c *ProductController) Shutdown() {
	if err := c.store.Close(); err != nil {
		c.logger.Error("Failed to close product store", err, nil)
	}
}

func (c *ProductController) warn(operation string, err error) {
	c.logger.Warn("Product store operation failed", err, map[string]interface{}{
		"operation": operation,
		"kind":      store.KindOf(err).String(),
	})
}
