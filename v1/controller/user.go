package controller

import (
	"context"

	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// UserController exposes the user store to the menu and returns every failure.
type UserController struct {
	store store.Store[model.User]
}

// NewUserController wraps s.
func NewUserController(s store.Store[model.User]) *UserController {
	return &UserController{store: s}
}

// ListUsers returns every user ordered by id.
func (c *UserController) ListUsers(ctx context.Context) ([]model.User, error) {
	return c.store.SelectAll(ctx)
}

// CreateUser stores u and returns its id.
func (c *UserController) CreateUser(ctx context.Context, u model.User) (int64, error) {
	return c.store.Insert(ctx, u)
}

// UpdateUser persists u and returns the number of users changed.
func (c *UserController) UpdateUser(ctx context.Context, u model.User) (int64, error) {
	return c.store.Update(ctx, u)
}

// DeleteUser removes the user with id and returns the number removed.
func (c *UserController) DeleteUser(ctx context.Context, id int64) (int64, error) {
	return c.store.Delete(ctx, id)
}

// DeleteAllUsers removes every user and returns the number removed.
func (c *UserController) DeleteAllUsers(ctx context.Context) (int64, error) {
	return c.store.DeleteAll(ctx)
}

// Shutdown closes the store.
func (c *UserController) Shutdown() error {
	return c.store.Close()
}
