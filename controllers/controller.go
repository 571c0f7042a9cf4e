package controllers

import (
	"time"

	"go.uber.org/zap"

	"storefront/auth"
	"storefront/database"
	"storefront/services"
	"storefront/util"
)

// Controller holds the handlers for every route group.
type Controller struct {
	resolver *auth.Resolver
	accounts *services.AccountService
	products *services.ProductService
	carts    *services.CartService
	orders   *services.OrderService
	store    database.Store
	started  time.Time
	logger   *zap.Logger
}

// Deps lists what NewController needs.
type Deps struct {
	Resolver *auth.Resolver
	Accounts *services.AccountService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
	Store    database.Store
}

// NewController builds a Controller from its dependencies.
func NewController(d Deps) *Controller {
	return &Controller{
		resolver: d.Resolver,
		accounts: d.Accounts,
		products: d.Products,
		carts:    d.Carts,
		orders:   d.Orders,
		store:    d.Store,
		started:  time.Now(),
		logger:   util.GetLogger(),
	}
}
