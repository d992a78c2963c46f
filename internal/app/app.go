// Package app assembles one storefront: a session, a cart and the services that read them.
package app

import (
	"context"
	"time"

	"fsanano/foodexpress/internal/cart"
	"fsanano/foodexpress/internal/service"
	"fsanano/foodexpress/internal/service/foodapi"
	"fsanano/foodexpress/internal/session"
)

type Config struct {
	APIURL     string
	Timeout    time.Duration
	ListingTTL time.Duration
	CartPolicy cart.Policy
}

// Root owns the only session and cart of a running storefront. Pages receive it explicitly.
type Root struct {
	Session *session.Store
	Cart    *cart.Store

	API      *foodapi.Client
	Catalog  *service.CatalogService
	Account  *service.AccountService
	Checkout *service.CheckoutService
}

func New(cfg Config, tokens session.TokenStore) *Root {
	sess := session.NewStore(tokens)
	c := cart.NewStore(cfg.CartPolicy)
	api := foodapi.NewClient(foodapi.Config{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.Timeout,
		ListingTTL: cfg.ListingTTL,
	}, sess)

	return &Root{
		Session:  sess,
		Cart:     c,
		API:      api,
		Catalog:  service.NewCatalogService(api),
		Account:  service.NewAccountService(api, sess),
		Checkout: service.NewCheckoutService(api, sess, c),
	}
}

// Restore picks up the token saved by a previous run.
func (r *Root) Restore(ctx context.Context) error {
	return r.Session.Restore(ctx)
}
