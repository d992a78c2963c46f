package service

import (
	"context"
	"strings"

	"fsanano/foodexpress/internal/cart"
	"fsanano/foodexpress/internal/model"
	"fsanano/foodexpress/internal/service/foodapi"
	"fsanano/foodexpress/internal/session"
)

type CheckoutService struct {
	api     *foodapi.Client
	session *session.Store
	cart    *cart.Store
}

func NewCheckoutService(api *foodapi.Client, sess *session.Store, c *cart.Store) *CheckoutService {
	return &CheckoutService{api: api, session: sess, cart: c}
}

// Checkout places an order for the current cart and empties the cart once the backend has
// accepted it. Prices are the snapshot prices recorded when the items were added.
func (s *CheckoutService) Checkout(ctx context.Context, deliveryAddress string) (model.Order, error) {
	token := s.session.Token()
	if token == "" {
		return model.Order{}, session.ErrNoSession
	}

	snap := s.cart.Snapshot()
	if len(snap.Lines) == 0 || snap.Restaurant == nil {
		return model.Order{}, ErrEmptyCart
	}

	order, err := s.api.CreateOrder(ctx, model.NewOrder{
		RestaurantID:    snap.Restaurant.ID,
		Items:           snap.OrderItems(),
		TotalPrice:      snap.Total,
		DeliveryAddress: strings.TrimSpace(deliveryAddress),
	})
	if err != nil {
		return model.Order{}, expireOnUnauthorized(ctx, s.session, token, err)
	}

	// The order exists now, so the ordered lines go even if the caller has gone away.
	// Anything added meanwhile was not ordered and stays.
	s.cart.RemoveOrdered(snap)
	return order, nil
}
