package foodapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"fsanano/foodexpress/internal/model"
)

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &o); err != nil {
		return model.Order{}, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return o, nil
}

func (c *Client) CreateOrder(ctx context.Context, order model.NewOrder) (model.Order, error) {
	var o model.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", order, &o); err != nil {
		return model.Order{}, fmt.Errorf("failed to place order: %w", err)
	}
	return o, nil
}

// DefaultCancelReason is sent when the user gives no reason for cancelling.
const DefaultCancelReason = "Cancelled by user"

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder asks the backend to cancel an order. The order service requires a body,
// so an empty reason is replaced with DefaultCancelReason.
func (c *Client) CancelOrder(ctx context.Context, id int64, reason string) (model.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancelReason
	}

	var o model.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", id), cancelRequest{Reason: reason}, &o); err != nil {
		return model.Order{}, fmt.Errorf("failed to cancel order %d: %w", id, err)
	}
	return o, nil
}
