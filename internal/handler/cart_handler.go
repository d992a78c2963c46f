package handler

import (
	"net/http"

	"fsanano/foodexpress/internal/cart"
)

type cartResponse struct {
	cart.Snapshot
	Policy string `json:"policy"`
}

type addItemRequest struct {
	RestaurantID int64 `json:"restaurantId" validate:"required,gt=0"`
	MenuItemID   int64 `json:"menuItemId" validate:"required,gt=0"`
	Replace      bool  `json:"replace"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress" validate:"required,notblank"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	restaurant, item, err := h.root.Catalog.MenuItem(r.Context(), req.RestaurantID, req.MenuItemID)
	if err != nil {
		h.fail(w, r, err, "Failed to load the menu. Please try again.")
		return
	}
	// The page was left while the menu was loading.
	if r.Context().Err() != nil {
		return
	}

	if req.Replace {
		err = h.root.Cart.Replace(item, restaurant)
	} else {
		err = h.root.Cart.AddItem(item, restaurant)
	}
	if err != nil {
		h.fail(w, r, err, "Failed to add item to cart.")
		return
	}

	h.writeCart(w, http.StatusOK)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateItemRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if err := h.root.Cart.UpdateQuantity(id, *req.Quantity); err != nil {
		h.fail(w, r, err, "Failed to update cart.")
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.root.Cart.RemoveItem(id); err != nil {
		h.fail(w, r, err, "Failed to update cart.")
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.root.Cart.Clear()
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	order, err := h.root.Checkout.Checkout(r.Context(), req.DeliveryAddress)
	if err != nil {
		h.fail(w, r, err, "Failed to place order. Please try again.")
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) writeCart(w http.ResponseWriter, status int) {
	writeJSON(w, status, cartResponse{
		Snapshot: h.root.Cart.Snapshot(),
		Policy:   h.root.Cart.Policy().String(),
	})
}

