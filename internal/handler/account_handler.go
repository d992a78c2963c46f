package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.root.Account.Profile(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to load profile.")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.root.Account.Orders(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to load orders.")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.root.Account.Order(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to load order.")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The body is optional; without one the default reason is sent.
	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "reason must be at most 255 characters")
		return
	}

	order, err := h.root.Account.CancelOrder(r.Context(), id, req.Reason)
	if err != nil {
		h.fail(w, r, err, "Failed to cancel order.")
		return
	}
	writeJSON(w, http.StatusOK, order)
}
