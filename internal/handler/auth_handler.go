package handler

import (
	"log/slog"
	"net/http"
	"time"

	"fsanano/foodexpress/internal/model"
	"fsanano/foodexpress/internal/service/foodapi"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	From     string `json:"from"`
}

type loginResponse struct {
	User     model.User `json:"user"`
	Redirect string     `json:"redirect"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
	ExpiresAt     *time.Time  `json:"expiresAt,omitempty"`
	CartItems     int         `json:"cartItems"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.root.Account.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "Login failed. Please try again.")
		return
	}

	from := req.From
	if from == "" {
		from = r.URL.Query().Get("from")
	}
	writeJSON(w, http.StatusOK, loginResponse{User: user, Redirect: safeRedirect(from)})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.root.Account.Register(r.Context(), foodapi.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.fail(w, r, err, "Registration failed. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.root.Account.Logout(r.Context()); err != nil {
		// The in-memory session is gone either way.
		slog.Warn("failed to forget persisted token", "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{
		Authenticated: h.root.Session.IsAuthenticated(),
		CartItems:     h.root.Cart.ItemCount(),
	}
	if user, ok := h.root.Session.User(); ok {
		resp.User = &user
	}
	if resp.Authenticated {
		if claims, err := h.root.Session.Claims(); err == nil && claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time
			resp.ExpiresAt = &exp
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
