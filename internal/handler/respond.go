package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"fsanano/foodexpress/internal/cart"
	"fsanano/foodexpress/internal/service"
	"fsanano/foodexpress/internal/service/foodapi"
	"fsanano/foodexpress/internal/session"
)

const loginPath = "/login"

type errorResponse struct {
	Error    string            `json:"error"`
	Retry    bool              `json:"retry,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail turns an error from a page's data fetch or store mutation into a response.
// message is what the user sees when the backend could not be reached.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		// The client went away; there is nobody to answer.
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionExpired), errors.Is(err, session.ErrNoSession):
		h.toLogin(w, r)
		return
	case errors.Is(err, foodapi.ErrNotFound), errors.Is(err, service.ErrMenuItemNotFound):
		writeError(w, http.StatusNotFound, "We couldn't find what you were looking for.")
		return
	case errors.Is(err, cart.ErrRestaurantMismatch):
		writeError(w, http.StatusConflict, "Your cart has items from another restaurant. Clear it or replace it to add this item.")
		return
	case errors.Is(err, cart.ErrItemUnavailable), errors.Is(err, cart.ErrItemRestaurantMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, cart.ErrLineNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var apiErr *foodapi.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		writeError(w, apiErr.StatusCode, apiErr.Message)
		return
	}

	slog.Error(message, "err", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: message, Retry: true})
}

// toLogin sends the user to the login page, remembering where they came from.
// Page loads are redirected; other requests get a 401 carrying the same target.
func (h *Handler) toLogin(w http.ResponseWriter, r *http.Request) {
	target := loginPath + "?" + url.Values{"from": {r.URL.RequestURI()}}.Encode()
	if r.Method == http.MethodGet {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Please sign in to continue.", Redirect: target})
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.root.Session.IsAuthenticated() {
			h.toLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decodeBody reads a JSON body into dst and validates it.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fieldMessage(fe)
			}
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Please check the highlighted fields.", Fields: fields})
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return "is invalid"
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// safeRedirect only allows local paths as post-login targets.
func safeRedirect(from string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return "/"
	}
	return from
}
