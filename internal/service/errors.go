package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fsanano/foodexpress/internal/service/foodapi"
	"fsanano/foodexpress/internal/session"
)

var (
	ErrSessionExpired   = errors.New("session expired, please sign in again")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrEmptyCart        = errors.New("cart is empty")
)

// expireOnUnauthorized applies the storefront's single 401 policy: a backend rejection of the
// token that was sent ends the session. Every protected call goes through here.
func expireOnUnauthorized(ctx context.Context, sess *session.Store, token string, err error) error {
	if !errors.Is(err, foodapi.ErrUnauthorized) {
		return err
	}

	// The caller may be gone already; the session must still be cleared.
	if _, clearErr := sess.Expire(context.WithoutCancel(ctx), token); clearErr != nil {
		slog.Error("failed to clear expired session", "err", clearErr)
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, err)
}
