// Package session keeps the signed-in user and the auth token of one storefront.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"fsanano/foodexpress/internal/model"
)

var (
	ErrEmptyToken = errors.New("empty auth token")
	ErrNoSession  = errors.New("not signed in")
)

// TokenStore persists the auth token between runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type Store struct {
	tokens TokenStore

	// persistMu orders writes to tokens the same way mu orders the in-memory state.
	// It is taken before mu and held across the write.
	persistMu sync.Mutex

	mu    sync.RWMutex
	token string
	user  *model.User
}

func NewStore(tokens TokenStore) *Store {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &Store{tokens: tokens}
}

// Restore loads a token saved by an earlier run. The user stays unknown until the profile is fetched.
func (s *Store) Restore(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = nil
	return nil
}

// Login stores the token and user. The token is opaque here; the backend decides whether it is valid.
func (s *Store) Login(ctx context.Context, token string, user model.User) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	return nil
}

// Logout forgets the session in memory even when the persisted token cannot be removed.
func (s *Store) Logout(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Expire ends the session after the backend rejected token, unless the user has signed in again
// since the rejected request was sent. It reports whether the session was ended.
func (s *Store) Expire(ctx context.Context, token string) (bool, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if token == "" || token != s.token {
		s.mu.Unlock()
		return false, nil
	}
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		return true, fmt.Errorf("failed to clear token: %w", err)
	}
	return true, nil
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current auth token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// SetUser records a fetched profile, but only if the session still holds the token the profile
// was fetched with. It reports whether the user was stored.
func (s *Store) SetUser(token string, user model.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || token != s.token {
		return false
	}
	s.user = &user
	return true
}

// Claims decodes the token's registered claims without verifying the signature.
// They are informational only.
func (s *Store) Claims() (*jwt.RegisteredClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to read token claims: %w", err)
	}
	return claims, nil
}
