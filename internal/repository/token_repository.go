package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository persists the auth token of one storefront profile. It satisfies session.TokenStore.
type TokenRepository struct {
	db      *pgxpool.Pool
	profile string
}

func NewTokenRepository(db *pgxpool.Pool, profile string) *TokenRepository {
	return &TokenRepository{db: db, profile: profile}
}

func (r *TokenRepository) Load(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRow(ctx, "SELECT token FROM session_tokens WHERE profile = $1", r.profile).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (r *TokenRepository) Save(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO session_tokens (profile, token, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (profile) DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at`,
		r.profile, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "DELETE FROM session_tokens WHERE profile = $1", r.profile)
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
