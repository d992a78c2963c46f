package foodapi

import (
	"context"
	"fmt"
	"net/http"

	"fsanano/foodexpress/internal/model"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// LoginResult is the token plus whatever user fields the backend returned next to it.
type LoginResult struct {
	Token string `json:"token"`
	model.User
}

func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/users/login", creds, &res); err != nil {
		return LoginResult{}, fmt.Errorf("login failed: %w", err)
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("login failed: %w: no token in response", ErrMalformedResponse)
	}
	if res.Email == "" {
		res.Email = creds.Email
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/api/users/register", reg, &u); err != nil {
		return model.User{}, fmt.Errorf("registration failed: %w", err)
	}
	return u, nil
}

func (c *Client) GetProfile(ctx context.Context) (model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &u); err != nil {
		return model.User{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return u, nil
}
