// Package foodapi is the storefront's client for the food-delivery REST backend.
package foodapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"fsanano/foodexpress/internal/model"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
	// ListingTTL is how long restaurant listings are reused. Zero disables the cache.
	ListingTTL time.Duration
}

// TokenSource supplies the bearer token for outgoing requests. An empty token sends no header.
type TokenSource interface {
	Token() string
}

type cachedListing struct {
	restaurants []model.Restaurant
	expiry      time.Time
}

type Client struct {
	client *http.Client
	config Config

	cacheMu   sync.RWMutex
	cacheData map[string]cachedListing

	// listingGroup collapses concurrent fetches of the same listing query.
	listingGroup singleflight.Group
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		client: &http.Client{
			Transport: &AuthTransport{
				Tokens: tokens,
				Base:   http.DefaultTransport,
			},
			Timeout: cfg.Timeout,
		},
		config:    cfg,
		cacheData: make(map[string]cachedListing),
	}
}

// AuthTransport adds the bearer token and request id to every request
type AuthTransport struct {
	Tokens TokenSource
	Base   http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.Tokens != nil {
		if token := t.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")

	// Reuse the inbound request id so backend logs line up with ours.
	requestID := middleware.GetReqID(req.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(middleware.RequestIDHeader, requestID)

	return t.Base.RoundTrip(req)
}

// do sends one request and decodes the (possibly wrapped) response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromBody(resp.StatusCode, data)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return decode(resp.StatusCode, data, out)
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
