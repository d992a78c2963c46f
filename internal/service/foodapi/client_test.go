package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsanano/foodexpress/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(Config{BaseURL: ts.URL + "/"}, staticToken(token))
}

func TestListRestaurants_Wrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/restaurants", r.URL.Path)
		assert.Equal(t, "pizza", r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(middleware.RequestIDHeader))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Pizzeria","rating":4.5,"isOpen":true},{"id":2,"name":"Napoli"}]}`))
	}, "tok")

	restaurants, err := client.ListRestaurants(context.Background(), " pizza ")

	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	assert.Equal(t, "Pizzeria", restaurants[0].Name)
	assert.Equal(t, 4.5, restaurants[0].Rating)
	assert.True(t, restaurants[0].IsOpen)
}

func TestListRestaurants_NoTokenNoHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}, "")

	restaurants, err := client.ListRestaurants(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, restaurants)
	assert.Empty(t, restaurants)
}

func TestListRestaurants_ForwardsInboundRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-123", r.Header.Get(middleware.RequestIDHeader))
		w.Write([]byte(`[]`))
	}, "")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	_, err := client.ListRestaurants(ctx, "")
	require.NoError(t, err)
}

func TestListRestaurants_Cache(t *testing.T) {
	var requestCount atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		json.NewEncoder(w).Encode([]model.Restaurant{{ID: 1}})
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL, ListingTTL: time.Minute}, nil)

	_, err := client.ListRestaurants(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), requestCount.Load())

	_, err = client.ListRestaurants(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), requestCount.Load(), "Should not increment request count due to caching")

	_, err = client.ListRestaurants(context.Background(), "sushi")
	assert.NoError(t, err)
	assert.Equal(t, int32(2), requestCount.Load(), "queries are cached separately")

	client.InvalidateListings()
	_, err = client.ListRestaurants(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, int32(3), requestCount.Load())
}

func TestListRestaurants_SlowQueryDoesNotBlockOthers(t *testing.T) {
	var slowCount, allCount atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "slow" {
			slowCount.Add(1)
			started <- struct{}{}
			<-release
		} else {
			allCount.Add(1)
		}
		w.Write([]byte(`[{"id":1}]`))
	}))
	defer ts.Close()
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	defer unblock()

	client := NewClient(Config{BaseURL: ts.URL, ListingTTL: time.Minute}, nil)
	_, err := client.ListRestaurants(context.Background(), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ListRestaurants(context.Background(), "slow")
			assert.NoError(t, err)
		}()
	}
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	restaurants, err := client.ListRestaurants(ctx, "")
	require.NoError(t, err, "cached listing must not wait for the slow query")
	assert.Len(t, restaurants, 1)
	assert.Equal(t, int32(1), allCount.Load())

	// Let the second caller join the request in flight.
	time.Sleep(20 * time.Millisecond)
	unblock()
	wg.Wait()
	assert.Equal(t, int32(1), slowCount.Load(), "concurrent misses share one request")
}

func TestListRestaurants_ErrorsAreNotCached(t *testing.T) {
	var requestCount atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestCount.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":1}]`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL, ListingTTL: time.Minute}, nil)

	_, err := client.ListRestaurants(context.Background(), "")
	assert.Error(t, err)

	restaurants, err := client.ListRestaurants(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, restaurants, 1)
}

func TestGetRestaurant_BareAndWrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/restaurants/1":
			w.Write([]byte(`{"id":1,"name":"Bare","deliveryTime":"20-30 min"}`))
		case "/api/restaurants/2":
			w.Write([]byte(`{"success":true,"message":"ok","data":{"id":2,"name":"Wrapped"}}`))
		case "/api/restaurants/3":
			w.Write([]byte(`{"success":true,"data":null}`))
		default:
			http.NotFound(w, r)
		}
	}, "")

	r, err := client.GetRestaurant(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bare", r.Name)

	r, err = client.GetRestaurant(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", r.Name)

	_, err = client.GetRestaurant(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetRestaurant(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMenu_FillsRestaurantID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/restaurants/7/menu", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Margherita","price":9.5,"isAvailable":true},{"id":2,"restaurantId":7,"price":"3.20"}]`))
	}, "")

	items, err := client.GetMenu(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].RestaurantID)
	assert.True(t, decimal.RequireFromString("9.5").Equal(items[0].Price))
	assert.True(t, decimal.RequireFromString("3.2").Equal(items[1].Price))
}

func TestLogin_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want LoginResult
	}{
		{
			name: "bare token with user fields",
			body: `{"token":"abc","id":5,"username":"ada","role":"CUSTOMER"}`,
			want: LoginResult{Token: "abc", User: model.User{ID: 5, Username: "ada", Email: "ada@example.com", Role: "CUSTOMER"}},
		},
		{
			name: "wrapped token",
			body: `{"success":true,"message":"Login successful","data":{"token":"xyz"}}`,
			want: LoginResult{Token: "xyz", User: model.User{Email: "ada@example.com"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				var creds Credentials
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "ada@example.com", creds.Email)
				w.Write([]byte(tt.body))
			}, "")

			res, err := client.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "pw"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestLogin_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	}, "")

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestLogin_NoToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1}`))
	}, "")

	_, err := client.Login(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSuccessFalseWith200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Profile unavailable"}`))
	}, "tok")

	_, err := client.GetProfile(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Profile unavailable")
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Something went wrong"}`))
	}, "")

	_, err := client.ListRestaurants(context.Background(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch")
	assert.Contains(t, err.Error(), "Something went wrong")
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":invalid-json}`))
	}, "")

	_, err := client.ListRestaurants(context.Background(), "")
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "invalid character")
}

func TestWrongShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"name":"not a list"}`))
	}, "")

	_, err := client.ListOrders(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestBrotliBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		bw.Write([]byte(`{"success":true,"data":[{"id":9,"status":"OUT_FOR_DELIVERY","totalPrice":12.5,"createdAt":"2024-05-01T18:00:00"}]}`))
		bw.Close()
	}, "tok")

	orders, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusOutForDelivery, orders[0].Status)
	assert.Equal(t, 18, orders[0].CreatedAt.Hour())
}

func TestCreateAndCancelOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
			var in model.NewOrder
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, int64(3), in.RestaurantID)
			assert.Equal(t, "1 Main St", in.DeliveryAddress)
			assert.Equal(t, "20", in.TotalPrice.String())
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"message":"Order created successfully","data":{"id":44,"status":"PENDING","totalPrice":20}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/orders/44/cancel":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"reason": "Cancelled by user"}, body)
			w.Write([]byte(`{"id":44,"status":"CANCELLED"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/orders/45/cancel":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Ordered twice", body["reason"])
			w.Write([]byte(`{"id":45,"status":"CANCELLED"}`))
		default:
			http.NotFound(w, r)
		}
	}, "tok")

	order, err := client.CreateOrder(context.Background(), model.NewOrder{
		RestaurantID:    3,
		Items:           []model.OrderItem{{MenuItemID: 1, Quantity: 2, Price: decimal.NewFromInt(10)}},
		TotalPrice:      decimal.NewFromInt(20),
		DeliveryAddress: "1 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(44), order.ID)
	assert.Equal(t, model.StatusPending, order.Status)

	order, err = client.CancelOrder(context.Background(), 44, "  ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, order.Status)

	order, err = client.CancelOrder(context.Background(), 45, "Ordered twice")
	require.NoError(t, err)
	assert.Equal(t, int64(45), order.ID)

	_, err = client.GetOrder(context.Background(), 45)
	assert.ErrorIs(t, err, ErrNotFound)
}
