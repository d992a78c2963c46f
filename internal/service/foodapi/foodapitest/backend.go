// Package foodapitest provides an in-memory food-delivery backend for tests.
package foodapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fsanano/foodexpress/internal/model"
)

type account struct {
	password string
	user     model.User
}

// Backend serves the REST endpoints the storefront consumes.
type Backend struct {
	// Wrapped makes every success response use the {success, data} envelope.
	Wrapped bool

	server *httptest.Server

	mu          sync.Mutex
	restaurants []model.Restaurant
	menus       map[int64][]model.MenuItem
	accounts    map[string]account
	tokens      map[string]model.User
	orders      []model.Order
	failures    map[string]int
	hits        map[string]int
	hooks       map[string]func(*http.Request)
	nextID      int64

	cancelReasons map[int64]string
}

func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		menus:    make(map[int64][]model.MenuItem),
		accounts: make(map[string]account),
		tokens:   make(map[string]model.User),
		failures: make(map[string]int),
		hits:     make(map[string]int),
		hooks:    make(map[string]func(*http.Request)),
		nextID:   1000,

		cancelReasons: make(map[int64]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/restaurants", b.listRestaurants)
	mux.HandleFunc("GET /api/restaurants/{id}", b.getRestaurant)
	mux.HandleFunc("GET /api/restaurants/{id}/menu", b.getMenu)
	mux.HandleFunc("POST /api/users/login", b.login)
	mux.HandleFunc("POST /api/users/register", b.register)
	mux.HandleFunc("GET /api/users/profile", b.authed(b.profile))
	mux.HandleFunc("GET /api/orders", b.authed(b.listOrders))
	mux.HandleFunc("GET /api/orders/{id}", b.authed(b.getOrder))
	mux.HandleFunc("POST /api/orders", b.authed(b.createOrder))
	mux.HandleFunc("PUT /api/orders/{id}/cancel", b.authed(b.cancelOrder))

	b.server = httptest.NewServer(b.track(mux))
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) AddRestaurant(r model.Restaurant, menu ...model.MenuItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restaurants = append(b.restaurants, r)
	for i := range menu {
		menu[i].RestaurantID = r.ID
	}
	b.menus[r.ID] = menu
}

// SetPrice changes the live price of a menu item.
func (b *Backend) SetPrice(restaurantID, itemID int64, price decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.menus[restaurantID] {
		if b.menus[restaurantID][i].ID == itemID {
			b.menus[restaurantID][i].Price = price
		}
	}
}

func (b *Backend) AddUser(password string, u model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[u.Email] = account{password: password, user: u}
}

// IssueToken returns a token the backend accepts for u without going through login.
func (b *Backend) IssueToken(u model.User) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.tokens[token] = u
	return token
}

// RevokeTokens makes every issued token invalid, as if they had all expired.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]model.User)
}

// Fail makes every request whose path equals path answer with status.
func (b *Backend) Fail(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = status
}

func (b *Backend) Recover(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, path)
}

func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

// CancelReason returns the reason the order was cancelled with.
func (b *Backend) CancelReason(id int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelReasons[id]
}

// OnRequest runs fn before every request to path is served. fn may block.
func (b *Backend) OnRequest(path string, fn func(*http.Request)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks[path] = fn
}

func (b *Backend) Orders() []model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Order(nil), b.orders...)
}

func (b *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		status, fail := b.failures[r.URL.Path]
		hook := b.hooks[r.URL.Path]
		b.mu.Unlock()

		if hook != nil {
			hook(r)
		}

		if fail {
			b.fail(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authed(next func(http.ResponseWriter, *http.Request, model.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		u, valid := b.tokens[token]
		b.mu.Unlock()
		if !ok || !valid {
			b.fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r, u)
	}
}

func (b *Backend) listRestaurants(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	b.mu.Lock()
	out := []model.Restaurant{}
	for _, rest := range b.restaurants {
		if query == "" || strings.Contains(strings.ToLower(rest.Name+" "+rest.Cuisine), query) {
			out = append(out, rest)
		}
	}
	b.mu.Unlock()

	// The listing endpoint is always wrapped.
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (b *Backend) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rest := range b.restaurants {
		if rest.ID == id {
			b.ok(w, http.StatusOK, rest)
			return
		}
	}
	b.fail(w, http.StatusNotFound, "Restaurant not found")
}

func (b *Backend) getMenu(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	menu, ok := b.menus[id]
	if !ok {
		b.fail(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	b.ok(w, http.StatusOK, menu)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		b.fail(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[creds.Email]
	if !ok || acc.password != creds.Password {
		b.fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token := uuid.NewString()
	b.tokens[token] = acc.user
	b.ok(w, http.StatusOK, struct {
		Token string `json:"token"`
		model.User
	}{token, acc.user})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var reg struct {
		model.User
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		b.fail(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[reg.Email]; exists {
		b.fail(w, http.StatusConflict, "Email already registered")
		return
	}
	b.nextID++
	reg.User.ID = b.nextID
	reg.User.Role = "CUSTOMER"
	b.accounts[reg.Email] = account{password: reg.Password, user: reg.User}
	b.ok(w, http.StatusCreated, reg.User)
}

func (b *Backend) profile(w http.ResponseWriter, _ *http.Request, u model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ok(w, http.StatusOK, u)
}

func (b *Backend) listOrders(w http.ResponseWriter, _ *http.Request, u model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ok(w, http.StatusOK, b.orders)
}

func (b *Backend) getOrder(w http.ResponseWriter, r *http.Request, _ model.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.ID == id {
			b.ok(w, http.StatusOK, o)
			return
		}
	}
	b.fail(w, http.StatusNotFound, "Order not found")
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request, _ model.User) {
	var in model.NewOrder
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		b.fail(w, http.StatusBadRequest, "invalid body")
		return
	}
	switch {
	case in.RestaurantID == 0:
		b.fail(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	case len(in.Items) == 0:
		b.fail(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	case in.DeliveryAddress == "":
		b.fail(w, http.StatusBadRequest, "Delivery address is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	order := model.Order{
		ID:              b.nextID,
		RestaurantID:    in.RestaurantID,
		Items:           in.Items,
		TotalPrice:      in.TotalPrice,
		Status:          model.StatusPending,
		DeliveryAddress: in.DeliveryAddress,
		CreatedAt:       model.Timestamp{Time: time.Now().UTC().Truncate(time.Second)},
	}
	b.orders = append(b.orders, order)
	b.ok(w, http.StatusCreated, order)
}

func (b *Backend) cancelOrder(w http.ResponseWriter, r *http.Request, _ model.User) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.fail(w, http.StatusBadRequest, "Required request body is missing")
		return
	}
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID != id {
			continue
		}
		if !b.orders[i].Status.Cancellable() {
			b.fail(w, http.StatusBadRequest, fmt.Sprintf("Order cannot be cancelled in status %s", b.orders[i].Status))
			return
		}
		b.orders[i].Status = model.StatusCancelled
		b.cancelReasons[id] = req["reason"]
		b.ok(w, http.StatusOK, b.orders[i])
		return
	}
	b.fail(w, http.StatusNotFound, "Order not found")
}

func (b *Backend) ok(w http.ResponseWriter, status int, data any) {
	if b.Wrapped {
		writeJSON(w, status, map[string]any{"success": true, "data": data})
		return
	}
	writeJSON(w, status, data)
}

func (b *Backend) fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
