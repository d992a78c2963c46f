// Package cart holds the single-restaurant shopping cart of one storefront.
package cart

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"fsanano/foodexpress/internal/model"
)

// Policy decides what AddItem does when the item comes from a restaurant other than the cart's owner.
type Policy int

const (
	// PolicyReject leaves the cart untouched and returns ErrRestaurantMismatch.
	PolicyReject Policy = iota
	// PolicyReplace empties the cart and starts a new one for the item's restaurant.
	PolicyReplace
)

func (p Policy) String() string {
	switch p {
	case PolicyReplace:
		return "replace"
	default:
		return "reject"
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return PolicyReject, nil
	case "replace":
		return PolicyReplace, nil
	}
	return PolicyReject, fmt.Errorf("unknown cart policy %q", s)
}

var (
	ErrRestaurantMismatch     = errors.New("cart already holds items from another restaurant")
	ErrItemUnavailable        = errors.New("menu item is unavailable")
	ErrItemRestaurantMismatch = errors.New("menu item does not belong to this restaurant")
	ErrLineNotFound           = errors.New("item not in cart")
)

// Line is one menu item in the cart. Name and Price are copied when the item is first added
// and are what totals are computed from.
type Line struct {
	MenuItemID int64           `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store is the cart state of one application root. Every method is safe for concurrent use
// and its effect is visible to the next caller as soon as it returns.
type Store struct {
	mu         sync.Mutex
	policy     Policy
	restaurant *model.Restaurant
	lines      []Line
}

func NewStore(policy Policy) *Store {
	return &Store{policy: policy}
}

func (s *Store) Policy() Policy {
	return s.policy
}

// AddItem puts one more unit of item into the cart.
func (s *Store) AddItem(item model.MenuItem, restaurant model.Restaurant) error {
	if err := checkItem(item, restaurant); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restaurant != nil && s.restaurant.ID != restaurant.ID {
		if s.policy == PolicyReject {
			return fmt.Errorf("%w: %s", ErrRestaurantMismatch, s.restaurant.Name)
		}
		s.clearLocked()
	}
	s.addLocked(item, restaurant)
	return nil
}

// Replace empties the cart regardless of policy and adds item. Used once the user has
// confirmed that the current cart should be discarded.
func (s *Store) Replace(item model.MenuItem, restaurant model.Restaurant) error {
	if err := checkItem(item, restaurant); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	s.addLocked(item, restaurant)
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes the line.
func (s *Store) UpdateQuantity(menuItemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(menuItemID)
	if i < 0 {
		return ErrLineNotFound
	}
	if quantity > 0 {
		s.lines[i].Quantity = quantity
		return nil
	}

	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	if len(s.lines) == 0 {
		s.clearLocked()
	}
	return nil
}

func (s *Store) RemoveItem(menuItemID int64) error {
	return s.UpdateQuantity(menuItemID, 0)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// ItemCount is the number of units in the cart, used for the badge.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked()
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *Store) Line(menuItemID int64) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(menuItemID)
	if i < 0 {
		return Line{}, false
	}
	return s.lines[i], true
}

// Lines returns a copy of the lines in the order they were first added.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Restaurant returns the restaurant the cart is bound to. ok is false for an empty cart.
func (s *Store) Restaurant() (model.Restaurant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restaurant == nil {
		return model.Restaurant{}, false
	}
	return *s.restaurant, true
}

func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

func checkItem(item model.MenuItem, restaurant model.Restaurant) error {
	if item.RestaurantID != restaurant.ID {
		return ErrItemRestaurantMismatch
	}
	if !item.IsAvailable {
		return ErrItemUnavailable
	}
	return nil
}

func (s *Store) addLocked(item model.MenuItem, restaurant model.Restaurant) {
	if s.restaurant == nil {
		r := restaurant
		s.restaurant = &r
	}
	if i := s.indexLocked(item.ID); i >= 0 {
		s.lines[i].Quantity++
		return
	}
	s.lines = append(s.lines, Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
	})
}

func (s *Store) clearLocked() {
	s.lines = nil
	s.restaurant = nil
}

func (s *Store) indexLocked(menuItemID int64) int {
	for i, l := range s.lines {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (s *Store) countLocked() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
