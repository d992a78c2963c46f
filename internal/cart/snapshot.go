package cart

import (
	"github.com/shopspring/decimal"

	"fsanano/foodexpress/internal/model"
)

type SnapshotLine struct {
	Line
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Snapshot is a point-in-time copy of the cart, used by the cart view and by checkout.
type Snapshot struct {
	Restaurant *model.Restaurant `json:"restaurant"`
	Lines      []SnapshotLine    `json:"lines"`
	ItemCount  int               `json:"itemCount"`
	Total      decimal.Decimal   `json:"total"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Lines:     make([]SnapshotLine, 0, len(s.lines)),
		ItemCount: s.countLocked(),
		Total:     s.totalLocked(),
	}
	if s.restaurant != nil {
		r := *s.restaurant
		snap.Restaurant = &r
	}
	for _, l := range s.lines {
		snap.Lines = append(snap.Lines, SnapshotLine{Line: l, Subtotal: l.Subtotal()})
	}
	return snap
}

// OrderItems converts the snapshot lines into the order service's item payload.
// RemoveOrdered takes the lines of an ordered snapshot out of the cart. Units added while
// the order was in flight stay in the cart. Nothing is removed if the cart has since been
// bound to another restaurant.
func (s *Store) RemoveOrdered(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Restaurant == nil || s.restaurant == nil || s.restaurant.ID != snap.Restaurant.ID {
		return
	}

	kept := s.lines[:0]
	for _, l := range s.lines {
		for _, ordered := range snap.Lines {
			if ordered.MenuItemID == l.MenuItemID {
				l.Quantity -= ordered.Quantity
				break
			}
		}
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	if len(s.lines) == 0 {
		s.clearLocked()
	}
}

func (s Snapshot) OrderItems() []model.OrderItem {
	items := make([]model.OrderItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, model.OrderItem{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			Price:      l.Price,
		})
	}
	return items
}
