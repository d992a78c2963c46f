// Package catalog filters restaurant listings and menus on the client side.
package catalog

import (
	"slices"
	"strings"

	"fsanano/foodexpress/internal/model"
)

// FastDeliveryMinutes is the upper bound on the lower end of a restaurant's delivery estimate
// for it to count as fast.
const FastDeliveryMinutes = 30

// Filter is the set of active listing filters. The zero value matches everything.
type Filter struct {
	MinRating      float64
	FastDelivery   bool
	HasOffer       bool
	VegetarianOnly bool
	OpenOnly       bool
	PriceLevels    []int
}

func (f Filter) Active() bool {
	return f.MinRating > 0 || f.FastDelivery || f.HasOffer || f.VegetarianOnly || f.OpenOnly || len(f.PriceLevels) > 0
}

func (f Filter) Match(r model.Restaurant) bool {
	if f.MinRating > 0 && r.Rating < f.MinRating {
		return false
	}
	if f.FastDelivery {
		mins, ok := r.DeliveryMinutes()
		if !ok || mins > FastDeliveryMinutes {
			return false
		}
	}
	if f.HasOffer && strings.TrimSpace(r.Offer) == "" {
		return false
	}
	if f.VegetarianOnly && !r.IsVegetarian {
		return false
	}
	if f.OpenOnly && !r.IsOpen {
		return false
	}
	if len(f.PriceLevels) > 0 && !slices.Contains(f.PriceLevels, r.PriceLevel) {
		return false
	}
	return true
}

// Restaurants returns the restaurants matching every active filter, in their original order.
// The input slice is not modified.
func Restaurants(list []model.Restaurant, f Filter) []model.Restaurant {
	out := make([]model.Restaurant, 0, len(list))
	for _, r := range list {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

type MenuFilter struct {
	VegetarianOnly bool
	AvailableOnly  bool
	Category       string
}

func (f MenuFilter) Match(item model.MenuItem) bool {
	if f.VegetarianOnly && !item.IsVegetarian {
		return false
	}
	if f.AvailableOnly && !item.IsAvailable {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, item.Category) {
		return false
	}
	return true
}

func Menu(items []model.MenuItem, f MenuFilter) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Categories lists the distinct menu categories in first-seen order.
func Categories(items []model.MenuItem) []string {
	var out []string
	seen := make(map[string]bool)
	for _, item := range items {
		key := strings.ToLower(item.Category)
		if item.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item.Category)
	}
	return out
}
