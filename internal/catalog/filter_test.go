package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fsanano/foodexpress/internal/model"
)

func listing() []model.Restaurant {
	return []model.Restaurant{
		{ID: 1, Name: "Green Bowl", Rating: 4.6, DeliveryTime: "20-30 min", IsOpen: true, IsVegetarian: true, PriceLevel: 2},
		{ID: 2, Name: "Burger Barn", Rating: 3.9, DeliveryTime: "15-25 min", IsOpen: true, Offer: "20% off", PriceLevel: 1},
		{ID: 3, Name: "Le Jardin", Rating: 4.8, DeliveryTime: "45-60 min", IsOpen: false, IsVegetarian: true, Offer: "Free dessert", PriceLevel: 4},
		{ID: 4, Name: "Taco Stop", Rating: 4.1, DeliveryTime: "", IsOpen: true, PriceLevel: 1},
		{ID: 5, Name: "Dosa Hut", Rating: 4.4, DeliveryTime: "25 min", IsOpen: true, IsVegetarian: true, Offer: "BOGO", PriceLevel: 1},
	}
}

func ids(list []model.Restaurant) []int64 {
	out := make([]int64, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func TestRestaurants(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"no filters", Filter{}, []int64{1, 2, 3, 4, 5}},
		{"min rating", Filter{MinRating: 4.4}, []int64{1, 3, 5}},
		{"fast delivery", Filter{FastDelivery: true}, []int64{1, 2, 5}},
		{"has offer", Filter{HasOffer: true}, []int64{2, 3, 5}},
		{"vegetarian", Filter{VegetarianOnly: true}, []int64{1, 3, 5}},
		{"open", Filter{OpenOnly: true}, []int64{1, 2, 4, 5}},
		{"price band", Filter{PriceLevels: []int{1}}, []int64{2, 4, 5}},
		{"conjunction", Filter{VegetarianOnly: true, HasOffer: true, FastDelivery: true}, []int64{5}},
		{"nothing matches", Filter{MinRating: 4.9}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Restaurants(listing(), tt.filter)))
		})
	}
}

func TestRestaurants_Idempotent(t *testing.T) {
	f := Filter{MinRating: 4, PriceLevels: []int{1, 2}}
	once := Restaurants(listing(), f)
	twice := Restaurants(once, f)
	assert.Equal(t, once, twice)
}

func TestRestaurants_DoesNotMutateInput(t *testing.T) {
	in := listing()
	_ = Restaurants(in, Filter{OpenOnly: true})
	assert.Equal(t, listing(), in)
}

func TestFilterActive(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.True(t, Filter{HasOffer: true}.Active())
}

func TestMenu(t *testing.T) {
	items := []model.MenuItem{
		{ID: 1, Name: "Paneer Tikka", Category: "Starters", IsVegetarian: true, IsAvailable: true, Price: decimal.NewFromInt(8)},
		{ID: 2, Name: "Chicken Wings", Category: "Starters", IsAvailable: true, Price: decimal.NewFromInt(9)},
		{ID: 3, Name: "Dal", Category: "Mains", IsVegetarian: true, IsAvailable: false, Price: decimal.NewFromInt(7)},
	}

	got := Menu(items, MenuFilter{VegetarianOnly: true})
	assert.Len(t, got, 2)

	got = Menu(items, MenuFilter{AvailableOnly: true, Category: "starters"})
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)

	got = Menu(items, MenuFilter{VegetarianOnly: true, AvailableOnly: true})
	assert.Equal(t, Menu(got, MenuFilter{VegetarianOnly: true, AvailableOnly: true}), got)

	assert.Equal(t, []string{"Starters", "Mains"}, Categories(items))
}
