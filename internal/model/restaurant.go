package model

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Cuisine      string  `json:"cuisine"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone,omitempty"`
	Email        string  `json:"email,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Rating       float64 `json:"rating"`
	DeliveryTime string  `json:"deliveryTime"`
	IsOpen       bool    `json:"isOpen"`
	Offer        string  `json:"offer,omitempty"`
	IsVegetarian bool    `json:"isVegetarian"`
	PriceLevel   int     `json:"priceLevel,omitempty"`
}

// DeliveryMinutes returns the lower bound of the delivery estimate, e.g. 30 for "30-45 min".
func (r Restaurant) DeliveryMinutes() (int, bool) {
	s := strings.TrimSpace(r.DeliveryTime)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

type MenuItem struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category,omitempty"`
	IsVegetarian bool            `json:"isVegetarian"`
	IsAvailable  bool            `json:"isAvailable"`
	ImageURL     string          `json:"imageUrl,omitempty"`
}
