package foodapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fsanano/foodexpress/internal/model"
)

// ListRestaurants returns the restaurants matching the free-text query ("" lists all).
// Successful listings are cached for Config.ListingTTL; failures are never cached.
// Concurrent misses for the same query share one backend request, and a slow query
// never holds up cached hits for other queries.
func (c *Client) ListRestaurants(ctx context.Context, query string) ([]model.Restaurant, error) {
	query = strings.TrimSpace(query)
	if c.config.ListingTTL <= 0 {
		return c.fetchRestaurants(ctx, query)
	}

	if restaurants, ok := c.cachedListing(query); ok {
		return restaurants, nil
	}

	v, err, _ := c.listingGroup.Do(query, func() (any, error) {
		// Double check logic
		if restaurants, ok := c.cachedListing(query); ok {
			return restaurants, nil
		}

		restaurants, err := c.fetchRestaurants(ctx, query)
		if err != nil {
			return nil, err
		}

		c.cacheMu.Lock()
		c.cacheData[query] = cachedListing{
			restaurants: restaurants,
			expiry:      time.Now().Add(c.config.ListingTTL),
		}
		c.cacheMu.Unlock()
		return restaurants, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Restaurant), nil
}

func (c *Client) cachedListing(query string) ([]model.Restaurant, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	data, ok := c.cacheData[query]
	if !ok || !time.Now().Before(data.expiry) {
		return nil, false
	}
	return data.restaurants, true
}

// InvalidateListings drops every cached listing.
func (c *Client) InvalidateListings() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cacheData = make(map[string]cachedListing)
}

func (c *Client) fetchRestaurants(ctx context.Context, query string) ([]model.Restaurant, error) {
	path := "/api/restaurants"
	if query != "" {
		path += "?" + url.Values{"query": {query}}.Encode()
	}

	var restaurants []model.Restaurant
	if err := c.do(ctx, http.MethodGet, path, nil, &restaurants); err != nil {
		return nil, fmt.Errorf("failed to fetch restaurants: %w", err)
	}
	if restaurants == nil {
		restaurants = []model.Restaurant{}
	}
	return restaurants, nil
}

func (c *Client) GetRestaurant(ctx context.Context, id int64) (model.Restaurant, error) {
	var r model.Restaurant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/restaurants/%d", id), nil, &r); err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to fetch restaurant %d: %w", id, err)
	}
	if r.ID == 0 {
		return model.Restaurant{}, &Error{StatusCode: http.StatusNotFound, Message: "restaurant not found"}
	}
	return r, nil
}

// GetMenu returns the menu of a restaurant. Items the backend sends without a restaurant id
// are attributed to the restaurant they were listed under.
func (c *Client) GetMenu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/restaurants/%d/menu", restaurantID), nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch menu of restaurant %d: %w", restaurantID, err)
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	for i := range items {
		if items[i].RestaurantID == 0 {
			items[i].RestaurantID = restaurantID
		}
	}
	return items, nil
}
