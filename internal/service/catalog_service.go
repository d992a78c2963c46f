package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fsanano/foodexpress/internal/catalog"
	"fsanano/foodexpress/internal/model"
	"fsanano/foodexpress/internal/service/foodapi"
)

type CatalogService struct {
	api *foodapi.Client
}

func NewCatalogService(api *foodapi.Client) *CatalogService {
	return &CatalogService{api: api}
}

// Listing returns the restaurants for the home page, narrowed by the active filters.
func (s *CatalogService) Listing(ctx context.Context, query string, filter catalog.Filter) ([]model.Restaurant, error) {
	restaurants, err := s.api.ListRestaurants(ctx, query)
	if err != nil {
		return nil, err
	}
	return catalog.Restaurants(restaurants, filter), nil
}

type RestaurantDetail struct {
	Restaurant model.Restaurant `json:"restaurant"`
	Menu       []model.MenuItem `json:"menu"`
	Categories []string         `json:"categories"`
}

// RestaurantDetail fetches a restaurant and its menu in parallel and filters the menu.
// Categories always reflect the full menu so the filter options stay stable.
func (s *CatalogService) RestaurantDetail(ctx context.Context, id int64, filter catalog.MenuFilter) (RestaurantDetail, error) {
	restaurant, menu, err := s.fetchDetail(ctx, id)
	if err != nil {
		return RestaurantDetail{}, err
	}

	return RestaurantDetail{
		Restaurant: restaurant,
		Menu:       catalog.Menu(menu, filter),
		Categories: catalog.Categories(menu),
	}, nil
}

// MenuItem resolves one item of a restaurant's current menu, as needed to add it to the cart.
func (s *CatalogService) MenuItem(ctx context.Context, restaurantID, itemID int64) (model.Restaurant, model.MenuItem, error) {
	restaurant, menu, err := s.fetchDetail(ctx, restaurantID)
	if err != nil {
		return model.Restaurant{}, model.MenuItem{}, err
	}
	for _, item := range menu {
		if item.ID == itemID {
			return restaurant, item, nil
		}
	}
	return model.Restaurant{}, model.MenuItem{}, fmt.Errorf("%w: %d in restaurant %d", ErrMenuItemNotFound, itemID, restaurantID)
}

func (s *CatalogService) fetchDetail(ctx context.Context, id int64) (model.Restaurant, []model.MenuItem, error) {
	g, ctx := errgroup.WithContext(ctx)
	var restaurant model.Restaurant
	var menu []model.MenuItem

	g.Go(func() error {
		var err error
		restaurant, err = s.api.GetRestaurant(ctx, id)
		return err
	})

	g.Go(func() error {
		var err error
		menu, err = s.api.GetMenu(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Restaurant{}, nil, err
	}
	return restaurant, menu, nil
}
