package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fsanano/foodexpress/internal/catalog"
	"fsanano/foodexpress/internal/model"
)

type listingResponse struct {
	Restaurants []model.Restaurant `json:"restaurants"`
	Count       int                `json:"count"`
	Filtered    bool               `json:"filtered"`
}

func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.root.Catalog.Listing(r.Context(), q.Get("query"), filter)
	if err != nil {
		h.fail(w, r, err, "Failed to load restaurants. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, listingResponse{
		Restaurants: list,
		Count:       len(list),
		Filtered:    filter.Active(),
	})
}

func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter, err := parseMenuFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.root.Catalog.RestaurantDetail(r.Context(), id, filter)
	if err != nil {
		h.fail(w, r, err, "Failed to load restaurant details. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func parseFilter(q url.Values) (catalog.Filter, error) {
	var f catalog.Filter
	var err error

	if v := q.Get("minRating"); v != "" {
		f.MinRating, err = strconv.ParseFloat(v, 64)
		if err != nil || f.MinRating < 0 || f.MinRating > 5 {
			return catalog.Filter{}, fmt.Errorf("invalid minRating %q", v)
		}
	}
	if f.FastDelivery, err = boolParam(q, "fast"); err != nil {
		return catalog.Filter{}, err
	}
	if f.HasOffer, err = boolParam(q, "offer"); err != nil {
		return catalog.Filter{}, err
	}
	if f.VegetarianOnly, err = boolParam(q, "veg"); err != nil {
		return catalog.Filter{}, err
	}
	if f.OpenOnly, err = boolParam(q, "open"); err != nil {
		return catalog.Filter{}, err
	}
	if v := q.Get("price"); v != "" {
		for _, part := range strings.Split(v, ",") {
			level, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || level < 1 || level > 4 {
				return catalog.Filter{}, fmt.Errorf("invalid price level %q", part)
			}
			f.PriceLevels = append(f.PriceLevels, level)
		}
	}
	return f, nil
}

func parseMenuFilter(q url.Values) (catalog.MenuFilter, error) {
	var f catalog.MenuFilter
	var err error

	if f.VegetarianOnly, err = boolParam(q, "veg"); err != nil {
		return catalog.MenuFilter{}, err
	}
	if f.AvailableOnly, err = boolParam(q, "available"); err != nil {
		return catalog.MenuFilter{}, err
	}
	f.Category = strings.TrimSpace(q.Get("category"))
	return f, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", name, v)
	}
	return b, nil
}
