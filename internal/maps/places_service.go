package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"pakguide/internal/types"
)

// maxNearbyResults caps how many pins a nearby search publishes to the map.
const maxNearbyResults = 10

// PlacesService handles interactions with the Google Places API. It is a
// supplementary POI source next to the model gateway: results are rendered
// with the same pin categories but never touch the session's active POI set.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API key. An
// empty key is accepted; calls then fail deterministically instead of
// crashing at startup.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	if apiKey == "" {
		return &PlacesService{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// SearchNearby searches for places matching the query near the given
// coordinate and maps them into POIs. coords may be nil; the search then
// relies on the "in Pakistan" region bias alone.
func (s *PlacesService) SearchNearby(ctx context.Context, query string, coords *types.Coordinates) ([]types.POI, error) {
	if s.client == nil {
		return nil, fmt.Errorf("maps api key is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	r := &maps.TextSearchRequest{
		Query:  query + " in Pakistan",
		Region: "PK",
	}
	if coords != nil {
		r.Location = &maps.LatLng{Lat: coords.Latitude, Lng: coords.Longitude}
		r.Radius = 10000
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	var pois []types.POI
	for _, result := range resp.Results {
		pois = append(pois, types.POI{
			Lat:      result.Geometry.Location.Lat,
			Lng:      result.Geometry.Location.Lng,
			Title:    result.Name,
			Category: categoryFromPlaceTypes(result.Types),
		})
		if len(pois) >= maxNearbyResults {
			break
		}
	}
	return pois, nil
}

// placeTypeCategories maps Google place types onto the pin categories the
// map renderer understands. The first recognized type in a place's type
// list wins.
var placeTypeCategories = map[string]types.Category{
	"police":                 types.CategoryPolice,
	"hospital":               types.CategoryHospital,
	"doctor":                 types.CategoryHospital,
	"pharmacy":               types.CategoryHospital,
	"school":                 types.CategorySchool,
	"university":             types.CategorySchool,
	"restaurant":             types.CategoryFood,
	"food":                   types.CategoryFood,
	"cafe":                   types.CategoryFood,
	"bakery":                 types.CategoryFood,
	"bank":                   types.CategoryBank,
	"atm":                    types.CategoryBank,
	"park":                   types.CategoryPark,
	"shopping_mall":          types.CategoryShop,
	"store":                  types.CategoryShop,
	"supermarket":            types.CategoryShop,
	"department_store":       types.CategoryShop,
	"convenience_store":      types.CategoryShop,
	"clothing_store":         types.CategoryShop,
	"electronics_store":      types.CategoryShop,
	"home_goods_store":       types.CategoryShop,
	"grocery_or_supermarket": types.CategoryShop,
}

func categoryFromPlaceTypes(placeTypes []string) types.Category {
	for _, t := range placeTypes {
		if c, ok := placeTypeCategories[t]; ok {
			return c
		}
	}
	return types.CategoryDefault
}
