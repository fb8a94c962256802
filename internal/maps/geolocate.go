package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"pakguide/internal/types"
)

// Geolocator resolves the caller's approximate position through the Google
// Geolocation API. It stands in for the browser geolocation source when the
// front end cannot (or will not) report coordinates itself.
type Geolocator struct {
	client *maps.Client
}

// NewGeolocator mirrors NewPlacesService: an empty key degrades to
// deterministic call-time failures.
func NewGeolocator(apiKey string) (*Geolocator, error) {
	if apiKey == "" {
		return &Geolocator{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &Geolocator{client: client}, nil
}

// Locate performs a single-shot location query. On failure the caller keeps
// whatever coordinate it already had.
func (g *Geolocator) Locate(ctx context.Context) (types.Coordinates, error) {
	if g.client == nil {
		return types.Coordinates{}, fmt.Errorf("maps api key is not configured")
	}

	res, err := g.client.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("geolocate: %w", err)
	}
	return types.Coordinates{
		Latitude:  res.Location.Lat,
		Longitude: res.Location.Lng,
	}, nil
}
