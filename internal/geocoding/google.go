package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"

	"github.com/leiloom/map-service/internal/models"
)

// GoogleProvider is a struct that holds the client for the Google Maps
// API and a logger. It is the paid alternative to the Nominatim
// provider for deployments that need higher rate limits.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	region string          // region biases results toward a ccTLD (e.g. "br")
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient abstracts the Google Maps client for testing.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a GoogleProvider with the given client,
// region bias and logger.
func NewGoogleProvider(client GoogleAPIClient, region string, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, region: region, log: log}
}

// Geocode performs a single lookup for the query using the Google Maps
// Geocoding API and returns the top result's coordinate. An empty
// result set maps to ErrEmptyResponse so the resolver can step down its
// query ladder regardless of provider.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) (*models.Coordinate, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query, Region: gp.region}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	loc := results[0].Geometry.Location
	coords := models.Coordinate{Lat: loc.Lat, Lng: loc.Lng}
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: lat=%f lng=%f", ErrOutOfRange, loc.Lat, loc.Lng)
	}

	return &coords, nil
}
