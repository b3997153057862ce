package geocoding

import (
	"context"

	"github.com/leiloom/map-service/internal/models"
)

// Provider is an interface that defines a method for geocoding a query
// string. The Geocode method takes a context and a query as input, and
// returns the corresponding coordinate and an error if any occurs.
// Providers issue exactly one lookup per call; the fallback query
// ladder is the resolver's concern.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.Coordinate, error)
}
