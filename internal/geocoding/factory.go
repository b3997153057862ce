package geocoding

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeNominatim represents an OpenStreetMap Nominatim-compatible endpoint.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeGoogle represents the Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type        ProviderType // Type of provider to create
	BaseURL     string       // Endpoint base URL (used by Nominatim provider)
	CountryCode string       // Country restriction / region bias for lookups
	APIKey      string       // API key (used by Google provider)
	RateLimit   int          // Rate limit in requests per second (used by Google provider)
	Logger      *slog.Logger // Logger for the provider
}

// NewProvider creates a geocoding provider based on the provided
// configuration. It applies the Factory pattern to decouple provider
// instantiation from the resolver.
//
// Supported provider types:
// - "nominatim": any Nominatim-compatible endpoint (free, no API key required)
// - "google": Google Maps Geocoding API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider
// creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeNominatim:
		return NewNominatimProvider(config.BaseURL, config.CountryCode, config.Logger)
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.CountryCode, config.Logger), nil
}
