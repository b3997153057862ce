package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/leiloom/map-service/internal/models"
)

// NominatimProvider implements the Provider interface against a
// Nominatim-compatible search endpoint. Lookups are restricted to a
// single country and capped at one result, since the resolver only ever
// uses the top match.
type NominatimProvider struct {
	client      HTTPClient   // HTTP client for making requests
	baseURL     string       // Base URL of the search endpoint
	countryCode string       // ISO country code restriction for every lookup
	log         *slog.Logger // Logger for logging operations
	// userAgent is required by the Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents one result in the JSON response from the
// search endpoint.
type nominatimResponse struct {
	Lat string `json:"lat"` // Latitude as string
	Lon string `json:"lon"` // Longitude as string
}

// Common errors for the Nominatim provider.
var (
	ErrEmptyResponse  = errors.New("geocoding endpoint returned empty response")
	ErrInvalidCoords  = errors.New("geocoding endpoint returned invalid coordinates")
	ErrOutOfRange     = errors.New("geocoding endpoint returned out-of-range coordinates")
	errMissingBaseURL = errors.New("geocoder base URL is required")
)

// userAgent identifies the service per the Nominatim usage policy.
const userAgent = "Leiloom-App"

// NewNominatimProvider creates a Nominatim provider for the given
// endpoint, restricted to the given country code.
func NewNominatimProvider(baseURL, countryCode string, log *slog.Logger) (*NominatimProvider, error) {
	if baseURL == "" {
		return nil, errMissingBaseURL
	}
	const timeout = 10
	return &NominatimProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL:     baseURL,
		countryCode: countryCode,
		log:         log,
		userAgent:   userAgent,
	}, nil
}

// NewNominatimProviderWithClient creates a Nominatim provider with a
// custom HTTP client. Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, baseURL, countryCode string, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:      client,
		baseURL:     baseURL,
		countryCode: countryCode,
		log:         log,
		userAgent:   userAgent,
	}
}

// Geocode performs a single lookup for the query and returns the top
// result's coordinate. It returns ErrEmptyResponse when the endpoint
// finds no match, which the resolver uses to step down its query
// ladder.
func (np *NominatimProvider) Geocode(ctx context.Context, query string) (*models.Coordinate, error) {
	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1") // Only need the top result
	if np.countryCode != "" {
		params.Set("countrycodes", np.countryCode)
	}
	reqURL.RawQuery = params.Encode()

	np.log.DebugContext(ctx, "Geocoding request", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Geocoding endpoint error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("geocoding endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse geocoding response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	np.log.DebugContext(ctx, "Geocoding endpoint found result", "lat", results[0].Lat, "lon", results[0].Lon)

	var lat, lng float64
	if _, err = fmt.Sscanf(results[0].Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrInvalidCoords, results[0].Lat)
	}
	if _, err = fmt.Sscanf(results[0].Lon, "%f", &lng); err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrInvalidCoords, results[0].Lon)
	}

	coords := models.Coordinate{Lat: lat, Lng: lng}
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: lat=%f lng=%f", ErrOutOfRange, lat, lng)
	}

	return &coords, nil
}
