package geocoding_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/leiloom/map-service/internal/geocoding"
)

// mockGoogleClient is a scripted GoogleAPIClient.
type mockGoogleClient struct {
	results []maps.GeocodingResult
	err     error
	lastReq *maps.GeocodingRequest
}

func (m *mockGoogleClient) Geocode(_ context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	m.lastReq = r
	return m.results, m.err
}

func TestGoogleProvider_Geocode(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()

	t.Run("successful geocoding with region bias", func(t *testing.T) {
		client := &mockGoogleClient{results: []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: -23.5613, Lng: -46.6565}}},
		}}

		provider := geocoding.NewGoogleProvider(client, "br", logger)
		coords, err := provider.Geocode(ctx, "avenida paulista, são paulo")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, -23.5613, coords.Lat, 0.0001)
		assert.InEpsilon(t, -46.6565, coords.Lng, 0.0001)
		require.NotNil(t, client.lastReq)
		assert.Equal(t, "br", client.lastReq.Region)
	})

	t.Run("empty result set", func(t *testing.T) {
		client := &mockGoogleClient{}

		provider := geocoding.NewGoogleProvider(client, "br", logger)
		coords, err := provider.Geocode(ctx, "nowhere")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrEmptyResponse)
	})

	t.Run("client error is wrapped", func(t *testing.T) {
		client := &mockGoogleClient{err: assert.AnError}

		provider := geocoding.NewGoogleProvider(client, "br", logger)
		coords, err := provider.Geocode(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, coords)
		require.ErrorIs(t, err, assert.AnError)
	})
}
