package mapview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leiloom/map-service/internal/mapview"
	"github.com/leiloom/map-service/internal/models"
)

func enrichedAt(id int64, lat, lng float64) models.EnrichedItem {
	return models.EnrichedItem{
		GeocodableItem: models.GeocodableItem{ID: id},
		Coords:         models.Coordinate{Lat: lat, Lng: lng},
	}
}

func TestFitBounds(t *testing.T) {
	t.Parallel()

	t.Run("zero coordinates fits nothing", func(t *testing.T) {
		t.Parallel()
		_, ok := mapview.FitBounds(nil, 0.1)
		assert.False(t, ok)
	})

	t.Run("single coordinate collapses to a point", func(t *testing.T) {
		t.Parallel()
		bounds, ok := mapview.FitBounds([]models.Coordinate{{Lat: -3.1, Lng: -60.0}}, 0.1)

		require.True(t, ok)
		assert.Equal(t, models.Coordinate{Lat: -3.1, Lng: -60.0}, bounds.SouthWest)
		assert.Equal(t, models.Coordinate{Lat: -3.1, Lng: -60.0}, bounds.NorthEast)
	})

	t.Run("box covers all coordinates with padding", func(t *testing.T) {
		t.Parallel()
		coords := []models.Coordinate{
			{Lat: -3.0, Lng: -60.0},
			{Lat: -5.0, Lng: -58.0},
			{Lat: -4.0, Lng: -59.0},
		}

		bounds, ok := mapview.FitBounds(coords, 0.1)

		require.True(t, ok)
		// Raw box is lat [-5,-3], lng [-60,-58]; each side padded by 10%.
		assert.InEpsilon(t, -5.2, bounds.SouthWest.Lat, 1e-9)
		assert.InEpsilon(t, -60.2, bounds.SouthWest.Lng, 1e-9)
		assert.InEpsilon(t, -2.8, bounds.NorthEast.Lat, 1e-9)
		assert.InEpsilon(t, -57.8, bounds.NorthEast.Lng, 1e-9)
	})

	t.Run("center is the midpoint", func(t *testing.T) {
		t.Parallel()
		bounds, ok := mapview.FitBounds([]models.Coordinate{
			{Lat: -2.0, Lng: -62.0},
			{Lat: -4.0, Lng: -58.0},
		}, 0)

		require.True(t, ok)
		center := bounds.Center()
		assert.InEpsilon(t, -3.0, center.Lat, 1e-9)
		assert.InEpsilon(t, -60.0, center.Lng, 1e-9)
	})
}

func TestClusterItems(t *testing.T) {
	t.Parallel()

	t.Run("no items yields no clusters", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, mapview.ClusterItems(nil, 0.05))
	})

	t.Run("groups items sharing a grid cell", func(t *testing.T) {
		t.Parallel()
		items := []models.EnrichedItem{
			enrichedAt(1, -3.101, -60.021),
			enrichedAt(2, -3.102, -60.022),
			enrichedAt(3, -23.55, -46.63), // far away
		}

		clusters := mapview.ClusterItems(items, 0.05)

		require.Len(t, clusters, 2)
		assert.Equal(t, 2, clusters[0].Count)
		assert.ElementsMatch(t, []int64{1, 2}, clusters[0].ItemIDs)
		assert.Equal(t, 1, clusters[1].Count)
	})

	t.Run("cluster center is the member centroid", func(t *testing.T) {
		t.Parallel()
		items := []models.EnrichedItem{
			enrichedAt(1, -3.10, -60.02),
			enrichedAt(2, -3.12, -60.04),
		}

		clusters := mapview.ClusterItems(items, 0.5)

		require.Len(t, clusters, 1)
		assert.InEpsilon(t, -3.11, clusters[0].Center.Lat, 1e-9)
		assert.InEpsilon(t, -60.03, clusters[0].Center.Lng, 1e-9)
	})

	t.Run("badge tiers follow count thresholds", func(t *testing.T) {
		t.Parallel()
		makeN := func(n int) []models.EnrichedItem {
			items := make([]models.EnrichedItem, 0, n)
			for i := range n {
				items = append(items, enrichedAt(int64(i), -3.0, -60.0))
			}
			return items
		}

		tests := []struct {
			count int
			tier  mapview.Tier
		}{
			{1, mapview.TierSmall},
			{9, mapview.TierSmall},
			{10, mapview.TierMedium},
			{20, mapview.TierMedium},
			{21, mapview.TierLarge},
		}
		for _, tc := range tests {
			clusters := mapview.ClusterItems(makeN(tc.count), 0.5)
			require.Len(t, clusters, 1)
			assert.Equal(t, tc.tier, clusters[0].Tier, "count %d", tc.count)
		}
	})
}

func TestIconFor(t *testing.T) {
	t.Parallel()

	t.Run("categorical kinds", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "property", mapview.IconFor(models.CategoryProperty, false).Kind)
		assert.Equal(t, "vehicle", mapview.IconFor(models.CategoryVehicle, false).Kind)
		assert.Equal(t, "other", mapview.IconFor(models.CategoryOther, false).Kind)
		assert.Equal(t, "other", mapview.IconFor("boat", false).Kind)
	})

	t.Run("selected markers are larger and pulse", func(t *testing.T) {
		t.Parallel()
		normal := mapview.IconFor(models.CategoryProperty, false)
		selected := mapview.IconFor(models.CategoryProperty, true)

		assert.Greater(t, selected.Size, normal.Size)
		assert.True(t, selected.Pulse)
		assert.False(t, normal.Pulse)
	})

	t.Run("factory never shares state between calls", func(t *testing.T) {
		t.Parallel()
		_ = mapview.IconFor(models.CategoryVehicle, true)
		after := mapview.IconFor(models.CategoryVehicle, false)

		assert.False(t, after.Selected, "a selected render must not leak into later renders")
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()
	defaults := mapview.Defaults{Center: models.Coordinate{Lat: -14.235, Lng: -51.9253}, Zoom: 4}

	t.Run("empty item set keeps the default viewport", func(t *testing.T) {
		t.Parallel()
		view := mapview.Build(nil, defaults)

		assert.Empty(t, view.Markers)
		assert.Empty(t, view.Clusters)
		assert.Nil(t, view.Viewport.Bounds)
		assert.Equal(t, defaults.Center, view.Viewport.Center)
		assert.Equal(t, defaults.Zoom, view.Viewport.Zoom)
	})

	t.Run("markers carry icons and the viewport is fitted", func(t *testing.T) {
		t.Parallel()
		items := []models.EnrichedItem{
			{
				GeocodableItem: models.GeocodableItem{
					ID: 1, Title: "Apartamento", Category: models.CategoryProperty,
					AuctionName: "Leilão 42",
				},
				Coords: models.Coordinate{Lat: -3.1, Lng: -60.0},
			},
			{
				GeocodableItem: models.GeocodableItem{ID: 2, Category: models.CategoryVehicle},
				Coords:         models.Coordinate{Lat: -23.55, Lng: -46.63},
			},
		}

		view := mapview.Build(items, defaults)

		require.Len(t, view.Markers, 2)
		assert.Equal(t, "property", view.Markers[0].Icon.Kind)
		assert.Equal(t, "Leilão 42", view.Markers[0].AuctionName)
		require.NotNil(t, view.Viewport.Bounds)
		assert.NotEqual(t, defaults.Center, view.Viewport.Center)
		require.Len(t, view.Clusters, 2)
	})
}
