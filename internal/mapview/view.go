package mapview

import "github.com/leiloom/map-service/internal/models"

// Defaults is the externally configured fallback viewport, used when
// there are no markers to fit.
type Defaults struct {
	Center models.Coordinate
	Zoom   int
}

// Marker is one rendered item on the map.
type Marker struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	BasePrice   float64           `json:"basePrice"`
	AuctionName string            `json:"auctionName"`
	Coords      models.Coordinate `json:"coords"`
	Icon        Icon              `json:"icon"`
}

// TileLayer describes the slippy-map tile source the client renders
// under the markers.
type TileLayer struct {
	URLTemplate string `json:"urlTemplate"`
	Attribution string `json:"attribution"`
}

// DefaultTileLayer returns the standard tile source and its fixed
// attribution text.
func DefaultTileLayer() TileLayer {
	return TileLayer{
		URLTemplate: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors",
	}
}

// View is the full payload for the map client: markers, their clusters,
// the viewport to show and the tile source to render them on.
type View struct {
	Markers  []Marker  `json:"markers"`
	Clusters []Cluster `json:"clusters"`
	Viewport Viewport  `json:"viewport"`
	Tiles    TileLayer `json:"tiles"`
}

// boundsPadding is the fixed padding factor applied when fitting the
// viewport to the marker set.
const boundsPadding = 0.1

// clusterCellSize is the proximity grid size in degrees used for
// render-time clustering.
const clusterCellSize = 0.05

// Build assembles the map view from enriched items. With zero items the
// viewport keeps the configured default center and zoom and carries no
// bounds.
func Build(items []models.EnrichedItem, defaults Defaults) View {
	markers := make([]Marker, 0, len(items))
	coords := make([]models.Coordinate, 0, len(items))
	for _, item := range items {
		markers = append(markers, Marker{
			ID:          item.ID,
			Title:       item.Title,
			BasePrice:   item.BasePrice,
			AuctionName: item.AuctionName,
			Coords:      item.Coords,
			Icon:        IconFor(item.Category, false),
		})
		coords = append(coords, item.Coords)
	}

	viewport := Viewport{Center: defaults.Center, Zoom: defaults.Zoom}
	if bounds, ok := FitBounds(coords, boundsPadding); ok {
		viewport.Bounds = &bounds
		viewport.Center = bounds.Center()
	}

	return View{
		Markers:  markers,
		Clusters: ClusterItems(items, clusterCellSize),
		Viewport: viewport,
		Tiles:    DefaultTileLayer(),
	}
}
