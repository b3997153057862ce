// Package mapview turns enriched items into the marker, cluster and
// viewport data the map client renders. Everything here is pure
// geometry over already-resolved coordinates; no I/O.
package mapview

import (
	"github.com/leiloom/map-service/internal/models"
)

// Bounds is an axis-aligned bounding box over coordinates.
type Bounds struct {
	SouthWest models.Coordinate `json:"southWest"`
	NorthEast models.Coordinate `json:"northEast"`
}

// Viewport is what the client should show: either bounds fitted to the
// rendered markers, or the configured default center and zoom when
// there is nothing to fit.
type Viewport struct {
	Bounds *Bounds           `json:"bounds,omitempty"`
	Center models.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
}

// FitBounds computes the bounding box of the given coordinates expanded
// by a padding factor (a fraction of each axis span, applied per side).
// The boolean is false when there are no coordinates to fit, in which
// case the caller must leave its default center and zoom untouched.
func FitBounds(coords []models.Coordinate, padding float64) (Bounds, bool) {
	if len(coords) == 0 {
		return Bounds{}, false
	}

	box := Bounds{SouthWest: coords[0], NorthEast: coords[0]}
	for _, c := range coords[1:] {
		if c.Lat < box.SouthWest.Lat {
			box.SouthWest.Lat = c.Lat
		}
		if c.Lat > box.NorthEast.Lat {
			box.NorthEast.Lat = c.Lat
		}
		if c.Lng < box.SouthWest.Lng {
			box.SouthWest.Lng = c.Lng
		}
		if c.Lng > box.NorthEast.Lng {
			box.NorthEast.Lng = c.Lng
		}
	}

	if padding > 0 {
		latPad := (box.NorthEast.Lat - box.SouthWest.Lat) * padding
		lngPad := (box.NorthEast.Lng - box.SouthWest.Lng) * padding
		box.SouthWest.Lat -= latPad
		box.SouthWest.Lng -= lngPad
		box.NorthEast.Lat += latPad
		box.NorthEast.Lng += lngPad
	}

	return box, true
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() models.Coordinate {
	const half = 2
	return models.Coordinate{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / half,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / half,
	}
}
