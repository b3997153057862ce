package models

import "math"

// Coordinate represents a geographical point.
type Coordinate struct {
	Lat float64 `json:"lat"` // Latitude of the geographical point.
	Lng float64 `json:"lng"` // Longitude of the geographical point.
}

// Valid reports whether the coordinate is a usable geographical point:
// both components finite, latitude within [-90, 90] and longitude within
// [-180, 180].
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
