package mapview

import "github.com/leiloom/map-service/internal/models"

// Icon describes the marker glyph for one item. It is produced fresh
// per render by IconFor; nothing here mutates shared defaults.
type Icon struct {
	Kind     string `json:"kind"`     // Glyph name: property, vehicle or other
	Size     int    `json:"size"`     // Pixel size of the rendered marker
	Selected bool   `json:"selected"` // Selected markers render larger
	Pulse    bool   `json:"pulse"`    // Selected markers pulse
}

const (
	iconSizeDefault  = 32
	iconSizeSelected = 44
)

// IconFor returns the marker icon for a category, with the visually
// distinct selected state when requested.
func IconFor(category models.Category, selected bool) Icon {
	kind := string(models.CategoryOther)
	switch category {
	case models.CategoryProperty, models.CategoryVehicle:
		kind = string(category)
	case models.CategoryOther:
		// already the default
	}

	icon := Icon{Kind: kind, Size: iconSizeDefault}
	if selected {
		icon.Size = iconSizeSelected
		icon.Selected = true
		icon.Pulse = true
	}
	return icon
}
