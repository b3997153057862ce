package models

// Category classifies an auction item for marker icon selection.
type Category string

const (
	// CategoryProperty marks real-estate items.
	CategoryProperty Category = "property"
	// CategoryVehicle marks vehicle items.
	CategoryVehicle Category = "vehicle"
	// CategoryOther marks everything else.
	CategoryOther Category = "other"
)

// Item is a single auctionable item as returned by the Leiloom backend.
// Lat/Lng are pointers because most items carry only a free-text address;
// a nil pointer means "no direct coordinate known".
type Item struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	BasePrice float64  `json:"basePrice"`
	Category  Category `json:"category"`
	Location  string   `json:"location,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

// Lot groups items inside an auction.
type Lot struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Auction is the root of the backend's nested collection.
type Auction struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Lots []Lot  `json:"lots"`
}

// GeocodableItem is an Item flattened out of its auction/lot nesting,
// with the owning auction's name denormalized for display. It is built
// fresh for every map request and never persisted.
type GeocodableItem struct {
	ID          int64
	Title       string
	BasePrice   float64
	Category    Category
	AuctionName string
	Location    string
	City        string
	State       string
	Lat         *float64
	Lng         *float64
}

// HasDirectCoordinate reports whether the item already carries an explicit
// coordinate pair. Direct data always wins over geocoding.
func (g GeocodableItem) HasDirectCoordinate() bool {
	return g.Lat != nil && g.Lng != nil
}

// Geocodable reports whether the item carries enough address data to be
// worth a geocoding lookup: at least a city and a state.
func (g GeocodableItem) Geocodable() bool {
	return g.City != "" && g.State != ""
}

// EnrichedItem is a GeocodableItem with a resolved, valid coordinate
// attached. Items that cannot be resolved never become EnrichedItems.
type EnrichedItem struct {
	GeocodableItem
	Coords Coordinate `json:"coords"`
}
