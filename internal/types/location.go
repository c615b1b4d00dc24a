package types

// LocationType is the closed classification of a point of interest.
type LocationType string

const (
	LocationTypeAttraction LocationType = "attraction"
	LocationTypeHotel      LocationType = "hotel"
	LocationTypeRestaurant LocationType = "restaurant"
)

// LocationTypes lists every type in display order.
var LocationTypes = []LocationType{
	LocationTypeAttraction,
	LocationTypeHotel,
	LocationTypeRestaurant,
}

// Valid reports whether t is one of the known types.
func (t LocationType) Valid() bool {
	switch t {
	case LocationTypeAttraction, LocationTypeHotel, LocationTypeRestaurant:
		return true
	}
	return false
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is the canonical, normalized point of interest used by the
// rendering layer and persisted verbatim in the favorite set.
type Location struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        LocationType `json:"type"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Rating      float64      `json:"rating"`
	ImageURL    string       `json:"imageUrl"`
	PriceLevel  string       `json:"priceLevel,omitempty"`
	Category    string       `json:"category,omitempty"`
	Highlights  []string     `json:"highlights,omitempty"`
	Amenities   []string     `json:"amenities,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Source      string       `json:"source,omitempty"`
}

// LocationGroup is a display bucket of locations sharing a type.
type LocationGroup struct {
	Type        LocationType `json:"type"`
	Title       string       `json:"title"`
	Emoji       string       `json:"emoji"`
	Description string       `json:"description"`
	Locations   []Location   `json:"locations"`
}

// GeocodeResult is the first match of a free-text place lookup.
type GeocodeResult struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
	Country     string  `json:"country"`
}
