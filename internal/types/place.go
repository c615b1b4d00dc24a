package types

// RawPlace is a point of interest as returned by the nearby-places provider,
// before detail enrichment and normalization.
type RawPlace struct {
	ID    string      `json:"xid"`
	Name  string      `json:"name"`
	Kinds string      `json:"kinds"`
	Point Coordinates `json:"point"`
	Rate  *float64    `json:"rate,omitempty"`
	Dist  *float64    `json:"dist,omitempty"`
}

// PlaceAddress holds the structured address parts of a place detail.
type PlaceAddress struct {
	HouseNumber   string `json:"house_number,omitempty"`
	Road          string `json:"road,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	City          string `json:"city,omitempty"`
	County        string `json:"county,omitempty"`
	State         string `json:"state,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Country       string `json:"country,omitempty"`
}

// Parts returns the address components in join order.
func (a PlaceAddress) Parts() []string {
	return []string{
		a.HouseNumber,
		a.Road,
		a.Neighbourhood,
		a.City,
		a.County,
		a.State,
		a.Postcode,
		a.Country,
	}
}

// PlaceDetail is the descriptive payload for a single place. Any field may be
// empty; the provider frequently returns partial objects.
type PlaceDetail struct {
	ID               string        `json:"xid"`
	Name             string        `json:"name"`
	Address          *PlaceAddress `json:"address,omitempty"`
	Rate             string        `json:"rate,omitempty"`
	Kinds            string        `json:"kinds,omitempty"`
	Image            string        `json:"image,omitempty"`
	PreviewSource    string        `json:"preview_source,omitempty"`
	InfoDescription  string        `json:"info_descr,omitempty"`
	WikipediaExtract string        `json:"wikipedia_extract,omitempty"`
	Point            *Coordinates  `json:"point,omitempty"`
}
