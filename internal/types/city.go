package types

// City is a featured destination shown before any search.
type City struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}
