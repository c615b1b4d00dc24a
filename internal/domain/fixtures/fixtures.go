// Package fixtures holds the small built-in data set served when the
// external providers are unavailable or return nothing.
package fixtures

import (
	"strings"

	"github.com/FACorreiaa/loci-discovery/internal/types"
)

var locations = []types.Location{
	{
		ID:          "1",
		Name:        "Eiffel Tower",
		Type:        types.LocationTypeAttraction,
		Description: "Iconic iron tower that defines the Paris skyline. Enjoy breathtaking views of the city from its observation decks.",
		Address:     "Champ de Mars, 5 Avenue Anatole France, 75007 Paris, France",
		Rating:      4.7,
		ImageURL:    "https://images.unsplash.com/photo-1543349689-9a4d426bee8e?auto=format&fit=crop&q=80&w=2501&ixlib=rb-4.0.3",
		PriceLevel:  "$$",
	},
	{
		ID:          "2",
		Name:        "Santorini Island",
		Type:        types.LocationTypeAttraction,
		Description: "Famous for its stunning sunsets, white-washed buildings, and blue domes overlooking the Aegean Sea.",
		Address:     "Santorini, Greece",
		Rating:      4.9,
		ImageURL:    "https://images.unsplash.com/photo-1570077188670-e3a8d69ac5ff?auto=format&fit=crop&q=80&w=2574&ixlib=rb-4.0.3",
		PriceLevel:  "$$$",
	},
	{
		ID:          "3",
		Name:        "The Ritz Paris",
		Type:        types.LocationTypeHotel,
		Description: "Luxurious 5-star hotel offering elegant accommodation, a spa, and fine dining in the heart of Paris.",
		Address:     "15 Place Vendôme, 75001 Paris, France",
		Rating:      4.8,
		ImageURL:    "https://images.unsplash.com/photo-1596394516093-501ba68a0ba6?auto=format&fit=crop&q=80&w=2370&ixlib=rb-4.0.3",
		PriceLevel:  "$$$$",
	},
	{
		ID:          "4",
		Name:        "Le Jules Verne",
		Type:        types.LocationTypeRestaurant,
		Description: "Upscale dining experience located on the second floor of the Eiffel Tower offering panoramic views of Paris.",
		Address:     "Eiffel Tower, Avenue Gustave Eiffel, 75007 Paris, France",
		Rating:      4.6,
		ImageURL:    "https://images.unsplash.com/photo-1414235077428-338989a2e8c0?auto=format&fit=crop&q=80&w=2370&ixlib=rb-4.0.3",
		PriceLevel:  "$$$$",
	},
	{
		ID:          "5",
		Name:        "Machu Picchu",
		Type:        types.LocationTypeAttraction,
		Description: "Ancient Incan citadel set high in the Andes Mountains, featuring remarkable stone structures and breathtaking views.",
		Address:     "Machu Picchu, Peru",
		Rating:      4.9,
		ImageURL:    "https://images.unsplash.com/photo-1526392060635-9d6019884377?auto=format&fit=crop&q=80&w=2370&ixlib=rb-4.0.3",
		PriceLevel:  "$$",
	},
	{
		ID:          "6",
		Name:        "Amalfi Coast",
		Type:        types.LocationTypeAttraction,
		Description: "Stunning stretch of coastline known for its dramatic cliffs, colorful villages, and scenic beaches.",
		Address:     "Amalfi Coast, Italy",
		Rating:      4.8,
		ImageURL:    "https://images.unsplash.com/photo-1612698093158-e07ac200d44e?auto=format&fit=crop&q=80&w=2370&ixlib=rb-4.0.3",
		PriceLevel:  "$$",
	},
}

var weather = map[string]types.Weather{
	"Paris":     {Temperature: 18, Condition: "Partly Cloudy", Icon: types.WeatherIconCloudSun, Humidity: 65, WindSpeed: 10},
	"Santorini": {Temperature: 25, Condition: "Sunny", Icon: types.WeatherIconSun, Humidity: 55, WindSpeed: 8},
	"New York":  {Temperature: 15, Condition: "Rainy", Icon: types.WeatherIconRain, Humidity: 80, WindSpeed: 15},
}

var cities = []types.City{
	{
		Name:        "Paris",
		Country:     "France",
		Description: "The City of Light beckons with its iconic landmarks and charming atmosphere.",
		ImageURL:    "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?auto=format&fit=crop&q=80&w=2373&ixlib=rb-4.0.3",
	},
	{
		Name:        "Santorini",
		Country:     "Greece",
		Description: "Stunning island with white-washed buildings and breathtaking sunsets.",
		ImageURL:    "https://images.unsplash.com/photo-1570077188670-e3a8d69ac5ff?auto=format&fit=crop&q=80&w=2574&ixlib=rb-4.0.3",
	},
	{
		Name:        "New York",
		Country:     "USA",
		Description: "The Big Apple offers world-class entertainment, dining, and iconic skylines.",
		ImageURL:    "https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9?auto=format&fit=crop&q=80&w=2370&ixlib=rb-4.0.3",
	},
}

// Locations returns a copy of every fixture location.
func Locations() []types.Location {
	out := make([]types.Location, len(locations))
	copy(out, locations)
	return out
}

// MatchLocations returns the fixtures whose name or description contains
// query, case-insensitively. An empty query matches everything.
func MatchLocations(query string) []types.Location {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]types.Location, 0, len(locations))
	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.Name), q) ||
			strings.Contains(strings.ToLower(loc.Description), q) {
			out = append(out, loc)
		}
	}
	return out
}

// LocationsInCity returns the fixtures whose address contains city,
// case-insensitively.
func LocationsInCity(city string) []types.Location {
	c := strings.ToLower(strings.TrimSpace(city))
	out := make([]types.Location, 0, len(locations))
	if c == "" {
		return out
	}
	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.Address), c) {
			out = append(out, loc)
		}
	}
	return out
}

// Weather returns the fixture weather for the city part of name (text
// before the first comma), matched case-insensitively.
func Weather(name string) *types.Weather {
	city, _, _ := strings.Cut(name, ",")
	city = strings.TrimSpace(city)
	for k, w := range weather {
		if strings.EqualFold(k, city) {
			return &w
		}
	}
	return nil
}

// Cities returns the featured destinations.
func Cities() []types.City {
	out := make([]types.City, len(cities))
	copy(out, cities)
	return out
}
