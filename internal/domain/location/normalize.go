package location

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/FACorreiaa/loci-discovery/internal/types"
)

const (
	// MaxDescriptionRunes is the description length before truncation.
	MaxDescriptionRunes = 300
	// Ellipsis is appended to truncated descriptions.
	Ellipsis = "…"

	MaxHighlights      = 3
	AddressUnavailable = "Address not available"
	SourceOpenTripMap  = "OpenTripMap"

	placeholderImageURL = "https://source.unsplash.com/400x300/?"
)

var (
	hotelAmenities      = []string{"Wi-Fi", "Air Conditioning", "Parking", "Restaurant"}
	restaurantAmenities = []string{"Outdoor Seating", "Takeout", "Delivery", "Reservations"}
)

// Normalize converts a raw place and its detail payload into a Location.
// It returns nil when detail is missing or unnamed; such places are dropped
// from results.
func Normalize(raw types.RawPlace, detail *types.PlaceDetail) *types.Location {
	if detail == nil || strings.TrimSpace(detail.Name) == "" {
		return nil
	}

	locType := Classify(raw.Kinds)
	rating := Rating(detail.Rate, raw.ID)
	codes := SplitKinds(raw.Kinds)

	loc := &types.Location{
		ID:          raw.ID,
		Name:        detail.Name,
		Type:        locType,
		Description: Description(detail, locType),
		Address:     Address(detail.Address),
		Rating:      rating,
		ImageURL:    Image(detail, locType),
		PriceLevel:  PriceLevel(locType, rating),
		Highlights:  Highlights(codes),
		Amenities:   Amenities(locType, raw.ID),
		Coordinates: &types.Coordinates{Lat: raw.Point.Lat, Lon: raw.Point.Lon},
		Source:      SourceOpenTripMap,
	}
	if len(codes) > 0 {
		loc.Category = codes[0]
	}
	return loc
}

// Description picks the long extract, then the short descriptor, then a
// generated default, and truncates the result.
func Description(detail *types.PlaceDetail, t types.LocationType) string {
	desc := detail.WikipediaExtract
	if desc == "" {
		desc = detail.InfoDescription
	}
	if desc == "" {
		desc = fmt.Sprintf("A %s worth checking out", t)
	}
	return Truncate(desc, MaxDescriptionRunes)
}

// Truncate cuts s to n runes and appends Ellipsis when it was longer.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + Ellipsis
}

// Address joins the non-empty address parts.
func Address(addr *types.PlaceAddress) string {
	if addr == nil {
		return AddressUnavailable
	}
	var parts []string
	for _, p := range addr.Parts() {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return AddressUnavailable
	}
	return strings.Join(parts, ", ")
}

// Rating parses the provider rating, clamped to [1,5]. Ratings carry a
// trailing heritage marker ("3h") which is ignored. A missing or unparseable
// rating is synthesized in [3.5,5.0] from the place id.
func Rating(rate, id string) float64 {
	numeric := strings.TrimRightFunc(strings.TrimSpace(rate), unicode.IsLetter)
	if v, err := strconv.ParseFloat(numeric, 64); err == nil && !math.IsNaN(v) {
		return math.Min(5, math.Max(1, v))
	}
	r := rand.New(rand.NewPCG(seed("rating", id), 0))
	return math.Round((3.5+r.Float64()*1.5)*10) / 10
}

// PriceLevel derives a "$" level from type and rating.
func PriceLevel(t types.LocationType, rating float64) string {
	if t == types.LocationTypeHotel {
		switch {
		case rating > 4.5:
			return "$$$$"
		case rating > 4:
			return "$$$"
		case rating > 3:
			return "$$"
		default:
			return "$"
		}
	}
	switch {
	case rating > 4.5:
		return "$$$"
	case rating > 4:
		return "$$"
	default:
		return "$"
	}
}

// Highlights maps the first kind codes to labels.
func Highlights(codes []string) []string {
	if len(codes) > MaxHighlights {
		codes = codes[:MaxHighlights]
	}
	if len(codes) == 0 {
		return nil
	}
	labels := make([]string, len(codes))
	for i, c := range codes {
		labels[i] = KindLabel(c)
	}
	return labels
}

// Amenities returns 2 to 4 type dependent amenities. The subset is a pure
// function of type and id so repeated normalization is stable.
func Amenities(t types.LocationType, id string) []string {
	var pool []string
	switch t {
	case types.LocationTypeHotel:
		pool = hotelAmenities
	case types.LocationTypeRestaurant:
		pool = restaurantAmenities
	default:
		return nil
	}

	r := rand.New(rand.NewPCG(seed(string(t), id), 0))
	picked := make([]string, len(pool))
	copy(picked, pool)
	r.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked[:2+r.IntN(len(pool)-1)]
}

// Image prefers the preview, then the full image, then a placeholder.
func Image(detail *types.PlaceDetail, t types.LocationType) string {
	if detail.PreviewSource != "" {
		return detail.PreviewSource
	}
	if detail.Image != "" {
		return detail.Image
	}
	return PlaceholderImage(t, detail.Name)
}

// PlaceholderImage builds a stock image URL keyed by type and name.
func PlaceholderImage(t types.LocationType, name string) string {
	return placeholderImageURL + url.QueryEscape(string(t)) + "," + url.QueryEscape(name)
}

func seed(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
