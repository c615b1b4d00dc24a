package location

import (
	"strings"

	a "github.com/petar-dambovaliev/aho-corasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/loci-discovery/internal/types"
)

// DefaultKindEmoji is shown for kinds the table does not know.
const DefaultKindEmoji = "🌟"

// Kind is one entry of the provider category table.
type Kind struct {
	Code  string
	Label string
	Emoji string
}

// Kinds is the single lookup table for category labels and icons. Order is
// the emoji match priority.
var Kinds = []Kind{
	{Code: "museums", Label: "Museum", Emoji: "🏛️"},
	{Code: "historic", Label: "Historical", Emoji: "🏰"},
	{Code: "natural", Label: "Nature", Emoji: "🏞️"},
	{Code: "cultural", Label: "Cultural", Emoji: "🎭"},
	{Code: "amusement", Label: "Amusement", Emoji: "🎢"},
	{Code: "sport", Label: "Sports", Emoji: "🏆"},
	{Code: "beaches", Label: "Beach", Emoji: "🏖️"},
	{Code: "gardens", Label: "Garden", Emoji: "🌷"},
	{Code: "religion", Label: "Religious", Emoji: "⛪"},
	{Code: "architecture", Label: "Architecture", Emoji: "🏛️"},
	{Code: "accomodations", Label: "Accommodation", Emoji: "🏨"},
	{Code: "foods", Label: "Food", Emoji: "🍽️"},
}

var kindByCode = func() map[string]Kind {
	m := make(map[string]Kind, len(Kinds))
	for _, k := range Kinds {
		m[k.Code] = k
	}
	return m
}()

// Aho-Corasick matchers over the raw comma separated kinds string.
var (
	typeMatcherBuilder = a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
	})
	// Two patterns per type; pattern index / 2 indexes typeByPriority.
	typeMatcher    = typeMatcherBuilder.Build([]string{"accomodations", "hotels", "foods", "restaurants"})
	typeByPriority = []types.LocationType{types.LocationTypeHotel, types.LocationTypeRestaurant}

	emojiMatcherBuilder = a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
	})
	emojiMatcher = emojiMatcherBuilder.Build(kindCodes())
)

func kindCodes() []string {
	codes := make([]string, len(Kinds))
	for i, k := range Kinds {
		codes[i] = k.Code
	}
	return codes
}

// Classify maps a raw kinds string to a location type. Hotel patterns win
// over restaurant patterns; anything else is an attraction.
func Classify(kinds string) types.LocationType {
	best := len(typeByPriority)
	for _, m := range typeMatcher.FindAll(kinds) {
		if p := m.Pattern() / 2; p < best {
			best = p
		}
	}
	if best < len(typeByPriority) {
		return typeByPriority[best]
	}
	return types.LocationTypeAttraction
}

// KindEmoji returns the icon of the highest priority table entry contained
// anywhere in kinds.
func KindEmoji(kinds string) string {
	best := len(Kinds)
	for _, m := range emojiMatcher.FindAll(kinds) {
		if m.Pattern() < best {
			best = m.Pattern()
		}
	}
	if best < len(Kinds) {
		return Kinds[best].Emoji
	}
	return DefaultKindEmoji
}

// KindLabel returns the human readable label for one kind code.
func KindLabel(code string) string {
	code = strings.TrimSpace(code)
	if k, ok := kindByCode[strings.ToLower(code)]; ok {
		return k.Label
	}
	// Casers are stateful, one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(code, "_", " "))
}

// SplitKinds returns the trimmed, non-empty codes of a kinds string.
func SplitKinds(kinds string) []string {
	parts := strings.Split(kinds, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
