package location

import "github.com/FACorreiaa/loci-discovery/internal/types"

type groupTemplate struct {
	title       string
	emoji       string
	description string
}

// Group icons are taken from the kind table.
var groupTemplates = map[types.LocationType]groupTemplate{
	types.LocationTypeAttraction: {title: "Attractions", emoji: kindByCode["museums"].Emoji, description: "Must-see sights and landmarks"},
	types.LocationTypeHotel:      {title: "Hotels", emoji: kindByCode["accomodations"].Emoji, description: "Places to stay"},
	types.LocationTypeRestaurant: {title: "Restaurants", emoji: kindByCode["foods"].Emoji, description: "Where to eat"},
}

// Group buckets locations by type in display order. Relative order within a
// bucket is kept and empty buckets are omitted.
func Group(locations []types.Location) []types.LocationGroup {
	buckets := make(map[types.LocationType][]types.Location, len(types.LocationTypes))
	for _, loc := range locations {
		buckets[loc.Type] = append(buckets[loc.Type], loc)
	}

	groups := make([]types.LocationGroup, 0, len(types.LocationTypes))
	for _, t := range types.LocationTypes {
		locs := buckets[t]
		if len(locs) == 0 {
			continue
		}
		tmpl := groupTemplates[t]
		groups = append(groups, types.LocationGroup{
			Type:        t,
			Title:       tmpl.title,
			Emoji:       tmpl.emoji,
			Description: tmpl.description,
			Locations:   locs,
		})
	}
	return groups
}
