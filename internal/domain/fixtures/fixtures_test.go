package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLocations(t *testing.T) {
	got := MatchLocations("paris")
	ids := make([]string, len(got))
	for i, l := range got {
		ids[i] = l.ID
	}
	// Name or description match, fixture order kept.
	assert.Equal(t, []string{"1", "3", "4"}, ids)

	assert.Empty(t, MatchLocations("Atlantis-Nonexistent-Place-9999"))
	assert.Len(t, MatchLocations("AEGEAN"), 1)
	assert.Len(t, MatchLocations(""), len(Locations()))
}

func TestLocationsInCity(t *testing.T) {
	assert.Len(t, LocationsInCity("Paris"), 3)
	assert.Len(t, LocationsInCity("greece"), 1)
	assert.Empty(t, LocationsInCity("Tokyo"))
	assert.Empty(t, LocationsInCity(" "))
}

func TestWeather(t *testing.T) {
	w := Weather("paris, Île-de-France, France")
	require.NotNil(t, w)
	assert.Equal(t, 18, w.Temperature)
	assert.Equal(t, "Partly Cloudy", w.Condition)

	require.NotNil(t, Weather("NEW YORK"))
	assert.Nil(t, Weather("Tokyo"))
}

func TestCopiesAreIndependent(t *testing.T) {
	locs := Locations()
	locs[0].Name = "changed"
	assert.Equal(t, "Eiffel Tower", Locations()[0].Name)

	cs := Cities()
	require.Len(t, cs, 3)
	cs[0].Name = "changed"
	assert.Equal(t, "Paris", Cities()[0].Name)
}
