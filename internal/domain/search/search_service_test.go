package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-discovery/internal/types"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, placeName string) *types.GeocodeResult {
	args := m.Called(ctx, placeName)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*types.GeocodeResult)
}

func (m *MockResolver) Reverse(ctx context.Context, lat, lon float64) string {
	args := m.Called(ctx, lat, lon)
	return args.String(0)
}

type MockPlaces struct {
	mock.Mock
}

func (m *MockPlaces) FetchNearby(ctx context.Context, lat, lon float64, radiusMeters int) []types.RawPlace {
	args := m.Called(ctx, lat, lon, radiusMeters)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.RawPlace)
}

func (m *MockPlaces) Enrich(ctx context.Context, xid string) *types.PlaceDetail {
	args := m.Called(ctx, xid)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*types.PlaceDetail)
}

var paris = &types.GeocodeResult{Lat: 48.8566, Lon: 2.3522, DisplayName: "Paris, France", Country: "France"}

func TestSearch_UnresolvableFallsBackToFixtures(t *testing.T) {
	geo := new(MockResolver)
	pl := new(MockPlaces)
	geo.On("Resolve", mock.Anything, "Atlantis-Nonexistent-Place-9999").Return(nil)

	svc := NewService(geo, pl, Config{}, newTestLogger())
	res := svc.Search(context.Background(), "Atlantis-Nonexistent-Place-9999")

	assert.Equal(t, OutcomeEmpty, res.Outcome)
	assert.True(t, res.Fallback)
	assert.NotNil(t, res.Locations)
	assert.Empty(t, res.Locations)
	assert.Nil(t, res.Geocode)
	pl.AssertNotCalled(t, "FetchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_UnresolvableMatchesFixtures(t *testing.T) {
	geo := new(MockResolver)
	geo.On("Resolve", mock.Anything, "machu").Return(nil)

	svc := NewService(geo, new(MockPlaces), Config{}, newTestLogger())
	res := svc.Search(context.Background(), "machu")

	require.Len(t, res.Locations, 1)
	assert.Equal(t, "Machu Picchu", res.Locations[0].Name)
	assert.True(t, res.Fallback)
}

func TestSearch_ParisWithHotel(t *testing.T) {
	geo := new(MockResolver)
	pl := new(MockPlaces)
	geo.On("Resolve", mock.Anything, "Paris").Return(paris)
	pl.On("FetchNearby", mock.Anything, paris.Lat, paris.Lon, DefaultRadiusMeters).Return([]types.RawPlace{
		{ID: "A1", Name: "Louvre", Kinds: "museums,cultural"},
		{ID: "H1", Name: "Hotel Lutetia", Kinds: "accomodations,other_hotels"},
		{ID: "F1", Name: "Le Procope", Kinds: "foods,restaurants"},
		{ID: "X1", Name: "Gone", Kinds: "museums"},
	})
	pl.On("Enrich", mock.Anything, "A1").Return(&types.PlaceDetail{ID: "A1", Name: "Louvre Museum", Rate: "3"})
	pl.On("Enrich", mock.Anything, "H1").Return(&types.PlaceDetail{ID: "H1", Name: "Hôtel Lutetia"})
	pl.On("Enrich", mock.Anything, "F1").Return(&types.PlaceDetail{ID: "F1", Name: "Le Procope"})
	pl.On("Enrich", mock.Anything, "X1").Return(nil)

	svc := NewService(geo, pl, Config{}, newTestLogger())
	res := svc.Search(context.Background(), "Paris")

	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.False(t, res.Fallback)
	assert.Equal(t, paris, res.Geocode)
	assert.Equal(t, 1, res.Failures)
	require.Len(t, res.Locations, 3)

	// Provider order survives the parallel fan-out.
	assert.Equal(t, "A1", res.Locations[0].ID)
	assert.Equal(t, "H1", res.Locations[1].ID)
	assert.Equal(t, "F1", res.Locations[2].ID)

	var hotels int
	for _, l := range res.Locations {
		if l.Type == types.LocationTypeHotel {
			hotels++
		}
	}
	assert.GreaterOrEqual(t, hotels, 1)
	pl.AssertExpectations(t)
}

func TestSearch_NoNearbyPlacesFallsBack(t *testing.T) {
	geo := new(MockResolver)
	pl := new(MockPlaces)
	geo.On("Resolve", mock.Anything, "Paris").Return(paris)
	pl.On("FetchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]types.RawPlace{})

	svc := NewService(geo, pl, Config{}, newTestLogger())
	res := svc.Search(context.Background(), "Paris")

	assert.Equal(t, OutcomeEmpty, res.Outcome)
	assert.True(t, res.Fallback)
	assert.Equal(t, paris, res.Geocode)
	assert.Len(t, res.Locations, 3)
}

func TestSearch_AllDetailsFailFallsBack(t *testing.T) {
	geo := new(MockResolver)
	pl := new(MockPlaces)
	geo.On("Resolve", mock.Anything, "Santorini").Return(&types.GeocodeResult{Lat: 36.4, Lon: 25.4})
	pl.On("FetchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]types.RawPlace{
		{ID: "A", Name: "A"}, {ID: "B", Name: "B"},
	})
	pl.On("Enrich", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(geo, pl, Config{}, newTestLogger())
	res := svc.Search(context.Background(), "Santorini")

	assert.Equal(t, OutcomeEmpty, res.Outcome)
	assert.True(t, res.Fallback)
	assert.Equal(t, 2, res.Failures)
	require.Len(t, res.Locations, 1)
	assert.Equal(t, "Santorini Island", res.Locations[0].Name)
}

func TestSearch_CapsResults(t *testing.T) {
	geo := new(MockResolver)
	pl := new(MockPlaces)
	geo.On("Resolve", mock.Anything, "Rome").Return(&types.GeocodeResult{Lat: 41.9, Lon: 12.5})

	raw := make([]types.RawPlace, 30)
	for i := range raw {
		id := fmt.Sprintf("P%02d", i)
		raw[i] = types.RawPlace{ID: id, Name: id, Kinds: "historic"}
		pl.On("Enrich", mock.Anything, id).Return(&types.PlaceDetail{ID: id, Name: id})
	}
	pl.On("FetchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(raw)

	svc := NewService(geo, pl, Config{EnrichConcurrency: 4}, newTestLogger())
	res := svc.Search(context.Background(), "Rome")

	require.Len(t, res.Locations, DefaultMaxResults)
	for i, l := range res.Locations {
		assert.Equal(t, fmt.Sprintf("P%02d", i), l.ID)
	}
}

func TestSearch_PanicDegradesToFallback(t *testing.T) {
	geo := new(MockResolver)
	geo.On("Resolve", mock.Anything, "Paris").Panic("boom")

	svc := NewService(geo, new(MockPlaces), Config{}, newTestLogger())

	var res Result
	require.NotPanics(t, func() {
		res = svc.Search(context.Background(), "Paris")
	})
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.True(t, res.Fallback)
	assert.Len(t, res.Locations, 3)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := NewService(new(MockResolver), new(MockPlaces), Config{}, newTestLogger())
	res := svc.Search(context.Background(), "   ")

	assert.Empty(t, res.Locations)
	assert.True(t, res.Fallback)
}

func TestSearch_CanceledContextIsFailed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	geo := new(MockResolver)
	pl := new(MockPlaces)
	geo.On("Resolve", mock.Anything, "Paris").Return(paris)
	pl.On("FetchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return([]types.RawPlace{})

	svc := NewService(geo, pl, Config{}, newTestLogger())
	res := svc.Search(ctx, "Paris")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.True(t, res.Fallback)
}

func TestTracker(t *testing.T) {
	tr := NewTracker()

	ctx1, tok1 := tr.Begin(context.Background())
	assert.True(t, tr.IsCurrent(tok1))

	ctx2, tok2 := tr.Begin(context.Background())
	assert.Greater(t, tok2, tok1)
	assert.False(t, tr.IsCurrent(tok1))
	assert.True(t, tr.IsCurrent(tok2))

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())

	// Ending a stale token leaves the current search alone.
	tr.End(tok1)
	assert.NoError(t, ctx2.Err())

	tr.End(tok2)
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	assert.True(t, tr.IsCurrent(tok2))
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	tokens := make(chan Token, 50)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, tok := tr.Begin(context.Background())
			tokens <- tok
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[Token]bool)
	var current int
	for tok := range tokens {
		assert.False(t, seen[tok])
		seen[tok] = true
		if tr.IsCurrent(tok) {
			current++
		}
	}
	assert.Len(t, seen, 50)
	assert.Equal(t, 1, current)
}
