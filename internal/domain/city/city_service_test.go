package city

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-discovery/internal/types"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetFeaturedCities(ctx context.Context) ([]types.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func (m *MockRepository) GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Location), args.Error(1)
}

func TestFeatured(t *testing.T) {
	svc := NewCityService(NewRepository(), newTestLogger())

	cities, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 3)
	assert.Equal(t, "Paris", cities[0].Name)
	assert.Equal(t, "Santorini", cities[1].Name)
	assert.Equal(t, "New York", cities[2].Name)
	assert.Equal(t, "USA", cities[2].Country)
}

func TestFeatured_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetFeaturedCities", mock.Anything).Return(nil, errors.New("unavailable"))

	_, err := NewCityService(repo, newTestLogger()).Featured(context.Background())
	assert.ErrorContains(t, err, "failed to retrieve cities")
	repo.AssertExpectations(t)
}

func TestQuickPicks(t *testing.T) {
	svc := NewCityService(NewRepository(), newTestLogger())
	picks := svc.QuickPicks()
	assert.Equal(t, []string{"Paris", "New York", "Tokyo", "Rome"}, picks)

	picks[0] = "changed"
	assert.Equal(t, "Paris", svc.QuickPicks()[0])
}

func TestLocationsByCity(t *testing.T) {
	svc := NewCityService(NewRepository(), newTestLogger())
	ctx := context.Background()

	locs, err := svc.LocationsByCity(ctx, "paris")
	require.NoError(t, err)
	assert.Len(t, locs, 3)

	locs, err = svc.LocationsByCity(ctx, "Tokyo")
	require.NoError(t, err)
	assert.Empty(t, locs)

	_, err = svc.LocationsByCity(ctx, " ")
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRepository().GetFeaturedCities(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
