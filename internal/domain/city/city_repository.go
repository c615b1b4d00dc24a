package city

import (
	"context"

	"github.com/FACorreiaa/loci-discovery/internal/domain/fixtures"
	"github.com/FACorreiaa/loci-discovery/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetFeaturedCities(ctx context.Context) ([]types.City, error)
	GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error)
}

// RepositoryImpl serves the built-in destination set.
type RepositoryImpl struct{}

func NewRepository() *RepositoryImpl {
	return &RepositoryImpl{}
}

func (r *RepositoryImpl) GetFeaturedCities(ctx context.Context) ([]types.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fixtures.Cities(), nil
}

func (r *RepositoryImpl) GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fixtures.LocationsInCity(city), nil
}
