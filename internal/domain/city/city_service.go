package city

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-discovery/internal/types"
)

// QuickPicks are the one-tap city suggestions shown under the search box.
var QuickPicks = []string{"Paris", "New York", "Tokyo", "Rome"}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Featured(ctx context.Context) ([]types.City, error)
	QuickPicks() []string
	LocationsByCity(ctx context.Context, city string) ([]types.Location, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewCityService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// Featured returns the destinations shown before any search.
func (s *ServiceImpl) Featured(ctx context.Context) ([]types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "Featured")
	defer span.End()

	l := s.logger.With(slog.String("method", "Featured"))

	cities, err := s.repo.GetFeaturedCities(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve featured cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to retrieve cities: %w", err)
	}

	l.DebugContext(ctx, "Retrieved featured cities", slog.Int("count", len(cities)))
	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities retrieved successfully")
	return cities, nil
}

func (s *ServiceImpl) QuickPicks() []string {
	out := make([]string, len(QuickPicks))
	copy(out, QuickPicks)
	return out
}

// LocationsByCity returns the built-in locations whose address mentions city.
func (s *ServiceImpl) LocationsByCity(ctx context.Context, city string) ([]types.Location, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "LocationsByCity", trace.WithAttributes(
		attribute.String("city", city),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "LocationsByCity"), slog.String("city", city))

	if strings.TrimSpace(city) == "" {
		span.SetStatus(codes.Error, "City name is required")
		return nil, fmt.Errorf("city name is required: %w", types.ErrBadRequest)
	}

	locations, err := s.repo.GetLocationsByCity(ctx, city)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve city locations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to retrieve locations for %s: %w", city, err)
	}

	span.SetAttributes(attribute.Int("locations.count", len(locations)))
	span.SetStatus(codes.Ok, "City locations retrieved")
	return locations, nil
}
