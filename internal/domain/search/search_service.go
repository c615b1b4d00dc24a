package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/loci-discovery/internal/domain/fixtures"
	"github.com/FACorreiaa/loci-discovery/internal/domain/geocode"
	"github.com/FACorreiaa/loci-discovery/internal/domain/location"
	"github.com/FACorreiaa/loci-discovery/internal/domain/places"
	"github.com/FACorreiaa/loci-discovery/internal/types"
	"github.com/FACorreiaa/loci-discovery/pkg/observability"
)

const (
	DefaultRadiusMeters = 10000
	DefaultMaxResults   = 20
)

// Outcome tags the result of one pipeline stage.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

// Result is what a search hands to the rendering layer. Outcome is the
// outcome of the last live stage that ran; Fallback reports whether the
// locations came from the fixture set.
type Result struct {
	Query     string               `json:"query"`
	Locations []types.Location     `json:"locations"`
	Geocode   *types.GeocodeResult `json:"geocode,omitempty"`
	Outcome   Outcome              `json:"outcome"`
	Fallback  bool                 `json:"fallback"`
	Failures  int                  `json:"failures"`
}

type stageResult struct {
	outcome   Outcome
	geocode   *types.GeocodeResult
	places    []types.RawPlace
	locations []types.Location
	failures  int
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Search(ctx context.Context, query string) Result
}

type Config struct {
	RadiusMeters int
	MaxResults   int
	// EnrichConcurrency bounds the per-place detail fan-out; <= 0 is unbounded.
	EnrichConcurrency int
}

type ServiceImpl struct {
	logger   *slog.Logger
	geocoder geocode.Resolver
	places   places.Service
	cfg      Config
}

func NewService(geocoder geocode.Resolver, placesSvc places.Service, cfg Config, logger *slog.Logger) *ServiceImpl {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = DefaultRadiusMeters
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	return &ServiceImpl{
		logger:   logger,
		geocoder: geocoder,
		places:   placesSvc,
		cfg:      cfg,
	}
}

// Search runs geocode, nearby, enrich and fallback stages. It never fails:
// any upstream problem degrades to the fixture fallback.
func (s *ServiceImpl) Search(ctx context.Context, query string) (res Result) {
	ctx, span := otel.Tracer("SearchService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.query", query),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Search"), slog.String("query", query))

	query = strings.TrimSpace(query)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("search pipeline panic: %v", r)
			l.ErrorContext(ctx, "Recovered from search panic", slog.Any("error", err))
			span.RecordError(err)
			res = s.fallback(query, stageResult{outcome: OutcomeFailed})
		}
		observability.ObserveSearch(string(res.Outcome), res.Failures)
		span.SetAttributes(
			attribute.String("search.outcome", string(res.Outcome)),
			attribute.Bool("search.fallback", res.Fallback),
			attribute.Int("search.results", len(res.Locations)),
			attribute.Int("search.failures", res.Failures),
		)
		if res.Outcome == OutcomeFailed {
			span.SetStatus(codes.Error, "search degraded to fallback")
		} else {
			span.SetStatus(codes.Ok, "search completed")
		}
	}()

	stages := []func(context.Context, string, stageResult) stageResult{
		s.geocodeStage,
		s.nearbyStage,
		s.enrichStage,
	}

	st := stageResult{outcome: OutcomeOK}
	for _, stage := range stages {
		st = stage(ctx, query, st)
		if st.outcome != OutcomeOK {
			break
		}
	}

	res = s.fallback(query, st)
	l.InfoContext(ctx, "Search completed",
		slog.String("outcome", string(res.Outcome)),
		slog.Bool("fallback", res.Fallback),
		slog.Int("results", len(res.Locations)),
		slog.Int("failures", res.Failures))
	return res
}

func (s *ServiceImpl) geocodeStage(ctx context.Context, query string, _ stageResult) stageResult {
	if query == "" {
		return stageResult{outcome: OutcomeEmpty}
	}
	geo := s.geocoder.Resolve(ctx, query)
	if geo == nil {
		// Unresolvable and unreachable are indistinguishable here.
		return stageResult{outcome: OutcomeEmpty}
	}
	return stageResult{outcome: OutcomeOK, geocode: geo}
}

func (s *ServiceImpl) nearbyStage(ctx context.Context, _ string, in stageResult) stageResult {
	raw := s.places.FetchNearby(ctx, in.geocode.Lat, in.geocode.Lon, s.cfg.RadiusMeters)
	if ctx.Err() != nil {
		in.outcome = OutcomeFailed
		return in
	}
	if len(raw) == 0 {
		in.outcome = OutcomeEmpty
		return in
	}
	in.places = raw
	return in
}

func (s *ServiceImpl) enrichStage(ctx context.Context, _ string, in stageResult) stageResult {
	normalized := make([]*types.Location, len(in.places))

	var g errgroup.Group
	if s.cfg.EnrichConcurrency > 0 {
		g.SetLimit(s.cfg.EnrichConcurrency)
	}
	for i, raw := range in.places {
		g.Go(func() error {
			normalized[i] = location.Normalize(raw, s.places.Enrich(ctx, raw.ID))
			return nil
		})
	}
	_ = g.Wait()

	in.locations = make([]types.Location, 0, len(normalized))
	for _, loc := range normalized {
		if loc == nil {
			in.failures++
			continue
		}
		in.locations = append(in.locations, *loc)
	}

	switch {
	case ctx.Err() != nil:
		in.outcome = OutcomeFailed
	case len(in.locations) == 0:
		in.outcome = OutcomeEmpty
	}
	return in
}

// fallback is the final stage: live locations pass through capped, anything
// else is replaced by the fixture matches for query.
func (s *ServiceImpl) fallback(query string, in stageResult) Result {
	res := Result{
		Query:    query,
		Geocode:  in.geocode,
		Outcome:  in.outcome,
		Failures: in.failures,
	}
	locs := in.locations
	if in.outcome != OutcomeOK || len(locs) == 0 {
		res.Fallback = true
		locs = fixtures.MatchLocations(query)
		if query == "" {
			locs = []types.Location{}
		}
	}
	if len(locs) > s.cfg.MaxResults {
		locs = locs[:s.cfg.MaxResults]
	}
	res.Locations = locs
	return res
}
