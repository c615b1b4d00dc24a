package geocode

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/loci-discovery/internal/lib"
	"github.com/FACorreiaa/loci-discovery/internal/types"
	"github.com/FACorreiaa/loci-discovery/pkg/observability"
)

const providerName = "nominatim"

var _ Resolver = (*ServiceImpl)(nil)

// Resolver turns free text into coordinates and coordinates back into a
// locality name. Failures are never returned: an unresolvable input and a
// provider outage both yield the zero answer.
type Resolver interface {
	Resolve(ctx context.Context, placeName string) *types.GeocodeResult
	Reverse(ctx context.Context, lat, lon float64) string
}

type Config struct {
	BaseURL       string
	UserAgent     string
	RatePerSecond float64
	CacheTTL      time.Duration
	HTTPClient    *http.Client
}

type ServiceImpl struct {
	logger     *slog.Logger
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
}

func NewService(cfg Config, logger *slog.Logger) *ServiceImpl {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ServiceImpl{
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      cache.New(ttl, 2*ttl),
	}
}

type nominatimAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	County  string `json:"county"`
	Country string `json:"country"`
}

// locality picks the most specific populated-place name.
func (a nominatimAddress) locality() string {
	for _, v := range []string{a.City, a.Town, a.Village, a.County} {
		if v != "" {
			return v
		}
	}
	return ""
}

type nominatimResult struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// Resolve returns the first match for placeName, or nil.
func (s *ServiceImpl) Resolve(ctx context.Context, placeName string) *types.GeocodeResult {
	ctx, span := otel.Tracer("GeocodeService").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("geocode.query", placeName),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Resolve"), slog.String("query", placeName))

	query := strings.TrimSpace(placeName)
	if query == "" {
		span.SetStatus(codes.Error, "empty query")
		return nil
	}

	cacheKey := strings.ToLower(query)
	if cached, found := s.cache.Get(cacheKey); found {
		if res, ok := cached.(types.GeocodeResult); ok {
			l.DebugContext(ctx, "Serving geocode from cache")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &res
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	var results []nominatimResult
	if err := s.fetch(ctx, "/search?"+params.Encode(), &results); err != nil {
		l.WarnContext(ctx, "Geocoding request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocoding request failed")
		return nil
	}
	if len(results) == 0 {
		l.InfoContext(ctx, "No geocoding match")
		span.SetStatus(codes.Ok, "No match")
		return nil
	}

	first := results[0]
	lat, latErr := strconv.ParseFloat(first.Lat, 64)
	lon, lonErr := strconv.ParseFloat(first.Lon, 64)
	if latErr != nil || lonErr != nil {
		l.WarnContext(ctx, "Geocoding match has unparseable coordinates",
			slog.String("lat", first.Lat), slog.String("lon", first.Lon))
		span.SetStatus(codes.Error, "Bad coordinates")
		return nil
	}

	res := types.GeocodeResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: first.DisplayName,
		Country:     first.Address.Country,
	}
	s.cache.Set(cacheKey, res, cache.DefaultExpiration)

	l.InfoContext(ctx, "Geocoded place", slog.Float64("lat", lat), slog.Float64("lon", lon))
	span.SetStatus(codes.Ok, "Geocoded")
	return &res
}

// Reverse returns the locality name at lat/lon, or "".
func (s *ServiceImpl) Reverse(ctx context.Context, lat, lon float64) string {
	ctx, span := otel.Tracer("GeocodeService").Start(ctx, "Reverse", trace.WithAttributes(
		attribute.Float64("latitude", lat),
		attribute.Float64("longitude", lon),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Reverse"))

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	var result nominatimResult
	if err := s.fetch(ctx, "/reverse?"+params.Encode(), &result); err != nil {
		l.WarnContext(ctx, "Reverse geocoding failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Reverse geocoding failed")
		return ""
	}

	name := result.Address.locality()
	span.SetAttributes(attribute.String("geocode.locality", name))
	return name
}

func (s *ServiceImpl) fetch(ctx context.Context, path string, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := lib.FetchJSON(ctx, s.httpClient, s.baseURL+path, map[string]string{
		"User-Agent": s.userAgent,
	}, out)
	observability.ObserveProvider(providerName, start, err == nil)
	return err
}
