package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
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

	"github.com/FACorreiaa/loci-discovery/internal/domain/fixtures"
	"github.com/FACorreiaa/loci-discovery/internal/lib"
	"github.com/FACorreiaa/loci-discovery/internal/types"
	"github.com/FACorreiaa/loci-discovery/pkg/observability"
)

const providerName = "openweather"

var iconByCode = map[string]types.WeatherIcon{
	"01d": types.WeatherIconSun,
	"01n": types.WeatherIconSun,
	"02d": types.WeatherIconCloudSun,
	"02n": types.WeatherIconCloudSun,
	"03d": types.WeatherIconCloud,
	"03n": types.WeatherIconCloud,
	"04d": types.WeatherIconCloud,
	"04n": types.WeatherIconCloud,
	"09d": types.WeatherIconRain,
	"09n": types.WeatherIconRain,
	"10d": types.WeatherIconRain,
	"10n": types.WeatherIconRain,
	"11d": types.WeatherIconLightning,
	"11n": types.WeatherIconLightning,
	"13d": types.WeatherIconSnow,
	"13n": types.WeatherIconSnow,
	"50d": types.WeatherIconFog,
	"50n": types.WeatherIconFog,
}

// Icon maps a provider icon code to the icon vocabulary; unknown codes are
// shown as a cloud.
func Icon(code string) types.WeatherIcon {
	if icon, ok := iconByCode[code]; ok {
		return icon
	}
	return types.WeatherIconCloud
}

var _ Service = (*ServiceImpl)(nil)

// Service resolves current weather. A nil result means unavailable.
type Service interface {
	ResolveByCity(ctx context.Context, name string) *types.Weather
	ResolveByCoordinates(ctx context.Context, lat, lon float64) *types.Weather
}

type Config struct {
	BaseURL    string
	APIKey     string
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

type ServiceImpl struct {
	logger     *slog.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewService returns a resolver backed by OpenWeatherMap. Without an API key
// it answers from the built-in fixtures only.
func NewService(cfg Config, logger *slog.Logger) *ServiceImpl {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ServiceImpl{
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		cache:      cache.New(ttl, 2*ttl),
	}
}

type currentWeatherResponse struct {
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s with units=metric
	} `json:"wind"`
}

func (s *ServiceImpl) ResolveByCity(ctx context.Context, name string) *types.Weather {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "ResolveByCity", trace.WithAttributes(
		attribute.String("city", name),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ResolveByCity"), slog.String("city", name))

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	if s.apiKey == "" {
		w := fixtures.Weather(name)
		l.DebugContext(ctx, "No weather API key, using fixtures", slog.Bool("found", w != nil))
		return w
	}

	params := url.Values{}
	params.Set("q", name)
	return s.resolve(ctx, span, l, "city:"+strings.ToLower(name), params)
}

func (s *ServiceImpl) ResolveByCoordinates(ctx context.Context, lat, lon float64) *types.Weather {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "ResolveByCoordinates", trace.WithAttributes(
		attribute.Float64("latitude", lat),
		attribute.Float64("longitude", lon),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ResolveByCoordinates"))

	if s.apiKey == "" {
		l.DebugContext(ctx, "No weather API key, coordinates cannot be resolved")
		return nil
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	// Cache coordinates at ~1 km resolution.
	key := fmt.Sprintf("coord:%.2f,%.2f", lat, lon)
	return s.resolve(ctx, span, l, key, params)
}

func (s *ServiceImpl) resolve(ctx context.Context, span trace.Span, l *slog.Logger, cacheKey string, params url.Values) *types.Weather {
	if cached, found := s.cache.Get(cacheKey); found {
		if w, ok := cached.(types.Weather); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &w
		}
	}

	params.Set("units", "metric")
	params.Set("appid", s.apiKey)

	var resp currentWeatherResponse
	start := time.Now()
	err := lib.FetchJSON(ctx, s.httpClient, s.baseURL+"/weather?"+params.Encode(), nil, &resp)
	if err == nil && len(resp.Weather) == 0 {
		err = fmt.Errorf("response has no weather conditions: %w", types.ErrProviderUnavailable)
	}
	observability.ObserveProvider(providerName, start, err == nil)
	if err != nil {
		l.WarnContext(ctx, "Weather request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather request failed")
		return nil
	}

	w := types.Weather{
		Temperature: int(math.Round(resp.Main.Temp)),
		Condition:   resp.Weather[0].Main,
		Icon:        Icon(resp.Weather[0].Icon),
		Humidity:    int(math.Round(resp.Main.Humidity)),
		WindSpeed:   int(math.Round(resp.Wind.Speed * 3.6)),
	}
	s.cache.Set(cacheKey, w, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "Weather resolved")
	return &w
}
