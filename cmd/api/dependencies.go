package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/loci-discovery/internal/domain/city"
	"github.com/FACorreiaa/loci-discovery/internal/domain/discover"
	"github.com/FACorreiaa/loci-discovery/internal/domain/favorites"
	"github.com/FACorreiaa/loci-discovery/internal/domain/geocode"
	"github.com/FACorreiaa/loci-discovery/internal/domain/places"
	"github.com/FACorreiaa/loci-discovery/internal/domain/recents"
	"github.com/FACorreiaa/loci-discovery/internal/domain/search"
	"github.com/FACorreiaa/loci-discovery/internal/domain/tips"
	"github.com/FACorreiaa/loci-discovery/internal/domain/weather"
	"github.com/FACorreiaa/loci-discovery/internal/llm"
	"github.com/FACorreiaa/loci-discovery/pkg/config"
	"github.com/FACorreiaa/loci-discovery/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	Store  storage.Store

	// Providers
	Geocoder geocode.Resolver
	Places   places.Service
	Weather  weather.Service

	// Repositories
	FavoritesRepo favorites.Repository
	RecentsRepo   recents.Repository
	CityRepo      city.Repository

	// Services
	SearchService   search.Service
	CityService     city.Service
	TipsService     tips.Service
	DiscoverService discover.Service

	// Handlers
	DiscoverHandler *discover.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	deps.initProviders()
	deps.initRepositories()

	if err := deps.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.DiscoverHandler = discover.NewHandler(deps.DiscoverService, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initStorage opens the device-local store, falling back to memory when no
// path is configured.
func (d *Dependencies) initStorage() error {
	if d.Config.Storage.Path == "" {
		d.Store = storage.NewMemoryStore()
		d.Logger.Warn("no storage path configured, favorites and recents will not persist")
		return nil
	}
	store, err := storage.OpenBolt(d.Config.Storage.Path, d.Logger)
	if err != nil {
		return err
	}
	d.Store = store
	d.Logger.Info("storage opened", slog.String("path", d.Config.Storage.Path))
	return nil
}

func (d *Dependencies) initProviders() {
	p := d.Config.Providers
	client := &http.Client{Timeout: p.HTTPTimeout}

	d.Geocoder = geocode.NewService(geocode.Config{
		BaseURL:       p.NominatimURL,
		UserAgent:     p.NominatimUserAgent,
		RatePerSecond: p.NominatimRatePerSecond,
		CacheTTL:      d.Config.Cache.GeocodeTTL,
		HTTPClient:    client,
	}, d.Logger)

	d.Places = places.NewService(places.Config{
		BaseURL:    p.OpenTripMapURL,
		APIKey:     p.OpenTripMapAPIKey,
		Categories: places.DefaultCategories,
		HTTPClient: client,
	}, d.Logger)

	d.Weather = weather.NewService(weather.Config{
		BaseURL:    p.OpenWeatherURL,
		APIKey:     p.OpenWeatherAPIKey,
		CacheTTL:   d.Config.Cache.WeatherTTL,
		HTTPClient: client,
	}, d.Logger)

	if p.OpenTripMapAPIKey == "" {
		d.Logger.Warn("OPENTRIPMAP_API_KEY not set, searches will use sample data")
	}
	if p.OpenWeatherAPIKey == "" {
		d.Logger.Warn("OPENWEATHER_API_KEY not set, weather will use sample data")
	}
	d.Logger.Info("providers initialized")
}

func (d *Dependencies) initRepositories() {
	d.FavoritesRepo = favorites.NewRepository(d.Store, d.Logger)
	d.RecentsRepo = recents.NewRepository(d.Store, d.Logger)
	d.CityRepo = city.NewRepository()
	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices(ctx context.Context) error {
	var aiClient llm.ChatClient
	if key := d.Config.Providers.GeminiAPIKey; key != "" {
		client, err := llm.NewGeminiChatClient(ctx, key)
		if err != nil {
			return err
		}
		aiClient = client
	} else {
		d.Logger.Info("GEMINI_API_KEY not set, travel tips will be static")
	}

	d.SearchService = search.NewService(d.Geocoder, d.Places, search.Config{
		RadiusMeters: search.DefaultRadiusMeters,
		MaxResults:   search.DefaultMaxResults,
	}, d.Logger)
	d.CityService = city.NewCityService(d.CityRepo, d.Logger)
	d.TipsService = tips.NewService(aiClient, d.Config.Cache.TipsTTL, d.Logger)

	d.DiscoverService = discover.NewService(discover.Deps{
		Search:    d.SearchService,
		Geocoder:  d.Geocoder,
		Weather:   d.Weather,
		Favorites: d.FavoritesRepo,
		Recents:   d.RecentsRepo,
		Cities:    d.CityService,
		Tips:      d.TipsService,
	}, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.Error("failed to close storage", slog.Any("error", err))
		}
	}
	d.Logger.Info("cleanup completed")
}
