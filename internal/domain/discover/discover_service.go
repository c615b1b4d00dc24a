package discover

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-discovery/internal/domain/city"
	"github.com/FACorreiaa/loci-discovery/internal/domain/favorites"
	"github.com/FACorreiaa/loci-discovery/internal/domain/geocode"
	"github.com/FACorreiaa/loci-discovery/internal/domain/location"
	"github.com/FACorreiaa/loci-discovery/internal/domain/recents"
	"github.com/FACorreiaa/loci-discovery/internal/domain/search"
	"github.com/FACorreiaa/loci-discovery/internal/domain/tips"
	"github.com/FACorreiaa/loci-discovery/internal/domain/weather"
	"github.com/FACorreiaa/loci-discovery/internal/types"
)

const favoritesQuery = "Favorites"

// View is the state the rendering layer draws.
type View struct {
	Query       string                `json:"query"`
	City        string                `json:"city,omitempty"`
	Locations   []types.Location      `json:"locations"`
	Groups      []types.LocationGroup `json:"groups"`
	Weather     *types.Weather        `json:"weather"`
	Notice      string                `json:"notice,omitempty"`
	Favorites   bool                  `json:"favorites"`
	FavoriteIDs []string              `json:"favoriteIds"`
	Recent      []string              `json:"recent"`
	Fallback    bool                  `json:"fallback"`
}

func emptyView() View {
	return View{
		Locations:   []types.Location{},
		Groups:      []types.LocationGroup{},
		FavoriteIDs: []string{},
		Recent:      []string{},
	}
}

// NoResultsNotice is shown when a search produced no locations.
func NoResultsNotice(query string) string {
	return fmt.Sprintf("No results found for %q", query)
}

var _ Service = (*ServiceImpl)(nil)

// Service turns rendering-layer intents into view state.
type Service interface {
	Search(ctx context.Context, text string) View
	SelectCity(ctx context.Context, name string) View
	Locate(ctx context.Context, lat, lon float64) View
	ShowFavorites(ctx context.Context) (View, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	RecentSearches(ctx context.Context) ([]string, error)
	ClearRecentSearch(ctx context.Context, text string) error
	FeaturedCities(ctx context.Context) ([]types.City, error)
	QuickPicks() []string
	WeatherForCity(ctx context.Context, name string) *types.Weather
	WeatherAt(ctx context.Context, lat, lon float64) *types.Weather
	Tips(ctx context.Context, city string) []types.TravelTip
	Current() View
}

// Deps are the collaborators of the discover service.
type Deps struct {
	Search    search.Service
	Geocoder  geocode.Resolver
	Weather   weather.Service
	Favorites favorites.Repository
	Recents   recents.Repository
	Cities    city.Service
	Tips      tips.Service
}

type ServiceImpl struct {
	deps    Deps
	logger  *slog.Logger
	tracker *search.Tracker

	mu      sync.RWMutex
	current View
}

func NewService(deps Deps, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		deps:    deps,
		logger:  logger,
		tracker: search.NewTracker(),
		current: emptyView(),
	}
}

// Current returns the last applied view.
func (s *ServiceImpl) Current() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Search records the query, runs the search pipeline and resolves weather
// for the result. A search superseded before it completes does not touch
// the view.
func (s *ServiceImpl) Search(ctx context.Context, text string) View {
	ctx, span := otel.Tracer("DiscoverService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("query", text),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Search"), slog.String("query", text))

	text = strings.TrimSpace(text)
	if text == "" {
		return s.Current()
	}

	ctx, tok := s.tracker.Begin(ctx)
	defer s.tracker.End(tok)

	if err := s.deps.Recents.Add(ctx, text); err != nil {
		l.WarnContext(ctx, "Failed to record recent search", slog.Any("error", err))
	}

	res := s.deps.Search.Search(ctx, text)
	view := s.resultView(text, res.Locations)
	view.Fallback = res.Fallback
	view.City, view.Weather = s.weatherForResult(ctx, res)

	span.SetAttributes(attribute.Int("results", len(view.Locations)))
	return s.apply(ctx, tok, view)
}

// SelectCity shows a featured or quick-pick city. When the live search can
// only offer fixtures, the fixtures located in that city are shown instead.
func (s *ServiceImpl) SelectCity(ctx context.Context, name string) View {
	ctx, span := otel.Tracer("DiscoverService").Start(ctx, "SelectCity", trace.WithAttributes(
		attribute.String("city", name),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SelectCity"), slog.String("city", name))

	name = strings.TrimSpace(name)
	if name == "" {
		return s.Current()
	}

	ctx, tok := s.tracker.Begin(ctx)
	defer s.tracker.End(tok)

	res := s.deps.Search.Search(ctx, name)
	locs := res.Locations
	if res.Fallback {
		byCity, err := s.deps.Cities.LocationsByCity(ctx, name)
		if err != nil {
			l.WarnContext(ctx, "Failed to get city locations", slog.Any("error", err))
		} else {
			locs = byCity
		}
	}

	view := s.resultView(name, locs)
	view.Fallback = res.Fallback
	view.City = name
	view.Weather = s.deps.Weather.ResolveByCity(ctx, name)
	return s.apply(ctx, tok, view)
}

// Locate reverse geocodes the device position and searches the locality.
func (s *ServiceImpl) Locate(ctx context.Context, lat, lon float64) View {
	ctx, span := otel.Tracer("DiscoverService").Start(ctx, "Locate", trace.WithAttributes(
		attribute.Float64("latitude", lat),
		attribute.Float64("longitude", lon),
	))
	defer span.End()

	name := s.deps.Geocoder.Reverse(ctx, lat, lon)
	if name == "" {
		s.logger.WarnContext(ctx, "Could not resolve device position", slog.String("method", "Locate"))
		span.SetStatus(codes.Error, "Reverse geocoding failed")

		ctx, tok := s.tracker.Begin(ctx)
		defer s.tracker.End(tok)
		view := s.Current()
		view.Notice = "Could not determine your location"
		return s.apply(ctx, tok, view)
	}
	return s.Search(ctx, name)
}

// ShowFavorites switches the view to the favorite set.
func (s *ServiceImpl) ShowFavorites(ctx context.Context) (View, error) {
	ctx, span := otel.Tracer("DiscoverService").Start(ctx, "ShowFavorites")
	defer span.End()

	ctx, tok := s.tracker.Begin(ctx)
	defer s.tracker.End(tok)

	favs, err := s.deps.Favorites.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list favorites")
		return View{}, fmt.Errorf("failed to list favorites: %w", err)
	}

	view := s.favoritesView(favs)
	return s.apply(ctx, tok, view), nil
}

// ToggleFavorite flips the favorite state of a location currently shown (or
// already saved). It reports whether the location is a favorite afterwards.
func (s *ServiceImpl) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	ctx, span := otel.Tracer("DiscoverService").Start(ctx, "ToggleFavorite", trace.WithAttributes(
		attribute.String("location.id", id),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ToggleFavorite"), slog.String("id", id))

	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("location id is required: %w", types.ErrBadRequest)
	}

	loc, found := findLocation(s.Current().Locations, id)
	if !found {
		favs, err := s.deps.Favorites.List(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to list favorites: %w", err)
		}
		loc, found = findLocation(favs, id)
	}
	if !found {
		span.SetStatus(codes.Error, "Location not found")
		return false, fmt.Errorf("location %s: %w", id, types.ErrNotFound)
	}

	added, err := s.deps.Favorites.Toggle(ctx, loc)
	if err != nil {
		l.ErrorContext(ctx, "Failed to toggle favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to toggle favorite")
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	favs, err := s.deps.Favorites.List(ctx)
	if err != nil {
		l.WarnContext(ctx, "Failed to refresh favorites", slog.Any("error", err))
		return added, nil
	}
	s.mu.Lock()
	if s.current.Favorites {
		recent := s.current.Recent
		s.current = s.favoritesView(favs)
		s.current.Recent = recent
	} else {
		s.current.FavoriteIDs = favoriteIDs(favs)
	}
	s.mu.Unlock()

	l.InfoContext(ctx, "Favorite toggled", slog.Bool("favorite", added))
	return added, nil
}

func (s *ServiceImpl) RecentSearches(ctx context.Context) ([]string, error) {
	recent, err := s.deps.Recents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent searches: %w", err)
	}
	return recent, nil
}

// ClearRecentSearch removes exact matches of text from the recent list.
func (s *ServiceImpl) ClearRecentSearch(ctx context.Context, text string) error {
	if err := s.deps.Recents.Clear(ctx, text); err != nil {
		return fmt.Errorf("failed to clear recent search: %w", err)
	}
	recent, err := s.deps.Recents.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recent searches: %w", err)
	}
	s.mu.Lock()
	s.current.Recent = recent
	s.mu.Unlock()
	return nil
}

func (s *ServiceImpl) FeaturedCities(ctx context.Context) ([]types.City, error) {
	return s.deps.Cities.Featured(ctx)
}

func (s *ServiceImpl) QuickPicks() []string {
	return s.deps.Cities.QuickPicks()
}

func (s *ServiceImpl) WeatherForCity(ctx context.Context, name string) *types.Weather {
	return s.deps.Weather.ResolveByCity(ctx, name)
}

func (s *ServiceImpl) WeatherAt(ctx context.Context, lat, lon float64) *types.Weather {
	return s.deps.Weather.ResolveByCoordinates(ctx, lat, lon)
}

func (s *ServiceImpl) Tips(ctx context.Context, city string) []types.TravelTip {
	return s.deps.Tips.ForCity(ctx, city)
}

// weatherForResult picks the displayed city and its weather. Coordinates
// from geocoding are preferred; otherwise the first address segment of the
// first result names the city.
func (s *ServiceImpl) weatherForResult(ctx context.Context, res search.Result) (string, *types.Weather) {
	var cityName string
	switch {
	case res.Geocode != nil:
		cityName = firstSegment(res.Geocode.DisplayName)
	case len(res.Locations) > 0:
		cityName = firstSegment(res.Locations[0].Address)
	default:
		return "", nil
	}

	if res.Geocode != nil {
		if w := s.deps.Weather.ResolveByCoordinates(ctx, res.Geocode.Lat, res.Geocode.Lon); w != nil {
			return cityName, w
		}
	}
	if cityName == "" {
		return "", nil
	}
	return cityName, s.deps.Weather.ResolveByCity(ctx, cityName)
}

func (s *ServiceImpl) resultView(query string, locs []types.Location) View {
	view := emptyView()
	view.Query = query
	if locs != nil {
		view.Locations = locs
	}
	view.Groups = location.Group(view.Locations)
	if len(view.Locations) == 0 {
		view.Notice = NoResultsNotice(query)
	}
	return view
}

func (s *ServiceImpl) favoritesView(favs []types.Location) View {
	view := emptyView()
	view.Query = favoritesQuery
	view.Favorites = true
	if favs != nil {
		view.Locations = favs
	}
	view.Groups = location.Group(view.Locations)
	view.FavoriteIDs = favoriteIDs(view.Locations)
	if len(view.Locations) == 0 {
		view.Notice = "You have no favorites yet"
	}
	return view
}

// apply installs view if tok is still the newest search and returns the
// view now current.
func (s *ServiceImpl) apply(ctx context.Context, tok search.Token, view View) View {
	if !view.Favorites {
		if favs, err := s.deps.Favorites.List(ctx); err == nil {
			view.FavoriteIDs = favoriteIDs(favs)
		}
	}
	if recent, err := s.deps.Recents.List(ctx); err == nil {
		view.Recent = recent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tracker.IsCurrent(tok) {
		s.logger.DebugContext(ctx, "Discarding stale view", slog.String("query", view.Query))
		return s.current
	}
	s.current = view
	return view
}

func findLocation(locs []types.Location, id string) (types.Location, bool) {
	for _, l := range locs {
		if l.ID == id {
			return l, true
		}
	}
	return types.Location{}, false
}

func favoriteIDs(favs []types.Location) []string {
	ids := make([]string, len(favs))
	for i, f := range favs {
		ids[i] = f.ID
	}
	return ids
}

func firstSegment(s string) string {
	seg, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(seg)
}
