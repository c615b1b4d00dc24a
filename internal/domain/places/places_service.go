package places

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/loci-discovery/internal/lib"
	"github.com/FACorreiaa/loci-discovery/internal/types"
	"github.com/FACorreiaa/loci-discovery/pkg/observability"
)

const (
	providerName = "opentripmap"

	// UnnamedPlace is the sentinel name the provider uses for anonymous features.
	UnnamedPlace = "Unnamed Place"
)

// Category is one provider kind filter with its result cap.
type Category struct {
	Kind  string
	Limit int
}

// DefaultCategories is the fixed fan-out of a nearby search, in result order.
var DefaultCategories = []Category{
	{Kind: "interesting_places", Limit: 20},
	{Kind: "accomodations", Limit: 15},
	{Kind: "foods", Limit: 15},
}

var _ Service = (*ServiceImpl)(nil)

// Service fetches raw points of interest and their details.
type Service interface {
	FetchNearby(ctx context.Context, lat, lon float64, radiusMeters int) []types.RawPlace
	Enrich(ctx context.Context, xid string) *types.PlaceDetail
}

type Config struct {
	BaseURL    string
	APIKey     string
	Categories []Category
	HTTPClient *http.Client
}

type ServiceImpl struct {
	logger     *slog.Logger
	baseURL    string
	apiKey     string
	categories []Category
	httpClient *http.Client
}

func NewService(cfg Config, logger *slog.Logger) *ServiceImpl {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	categories := cfg.Categories
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &ServiceImpl{
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		categories: categories,
		httpClient: httpClient,
	}
}

type featureCollection struct {
	Features []struct {
		Properties struct {
			XID   string   `json:"xid"`
			Name  string   `json:"name"`
			Kinds string   `json:"kinds"`
			Rate  *float64 `json:"rate"`
			Dist  *float64 `json:"dist"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// FetchNearby queries every category concurrently and concatenates the
// results in category order. A failed category contributes nothing.
func (s *ServiceImpl) FetchNearby(ctx context.Context, lat, lon float64, radiusMeters int) []types.RawPlace {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "FetchNearby", trace.WithAttributes(
		attribute.Float64("latitude", lat),
		attribute.Float64("longitude", lon),
		attribute.Int("radius_m", radiusMeters),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "FetchNearby"))

	perCategory := make([][]types.RawPlace, len(s.categories))
	var g errgroup.Group
	for i, cat := range s.categories {
		g.Go(func() error {
			places, err := s.fetchCategory(ctx, lat, lon, radiusMeters, cat)
			if err != nil {
				l.WarnContext(ctx, "Nearby category request failed",
					slog.String("kind", cat.Kind), slog.Any("error", err))
				span.AddEvent("category failed", trace.WithAttributes(attribute.String("kind", cat.Kind)))
				return nil
			}
			perCategory[i] = places
			return nil
		})
	}
	_ = g.Wait()

	var all []types.RawPlace
	for _, places := range perCategory {
		all = append(all, places...)
	}

	l.InfoContext(ctx, "Fetched nearby places", slog.Int("count", len(all)))
	span.SetAttributes(attribute.Int("places.count", len(all)))
	span.SetStatus(codes.Ok, "Nearby places fetched")
	return all
}

func (s *ServiceImpl) fetchCategory(ctx context.Context, lat, lon float64, radius int, cat Category) ([]types.RawPlace, error) {
	params := url.Values{}
	params.Set("radius", strconv.Itoa(radius))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("kinds", cat.Kind)
	params.Set("limit", strconv.Itoa(cat.Limit))
	params.Set("apikey", s.apiKey)

	var fc featureCollection
	if err := s.fetch(ctx, "/places/radius?"+params.Encode(), &fc); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", cat.Kind, err)
	}

	places := make([]types.RawPlace, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := f.Properties
		if p.Name == "" || p.Name == UnnamedPlace {
			continue
		}
		raw := types.RawPlace{
			ID:    p.XID,
			Name:  p.Name,
			Kinds: p.Kinds,
			Rate:  p.Rate,
			Dist:  p.Dist,
		}
		if len(f.Geometry.Coordinates) >= 2 {
			raw.Point = types.Coordinates{Lon: f.Geometry.Coordinates[0], Lat: f.Geometry.Coordinates[1]}
		}
		places = append(places, raw)
	}
	return places, nil
}

type placeDetailResponse struct {
	XID     string              `json:"xid"`
	Name    string              `json:"name"`
	Address *types.PlaceAddress `json:"address"`
	Rate    rateValue           `json:"rate"`
	Kinds   string              `json:"kinds"`
	Image   string              `json:"image"`
	Preview *struct {
		Source string `json:"source"`
	} `json:"preview"`
	Info *struct {
		Descr string `json:"descr"`
	} `json:"info"`
	WikipediaExtracts *struct {
		Text string `json:"text"`
	} `json:"wikipedia_extracts"`
	Point *types.Coordinates `json:"point"`
}

// Enrich fetches the detail payload for one place, or nil on any failure.
func (s *ServiceImpl) Enrich(ctx context.Context, xid string) *types.PlaceDetail {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Enrich", trace.WithAttributes(
		attribute.String("place.xid", xid),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Enrich"), slog.String("xid", xid))

	if xid == "" {
		span.SetStatus(codes.Error, "empty xid")
		return nil
	}

	var resp placeDetailResponse
	path := "/places/xid/" + url.PathEscape(xid) + "?apikey=" + url.QueryEscape(s.apiKey)
	if err := s.fetch(ctx, path, &resp); err != nil {
		l.WarnContext(ctx, "Place detail request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place detail request failed")
		return nil
	}

	detail := &types.PlaceDetail{
		ID:      resp.XID,
		Name:    resp.Name,
		Address: resp.Address,
		Rate:    string(resp.Rate),
		Kinds:   resp.Kinds,
		Image:   resp.Image,
		Point:   resp.Point,
	}
	if resp.Preview != nil {
		detail.PreviewSource = resp.Preview.Source
	}
	if resp.Info != nil {
		detail.InfoDescription = resp.Info.Descr
	}
	if resp.WikipediaExtracts != nil {
		detail.WikipediaExtract = resp.WikipediaExtracts.Text
	}

	span.SetStatus(codes.Ok, "Place detail fetched")
	return detail
}

func (s *ServiceImpl) fetch(ctx context.Context, path string, out any) error {
	start := time.Now()
	err := lib.FetchJSON(ctx, s.httpClient, s.baseURL+path, nil, out)
	observability.ObserveProvider(providerName, start, err == nil)
	return err
}
