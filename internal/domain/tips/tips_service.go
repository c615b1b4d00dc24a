package tips

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/loci-discovery/internal/llm"
	"github.com/FACorreiaa/loci-discovery/internal/types"
	"github.com/FACorreiaa/loci-discovery/pkg/observability"
)

const (
	MaxTips      = 3
	providerName = "gemini"
)

var generalTips = []types.TravelTip{
	{Text: "Book the headline attractions online a few days ahead to skip the ticket queues.", Category: types.TipCategoryGeneral, Emoji: "🎟️"},
	{Text: "Many restaurants serve a fixed lunch menu for a fraction of the dinner price.", Category: types.TipCategoryBudget, Emoji: "💶"},
	{Text: "Walk between nearby sights; the streets in between are often the best part of the trip.", Category: types.TipCategoryLocal, Emoji: "🚶"},
}

var cityTips = map[string][]types.TravelTip{
	"paris": {
		{Text: "Spring (April to June) is the best time to visit Paris: fewer crowds than summer, pleasant weather and gardens in bloom.", Category: types.TipCategorySeasonal, Emoji: "🌸"},
		{Text: "Don't miss the sunset view from Montmartre, it's absolutely magical.", Category: types.TipCategoryLocal, Emoji: "✨"},
	},
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ForCity(ctx context.Context, city string) []types.TravelTip
}

type ServiceImpl struct {
	logger   *slog.Logger
	aiClient llm.ChatClient
	cache    *cache.Cache
}

// NewService returns a tips service. aiClient may be nil, in which case only
// the static tips are served.
func NewService(aiClient llm.ChatClient, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
		cache:    cache.New(ttl, 2*ttl),
	}
}

// StaticTips returns up to MaxTips built-in tips, city specific ones first.
func StaticTips(city string) []types.TravelTip {
	key := strings.ToLower(strings.TrimSpace(city))
	out := make([]types.TravelTip, 0, MaxTips)
	out = append(out, cityTips[key]...)
	for _, t := range generalTips {
		if len(out) == MaxTips {
			break
		}
		out = append(out, t)
	}
	return out
}

// ForCity returns generated tips for city, or the static ones when no model
// is configured or generation fails.
func (s *ServiceImpl) ForCity(ctx context.Context, city string) []types.TravelTip {
	ctx, span := otel.Tracer("TipsService").Start(ctx, "ForCity", trace.WithAttributes(
		attribute.String("city", city),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ForCity"), slog.String("city", city))

	city = strings.TrimSpace(city)
	if city == "" || s.aiClient == nil {
		return StaticTips(city)
	}

	cacheKey := strings.ToLower(city)
	if cached, found := s.cache.Get(cacheKey); found {
		if tips, ok := cached.([]types.TravelTip); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return tips
		}
	}

	tips, err := s.generate(ctx, city)
	if err != nil {
		l.WarnContext(ctx, "Falling back to static tips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Tip generation failed")
		return StaticTips(city)
	}

	s.cache.Set(cacheKey, tips, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("tips.count", len(tips)))
	span.SetStatus(codes.Ok, "Tips generated")
	return tips
}

func (s *ServiceImpl) generate(ctx context.Context, city string) ([]types.TravelTip, error) {
	prompt := fmt.Sprintf(`You are a friendly travel guide. Give at most %d short, practical travel tips for %s.
Return ONLY JSON in this format:
{
  "tips": [
    {"text": "one or two sentences", "category": "general|seasonal|local|budget", "emoji": "a single emoji"}
  ]
}`, MaxTips, city)

	start := time.Now()
	response, err := s.aiClient.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 1024,
	})
	observability.ObserveProvider(providerName, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}

	txt := llm.ResponseText(response)
	if txt == "" {
		return nil, fmt.Errorf("empty LLM response: %w", types.ErrProviderUnavailable)
	}

	var parsed struct {
		Tips []types.TravelTip `json:"tips"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(txt)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse tips: %w", err)
	}

	tips := make([]types.TravelTip, 0, MaxTips)
	for _, t := range parsed.Tips {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		if !validCategory(t.Category) {
			t.Category = types.TipCategoryGeneral
		}
		if t.Emoji == "" {
			t.Emoji = "🌟"
		}
		tips = append(tips, t)
		if len(tips) == MaxTips {
			break
		}
	}
	if len(tips) == 0 {
		return nil, fmt.Errorf("no usable tips in response: %w", types.ErrProviderUnavailable)
	}
	return tips, nil
}

func validCategory(c types.TipCategory) bool {
	switch c {
	case types.TipCategoryGeneral, types.TipCategorySeasonal, types.TipCategoryLocal, types.TipCategoryBudget:
		return true
	}
	return false
}
