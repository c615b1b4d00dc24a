package recents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-discovery/pkg/storage"
)

const (
	// StorageKey is the device storage key holding the recent-search list.
	StorageKey = "recentSearches"
	// MaxRecent is the list capacity.
	MaxRecent = 5
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the most-recent-first list of search queries.
type Repository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, query string) error
	Clear(ctx context.Context, query string) error
	ClearAll(ctx context.Context) error
}

type RepositoryImpl struct {
	mu     sync.Mutex
	store  storage.Store
	logger *slog.Logger
}

func NewRepository(store storage.Store, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		store:  store,
		logger: logger,
	}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Add moves query to the front, dropping the oldest entry past MaxRecent.
// Blank queries are ignored.
func (r *RepositoryImpl) Add(ctx context.Context, query string) error {
	ctx, span := otel.Tracer("RecentsRepository").Start(ctx, "Add", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	recent, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	recent = slices.DeleteFunc(recent, func(q string) bool { return q == query })
	recent = slices.Insert(recent, 0, query)
	if len(recent) > MaxRecent {
		recent = recent[:MaxRecent]
	}
	if err := r.save(ctx, recent); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add recent search")
		return err
	}
	return nil
}

// Clear removes exact matches of query only.
func (r *RepositoryImpl) Clear(ctx context.Context, query string) error {
	ctx, span := otel.Tracer("RecentsRepository").Start(ctx, "Clear", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	recent, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	kept := slices.DeleteFunc(slices.Clone(recent), func(q string) bool { return q == query })
	if len(kept) == len(recent) {
		return nil
	}
	if err := r.save(ctx, kept); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to clear recent search")
		return err
	}
	return nil
}

func (r *RepositoryImpl) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear recent searches: %w", err)
	}
	r.logger.InfoContext(ctx, "Recent searches cleared", slog.String("method", "ClearAll"))
	return nil
}

func (r *RepositoryImpl) load(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recent searches: %w", err)
	}

	var recent []string
	if err := json.Unmarshal(raw, &recent); err != nil {
		r.logger.WarnContext(ctx, "Stored recent searches are corrupt, starting empty", slog.Any("error", err))
		return []string{}, nil
	}
	if recent == nil {
		recent = []string{}
	}
	return recent, nil
}

func (r *RepositoryImpl) save(ctx context.Context, recent []string) error {
	raw, err := json.Marshal(recent)
	if err != nil {
		return fmt.Errorf("failed to encode recent searches: %w", err)
	}
	if err := r.store.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("failed to write recent searches: %w", err)
	}
	return nil
}
