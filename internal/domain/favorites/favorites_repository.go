package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-discovery/internal/types"
	"github.com/FACorreiaa/loci-discovery/pkg/storage"
)

// StorageKey is the device storage key holding the favorite set.
const StorageKey = "favoriteLocations"

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the favorite set: full Location snapshots keyed by id, in
// insertion order.
type Repository interface {
	List(ctx context.Context) ([]types.Location, error)
	Add(ctx context.Context, loc types.Location) error
	Remove(ctx context.Context, id string) error
	IsFavorite(ctx context.Context, id string) (bool, error)
	Toggle(ctx context.Context, loc types.Location) (bool, error)
}

// RepositoryImpl serializes read-modify-write cycles within this process.
// Another process sharing the same store can still overwrite its writes.
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

func (r *RepositoryImpl) List(ctx context.Context) ([]types.Location, error) {
	ctx, span := otel.Tracer("FavoritesRepository").Start(ctx, "List")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load favorites")
		return nil, err
	}
	span.SetAttributes(attribute.Int("favorites.count", len(favs)))
	return favs, nil
}

// Add appends loc unless its id is already present.
func (r *RepositoryImpl) Add(ctx context.Context, loc types.Location) error {
	ctx, span := otel.Tracer("FavoritesRepository").Start(ctx, "Add", trace.WithAttributes(
		attribute.String("location.id", loc.ID),
	))
	defer span.End()

	if loc.ID == "" {
		return fmt.Errorf("favorite without id: %w", types.ErrBadRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if indexOf(favs, loc.ID) >= 0 {
		return nil
	}
	if err := r.save(ctx, append(favs, loc)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add favorite")
		return err
	}
	r.logger.InfoContext(ctx, "Favorite added", slog.String("method", "Add"), slog.String("id", loc.ID))
	return nil
}

func (r *RepositoryImpl) Remove(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("FavoritesRepository").Start(ctx, "Remove", trace.WithAttributes(
		attribute.String("location.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	i := indexOf(favs, id)
	if i < 0 {
		return nil
	}
	if err := r.save(ctx, slices.Delete(favs, i, i+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to remove favorite")
		return err
	}
	r.logger.InfoContext(ctx, "Favorite removed", slog.String("method", "Remove"), slog.String("id", id))
	return nil
}

func (r *RepositoryImpl) IsFavorite(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(favs, id) >= 0, nil
}

// Toggle adds loc when absent and removes it when present. It reports
// whether loc is a favorite afterwards.
func (r *RepositoryImpl) Toggle(ctx context.Context, loc types.Location) (bool, error) {
	ctx, span := otel.Tracer("FavoritesRepository").Start(ctx, "Toggle", trace.WithAttributes(
		attribute.String("location.id", loc.ID),
	))
	defer span.End()

	if loc.ID == "" {
		return false, fmt.Errorf("favorite without id: %w", types.ErrBadRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	added := true
	if i := indexOf(favs, loc.ID); i >= 0 {
		favs = slices.Delete(favs, i, i+1)
		added = false
	} else {
		favs = append(favs, loc)
	}
	if err := r.save(ctx, favs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to toggle favorite")
		return false, err
	}
	span.SetAttributes(attribute.Bool("favorite", added))
	return added, nil
}

func (r *RepositoryImpl) load(ctx context.Context) ([]types.Location, error) {
	raw, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []types.Location{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	var favs []types.Location
	if err := json.Unmarshal(raw, &favs); err != nil {
		r.logger.WarnContext(ctx, "Stored favorites are corrupt, starting empty", slog.Any("error", err))
		return []types.Location{}, nil
	}
	if favs == nil {
		favs = []types.Location{}
	}
	return favs, nil
}

func (r *RepositoryImpl) save(ctx context.Context, favs []types.Location) error {
	raw, err := json.Marshal(favs)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := r.store.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	return nil
}

func indexOf(favs []types.Location, id string) int {
	return slices.IndexFunc(favs, func(l types.Location) bool { return l.ID == id })
}
