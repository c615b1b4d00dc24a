package discover

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/FACorreiaa/loci-discovery/internal/types"
)

// Handler exposes the discover intents as JSON over HTTP.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// NewHandler wires a Discover handler.
func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// Register mounts the discover routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("GET /api/cities", h.Cities)
	mux.HandleFunc("POST /api/cities/{name}/select", h.SelectCity)
	mux.HandleFunc("GET /api/locate", h.Locate)
	mux.HandleFunc("GET /api/weather", h.Weather)
	mux.HandleFunc("GET /api/favorites", h.Favorites)
	mux.HandleFunc("POST /api/favorites/{id}/toggle", h.ToggleFavorite)
	mux.HandleFunc("GET /api/recents", h.Recents)
	mux.HandleFunc("DELETE /api/recents/{query}", h.ClearRecent)
	mux.HandleFunc("GET /api/tips", h.Tips)
	mux.HandleFunc("GET /api/view", h.View)
}

// Search runs a free-text search and returns the resulting view.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		h.writeError(w, r, fmt.Errorf("q is required: %w", types.ErrBadRequest))
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.svc.Search(r.Context(), q))
}

type citiesResponse struct {
	Featured   []types.City `json:"featured"`
	QuickPicks []string     `json:"quickPicks"`
}

// Cities returns the featured destinations and quick-pick chips.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	featured, err := h.svc.FeaturedCities(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, citiesResponse{Featured: featured, QuickPicks: h.svc.QuickPicks()})
}

func (h *Handler) SelectCity(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		h.writeError(w, r, fmt.Errorf("city name is required: %w", types.ErrBadRequest))
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.svc.SelectCity(r.Context(), name))
}

// Locate searches around a device position.
func (h *Handler) Locate(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordinates(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.svc.Locate(r.Context(), lat, lon))
}

type weatherResponse struct {
	Weather *types.Weather `json:"weather"`
}

// Weather resolves weather for ?city= or ?lat=&lon=. Unavailable weather is
// a null body field, not an error.
func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	if c := strings.TrimSpace(r.URL.Query().Get("city")); c != "" {
		h.writeJSON(w, r, http.StatusOK, weatherResponse{Weather: h.svc.WeatherForCity(r.Context(), c)})
		return
	}
	lat, lon, err := coordinates(r)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("city or lat/lon is required: %w", types.ErrBadRequest))
		return
	}
	h.writeJSON(w, r, http.StatusOK, weatherResponse{Weather: h.svc.WeatherAt(r.Context(), lat, lon)})
}

func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ShowFavorites(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, view)
}

type toggleResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	added, err := h.svc.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, toggleResponse{ID: id, Favorite: added})
}

type recentsResponse struct {
	Recent []string `json:"recent"`
}

func (h *Handler) Recents(w http.ResponseWriter, r *http.Request) {
	recent, err := h.svc.RecentSearches(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, recentsResponse{Recent: recent})
}

func (h *Handler) ClearRecent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearRecentSearch(r.Context(), r.PathValue("query")); err != nil {
		h.writeError(w, r, err)
		return
	}
	recent, err := h.svc.RecentSearches(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, recentsResponse{Recent: recent})
}

type tipsResponse struct {
	Tips []types.TravelTip `json:"tips"`
}

func (h *Handler) Tips(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, tipsResponse{Tips: h.svc.Tips(r.Context(), r.URL.Query().Get("city"))})
}

// View returns the current view without changing it.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.svc.Current())
}

func coordinates(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid lat: %w", types.ErrBadRequest)
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("invalid lon: %w", types.ErrBadRequest)
	}
	return lat, lon, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	h.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write response", slog.Any("error", err))
	}
}
