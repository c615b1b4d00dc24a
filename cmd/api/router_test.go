package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-discovery/pkg/config"
)

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()
	cfg, err := config.Load("testdata/missing.env")
	require.NoError(t, err)
	cfg.Storage.Path = ""
	cfg.Providers.OpenTripMapAPIKey = ""
	cfg.Providers.OpenWeatherAPIKey = ""
	cfg.Providers.GeminiAPIKey = ""
	cfg.Providers.NominatimURL = "http://127.0.0.1:1"

	deps, err := InitDependencies(t.Context(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(deps.Cleanup)
	return deps
}

func TestRouter_UtilityRoutes(t *testing.T) {
	server := httptest.NewServer(SetupRouter(newTestDeps(t)))
	defer server.Close()

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"), path)
	}
}

func TestRouter_CitiesUseSampleData(t *testing.T) {
	server := httptest.NewServer(SetupRouter(newTestDeps(t)))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/cities")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Santorini")
}

func TestRouter_CORS(t *testing.T) {
	server := httptest.NewServer(SetupRouter(newTestDeps(t)))
	defer server.Close()

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/search", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
