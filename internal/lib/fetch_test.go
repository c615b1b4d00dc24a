package lib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "loci-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"name":"Paris"}`))
	}))
	t.Cleanup(srv.Close)

	var out struct {
		Name string `json:"name"`
	}
	err := FetchJSON(context.Background(), srv.Client(), srv.URL, map[string]string{"User-Agent": "loci-test"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Paris", out.Name)
}

func TestFetchJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	t.Cleanup(srv.Close)

	var out map[string]any
	err := FetchJSON(context.Background(), srv.Client(), srv.URL, nil, &out)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Len(t, statusErr.Body, 1024)
}

func TestFetchJSON_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	var out map[string]any
	err := FetchJSON(context.Background(), srv.Client(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
