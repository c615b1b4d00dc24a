package places

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(t *testing.T, h http.HandlerFunc) *ServiceImpl {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewService(Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
	}, newTestLogger())
}

func feature(xid, name, kinds string) string {
	return fmt.Sprintf(`{"type":"Feature","geometry":{"type":"Point","coordinates":[2.29,48.85]},
		"properties":{"xid":%q,"name":%q,"kinds":%q,"rate":3,"dist":120.5}}`, xid, name, kinds)
}

func collection(features ...string) string {
	body := `{"type":"FeatureCollection","features":[`
	for i, f := range features {
		if i > 0 {
			body += ","
		}
		body += f
	}
	return body + `]}`
}

func TestFetchNearby_CategoryOrderAndLimits(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/places/radius", r.URL.Path)
		assert.Equal(t, "test-key", q.Get("apikey"))
		assert.Equal(t, "10000", q.Get("radius"))

		switch q.Get("kinds") {
		case "interesting_places":
			assert.Equal(t, "20", q.Get("limit"))
			// Delay the first category so completion order differs from result order.
			time.Sleep(20 * time.Millisecond)
			_, _ = w.Write([]byte(collection(
				feature("A1", "Louvre", "museums,cultural"),
				feature("A2", "Eiffel Tower", "architecture,interesting_places"),
			)))
		case "accomodations":
			assert.Equal(t, "15", q.Get("limit"))
			_, _ = w.Write([]byte(collection(feature("H1", "Hotel Lutetia", "accomodations,hotels"))))
		case "foods":
			assert.Equal(t, "15", q.Get("limit"))
			_, _ = w.Write([]byte(collection(feature("F1", "Le Procope", "foods,restaurants"))))
		default:
			t.Errorf("unexpected kinds %q", q.Get("kinds"))
		}
	})

	places := svc.FetchNearby(context.Background(), 48.85, 2.29, 10000)
	require.Len(t, places, 4)

	ids := make([]string, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"A1", "A2", "H1", "F1"}, ids)

	first := places[0]
	assert.Equal(t, "Louvre", first.Name)
	assert.Equal(t, "museums,cultural", first.Kinds)
	assert.InDelta(t, 48.85, first.Point.Lat, 1e-9)
	assert.InDelta(t, 2.29, first.Point.Lon, 1e-9)
	require.NotNil(t, first.Rate)
	assert.Equal(t, 3.0, *first.Rate)
	require.NotNil(t, first.Dist)
	assert.Equal(t, 120.5, *first.Dist)
}

func TestFetchNearby_PartialFailure(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("kinds") {
		case "accomodations":
			w.WriteHeader(http.StatusInternalServerError)
		case "foods":
			_, _ = w.Write([]byte(`not json`))
		default:
			_, _ = w.Write([]byte(collection(feature("A1", "Louvre", "museums"))))
		}
	})

	places := svc.FetchNearby(context.Background(), 48.85, 2.29, 10000)
	require.Len(t, places, 1)
	assert.Equal(t, "A1", places[0].ID)
}

func TestFetchNearby_AllFailIsEmpty(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	assert.Empty(t, svc.FetchNearby(context.Background(), 0, 0, 10000))
}

func TestFetchNearby_DropsUnnamed(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("kinds") != "interesting_places" {
			_, _ = w.Write([]byte(collection()))
			return
		}
		_, _ = w.Write([]byte(collection(
			feature("A1", "", "museums"),
			feature("A2", UnnamedPlace, "museums"),
			feature("A3", "Musée d'Orsay", "museums"),
		)))
	})

	places := svc.FetchNearby(context.Background(), 48.85, 2.29, 10000)
	require.Len(t, places, 1)
	assert.Equal(t, "A3", places[0].ID)
}

func TestFetchNearby_CustomCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "beaches", r.URL.Query().Get("kinds"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(collection(feature("B1", "Red Beach", "beaches,natural"))))
	}))
	defer srv.Close()

	svc := NewService(Config{
		BaseURL:    srv.URL,
		Categories: []Category{{Kind: "beaches", Limit: 5}},
		HTTPClient: srv.Client(),
	}, newTestLogger())

	places := svc.FetchNearby(context.Background(), 36.35, 25.39, 10000)
	require.Len(t, places, 1)
	assert.Equal(t, "B1", places[0].ID)
}

func TestEnrich(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/xid/W123", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`{
			"xid":"W123","name":"Eiffel Tower","rate":"3h","kinds":"architecture,towers",
			"address":{"road":"Avenue Anatole France","city":"Paris","country":"France"},
			"image":"https://commons.example/eiffel.jpg",
			"preview":{"source":"https://preview.example/eiffel.jpg"},
			"info":{"descr":"Iron lattice tower"},
			"wikipedia_extracts":{"text":"The Eiffel Tower is a wrought-iron lattice tower."},
			"point":{"lon":2.2945,"lat":48.8584}
		}`))
	})

	detail := svc.Enrich(context.Background(), "W123")
	require.NotNil(t, detail)
	assert.Equal(t, "W123", detail.ID)
	assert.Equal(t, "Eiffel Tower", detail.Name)
	assert.Equal(t, "3h", detail.Rate)
	assert.Equal(t, "https://preview.example/eiffel.jpg", detail.PreviewSource)
	assert.Equal(t, "https://commons.example/eiffel.jpg", detail.Image)
	assert.Equal(t, "Iron lattice tower", detail.InfoDescription)
	assert.Equal(t, "The Eiffel Tower is a wrought-iron lattice tower.", detail.WikipediaExtract)
	require.NotNil(t, detail.Address)
	assert.Equal(t, "Paris", detail.Address.City)
	require.NotNil(t, detail.Point)
	assert.InDelta(t, 48.8584, detail.Point.Lat, 1e-9)
}

func TestEnrich_NumericRateAndPartialPayload(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"xid":"N1","name":"Café","rate":7}`))
	})

	detail := svc.Enrich(context.Background(), "N1")
	require.NotNil(t, detail)
	assert.Equal(t, "7", detail.Rate)
	assert.Nil(t, detail.Address)
	assert.Empty(t, detail.PreviewSource)
	assert.Empty(t, detail.WikipediaExtract)
}

func TestEnrich_FailuresAreNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.handler)
			assert.Nil(t, svc.Enrich(context.Background(), "X"))
		})
	}

	t.Run("network", func(t *testing.T) {
		svc := NewService(Config{BaseURL: "http://127.0.0.1:1"}, newTestLogger())
		assert.Nil(t, svc.Enrich(context.Background(), "X"))
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewService(Config{BaseURL: "http://127.0.0.1:1"}, newTestLogger())
		assert.Nil(t, svc.Enrich(context.Background(), ""))
	})
}
