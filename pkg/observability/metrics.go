package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loci"

var (
	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Outbound provider requests by provider and result.",
	}, []string{"provider", "result"})

	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Outbound provider request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_failures_total",
		Help:      "Provider failures swallowed by the search pipeline.",
	}, []string{"provider"})

	searchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_outcomes_total",
		Help:      "Search calls by pipeline outcome.",
	}, []string{"outcome"})

	searchDroppedPlaces = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_dropped_places_total",
		Help:      "Places dropped because their detail lookup failed or was incomplete.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Inbound HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Inbound HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveProvider records one outbound provider call.
func ObserveProvider(provider string, start time.Time, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
		providerFailures.WithLabelValues(provider).Inc()
	}
	providerRequests.WithLabelValues(provider, result).Inc()
	providerDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// ObserveSearch records the outcome of one orchestrated search.
func ObserveSearch(outcome string, droppedPlaces int) {
	searchOutcomes.WithLabelValues(outcome).Inc()
	if droppedPlaces > 0 {
		searchDroppedPlaces.Add(float64(droppedPlaces))
	}
}

// ObserveHTTP records one inbound HTTP request.
func ObserveHTTP(method, route string, code string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, code).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
