// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_recipes_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "city_recipes_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "city_recipes_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "city_recipes_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	// Upstream metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_recipes_upstream_requests_total",
			Help: "Upstream lookups by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "city_recipes_upstream_cache_hits_total",
			Help: "Insights lookups served from cache",
		},
	)

	// Recipe store metrics
	RecipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "city_recipes_recipes_created_total",
			Help: "Total number of recipes created",
		},
	)

	RecipesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "city_recipes_recipes_deleted_total",
			Help: "Total number of recipes deleted",
		},
	)

	StoredRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "city_recipes_stored_recipes",
			Help: "Recipes currently held in memory",
		},
	)

	CitiesWithRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "city_recipes_cities_with_recipes",
			Help: "Cities that currently have at least one recipe",
		},
	)
)
