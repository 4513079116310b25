// Package metrics exposes the service's Prometheus instrumentation
// on a dedicated port, separate from the API listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ListingsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_listings_created_total",
		Help: "Listings created, by family.",
	}, []string{"family"})

	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_reservations_total",
		Help: "Reservation attempts, by family and outcome.",
	}, []string{"family", "outcome"})

	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Search requests, by family.",
	}, []string{"family"})

	APIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_api_errors_total",
		Help: "API errors, by HTTP status code.",
	}, []string{"code"})

	APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_api_request_duration_seconds",
		Help:    "API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer serves /metrics on its own listener. Blocks, so
// run it in a goroutine.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}
