// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReportsTotal counts designation reports by outcome ("ok" or "error").
	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_reports_total",
			Help: "Designation reports generated, by result",
		},
		[]string{"result"},
	)

	// ReleaseChecksTotal counts release schedule scans by resulting status.
	ReleaseChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_release_checks_total",
			Help: "Warning release schedule scans, by status",
		},
		[]string{"status"},
	)

	// FetchDuration observes series provider latency.
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_fetch_duration_seconds",
			Help:    "Duration of price series fetches, by provider and result",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "result"},
	)

	// HTTPRequests counts API requests by route template and status code.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_http_requests_total",
			Help: "HTTP API requests, by route and status code",
		},
		[]string{"route", "code"},
	)
)

func init() {
	prometheus.MustRegister(ReportsTotal, ReleaseChecksTotal, FetchDuration, HTTPRequests)
}

// ObserveFetch records one provider call that started at start.
func ObserveFetch(provider string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	FetchDuration.WithLabelValues(provider, result).Observe(time.Since(start).Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
