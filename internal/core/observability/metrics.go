// Package observability exposes the service's Prometheus instrumentation.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	viewCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_cache_results_total",
			Help: "View cache resolves by outcome.",
		},
		[]string{"outcome"},
	)

	mapBuildDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "map_build_duration_seconds",
			Help:    "Time spent building map artifacts.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"mode"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Session controllers currently held in the registry.",
		},
	)

	datasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Records in the loaded dataset, by load disposition.",
		},
		[]string{"state"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func IncViewCacheHit()   { viewCacheResults.WithLabelValues("hit").Inc() }
func IncViewCacheMiss()  { viewCacheResults.WithLabelValues("miss").Inc() }
func IncViewCacheEmpty() { viewCacheResults.WithLabelValues("empty").Inc() }

func ObserveMapBuild(mode string, durationSeconds float64) {
	mapBuildDurationSeconds.WithLabelValues(mode).Observe(durationSeconds)
}

func IncSessionsActive() { sessionsActive.Inc() }
func DecSessionsActive() { sessionsActive.Dec() }

func SetDatasetRecords(loaded, dropped int) {
	datasetRecords.WithLabelValues("loaded").Set(float64(loaded))
	datasetRecords.WithLabelValues("dropped").Set(float64(dropped))
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
