package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartdesk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartdesk_pipeline_stage_duration_seconds",
			Help:    "Duration of each render pipeline stage",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"stage"},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartdesk_fetch_errors_total",
			Help: "Failed upstream bar fetches",
		},
		[]string{"source"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartdesk_cache_lookups_total",
			Help: "Bar cache lookups by result",
		},
		[]string{"result"},
	)

	StrategyActive = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartdesk_strategy_active_total",
			Help: "Renders in which a strategy rule fired",
		},
		[]string{"strategy"},
	)
)

// ObserveStage records how long a pipeline stage took since start.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// CacheHit and CacheMiss count bar cache lookups.
func CacheHit()  { CacheLookups.WithLabelValues("hit").Inc() }
func CacheMiss() { CacheLookups.WithLabelValues("miss").Inc() }
