// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterInsights      *prometheus.CounterVec
	CounterCache         *prometheus.CounterVec
	CounterOutliers      *prometheus.CounterVec
	CounterNotConfigured prometheus.Counter

	// histograms
	HistRequestDuration *prometheus.HistogramVec
	HistComputeDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("cutcoach", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("cutcoach", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		CounterInsights: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "insights_total",
			Help:      "Insight computations by phase and safety level",
		}, []string{"phase", "safety"}),
		CounterCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "insights_cache_total",
			Help:      "Insights cache lookups by result",
		}, []string{"result"}),
		CounterOutliers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "excluded_samples_total",
			Help:      "Log pairs excluded from rate estimation, by reason",
		}, []string{"kind"}),
		CounterNotConfigured: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "insights_not_configured_total",
			Help:      "Insight requests refused because the profile is incomplete",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HistComputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "insights_compute_seconds",
			Help:      "Time spent in the projection engine",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
}
