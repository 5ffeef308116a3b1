package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftlog_http_requests_total",
			Help: "Number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// HTTPRequestDuration observes API latency by route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "swiftlog_http_request_duration_seconds",
			Help: "HTTP request latency",
		},
		[]string{"route"},
	)

	// StoreErrors counts row-store failures
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftlog_store_errors_total",
			Help: "Row-store errors by operation and table",
		},
		[]string{"operation", "table"},
	)

	// SyncFailures counts mutations rejected because the remote write failed
	SyncFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftlog_sync_failures_total",
			Help: "Mutations not applied locally because the remote write failed",
		},
		[]string{"operation"},
	)

	// AIExtractions counts extraction attempts by source and outcome
	AIExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftlog_ai_extractions_total",
			Help: "AI extraction attempts",
		},
		[]string{"source", "outcome"}, // source: text|file, outcome: ok|empty|error
	)

	// DeliveriesLoaded tracks the size of the in-memory delivery collection
	DeliveriesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swiftlog_deliveries_loaded",
			Help: "Deliveries held in the dashboard state",
		},
	)
)
