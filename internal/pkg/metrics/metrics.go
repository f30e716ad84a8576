// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// DeliveryTransitionsTotal counts committed lifecycle changes by target status.
	DeliveryTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_status_transitions_total",
			Help: "Committed delivery status changes.",
		},
		[]string{"status"},
	)

	NotificationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_notification_failures_total",
			Help: "Notifications that could not be handed to the gateway.",
		},
	)

	TrackingCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_cache_lookups_total",
			Help: "Public tracking cache lookups by result.",
		},
		[]string{"result"},
	)
)
