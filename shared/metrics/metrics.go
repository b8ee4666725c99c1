// Package metrics holds the Prometheus collectors shared by the HTTP layer and
// the event notifier. Collectors are registered once on the default registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

var (
	requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userdesk",
		Subsystem: "user_service",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "userdesk",
		Subsystem: "user_service",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userdesk",
		Subsystem: "user_service",
		Name:      "user_events_published_total",
		Help:      "User notification publish attempts by outcome",
	}, []string{"type", "outcome"})
)

func init() {
	prometheus.MustRegister(requestTotal, requestDuration, eventsPublished)
}

func RecordRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	requestTotal.With(labels).Inc()
	requestDuration.With(labels).Observe(duration.Seconds())
}

func RecordEventPublished(eventType, outcome string) {
	eventsPublished.With(prometheus.Labels{"type": eventType, "outcome": outcome}).Inc()
}
