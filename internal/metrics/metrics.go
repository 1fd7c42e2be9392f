package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "property_desk"

// Metrics holds the service's prometheus collectors
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	TenantsAdded       prometheus.Counter
	TenantsDeleted     prometheus.Counter
	RequestsSubmitted  prometheus.Counter
	RequestsCompleted  prometheus.Counter
	PhotoStoreFailures prometheus.Counter
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		TenantsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenants",
			Name:      "added_total",
			Help:      "Total number of tenants added",
		}),
		TenantsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenants",
			Name:      "deleted_total",
			Help:      "Total number of tenants deleted",
		}),
		RequestsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "requests_submitted_total",
			Help:      "Total number of maintenance requests submitted",
		}),
		RequestsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "requests_completed_total",
			Help:      "Total number of maintenance requests completed",
		}),
		PhotoStoreFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "photo_store_failures_total",
			Help:      "Total number of photos that could not be stored",
		}),
	}
}
