package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the realm directory.
type Metrics struct {
	RealmResolved        prometheus.Counter
	RealmNotFound        prometheus.Counter
	OriginRejected       prometheus.Counter
	ResolveRealmDuration prometheus.Histogram
}

// New creates a Metrics instance with all realm directory metrics registered.
func New() *Metrics {
	return &Metrics{
		RealmResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_realms_resolved_total",
			Help: "Total number of successful realm resolutions",
		}),
		RealmNotFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_realms_not_found_total",
			Help: "Total number of realm resolutions that returned not-found",
		}),
		OriginRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_origins_rejected_total",
			Help: "Total number of origin validation rejections",
		}),
		ResolveRealmDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "authgate_resolve_realm_duration_seconds",
			Help:    "Duration of ResolveRealm operations (authorization critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveResolveRealm records the duration of a ResolveRealm operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveResolveRealm(start time.Time) {
	m.ResolveRealmDuration.Observe(time.Since(start).Seconds())
}
