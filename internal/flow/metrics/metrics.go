package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization flow orchestrator.
type Metrics struct {
	CodesIssued         prometheus.Counter
	RequiredActionGated prometheus.Counter
	ConsentRequired     prometheus.Counter
	SessionsReconciled  prometheus.Counter
	ProcessDuration     prometheus.Histogram
}

// New creates a Metrics instance with all flow metrics registered.
func New() *Metrics {
	return &Metrics{
		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_access_codes_issued_total",
			Help: "Total number of access codes issued",
		}),
		RequiredActionGated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_required_action_gated_total",
			Help: "Total number of authorizations held behind a required action",
		}),
		ConsentRequired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_consent_required_total",
			Help: "Total number of authorizations routed to the consent form",
		}),
		SessionsReconciled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_sessions_reconciled_total",
			Help: "Total number of superseded user sessions removed on re-login",
		}),
		ProcessDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "authgate_process_access_code_duration_seconds",
			Help:    "Duration of ProcessAccessCode (authorization critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveProcess records the duration of a ProcessAccessCode call.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveProcess(start time.Time) {
	m.ProcessDuration.Observe(time.Since(start).Seconds())
}
