package casgate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the gate. A nil *Metrics records
// nothing.
type Metrics struct {
	Validations        *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with registerer. A nil
// registerer leaves them unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casgate_validations_total",
			Help: "Total number of gated requests by validation outcome",
		}, []string{"outcome"}),
		ValidationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "casgate_validation_duration_seconds",
			Help:    "Duration of the round trip to the CAS validation endpoint",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) incrementOutcome(c category) {
	if m == nil {
		return
	}
	m.Validations.WithLabelValues(c.String()).Inc()
}

func (m *Metrics) observeValidation(d time.Duration) {
	if m == nil {
		return
	}
	m.ValidationDuration.Observe(d.Seconds())
}
