package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OracleMetrics tracks calls to the external text-judgment service and
// the embedding endpoint, by capability.
type OracleMetrics struct {
	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

func NewOracleMetrics(reg prometheus.Registerer, service string) *OracleMetrics {
	callsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "calls_total",
			Help:      "Oracle and embedding calls by capability and outcome.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"capability", "status"},
	)
	callDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "call_duration_seconds",
			Help:      "Oracle and embedding call duration by capability.",
			Buckets:   prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"capability"},
	)

	reg.MustRegister(callsTotal, callDuration)
	return &OracleMetrics{
		callsTotal:   callsTotal,
		callDuration: callDuration,
	}
}

// ObserveCall is safe on a nil receiver so adapters can run unmetered
// in tests.
func (m *OracleMetrics) ObserveCall(capability string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.callsTotal.WithLabelValues(capability, status).Inc()
	m.callDuration.WithLabelValues(capability).Observe(duration.Seconds())
}
