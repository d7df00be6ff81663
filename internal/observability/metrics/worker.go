package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics tracks the escalation worker: tickets recorded from
// the review queue and how long each hand-off takes to persist.
type WorkerMetrics struct {
	registry *prometheus.Registry

	ticketsTotal   *prometheus.CounterVec
	handleDuration *prometheus.HistogramVec
	inFlight       prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	ticketsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "escalations",
			Name:      "tickets_total",
			Help:      "Escalation tickets handled by outcome.",
		},
		[]string{"service", "status"},
	)
	handleDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "escalations",
			Name:      "handle_duration_seconds",
			Help:      "Escalation event handling duration by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "escalations",
			Name:      "in_flight",
			Help:      "Escalation events currently being handled.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(ticketsTotal, handleDuration, inFlight)
	return &WorkerMetrics{
		registry:       registry,
		ticketsTotal:   ticketsTotal,
		handleDuration: handleDuration,
		inFlight:       inFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartEvent() {
	m.inFlight.Inc()
}

func (m *WorkerMetrics) FinishEvent(service string, duration time.Duration, err error) {
	m.inFlight.Dec()

	status := "recorded"
	if err != nil {
		status = "error"
	}
	m.ticketsTotal.WithLabelValues(service, status).Inc()
	m.handleDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
