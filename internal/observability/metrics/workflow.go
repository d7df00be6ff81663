package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hrassist"

// WorkflowMetrics tracks answer runs by terminal status, plus the
// infrastructure faults that never reach a terminal status.
type WorkflowMetrics struct {
	runsTotal     *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	runErrors     prometheus.Counter
	retrievalSize prometheus.Histogram
}

func NewWorkflowMetrics(reg prometheus.Registerer, service string) *WorkflowMetrics {
	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "runs_total",
			Help:      "Completed workflow runs by terminal status.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "run_duration_seconds",
			Help:      "End-to-end workflow run duration by terminal status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"status"},
	)
	runErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "run_errors_total",
			Help:      "Runs aborted by infrastructure faults before reaching a terminal status.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	retrievalSize := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "retrieval_chunks",
			Help:      "Fused context chunks retained per retrieval.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	reg.MustRegister(runsTotal, runDuration, runErrors, retrievalSize)
	return &WorkflowMetrics{
		runsTotal:     runsTotal,
		runDuration:   runDuration,
		runErrors:     runErrors,
		retrievalSize: retrievalSize,
	}
}

func (m *WorkflowMetrics) ObserveRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *WorkflowMetrics) ObserveRetrieval(chunks int) {
	if m == nil {
		return
	}
	m.retrievalSize.Observe(float64(chunks))
}

func (m *WorkflowMetrics) ObserveRunError() {
	if m == nil {
		return
	}
	m.runErrors.Inc()
}
