package runtime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	invocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlactions",
			Subsystem: "action",
			Name:      "invocations_total",
			Help:      "Total number of action invocations",
		},
		[]string{"action", "kind", "outcome"},
	)

	invocationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mlactions",
			Subsystem: "action",
			Name:      "duration_seconds",
			Help:      "Duration of action invocations in seconds",
			// Setup downloads models; stretch the upper buckets.
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60, 300, 900, 1800},
		},
		[]string{"action", "kind"},
	)

	actionsReady = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mlactions",
			Subsystem: "action",
			Name:      "ready",
			Help:      "1 when the action finished setup successfully",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(invocationsTotal, invocationDuration, actionsReady)
}

func observe(action, kind string, start time.Time, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	invocationsTotal.WithLabelValues(action, kind, outcome).Inc()
	invocationDuration.WithLabelValues(action, kind).Observe(time.Since(start).Seconds())
}
