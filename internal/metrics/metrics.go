package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// Metrics holds the terminal's instrumentation on its own registry so no
// process-wide collector state leaks between instances (or tests).
type Metrics struct {
	registry *prometheus.Registry

	scansTotal         *prometheus.CounterVec
	remoteCallDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_scans_total",
				Help: "Non-suppressed scans by outcome",
			},
			[]string{"outcome"},
		),
		remoteCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scanner_remote_call_duration_seconds",
				Help:    "Attendance service call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}

	m.registry.MustRegister(m.scansTotal, m.remoteCallDuration)
	return m
}

func (m *Metrics) CountScan(kind types.OutcomeKind) {
	m.scansTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ObserveRemoteCall(op string, d time.Duration) {
	m.remoteCallDuration.WithLabelValues(op).Observe(d.Seconds())
}

// Handler serves the registry in prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
