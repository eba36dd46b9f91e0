package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer is the process wide em metrics registry.
var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.collectors()...)
}

// Metrics records the outcome of em runs.
type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// Fit records a finished run.
func (m *Metrics) Fit(mode, status string, iterations int, ll float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.prometheus.Fits.WithLabelValues(mode, status).Inc()
	m.prometheus.Iterations.WithLabelValues(mode).Observe(float64(iterations))
	m.prometheus.LogLikelihood.WithLabelValues(mode).Set(ll)
}

// Failure records an aborted run.
func (m *Metrics) Failure(mode, reason string) {
	m.prometheus.Failures.WithLabelValues(mode, reason).Inc()
}
