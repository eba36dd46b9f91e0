package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "gmm"

// Prometheus holds the collectors of the em runs.
type Prometheus struct {
	Fits          *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	Iterations    *prometheus.HistogramVec
	LogLikelihood *prometheus.GaugeVec
}

// NewPrometheusMetrics creates the em collectors.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fits_total",
				Help:      "finished em runs",
			}, []string{"mode", "status"}),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "aborted em runs",
			}, []string{"mode", "reason"}),
		Iterations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "iterations",
				Help:      "iterations per em run",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
			}, []string{"mode"}),
		LogLikelihood: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "log_likelihood",
				Help:      "final log-likelihood of the last em run",
			}, []string{"mode"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Fits, p.Failures, p.Iterations, p.LogLikelihood}
}
