package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gointegral"

// Collector tracks quadrature method timings and accuracy
type Collector struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	absError *prometheus.GaugeVec
}

// NewCollector creates a collector on its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "method_duration_seconds",
			Help:      "Wall-clock time of one quadrature method invocation.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 14),
		}, []string{"method"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "method_runs_total",
			Help:      "Quadrature method invocations by outcome.",
		}, []string{"method", "outcome"}),
		absError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "method_abs_error",
			Help:      "Absolute error of the latest result against the exact integral.",
		}, []string{"function", "method"}),
	}
	c.registry.MustRegister(c.duration, c.runs, c.absError)
	return c
}

// ObserveMethod records one method invocation
func (c *Collector) ObserveMethod(method string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.runs.WithLabelValues(method, outcome).Inc()
	if err == nil {
		c.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

// ObserveError records the latest absolute error for a function/method pair
func (c *Collector) ObserveError(function, method string, absErr float64) {
	c.absError.WithLabelValues(function, method).Set(absErr)
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
