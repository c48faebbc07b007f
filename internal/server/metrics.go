package server

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muurk/smartcalc/internal/calculator"
)

const metricsNamespace = "smartcalc"

// Metrics holds the server's Prometheus collectors. Each Server has its own
// registry so tests can build several servers in one process.
type Metrics struct {
	registry *prometheus.Registry

	inputs         *prometheus.CounterVec
	computations   *prometheus.CounterVec
	errors         *prometheus.CounterVec
	rejected       prometheus.Counter
	activeSessions prometheus.Gauge
	requests       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "inputs_total",
			Help:      "Calculator inputs applied, by input kind.",
		}, []string{"kind"}),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "computations_total",
			Help:      "Evaluations performed, by operator and computation path.",
		}, []string{"operator", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Calculator errors shown to users, by error kind.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_inputs_total",
			Help:      "Inputs refused while a delayed computation was pending.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Open WebSocket calculator sessions.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "legacy_requests_total",
			Help:      "Requests to the legacy calculate endpoint, by HTTP status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.inputs,
		m.computations,
		m.errors,
		m.rejected,
		m.activeSessions,
		m.requests,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeInput(in calculator.Input) {
	m.inputs.WithLabelValues(in.Kind.String()).Inc()
}

func (m *Metrics) observeRejected() {
	m.rejected.Inc()
}

// observeComputation is installed as the machine's compute hook.
func (m *Metrics) observeComputation(c calculator.Computation) {
	if c.Err != nil {
		m.observeError(c.Err)
		return
	}
	m.computations.WithLabelValues(c.Operator.Name(), c.Path).Inc()
}

func (m *Metrics) observeError(err error) {
	var calcErr *calculator.CalcError
	if errors.As(err, &calcErr) {
		m.errors.WithLabelValues(calcErr.Kind.String()).Inc()
	}
}

func (m *Metrics) sessionOpened() { m.activeSessions.Inc() }
func (m *Metrics) sessionClosed() { m.activeSessions.Dec() }
