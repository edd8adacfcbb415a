package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devconsole"

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeDropped = "dropped"
)

// Metrics holds the console bridge collectors.
type Metrics struct {
	registry *prometheus.Registry

	inbound   *prometheus.CounterVec
	outbound  *prometheus.CounterVec
	saves     *prometheus.CounterVec
	logQueue  prometheus.Gauge
	variables prometheus.Gauge
}

// New creates the metrics and registers them, together with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_messages_total",
			Help:      "Inbound native messages by handler name and outcome.",
		}, []string{"name", "outcome"}),
		outbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_calls_total",
			Help:      "Outbound native calls by method and outcome.",
		}, []string{"method", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Persistence store saves by outcome.",
		}, []string{"outcome"}),
		logQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_queue_depth",
			Help:      "Log entries buffered for the next tick.",
		}),
		variables: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "variables",
			Help:      "Registered console variables.",
		}),
	}
	m.registry.MustRegister(
		m.inbound, m.outbound, m.saves, m.logQueue, m.variables,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// InboundMessage counts one dispatched inbound message.
func (m *Metrics) InboundMessage(name, outcome string) {
	if m == nil {
		return
	}
	if name == "" {
		name = "unknown"
	}
	m.inbound.WithLabelValues(name, outcome).Inc()
}

// OutboundCall counts one outbound native call.
func (m *Metrics) OutboundCall(method, outcome string) {
	if m == nil {
		return
	}
	m.outbound.WithLabelValues(method, outcome).Inc()
}

// Save counts one persistence save.
func (m *Metrics) Save(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.saves.WithLabelValues(outcome).Inc()
}

// SetLogQueueDepth records the buffered log entry count.
func (m *Metrics) SetLogQueueDepth(n int) {
	if m == nil {
		return
	}
	m.logQueue.Set(float64(n))
}

// SetVariables records the registered variable count.
func (m *Metrics) SetVariables(n int) {
	if m == nil {
		return
	}
	m.variables.Set(float64(n))
}
