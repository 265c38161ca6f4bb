package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "beutel"

// Send outcomes.
const (
	SendBroadcasted = "broadcasted"
	SendRejected    = "rejected"
	SendFailed      = "failed"
)

// Metrics collects the wallet counters on a dedicated registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	previews       prometheus.Counter
	sends          *prometheus.CounterVec
	sentSats       prometheus.Counter
	feeSats        prometheus.Counter
	explorerErrors *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		previews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_previews_total",
			Help:      "Number of prepared send previews.",
		}),
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sends_total",
			Help:      "Number of confirmed sends by outcome.",
		}, []string{"outcome"}),
		sentSats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sent_sats_total",
			Help:      "Amount of sats sent to recipients.",
		}),
		feeSats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_sats_total",
			Help:      "Amount of sats paid in network fees.",
		}),
		explorerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explorer_errors_total",
			Help:      "Number of failed explorer requests by operation.",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.previews, m.sends, m.sentSats, m.feeSats, m.explorerErrors,
	)
	return m
}

// Registry returns the registry to expose, nil for a nil *Metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObservePreview() {
	if m == nil {
		return
	}
	m.previews.Inc()
}

func (m *Metrics) ObserveSend(amount, fee uint64) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(SendBroadcasted).Inc()
	m.sentSats.Add(float64(amount))
	m.feeSats.Add(float64(fee))
}

func (m *Metrics) ObserveSendFailure(outcome string) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveExplorerError(operation string) {
	if m == nil {
		return
	}
	m.explorerErrors.WithLabelValues(operation).Inc()
}
