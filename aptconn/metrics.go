package aptconn

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds optional prometheus counters for a Connection. A nil
// *Metrics is a valid, cheap no-op: every method on it is safe to call on a
// nil receiver. Callers that want observability construct one with
// NewMetrics and register it with their own prometheus.Registerer.
type Metrics struct {
	RXKnown   prometheus.Counter
	RXUnknown prometheus.Counter
	TXOrdered prometheus.Counter
	TXUnordered prometheus.Counter
	Timeouts  prometheus.Counter
}

// NewMetrics builds a Metrics with the standard five counters, namespaced
// "thorapt", ready to be registered with reg.
func NewMetrics(reg prometheus.Registerer, constLabels prometheus.Labels) *Metrics {
	m := &Metrics{
		RXKnown:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "thorapt", Name: "rx_known_total", ConstLabels: constLabels}),
		RXUnknown:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "thorapt", Name: "rx_unknown_total", ConstLabels: constLabels}),
		TXOrdered:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "thorapt", Name: "tx_ordered_total", ConstLabels: constLabels}),
		TXUnordered: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "thorapt", Name: "tx_unordered_total", ConstLabels: constLabels}),
		Timeouts:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "thorapt", Name: "reply_timeouts_total", ConstLabels: constLabels}),
	}
	if reg != nil {
		reg.MustRegister(m.RXKnown, m.RXUnknown, m.TXOrdered, m.TXUnordered, m.Timeouts)
	}
	return m
}

func (c *Connection) metricsRXKnown() {
	if c.opts.Metrics == nil {
		return
	}
	c.opts.Metrics.RXKnown.Inc()
}

func (c *Connection) metricsRXUnknown() {
	if c.opts.Metrics == nil {
		return
	}
	c.opts.Metrics.RXUnknown.Inc()
}

func (c *Connection) metricsTimeout() {
	if c.opts.Metrics == nil {
		return
	}
	c.opts.Metrics.Timeouts.Inc()
}
