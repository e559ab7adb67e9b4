// Package metrics counts hops and warnings with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"nyiyui.ca/hato/rail"
	"nyiyui.ca/hato/rail/tal/follower"
)

type Collector struct {
	steps    *prometheus.CounterVec
	warnings *prometheus.CounterVec
	next     rail.Reporter
}

// New registers the collector's metrics to reg. Warnings are counted, then passed on to next (if not nil).
func New(reg prometheus.Registerer, next rail.Reporter) *Collector {
	f := promauto.With(reg)
	return &Collector{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rail_follower_steps_total",
			Help: "Follower progress updates by outcome",
		}, []string{"outcome"}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rail_warnings_total",
			Help: "Warnings raised by kind",
		}, []string{"kind"}),
		next: next,
	}
}

func (c *Collector) Warn(w rail.Warning) {
	c.warnings.WithLabelValues(w.Kind.String()).Inc()
	if c.next != nil {
		c.next.Warn(w)
	}
}

// ObserveStep counts a follower step by its outcome.
func (c *Collector) ObserveStep(s follower.Step) {
	c.steps.WithLabelValues(s.Outcome.String()).Inc()
}
