// Package metrics records action outcomes as Prometheus series. A *Collector
// is an actions.Observer and can be passed to actions.WithObserver.
package metrics

import (
	"strconv"
	"time"

	"github.com/eduardoboucas/kit/actions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kit"

// Collector counts results and times action dispatch per route and action.
type Collector struct {
	Results  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewCollector registers the collector's series with reg. A nil reg means
// prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		Results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_results_total",
			Help:      "Action submissions by normalised result type and status.",
		}, []string{"route", "action", "type", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent resolving, invoking and classifying an action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "action"}),
	}
}

// ObserveAction implements actions.Observer.
func (c *Collector) ObserveAction(ev *actions.Event, name string, result actions.Result, elapsed time.Duration) {
	if c == nil {
		return
	}
	route := ev.RouteID
	if name == "" {
		name = "none"
	}
	if c.Results != nil {
		c.Results.WithLabelValues(route, name, string(result.Type), strconv.Itoa(result.Status)).Inc()
	}
	if c.Duration != nil {
		c.Duration.WithLabelValues(route, name).Observe(elapsed.Seconds())
	}
}
