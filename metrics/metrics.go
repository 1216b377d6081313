// Package metrics instruments reducers with Prometheus counters and timings.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/actionplan/action"
	"github.com/c360studio/actionplan/reducer"
)

const namespace = "actionplan"

// Collector holds the reducer metric vectors.
type Collector struct {
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates the reducer metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reducer",
			Name:      "actions_total",
			Help:      "Actions passed to a reducer, by type and whether the reducer handles the type.",
		}, []string{"reducer", "type", "matched"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reducer",
			Name:      "duration_seconds",
			Help:      "Time spent inside a reducer call.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 7),
		}, []string{"reducer"}),
	}

	for _, col := range []prometheus.Collector{c.actions, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Instrument wraps r so every call is counted under name. matches reports
// whether r handles a type; nil counts every action as matched. The wrapped
// reducer's result is returned as is.
func Instrument[S any](c *Collector, name string, r reducer.Reducer[S], matches func(action.Type) bool) reducer.Reducer[S] {
	observe := c.duration.WithLabelValues(name)
	return func(state reducer.State[S], a action.Action) reducer.State[S] {
		start := time.Now()
		next := r(state, a)
		observe.Observe(time.Since(start).Seconds())

		matched := matches == nil || matches(a.Type)
		c.actions.WithLabelValues(name, string(a.Type), strconv.FormatBool(matched)).Inc()
		return next
	}
}

// MatchTypes returns a matches function for Instrument accepting types.
func MatchTypes(types ...action.Type) func(action.Type) bool {
	set := make(map[action.Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(t action.Type) bool {
		return set[t]
	}
}
