// Package metrics holds the Prometheus collectors the Cell Supervisor
// registers, grounded on the other example repos' use of
// prometheus/client_golang (the teacher itself carries no metrics
// dependency; SPEC_FULL.md §4.6 ADD enriches from the rest of the pack).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles the gauges/histograms/counters a Cell registers
// once and updates every tick.
type Collectors struct {
	TickDuration  prometheus.Histogram
	CancelCodes   *prometheus.CounterVec
	LiftCycle     *prometheus.GaugeVec
	LiftStatus    *prometheus.GaugeVec
	WatchdogTrips prometheus.Counter
}

// New constructs a Collectors with the standard plcsimd namespace and
// registers them on reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plcsimd",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one Cell Supervisor tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		CancelCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plcsimd",
			Name:      "cancel_codes_total",
			Help:      "Count of job rejections/cancellations by code.",
		}, []string{"lift", "code"}),
		LiftCycle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "plcsimd",
			Name:      "lift_cycle",
			Help:      "Current cycle code of each lift.",
		}, []string{"lift"}),
		LiftStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "plcsimd",
			Name:      "lift_status",
			Help:      "Current station status enum of each lift.",
		}, []string{"lift"}),
		WatchdogTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plcsimd",
			Name:      "watchdog_trips_total",
			Help:      "Count of watchdog expiries forcing both lifts into error.",
		}),
	}
	reg.MustRegister(c.TickDuration, c.CancelCodes, c.LiftCycle, c.LiftStatus, c.WatchdogTrips)
	return c
}
