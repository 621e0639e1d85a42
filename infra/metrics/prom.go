package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/enginepool/core/metrics"
)

// PromSink exposes the fleet state of the current run as Prometheus metrics.
type PromSink struct {
	week        prometheus.Gauge
	aircraft    *prometheus.GaugeVec
	motors      *prometheus.GaugeVec
	removals    prometheus.Counter
	leases      prometheus.Counter
	retags      prometheus.Counter
	leaseCost   prometheus.Counter
	runDuration prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.week, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "enginepool_week",
		Help: "Last simulated week",
	})); err != nil {
		return nil, err
	}
	if s.aircraft, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "enginepool_aircraft",
		Help: "Aircraft by engine state at the end of the week",
	}, []string{"state"})); err != nil {
		return nil, err
	}
	if s.motors, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "enginepool_inventory_motors",
		Help: "Inventory motors by state at the end of the week",
	}, []string{"state"})); err != nil {
		return nil, err
	}
	if s.removals, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enginepool_removals_total",
		Help: "Preventive engine removals",
	})); err != nil {
		return nil, err
	}
	if s.leases, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enginepool_leases_total",
		Help: "Leased engine-weeks",
	})); err != nil {
		return nil, err
	}
	if s.retags, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enginepool_retags_total",
		Help: "Engines redeployed to another family",
	})); err != nil {
		return nil, err
	}
	if s.leaseCost, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enginepool_lease_cost_total",
		Help: "Accumulated leasing cost",
	})); err != nil {
		return nil, err
	}
	if s.runDuration, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "enginepool_run_duration_seconds",
		Help: "Wall time of the last completed run",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// register reuses an already registered collector of the same shape.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordWeek updates the gauges and counters for one week.
func (s *PromSink) RecordWeek(w coremetrics.WeekSample) error {
	s.week.Set(float64(w.Week))
	s.aircraft.WithLabelValues("owned").Set(float64(w.Installed - w.Leased))
	s.aircraft.WithLabelValues("leased").Set(float64(w.Leased))
	s.aircraft.WithLabelValues("uncovered").Set(float64(w.Uncovered))
	s.motors.WithLabelValues("in_maintenance").Set(float64(w.InMaintenance))
	s.motors.WithLabelValues("ready").Set(float64(w.Ready))
	s.removals.Add(float64(w.Removed))
	s.leases.Add(float64(w.Leased))
	s.retags.Add(float64(w.Retagged))
	s.leaseCost.Add(w.LeaseCost)
	return nil
}

// RecordRun records the run duration.
func (s *PromSink) RecordRun(r coremetrics.RunSummary) error {
	s.runDuration.Set(r.Duration.Seconds())
	return nil
}
