package metrics

import (
	"time"

	coremetrics "github.com/kilianp07/enginepool/core/metrics"
	"github.com/kilianp07/enginepool/core/sim"
	"github.com/kilianp07/enginepool/infra/logger"
	"github.com/kilianp07/enginepool/internal/eventbus"
)

const week = 7 * 24 * time.Hour

// Collector turns engine events into metrics samples. Simulated week w is
// stamped at origin + (w-1) weeks so time-series backends get a regular axis.
type Collector struct {
	runID     string
	fleetSize int
	origin    time.Time
	sink      coremetrics.MetricsSink
	log       logger.Logger

	cumulative float64
	failures   int
}

// NewCollector creates a collector for one run.
func NewCollector(runID string, fleetSize int, origin time.Time, sink coremetrics.MetricsSink) *Collector {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Collector{
		runID:     runID,
		fleetSize: fleetSize,
		origin:    origin,
		sink:      sink,
		log:       logger.New("metrics-collector"),
	}
}

// Start subscribes to the bus and records events until the bus is closed.
// The returned channel is closed once every received event was handled.
func (c *Collector) Start(bus *eventbus.TypedBus[sim.Event]) <-chan struct{} {
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		for ev := range sub {
			c.Handle(ev)
		}
	}()
	return done
}

// Handle records a single event. Sink errors are logged and counted; they
// never stop the run.
func (c *Collector) Handle(ev sim.Event) {
	switch e := ev.(type) {
	case sim.RemovalEvent:
		rec, ok := c.sink.(coremetrics.RemovalRecorder)
		if !ok {
			return
		}
		c.check(rec.RecordRemoval(coremetrics.RemovalSample{
			RunID:    c.runID,
			Week:     e.Week,
			Aircraft: e.Aircraft,
			Motor:    e.Motor,
			Cycles:   e.Cycles,
			Limit:    e.Limit,
			Time:     c.stamp(e.Week),
		}))
	case sim.WeekEndEvent:
		c.cumulative += e.Stats.LeaseCost
		c.check(c.sink.RecordWeek(coremetrics.WeekSample{
			RunID:               c.runID,
			Week:                e.Week,
			Installed:           c.fleetSize - e.Stats.Uncovered,
			Leased:              e.Stats.Leased,
			Uncovered:           e.Stats.Uncovered,
			InMaintenance:       e.Stats.InMaintenance,
			Ready:               e.Stats.Ready,
			Removed:             e.Stats.Removed,
			Spares:              e.Stats.Spares,
			Retagged:            e.Stats.Retagged,
			LeaseCost:           e.Stats.LeaseCost,
			CumulativeLeaseCost: c.cumulative,
			Time:                c.stamp(e.Week),
		}))
	}
}

// Failures returns the number of sink errors seen so far.
func (c *Collector) Failures() int { return c.failures }

func (c *Collector) stamp(w int) time.Time {
	return c.origin.Add(time.Duration(w-1) * week)
}

func (c *Collector) check(err error) {
	if err != nil {
		c.failures++
		c.log.Warnf("metrics sink: %v", err)
	}
}
