package metrics

import "time"

// WeekSample is the fleet state at the end of a simulated week.
type WeekSample struct {
	RunID string
	Week  int

	Installed     int
	Leased        int
	Uncovered     int
	InMaintenance int
	Ready         int
	Removed       int
	Spares        int
	Retagged      int

	LeaseCost           float64
	CumulativeLeaseCost float64
	Time                time.Time
}

// MetricsSink records weekly samples.
type MetricsSink interface {
	RecordWeek(s WeekSample) error
}

// RemovalSample describes a preventive engine removal.
type RemovalSample struct {
	RunID    string
	Week     int
	Aircraft string
	Motor    string
	Cycles   float64
	Limit    float64
	Time     time.Time
}

// RemovalRecorder records removals.
type RemovalRecorder interface {
	RecordRemoval(s RemovalSample) error
}

// RunSummary closes a run.
type RunSummary struct {
	RunID       string
	Weeks       int
	FleetSize   int
	LeasedWeeks int
	LeaseCost   float64
	Duration    time.Duration
	Time        time.Time
}

// RunRecorder records run summaries.
type RunRecorder interface {
	RecordRun(s RunSummary) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordWeek(WeekSample) error       { return nil }
func (NopSink) RecordRemoval(RemovalSample) error { return nil }
func (NopSink) RecordRun(RunSummary) error        { return nil }
