package metrics

import "errors"

// MultiSink fans samples out to several sinks. Every sink is called; errors
// are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordWeek forwards the sample to all sinks.
func (m *MultiSink) RecordWeek(s WeekSample) error {
	var errs []error
	for _, sink := range m.Sinks {
		if err := sink.RecordWeek(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRemoval forwards removals to the sinks that support them.
func (m *MultiSink) RecordRemoval(s RemovalSample) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(RemovalRecorder); ok {
			if err := rec.RecordRemoval(s); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordRun forwards the summary to the sinks that support it.
func (m *MultiSink) RecordRun(s RunSummary) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(RunRecorder); ok {
			if err := rec.RecordRun(s); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every inner sink that holds resources.
func (m *MultiSink) Close() {
	for _, sink := range m.Sinks {
		if c, ok := sink.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
