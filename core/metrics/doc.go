// Package metrics defines the sinks that observe a simulation run. Sinks such
// as PromSink and InfluxSink record weekly fleet snapshots, removals and the
// final run summary, and can be combined with NewMultiSink. NewMetricsSink
// returns a MultiSink automatically when several sinks are configured.
package metrics
