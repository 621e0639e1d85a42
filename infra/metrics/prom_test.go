package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/enginepool/core/metrics"
)

func TestPromSink_RecordWeek(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	samples := []coremetrics.WeekSample{
		{Week: 1, Installed: 10, Leased: 2, Removed: 2, InMaintenance: 2, LeaseCost: 140000},
		{Week: 2, Installed: 9, Leased: 1, Uncovered: 1, Removed: 1, Retagged: 1, Ready: 1, LeaseCost: 70000},
	}
	for _, s := range samples {
		if err := sink.RecordWeek(s); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if v := testutil.ToFloat64(sink.week); v != 2 {
		t.Fatalf("week gauge = %v", v)
	}
	if v := testutil.ToFloat64(sink.aircraft.WithLabelValues("owned")); v != 8 {
		t.Fatalf("owned aircraft = %v", v)
	}
	if v := testutil.ToFloat64(sink.aircraft.WithLabelValues("uncovered")); v != 1 {
		t.Fatalf("uncovered aircraft = %v", v)
	}
	if v := testutil.ToFloat64(sink.removals); v != 3 {
		t.Fatalf("removals = %v", v)
	}
	if v := testutil.ToFloat64(sink.leases); v != 3 {
		t.Fatalf("leases = %v", v)
	}
	if v := testutil.ToFloat64(sink.leaseCost); v != 210000 {
		t.Fatalf("lease cost = %v", v)
	}
	if err := sink.RecordRun(coremetrics.RunSummary{Duration: 1500 * time.Millisecond}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if v := testutil.ToFloat64(sink.runDuration); v != 1.5 {
		t.Fatalf("run duration = %v", v)
	}
}

// A second sink on the same registry reuses the registered collectors.
func TestPromSink_Reregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	s1, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	s2, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	_ = s1.RecordWeek(coremetrics.WeekSample{Removed: 1})
	_ = s2.RecordWeek(coremetrics.WeekSample{Removed: 1})
	if v := testutil.ToFloat64(s1.removals); v != 2 {
		t.Fatalf("expected shared counter, got %v", v)
	}
}
