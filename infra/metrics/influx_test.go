package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/enginepool/core/metrics"
)

func TestInfluxSink_RecordWeek(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	s := coremetrics.WeekSample{
		RunID: "run-1", Week: 3, Installed: 10, Leased: 1, InMaintenance: 2, Ready: 0,
		Removed: 1, LeaseCost: 70000, CumulativeLeaseCost: 140000, Time: now,
	}
	if err := sink.RecordWeek(s); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("engine_week").
		AddTag("run_id", "run-1").
		AddField("week", 3).
		AddField("installed", 10).
		AddField("leased", 1).
		AddField("uncovered", 0).
		AddField("in_maintenance", 2).
		AddField("ready", 0).
		AddField("removed", 1).
		AddField("retagged", 0).
		AddField("lease_cost", 70000.0).
		AddField("cumulative_lease_cost", 140000.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestInfluxSink_RecordRemoval(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	if err := sink.RecordRemoval(coremetrics.RemovalSample{RunID: "r", Week: 23, Aircraft: "CC-AAA_AV", Motor: "CC-AAA", Cycles: 7700, Limit: 8000, Time: time.Unix(0, 0)}); err != nil {
		t.Fatalf("record: %v", err)
	}
	for _, part := range []string{"engine_removal,", "aircraft=CC-AAA_AV", "motor=CC-AAA", "run_id=r", "week=23i", "cycles=7700"} {
		if !strings.Contains(body, part) {
			t.Errorf("body %q lacks %q", body, part)
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
