package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/enginepool/core/metrics"
	"github.com/kilianp07/enginepool/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes weekly samples to InfluxDB using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordWeek writes one engine_week point.
func (s *InfluxSink) RecordWeek(w coremetrics.WeekSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_week").
		AddTag("run_id", w.RunID).
		AddField("week", w.Week).
		AddField("installed", w.Installed).
		AddField("leased", w.Leased).
		AddField("uncovered", w.Uncovered).
		AddField("in_maintenance", w.InMaintenance).
		AddField("ready", w.Ready).
		AddField("removed", w.Removed).
		AddField("retagged", w.Retagged).
		AddField("lease_cost", round3(w.LeaseCost)).
		AddField("cumulative_lease_cost", round3(w.CumulativeLeaseCost)).
		SetTime(w.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRemoval writes one engine_removal point.
func (s *InfluxSink) RecordRemoval(r coremetrics.RemovalSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_removal").
		AddTag("run_id", r.RunID).
		AddTag("aircraft", r.Aircraft).
		AddTag("motor", r.Motor).
		AddField("week", r.Week).
		AddField("cycles", round3(r.Cycles)).
		AddField("limit", round3(r.Limit)).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRun writes the engine_run summary point.
func (s *InfluxSink) RecordRun(r coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_run").
		AddTag("run_id", r.RunID).
		AddField("weeks", r.Weeks).
		AddField("fleet_size", r.FleetSize).
		AddField("leased_weeks", r.LeasedWeeks).
		AddField("lease_cost", round3(r.LeaseCost)).
		AddField("duration_ms", r.Duration.Milliseconds()).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
