package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/enginepool/config"
	"github.com/kilianp07/enginepool/core/ledger"
	"github.com/kilianp07/enginepool/pkg/export"
)

func writeConfig(t *testing.T, dir, body string) *config.Config {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func syntheticConfig(t *testing.T) (*config.Config, string) {
	dir := t.TempDir()
	body := `simulation:
  weeks: 52
fleet:
  source: synthetic
  synthetic:
    size: 12
    spares: 3
    seed: 7
output:
  schedule_csv: ` + filepath.Join(dir, "base_schedule.csv") + `
  costs_json: ` + filepath.Join(dir, "costs.json") + `
schedule:
  backend: jsonl
  path: ` + filepath.Join(dir, "schedule.jsonl") + `
metrics:
  sinks:
    - type: nop
log:
  level: error
`
	return writeConfig(t, dir, body), dir
}

func TestServiceRun(t *testing.T) {
	cfg, dir := syntheticConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()
	var out bytes.Buffer
	svc.Stdout = &out

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, svc.RunID(), res.RunID)
	assert.Equal(t, 52, res.Weeks)
	assert.Len(t, res.Rows, 52*12)
	assert.True(t, res.Validation.OK(), "violations: %v", res.Validation.Violations)
	assert.Equal(t, float64(res.Report.LeasedWeeks)*cfg.Simulation.LeasePrice, res.Costs[ledger.KindLease])
	assert.Contains(t, out.String(), "leased weeks")

	rows, err := export.ReadCSVFile(filepath.Join(dir, "base_schedule.csv"))
	require.NoError(t, err)
	assert.Len(t, rows, len(res.Rows))
	assert.FileExists(t, filepath.Join(dir, "costs.json"))
	assert.FileExists(t, filepath.Join(dir, "schedule.jsonl"))
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())
}

func TestServiceRunCancelled(t *testing.T) {
	cfg, _ := syntheticConfig(t)
	cfg.Output.Report = false
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	require.NotNil(t, res)
	assert.Zero(t, res.Weeks)
	assert.Empty(t, res.Rows)
}

func TestServiceUnknownSink(t *testing.T) {
	cfg, _ := syntheticConfig(t)
	cfg.Metrics.Sinks[0].Type = "graphite"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestServiceFleetFile(t *testing.T) {
	dir := t.TempDir()
	fleetPath := filepath.Join(dir, "fleet.yaml")
	require.NoError(t, os.WriteFile(fleetPath, []byte(`aircraft:
  - id: CC-AAA_AV
    family: A321
    category: NB
    cycles_per_week: 350
    motor:
      id: CC-AAA
`), 0o644))
	cfg := writeConfig(t, dir, "simulation:\n  weeks: 45\nfleet:\n  source: file\n  path: "+fleetPath+"\noutput:\n  schedule_csv: \"\"\n  report: false\n")
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()
	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, res.Report.LeasedWeeks)
	assert.Equal(t, 1, res.Report.Removals)
}
