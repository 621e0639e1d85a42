package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/enginepool/core/fleet"
	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/core/model"
	"github.com/kilianp07/enginepool/core/schedule"
	"github.com/kilianp07/enginepool/core/sim"
	"github.com/kilianp07/enginepool/core/validate"
)

func fleetFixture() ([]model.Aircraft, []model.Motor) {
	ac := []model.Aircraft{
		{ID: "A_AV", Family: "A321", Category: model.NarrowBody, CyclesPerWeek: 350},
		{ID: "B_AV", Family: "A320", Category: model.NarrowBody, CyclesPerWeek: 700},
		{ID: "C_AV", Family: "B767F", Category: model.WideBody, CyclesPerWeek: 210},
	}
	ms := []model.Motor{
		{ID: "A", Family: "A321", Category: model.NarrowBody, Cycles: 2000, InstalledOn: "A_AV"},
		{ID: "B", Family: "A320", Category: model.NarrowBody, Cycles: 9000, InstalledOn: "B_AV"},
		{ID: "C", Family: "B767F", Category: model.WideBody, Cycles: 14000, InstalledOn: "C_AV"},
		{ID: "S", Family: "A319", Category: model.NarrowBody, Cycles: 300},
	}
	return ac, ms
}

func run(t *testing.T, cfg sim.Config) ([]model.Aircraft, *sim.Result) {
	t.Helper()
	ac, ms := fleetFixture()
	store, err := fleet.New(ac, ms)
	require.NoError(t, err)
	eng, err := sim.New(cfg, store)
	require.NoError(t, err)
	res, err := eng.Run(context.Background())
	require.NoError(t, err)
	return ac, res
}

func TestEngineOutputIsValid(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Weeks = 104
	ac, res := run(t, cfg)

	cost := res.Costs["lease"]
	rep := validate.Schedule(res.Rows, validate.Options{
		Aircraft:          ac,
		Limits:            cfg.Limits,
		MaintenanceWeeks:  cfg.MaintenanceWeeks,
		LeasePrice:        cfg.LeasePrice,
		ReportedLeaseCost: &cost,
	})
	require.NoError(t, rep.Err(), "%v", rep.Violations)
	assert.Equal(t, 104, rep.Weeks)
	assert.Equal(t, 3, rep.FleetSize)
	assert.Equal(t, res.LeasedRows, rep.LeasedRows)
	assert.Greater(t, rep.LeasedRows, 0)
}

func TestSpareOnlyOutputNeedsAllowUncovered(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Weeks = 60
	cfg.LeasingDisabled = true
	ac, res := run(t, cfg)

	opts := validate.Options{Aircraft: ac, Limits: cfg.Limits, MaintenanceWeeks: cfg.MaintenanceWeeks}
	rep := validate.Schedule(res.Rows, opts)
	assert.Greater(t, rep.Count(validate.CheckCoverage), 0)
	assert.Zero(t, rep.Count(validate.CheckCeiling))

	opts.AllowUncovered = true
	assert.NoError(t, validate.Schedule(res.Rows, opts).Err())
}

func TestDetectsDuplicates(t *testing.T) {
	rows := []schedule.Row{
		{Week: 1, Aircraft: "A_AV", Motor: "M1"},
		{Week: 1, Aircraft: "B_AV", Motor: "M1"},
		{Week: 1, Aircraft: "B_AV", Motor: "M2"},
	}
	rep := validate.Schedule(rows, validate.Options{})
	assert.Equal(t, 2, rep.Count(validate.CheckUniqueness))
	assert.True(t, errors.Is(rep.Err(), validate.ErrInvalidSchedule))
}

func TestDetectsUnevenWeeks(t *testing.T) {
	rows := []schedule.Row{
		{Week: 1, Aircraft: "A_AV", Motor: "M1"},
		{Week: 1, Aircraft: "B_AV", Motor: "M2"},
		{Week: 2, Aircraft: "A_AV", Motor: "M1"},
		{Week: 4, Aircraft: "A_AV", Motor: "M1"},
		{Week: 4, Aircraft: "B_AV", Motor: "M2"},
	}
	rep := validate.Schedule(rows, validate.Options{})
	// week 2 is short and week 3 is missing
	assert.Equal(t, 2, rep.Count(validate.CheckCoverage))
}

func TestDetectsCeilingBreach(t *testing.T) {
	ac := []model.Aircraft{{ID: "A_AV", Family: "A321", Category: model.NarrowBody, CyclesPerWeek: 350}}
	rows := []schedule.Row{
		{Week: 1, Aircraft: "A_AV", Motor: "M", Cycles: 7700},
		{Week: 2, Aircraft: "A_AV", Motor: "M", Cycles: 8050},
	}
	rep := validate.Schedule(rows, validate.Options{Aircraft: ac, Limits: limits.Default()})
	require.Equal(t, 1, rep.Count(validate.CheckCeiling))
	assert.Equal(t, 2, rep.Violations[0].Week)
}

func TestDetectsCycleDrift(t *testing.T) {
	ac := []model.Aircraft{{ID: "A_AV", Family: "A320", Category: model.NarrowBody, CyclesPerWeek: 100}}
	rows := []schedule.Row{
		{Week: 1, Aircraft: "A_AV", Motor: "M", Cycles: 500},
		{Week: 2, Aircraft: "A_AV", Motor: "M", Cycles: 650},
	}
	rep := validate.Schedule(rows, validate.Options{Aircraft: ac, Limits: limits.Default()})
	assert.Equal(t, 1, rep.Count(validate.CheckCeiling))
}

func TestMaintenanceGap(t *testing.T) {
	mk := func(back int) []schedule.Row {
		return []schedule.Row{
			{Week: 1, Aircraft: "A_AV", Motor: "M"},
			{Week: back, Aircraft: "A_AV", Motor: "M"},
		}
	}
	opts := validate.Options{MaintenanceWeeks: 18}
	// removed on week 2, 17 weeks absent, back on week 19
	assert.Zero(t, validate.Schedule(mk(19), opts).Count(validate.CheckMaintenance))
	assert.Equal(t, 1, validate.Schedule(mk(18), opts).Count(validate.CheckMaintenance))
}

func TestCostMismatch(t *testing.T) {
	rows := []schedule.Row{
		{Week: 1, Aircraft: "A_AV", Motor: "LEASE-1-0", Leased: true},
		{Week: 2, Aircraft: "A_AV", Motor: "LEASE-2-0", Leased: true},
	}
	reported := 70000.0
	rep := validate.Schedule(rows, validate.Options{LeasePrice: 70000, ReportedLeaseCost: &reported})
	assert.Equal(t, 140000.0, rep.LeaseCost)
	assert.Equal(t, 1, rep.Count(validate.CheckCost))

	reported = 140000
	assert.True(t, validate.Schedule(rows, validate.Options{LeasePrice: 70000, ReportedLeaseCost: &reported}).OK())
}

func TestViolationString(t *testing.T) {
	v := validate.Violation{Check: validate.CheckCeiling, Week: 3, Aircraft: "A_AV", Motor: "M", Detail: "boom"}
	assert.Equal(t, "[ceiling] week 3 aircraft A_AV motor M: boom", v.String())
}

func TestCoverageFromFirstLoggedWeek(t *testing.T) {
	rows := []schedule.Row{
		{Week: 0, Aircraft: "A_AV", Motor: "M1"},
		{Week: 1, Aircraft: "A_AV", Motor: "M1"},
		{Week: 1, Aircraft: "B_AV", Motor: "M2"},
	}
	rep := validate.Schedule(rows, validate.Options{})
	assert.Equal(t, 2, rep.Weeks)
	assert.Equal(t, 1, rep.FleetSize)
	require.Equal(t, 1, rep.Count(validate.CheckCoverage))
	assert.Equal(t, 1, rep.Violations[0].Week)

	ac := []model.Aircraft{
		{ID: "A_AV", Family: "A320", Category: model.NarrowBody},
		{ID: "B_AV", Family: "A320", Category: model.NarrowBody},
	}
	rep = validate.Schedule(rows, validate.Options{Aircraft: ac})
	require.Equal(t, 1, rep.Count(validate.CheckCoverage))
	assert.Equal(t, "[coverage] week 0: 1 rows, fleet has 2 aircraft", rep.Violations[0].String())
}

func TestCostViolationHasNoWeek(t *testing.T) {
	v := validate.Violation{Check: validate.CheckCost, Detail: "off"}
	assert.Equal(t, "[cost]: off", v.String())
}
