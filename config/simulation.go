package config

import (
	"time"

	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/core/model"
	"github.com/kilianp07/enginepool/core/sim"
)

// DateLayout is the format of simulation.start_date.
const DateLayout = "2006-01-02"

// SimulationConfig holds the engine constants.
type SimulationConfig struct {
	Weeks            int     `json:"weeks" validate:"gt=0"`
	LeasePrice       float64 `json:"lease_price" validate:"gte=0"`
	MaintenanceWeeks int     `json:"maintenance_weeks" validate:"gte=0"`
	SafetyMargin     float64 `json:"safety_margin" validate:"gte=0"`
	LeasingDisabled  bool    `json:"leasing_disabled"`
	CheckInvariants  bool    `json:"check_invariants"`
	// FamilyLimits adds or overrides ceilings of the default table.
	FamilyLimits map[string]float64 `json:"family_limits" validate:"dive,keys,required,endkeys,gt=0"`
	// StartDate anchors week 1 for time-series sinks.
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// Limits merges FamilyLimits over the default table. Keys are reduced to
// their base family first so "a320" from the environment and "A320" from a
// file address the same entry.
func (c SimulationConfig) Limits() (limits.Table, error) {
	ceilings := limits.DefaultCeilings()
	for fam, v := range c.FamilyLimits {
		ceilings[model.BaseFamily(fam)] = v
	}
	return limits.New(ceilings)
}

// SimConfig converts the section into an engine configuration.
func (c SimulationConfig) SimConfig() (sim.Config, error) {
	table, err := c.Limits()
	if err != nil {
		return sim.Config{}, &sim.ConfigError{Key: "family_limits", Err: err}
	}
	cfg := sim.Config{
		Weeks:            c.Weeks,
		LeasePrice:       c.LeasePrice,
		MaintenanceWeeks: c.MaintenanceWeeks,
		SafetyMargin:     c.SafetyMargin,
		LeasingDisabled:  c.LeasingDisabled,
		Limits:           table,
		CheckInvariants:  c.CheckInvariants,
	}
	return cfg, cfg.Validate()
}

// Origin returns the start date, or the zero time when unset.
func (c SimulationConfig) Origin() time.Time {
	t, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}
	}
	return t
}
