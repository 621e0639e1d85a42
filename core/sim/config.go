package sim

import (
	"fmt"

	"github.com/kilianp07/enginepool/core/limits"
)

const (
	DefaultWeeks            = 260
	DefaultLeasePrice       = 70000
	DefaultMaintenanceWeeks = 18
	DefaultSafetyMargin     = 1.0
)

// Config is the immutable parameter set of a run.
type Config struct {
	// Weeks is the simulation horizon.
	Weeks int
	// LeasePrice is charged once per leased aircraft-week.
	LeasePrice float64
	// MaintenanceWeeks is how long a removed motor stays unavailable. The
	// removal week counts as the first one.
	MaintenanceWeeks int
	// SafetyMargin is subtracted from the ceiling to trigger removal early.
	SafetyMargin float64
	// LeasingDisabled forces spare-only operation; aircraft without a
	// compatible spare stay uncovered.
	LeasingDisabled bool
	Limits          limits.Table
	// CheckInvariants verifies the fleet relation after every week.
	CheckInvariants bool
}

// DefaultConfig returns the reference parameters.
func DefaultConfig() Config {
	return Config{
		Weeks:            DefaultWeeks,
		LeasePrice:       DefaultLeasePrice,
		MaintenanceWeeks: DefaultMaintenanceWeeks,
		SafetyMargin:     DefaultSafetyMargin,
		Limits:           limits.Default(),
		CheckInvariants:  true,
	}
}

// Validate checks the parameter ranges.
func (c Config) Validate() error {
	switch {
	case c.Weeks <= 0:
		return &ConfigError{Key: "weeks", Err: fmt.Errorf("must be positive, got %d", c.Weeks)}
	case c.LeasePrice < 0:
		return &ConfigError{Key: "lease_price", Err: fmt.Errorf("must not be negative, got %v", c.LeasePrice)}
	case c.MaintenanceWeeks < 0:
		return &ConfigError{Key: "maintenance_weeks", Err: fmt.Errorf("must not be negative, got %d", c.MaintenanceWeeks)}
	case c.SafetyMargin < 0:
		return &ConfigError{Key: "safety_margin", Err: fmt.Errorf("must not be negative, got %v", c.SafetyMargin)}
	case c.Limits.Len() == 0:
		return &ConfigError{Key: "family_limits", Err: fmt.Errorf("table is empty")}
	}
	return nil
}
