// Package scenarios runs YAML-described fleets through the engine and checks
// the outcome against recorded expectations.
package scenarios

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/core/sim"
	"github.com/kilianp07/enginepool/infra/loader"
)

// Settings overrides the engine defaults. Unset pointers keep the default.
type Settings struct {
	Weeks            int                `yaml:"weeks"`
	LeasePrice       *float64           `yaml:"lease_price,omitempty"`
	MaintenanceWeeks *int               `yaml:"maintenance_weeks,omitempty"`
	SafetyMargin     *float64           `yaml:"safety_margin,omitempty"`
	LeasingDisabled  bool               `yaml:"leasing_disabled,omitempty"`
	FamilyLimits     map[string]float64 `yaml:"family_limits,omitempty"`
}

// SimConfig resolves the settings into an engine configuration. Family
// limits are merged over the default table.
func (s Settings) SimConfig() (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if s.Weeks > 0 {
		cfg.Weeks = s.Weeks
	}
	if s.LeasePrice != nil {
		cfg.LeasePrice = *s.LeasePrice
	}
	if s.MaintenanceWeeks != nil {
		cfg.MaintenanceWeeks = *s.MaintenanceWeeks
	}
	if s.SafetyMargin != nil {
		cfg.SafetyMargin = *s.SafetyMargin
	}
	cfg.LeasingDisabled = s.LeasingDisabled
	if len(s.FamilyLimits) > 0 {
		ceilings := limits.DefaultCeilings()
		for k, v := range s.FamilyLimits {
			ceilings[k] = v
		}
		t, err := limits.New(ceilings)
		if err != nil {
			return sim.Config{}, err
		}
		cfg.Limits = t
	}
	return cfg, cfg.Validate()
}

// ExpectedRow pins the schedule entry of one aircraft in one week.
type ExpectedRow struct {
	Week     int      `yaml:"week"`
	Aircraft string   `yaml:"aircraft"`
	Motor    string   `yaml:"motor,omitempty"`
	Leased   *bool    `yaml:"leased,omitempty"`
	Cycles   *float64 `yaml:"cycles,omitempty"`
}

// Expected lists the outcome a scenario must reproduce. Nil counters are not
// checked.
type Expected struct {
	LeasedWeeks *int          `yaml:"leased_weeks,omitempty"`
	LeaseCost   *float64      `yaml:"lease_cost,omitempty"`
	Removals    *int          `yaml:"removals,omitempty"`
	Returns     *int          `yaml:"returns,omitempty"`
	Retags      *int          `yaml:"retags,omitempty"`
	Uncovered   *int          `yaml:"uncovered,omitempty"`
	Valid       bool          `yaml:"valid"`
	Rows        []ExpectedRow `yaml:"rows,omitempty"`
	// Unused lists motors that must never appear in the schedule.
	Unused []string `yaml:"unused,omitempty"`
}

// Scenario is one YAML scenario file.
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Settings    Settings         `yaml:"settings"`
	Fleet       loader.FileFleet `yaml:"fleet"`
	Expected    Expected         `yaml:"expected"`
}

// Load reads a scenario file. Unknown keys are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return &sc, nil
}

// LoadDir loads every .yaml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
