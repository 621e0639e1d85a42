package model

import (
	"fmt"
	"math"
)

// Motor is a jet engine. It cycles between installed, in maintenance and
// ready; leased motors live for a single week only.
type Motor struct {
	ID       string   `json:"id" yaml:"id"`
	Family   string   `json:"family" yaml:"family"`
	Category Category `json:"category" yaml:"category"`
	Cycles   float64  `json:"cycles" yaml:"cycles"`

	// MaintenanceWeeksLeft is zero when the motor is not in maintenance.
	MaintenanceWeeksLeft int `json:"maintenance_weeks_left,omitempty" yaml:"maintenance_weeks_left,omitempty"`
	// InstalledOn is the aircraft id, empty when uninstalled.
	InstalledOn string `json:"installed_on,omitempty" yaml:"installed_on,omitempty"`

	Leased bool `json:"leased,omitempty" yaml:"leased,omitempty"`
	// Bought records provenance only.
	Bought bool `json:"bought,omitempty" yaml:"bought,omitempty"`
}

// Validate checks the load-time fields.
func (m Motor) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("motor id is required")
	}
	if m.Family == "" {
		return fmt.Errorf("motor %s: family is required", m.ID)
	}
	if !m.Category.Valid() {
		return fmt.Errorf("motor %s: invalid category %q", m.ID, m.Category)
	}
	if !validAmount(m.Cycles) {
		return fmt.Errorf("motor %s: cycles must be a finite, non-negative number", m.ID)
	}
	if m.MaintenanceWeeksLeft < 0 {
		return fmt.Errorf("motor %s: maintenance weeks must not be negative", m.ID)
	}
	return nil
}

// Installed reports whether the motor is mounted on an aircraft.
func (m Motor) Installed() bool { return m.InstalledOn != "" }

// InMaintenance reports whether the motor still has maintenance weeks left.
func (m Motor) InMaintenance() bool { return m.MaintenanceWeeksLeft > 0 }

// Compatible reports whether m may be installed on a. Only the category has to
// match; family differences are handled by redeployment.
func (m Motor) Compatible(a Aircraft) bool { return m.Category == a.Category }

// validAmount rejects negative, NaN and infinite cycle figures.
func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
