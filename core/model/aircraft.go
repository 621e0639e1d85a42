package model

import "fmt"

// Aircraft is one tail of the fleet. Category and CyclesPerWeek never change
// after load; MotorID is owned by the fleet store.
type Aircraft struct {
	ID            string   `json:"id" yaml:"id"`
	Family        string   `json:"family" yaml:"family"`
	Category      Category `json:"category" yaml:"category"`
	CyclesPerWeek float64  `json:"cycles_per_week" yaml:"cycles_per_week"`

	// MotorID is the installed engine, empty when none.
	MotorID string `json:"motor_id,omitempty" yaml:"motor_id,omitempty"`
}

// Validate checks the load-time fields.
func (a Aircraft) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("aircraft id is required")
	}
	if a.Family == "" {
		return fmt.Errorf("aircraft %s: family is required", a.ID)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("aircraft %s: invalid category %q", a.ID, a.Category)
	}
	if !validAmount(a.CyclesPerWeek) {
		return fmt.Errorf("aircraft %s: cycles per week must be a finite, non-negative number", a.ID)
	}
	return nil
}

// HasMotor reports whether an engine is installed.
func (a Aircraft) HasMotor() bool { return a.MotorID != "" }
