// Package fleet keeps aircraft and motor records and the installed-on relation
// between them. The relation is indexed on both sides (aircraft.MotorID,
// motor.InstalledOn) and only Install and Detach change it.
package fleet

import (
	"fmt"

	"github.com/kilianp07/enginepool/core/model"
)

// Store owns the fleet for the duration of a run. It is not safe for
// concurrent use.
type Store struct {
	aircraft []model.Aircraft
	tails    map[string]int

	motors map[string]*model.Motor

	// inventory holds uninstalled, non-leased motors in entry order.
	inventory   []string
	inInventory map[string]struct{}
}

// New builds a store from loader output. A motor is installed when either its
// InstalledOn or the aircraft's MotorID names the other side; the two must not
// disagree. Uninstalled motors enter the inventory in load order.
func New(aircraft []model.Aircraft, motors []model.Motor) (*Store, error) {
	s := &Store{
		aircraft:    make([]model.Aircraft, 0, len(aircraft)),
		tails:       make(map[string]int, len(aircraft)),
		motors:      make(map[string]*model.Motor, len(motors)),
		inInventory: make(map[string]struct{}),
	}
	pairs := make(map[string]string) // motor -> tail
	for _, a := range aircraft {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, ok := s.tails[a.ID]; ok {
			return nil, fmt.Errorf("aircraft %s: %w", a.ID, ErrDuplicateID)
		}
		if a.MotorID != "" {
			if prev, ok := pairs[a.MotorID]; ok {
				return nil, fmt.Errorf("motor %s referenced by %s and %s: %w", a.MotorID, prev, a.ID, ErrMotorInstalled)
			}
			pairs[a.MotorID] = a.ID
		}
		a.MotorID = ""
		s.tails[a.ID] = len(s.aircraft)
		s.aircraft = append(s.aircraft, a)
	}
	order := make([]string, 0, len(motors))
	for _, m := range motors {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if m.Leased {
			return nil, fmt.Errorf("motor %s: leased motors cannot be loaded", m.ID)
		}
		if _, ok := s.motors[m.ID]; ok {
			return nil, fmt.Errorf("motor %s: %w", m.ID, ErrDuplicateID)
		}
		mm := m
		mm.InstalledOn = ""
		s.motors[m.ID] = &mm
		order = append(order, m.ID)
	}
	for _, a := range aircraft {
		if a.MotorID == "" {
			continue
		}
		if _, ok := s.motors[a.MotorID]; !ok {
			return nil, fmt.Errorf("aircraft %s references motor %s: %w", a.ID, a.MotorID, ErrUnknownMotor)
		}
	}
	for _, m := range motors {
		if m.InstalledOn == "" {
			continue
		}
		if prev, ok := pairs[m.ID]; ok && prev != m.InstalledOn {
			return nil, fmt.Errorf("motor %s: installed on %s but referenced by %s", m.ID, m.InstalledOn, prev)
		}
		pairs[m.ID] = m.InstalledOn
	}
	for _, id := range order {
		tail, ok := pairs[id]
		if !ok {
			if err := s.AddToInventory(id); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.Install(tail, id); err != nil {
			return nil, fmt.Errorf("initial install: %w", err)
		}
	}
	return s, nil
}

// Len returns the fleet size.
func (s *Store) Len() int { return len(s.aircraft) }

// Aircraft returns a copy of the fleet in enumeration order.
func (s *Store) Aircraft() []model.Aircraft {
	out := make([]model.Aircraft, len(s.aircraft))
	copy(out, s.aircraft)
	return out
}

// AircraftAt returns the i-th aircraft in enumeration order.
func (s *Store) AircraftAt(i int) model.Aircraft { return s.aircraft[i] }

// Tail looks up an aircraft by id.
func (s *Store) Tail(id string) (model.Aircraft, bool) {
	i, ok := s.tails[id]
	if !ok {
		return model.Aircraft{}, false
	}
	return s.aircraft[i], true
}

// Motor returns a copy of the motor record.
func (s *Store) Motor(id string) (model.Motor, bool) {
	m, ok := s.motors[id]
	if !ok {
		return model.Motor{}, false
	}
	return *m, true
}

// Motors returns the number of motors in the arena, leased ones included.
func (s *Store) Motors() int { return len(s.motors) }

// InstalledMotor returns the motor installed on tail, if any.
func (s *Store) InstalledMotor(tail string) (model.Motor, bool) {
	i, ok := s.tails[tail]
	if !ok || s.aircraft[i].MotorID == "" {
		return model.Motor{}, false
	}
	return s.Motor(s.aircraft[i].MotorID)
}

// AddMotor places a new motor in the arena without installing it or adding it
// to inventory. Used for leased units.
func (s *Store) AddMotor(m model.Motor) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, ok := s.motors[m.ID]; ok {
		return fmt.Errorf("motor %s: %w", m.ID, ErrDuplicateID)
	}
	m.InstalledOn = ""
	s.motors[m.ID] = &m
	return nil
}

// Discard removes an uninstalled motor that is not in inventory.
func (s *Store) Discard(id string) error {
	m, ok := s.motors[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownMotor)
	}
	if m.Installed() {
		return fmt.Errorf("discard %s: %w", id, ErrMotorInstalled)
	}
	if s.InInventory(id) {
		return fmt.Errorf("discard %s: %w", id, ErrMotorInInventory)
	}
	delete(s.motors, id)
	return nil
}

// Install mounts motor on tail, setting both sides of the relation.
func (s *Store) Install(tail, motorID string) error {
	i, ok := s.tails[tail]
	if !ok {
		return fmt.Errorf("%s: %w", tail, ErrUnknownAircraft)
	}
	m, ok := s.motors[motorID]
	if !ok {
		return fmt.Errorf("%s: %w", motorID, ErrUnknownMotor)
	}
	a := &s.aircraft[i]
	switch {
	case a.MotorID != "":
		return fmt.Errorf("install %s on %s: %w (%s)", motorID, tail, ErrAircraftOccupied, a.MotorID)
	case m.Installed():
		return fmt.Errorf("install %s on %s: %w (%s)", motorID, tail, ErrMotorInstalled, m.InstalledOn)
	case m.Category != a.Category:
		return fmt.Errorf("install %s (%s) on %s (%s): %w", motorID, m.Category, tail, a.Category, ErrCategoryMismatch)
	case s.InInventory(motorID):
		return fmt.Errorf("install %s on %s: %w", motorID, tail, ErrMotorInInventory)
	}
	a.MotorID = motorID
	m.InstalledOn = tail
	return nil
}

// Detach clears the relation for tail and returns the motor id that was
// installed, or "" when the aircraft had none.
func (s *Store) Detach(tail string) (string, error) {
	i, ok := s.tails[tail]
	if !ok {
		return "", fmt.Errorf("%s: %w", tail, ErrUnknownAircraft)
	}
	a := &s.aircraft[i]
	if a.MotorID == "" {
		return "", nil
	}
	id := a.MotorID
	a.MotorID = ""
	if m, ok := s.motors[id]; ok {
		m.InstalledOn = ""
	}
	return id, nil
}

// AddToInventory puts an uninstalled, owned motor in the shared pool. Adding a
// motor that is already there is a no-op.
func (s *Store) AddToInventory(id string) error {
	m, ok := s.motors[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownMotor)
	}
	if m.Leased {
		return fmt.Errorf("%s: %w", id, ErrLeasedInInventory)
	}
	if m.Installed() {
		return fmt.Errorf("inventory %s: %w", id, ErrMotorInstalled)
	}
	if _, ok := s.inInventory[id]; ok {
		return nil
	}
	s.inInventory[id] = struct{}{}
	s.inventory = append(s.inventory, id)
	return nil
}

// RemoveFromInventory takes id out of the pool and reports whether it was there.
func (s *Store) RemoveFromInventory(id string) bool {
	if _, ok := s.inInventory[id]; !ok {
		return false
	}
	delete(s.inInventory, id)
	for i, v := range s.inventory {
		if v == id {
			s.inventory = append(s.inventory[:i], s.inventory[i+1:]...)
			break
		}
	}
	return true
}

// InInventory reports pool membership.
func (s *Store) InInventory(id string) bool {
	_, ok := s.inInventory[id]
	return ok
}

// Inventory returns the pool in entry order.
func (s *Store) Inventory() []string {
	out := make([]string, len(s.inventory))
	copy(out, s.inventory)
	return out
}

// AddCycles accrues wear on a motor.
func (s *Store) AddCycles(id string, delta float64) error {
	m, ok := s.motors[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownMotor)
	}
	m.Cycles += delta
	return nil
}

// ResetCycles starts a fresh engine life.
func (s *Store) ResetCycles(id string) error {
	m, ok := s.motors[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownMotor)
	}
	m.Cycles = 0
	return nil
}

// Retag changes the family of a motor after redeployment to another family.
func (s *Store) Retag(id, family string) error {
	m, ok := s.motors[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownMotor)
	}
	m.Family = family
	return nil
}

// StartMaintenance sets the remaining maintenance weeks.
func (s *Store) StartMaintenance(id string, weeks int) error {
	m, ok := s.motors[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownMotor)
	}
	m.MaintenanceWeeksLeft = weeks
	return nil
}

// TickMaintenance decrements the remaining maintenance weeks of a motor that is
// in maintenance and returns the new value.
func (s *Store) TickMaintenance(id string) (int, error) {
	m, ok := s.motors[id]
	if !ok {
		return 0, fmt.Errorf("%s: %w", id, ErrUnknownMotor)
	}
	if m.MaintenanceWeeksLeft > 0 {
		m.MaintenanceWeeksLeft--
	}
	return m.MaintenanceWeeksLeft, nil
}
