package fleet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAircraft   = errors.New("unknown aircraft")
	ErrUnknownMotor      = errors.New("unknown motor")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrCategoryMismatch  = errors.New("motor category does not match aircraft")
	ErrMotorInstalled    = errors.New("motor already installed")
	ErrAircraftOccupied  = errors.New("aircraft already has a motor")
	ErrMotorInInventory  = errors.New("motor is in inventory")
	ErrLeasedInInventory = errors.New("leased motors never enter inventory")
)

// InvariantError lists every relation problem found by Verify.
type InvariantError struct {
	Problems []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("fleet invariant violated: %s", strings.Join(e.Problems, "; "))
}
