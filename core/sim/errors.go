package sim

import (
	"errors"
	"fmt"
)

// ErrHorizonReached is returned by Step once every week has been simulated.
var ErrHorizonReached = errors.New("simulation horizon reached")

// ConfigError is fatal: the run cannot proceed with the given configuration.
// Key names the offending configuration entry.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InvariantError reports a broken fleet relation detected after a week.
type InvariantError struct {
	Week int
	Err  error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("week %d: %v", e.Week, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }
