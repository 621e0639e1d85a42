// Package plugins maps configured fleet sources to loader implementations.
package plugins

import (
	"fmt"
	"sort"

	"github.com/kilianp07/enginepool/config"
	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/infra/loader"
)

// FleetSourceFactory builds the initial fleet for a configured source.
type FleetSourceFactory func(cfg config.FleetConfig, table limits.Table) (*loader.Fleet, error)

var FleetSources = map[string]FleetSourceFactory{}

func RegisterFleetSource(name string, f FleetSourceFactory) { FleetSources[name] = f }

// LoadFleet runs the factory registered for cfg.Source.
func LoadFleet(cfg config.FleetConfig, table limits.Table) (*loader.Fleet, error) {
	f, ok := FleetSources[cfg.Source]
	if !ok {
		known := make([]string, 0, len(FleetSources))
		for k := range FleetSources {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown fleet source %q (known: %v)", cfg.Source, known)
	}
	fl, err := f(cfg, table)
	if err != nil {
		return nil, fmt.Errorf("fleet source %s: %w", cfg.Source, err)
	}
	return fl, nil
}
