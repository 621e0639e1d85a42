package config

import (
	"fmt"

	"github.com/kilianp07/enginepool/infra/loader"
)

// Fleet sources.
const (
	SourceCSV       = "csv"
	SourceFile      = "file"
	SourceSynthetic = "synthetic"
)

// FleetConfig selects where the initial fleet comes from.
type FleetConfig struct {
	Source string `json:"source"`
	// Dir holds the four operator CSV feeds.
	Dir string `json:"dir"`
	// Path is a YAML or JSON fleet file.
	Path      string                 `json:"path"`
	Synthetic loader.SyntheticConfig `json:"synthetic"`
}

// SetDefaults fills the optional fields.
func (c *FleetConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = SourceCSV
	}
	if c.Source == SourceSynthetic {
		c.Synthetic.SetDefaults()
	}
}

// Validate checks that the selected source is usable.
func (c FleetConfig) Validate() error {
	switch c.Source {
	case SourceCSV:
		if c.Dir == "" {
			return fmt.Errorf("dir is required for source %s", c.Source)
		}
	case SourceFile:
		if c.Path == "" {
			return fmt.Errorf("path is required for source %s", c.Source)
		}
	case SourceSynthetic:
		if c.Synthetic.Size < 0 || c.Synthetic.Spares < 0 {
			return fmt.Errorf("synthetic size and spares must not be negative")
		}
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	return nil
}

// OutputConfig names the export files. Empty paths disable the export.
type OutputConfig struct {
	ScheduleCSV  string `json:"schedule_csv"`
	ScheduleJSON string `json:"schedule_json"`
	CostsJSON    string `json:"costs_json"`
	// Report prints the run summary table.
	Report bool `json:"report"`
}

// LogConfig sets the global log level.
type LogConfig struct {
	Level string `json:"level" validate:"oneof=debug info warn error"`
}

// APIConfig enables the schedule query API when Addr is set.
type APIConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}
