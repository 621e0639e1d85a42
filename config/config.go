// Package config loads the enginepool configuration. Values are layered as
// built-in defaults, then a YAML or JSON file, then a .env file and EP_
// prefixed environment variables (EP_SIMULATION__LEASE_PRICE overrides
// simulation.lease_price).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/enginepool/core/metrics"
	"github.com/kilianp07/enginepool/core/schedule"
	"github.com/kilianp07/enginepool/infra/monitoring"
	"github.com/kilianp07/enginepool/infra/mqtt"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EP_"

type Config struct {
	Simulation SimulationConfig        `json:"simulation"`
	Fleet      FleetConfig             `json:"fleet"`
	Output     OutputConfig            `json:"output"`
	Schedule   schedule.StoreConfig    `json:"schedule"`
	Metrics    metrics.Config          `json:"metrics"`
	MQTT       mqtt.Config             `json:"mqtt"`
	Sentry     monitoring.SentryConfig `json:"sentry"`
	Log        LogConfig               `json:"log"`
	API        APIConfig               `json:"api"`
}

func defaults() map[string]any {
	return map[string]any{
		"simulation.weeks":             260,
		"simulation.lease_price":       70000.0,
		"simulation.maintenance_weeks": 18,
		"simulation.safety_margin":     1.0,
		"simulation.check_invariants":  true,
		"simulation.start_date":        "2025-01-06",
		"fleet.source":                 SourceCSV,
		"fleet.dir":                    "data",
		"output.schedule_csv":          "base_schedule.csv",
		"output.report":                true,
		"schedule.backend":             "none",
		"log.level":                    "info",
	}
}

// Load reads the configuration at path. An empty path loads defaults and
// environment overrides only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, err
	}
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults fills the optional fields of every section.
func (c *Config) SetDefaults() {
	c.Fleet.SetDefaults()
	c.Schedule.SetDefaults()
	c.MQTT.SetDefaults()
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks every section and reports the first failure.
func (c *Config) Validate() error {
	if err := validateStruct(c.Simulation); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if _, err := c.Simulation.SimConfig(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Fleet.Validate(); err != nil {
		return fmt.Errorf("fleet: %w", err)
	}
	if err := c.Schedule.Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	if err := validateStruct(c.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.API.Addr != "" && c.Schedule.Backend == "none" {
		return fmt.Errorf("api: a schedule backend is required to serve the schedule")
	}
	return nil
}
