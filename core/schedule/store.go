package schedule

import (
	"context"
	"fmt"
)

// Writer receives the rows of each simulated week.
type Writer interface {
	Append(ctx context.Context, rows []Row) error
	Close() error
}

// Store is a Writer that can be queried back.
type Store interface {
	Writer
	Query(ctx context.Context, q Query) ([]Row, error)
}

// StoreConfig selects and configures a schedule store.
type StoreConfig struct {
	// Backend is one of "none", "jsonl", "rotating" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "schedule.db"
		case "jsonl", "rotating":
			c.Path = "schedule.jsonl"
		}
	}
	if c.Backend == "rotating" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 100
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("unknown schedule store backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("schedule store path is required")
	}
	return nil
}

// NewStore opens the configured backend. It returns nil for "none".
func NewStore(c StoreConfig) (Store, error) {
	switch c.Backend {
	case "", "none":
		return nil, nil
	case "jsonl":
		return NewJSONLStore(c.Path)
	case "rotating":
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(c.Path)
	default:
		return nil, fmt.Errorf("unknown schedule store backend %s", c.Backend)
	}
}

// MultiWriter fans rows out to several writers, stopping at the first error.
type MultiWriter struct {
	Writers []Writer
}

// NewMultiWriter skips nil writers.
func NewMultiWriter(ws ...Writer) *MultiWriter {
	m := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			m.Writers = append(m.Writers, w)
		}
	}
	return m
}

func (m *MultiWriter) Append(ctx context.Context, rows []Row) error {
	for _, w := range m.Writers {
		if err := w.Append(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer and returns the first error.
func (m *MultiWriter) Close() error {
	var first error
	for _, w := range m.Writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
