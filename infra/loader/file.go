package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/enginepool/core/model"
)

// FileMotor is an engine in a fleet file. Family and category default to the
// aircraft's when the motor is installed.
type FileMotor struct {
	ID       string  `json:"id" yaml:"id"`
	Family   string  `json:"family,omitempty" yaml:"family,omitempty"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	Cycles   float64 `json:"cycles" yaml:"cycles"`
	// MaintenanceWeeksLeft lets a spare start in the shop.
	MaintenanceWeeksLeft int `json:"maintenance_weeks_left,omitempty" yaml:"maintenance_weeks_left,omitempty"`
}

// FileAircraft is a tail in a fleet file. Either CyclesPerWeek or
// CyclesPerDay must be set.
type FileAircraft struct {
	ID            string     `json:"id" yaml:"id"`
	Family        string     `json:"family" yaml:"family"`
	Category      string     `json:"category" yaml:"category"`
	CyclesPerWeek float64    `json:"cycles_per_week,omitempty" yaml:"cycles_per_week,omitempty"`
	CyclesPerDay  float64    `json:"cycles_per_day,omitempty" yaml:"cycles_per_day,omitempty"`
	Motor         *FileMotor `json:"motor,omitempty" yaml:"motor,omitempty"`
}

// FileFleet is the on-disk fleet description.
type FileFleet struct {
	Aircraft []FileAircraft `json:"aircraft" yaml:"aircraft"`
	Spares   []FileMotor    `json:"spares,omitempty" yaml:"spares,omitempty"`
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) fleet file.
func LoadFile(path string) (*Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fleet file: %w", err)
	}
	var ff FileFleet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&ff)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&ff)
	default:
		return nil, fmt.Errorf("fleet file %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	f, err := ff.Fleet()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Fleet converts the file form into loader output.
func (ff FileFleet) Fleet() (*Fleet, error) {
	f := &Fleet{}
	for i, fa := range ff.Aircraft {
		cat, err := model.ParseCategory(fa.Category)
		if err != nil {
			return nil, fmt.Errorf("aircraft[%d] %s: %w", i, fa.ID, err)
		}
		rate := fa.CyclesPerWeek
		if rate == 0 {
			rate = fa.CyclesPerDay * 7
		}
		a := model.Aircraft{ID: fa.ID, Family: fa.Family, Category: cat, CyclesPerWeek: rate}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("aircraft[%d]: %w", i, err)
		}
		f.Aircraft = append(f.Aircraft, a)
		if fa.Motor == nil {
			continue
		}
		m, err := fa.Motor.motor(a.Family, cat)
		if err != nil {
			return nil, fmt.Errorf("aircraft[%d] %s: %w", i, fa.ID, err)
		}
		m.InstalledOn = a.ID
		f.Motors = append(f.Motors, m)
	}
	for i, fm := range ff.Spares {
		m, err := fm.motor("", "")
		if err != nil {
			return nil, fmt.Errorf("spares[%d]: %w", i, err)
		}
		f.Motors = append(f.Motors, m)
	}
	return f, nil
}

func (fm FileMotor) motor(family string, cat model.Category) (model.Motor, error) {
	m := model.Motor{
		ID:                   fm.ID,
		Family:               fm.Family,
		Category:             cat,
		Cycles:               fm.Cycles,
		MaintenanceWeeksLeft: fm.MaintenanceWeeksLeft,
	}
	if m.Family == "" {
		m.Family = family
	}
	if fm.Category != "" {
		c, err := model.ParseCategory(fm.Category)
		if err != nil {
			return model.Motor{}, fmt.Errorf("motor %s: %w", fm.ID, err)
		}
		m.Category = c
	}
	return m, m.Validate()
}

// ToFile converts loader output back to the file form.
func (f *Fleet) ToFile() FileFleet {
	var ff FileFleet
	installed := map[string]model.Motor{}
	for _, m := range f.Motors {
		if m.InstalledOn != "" {
			installed[m.InstalledOn] = m
		} else {
			ff.Spares = append(ff.Spares, FileMotor{
				ID: m.ID, Family: m.Family, Category: m.Category.String(),
				Cycles: m.Cycles, MaintenanceWeeksLeft: m.MaintenanceWeeksLeft,
			})
		}
	}
	for _, a := range f.Aircraft {
		fa := FileAircraft{ID: a.ID, Family: a.Family, Category: a.Category.String(), CyclesPerWeek: a.CyclesPerWeek}
		if m, ok := installed[a.ID]; ok {
			fm := FileMotor{ID: m.ID, Cycles: m.Cycles}
			if m.Family != a.Family {
				fm.Family = m.Family
			}
			fa.Motor = &fm
		}
		ff.Aircraft = append(ff.Aircraft, fa)
	}
	return ff
}

// SaveFile writes the fleet as YAML or JSON, chosen by extension.
func SaveFile(path string, f *Fleet) error {
	ff := f.ToFile()
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(ff)
	case ".json":
		data, err = json.MarshalIndent(ff, "", "  ")
	default:
		return fmt.Errorf("fleet file %s: unsupported extension", path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
