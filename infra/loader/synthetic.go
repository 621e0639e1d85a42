package loader

import (
	"fmt"
	"math/rand"

	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/core/model"
)

// FamilyProfile describes one generated aircraft type.
type FamilyProfile struct {
	Code     string         `json:"code" yaml:"code"`
	Category model.Category `json:"category" yaml:"category"`
	// CyclesPerDay is drawn uniformly from [MinPerDay, MaxPerDay].
	MinPerDay float64 `json:"min_per_day" yaml:"min_per_day"`
	MaxPerDay float64 `json:"max_per_day" yaml:"max_per_day"`
	Weight    float64 `json:"weight" yaml:"weight"`
}

// DefaultProfiles mirrors the reference fleet mix.
func DefaultProfiles() []FamilyProfile {
	return []FamilyProfile{
		{Code: "A319JJ", Category: model.NarrowBody, MinPerDay: 4, MaxPerDay: 7, Weight: 1},
		{Code: "A320JJ", Category: model.NarrowBody, MinPerDay: 5, MaxPerDay: 8, Weight: 3},
		{Code: "A321JJ", Category: model.NarrowBody, MinPerDay: 4, MaxPerDay: 7, Weight: 1.5},
		{Code: "B767F-ABSA", Category: model.WideBody, MinPerDay: 1, MaxPerDay: 3, Weight: 0.5},
		{Code: "B767J", Category: model.WideBody, MinPerDay: 1.5, MaxPerDay: 3, Weight: 0.5},
	}
}

// SyntheticConfig holds parameters for bulk fleet generation.
type SyntheticConfig struct {
	Size int `json:"size" yaml:"size"`
	// Spares is the number of uninstalled motors, spread over the profiles.
	Spares int   `json:"spares" yaml:"spares"`
	Seed   int64 `json:"seed" yaml:"seed"`
	// WearFraction caps the initial cycles at this share of the ceiling.
	WearFraction float64         `json:"wear_fraction" yaml:"wear_fraction"`
	Profiles     []FamilyProfile `json:"profiles" yaml:"profiles"`
}

// SetDefaults fills unset fields.
func (c *SyntheticConfig) SetDefaults() {
	if c.Size == 0 {
		c.Size = 50
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.WearFraction == 0 {
		c.WearFraction = 0.9
	}
	if len(c.Profiles) == 0 {
		c.Profiles = DefaultProfiles()
	}
}

// Generate creates Size aircraft with ids SYN-0001_AV.. and one installed
// motor each, plus Spares spare motors SP-001... Output is a pure function of
// the config.
func Generate(cfg SyntheticConfig, table limits.Table) (*Fleet, error) {
	cfg.SetDefaults()
	if cfg.Size < 0 || cfg.Spares < 0 {
		return nil, fmt.Errorf("synthetic fleet: size and spares must not be negative")
	}
	if cfg.WearFraction < 0 || cfg.WearFraction > 1 {
		return nil, fmt.Errorf("synthetic fleet: wear_fraction must be within [0,1]")
	}
	var total float64
	for _, p := range cfg.Profiles {
		if !p.Category.Valid() {
			return nil, fmt.Errorf("synthetic fleet: profile %s: invalid category %q", p.Code, p.Category)
		}
		if p.MaxPerDay < p.MinPerDay || p.MinPerDay < 0 {
			return nil, fmt.Errorf("synthetic fleet: profile %s: invalid cycle range", p.Code)
		}
		if _, err := table.Limit(p.Code); err != nil {
			return nil, fmt.Errorf("synthetic fleet: %w", err)
		}
		total += p.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("synthetic fleet: profile weights must sum to a positive value")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	pick := func() FamilyProfile {
		x := rng.Float64() * total
		for _, p := range cfg.Profiles {
			if x < p.Weight {
				return p
			}
			x -= p.Weight
		}
		return cfg.Profiles[len(cfg.Profiles)-1]
	}

	f := &Fleet{}
	for i := 0; i < cfg.Size; i++ {
		p := pick()
		family := FamilyFromCode(p.Code)
		limit, _ := table.Limit(family)
		perDay := p.MinPerDay + rng.Float64()*(p.MaxPerDay-p.MinPerDay)
		reg := fmt.Sprintf("SYN-%04d", i+1)
		tail := reg + AircraftSuffix
		f.Aircraft = append(f.Aircraft, model.Aircraft{
			ID:            tail,
			Family:        family,
			Category:      p.Category,
			CyclesPerWeek: roundTenth(perDay * 7),
		})
		f.Motors = append(f.Motors, model.Motor{
			ID:          reg,
			Family:      family,
			Category:    p.Category,
			Cycles:      roundTenth(rng.Float64() * limit * cfg.WearFraction),
			InstalledOn: tail,
		})
	}
	for i := 0; i < cfg.Spares; i++ {
		p := pick()
		f.Motors = append(f.Motors, model.Motor{
			ID:       fmt.Sprintf("SP-%03d", i+1),
			Family:   FamilyFromCode(p.Code),
			Category: p.Category,
		})
	}
	return f, nil
}

func roundTenth(v float64) float64 { return float64(int64(v*10+0.5)) / 10 }
