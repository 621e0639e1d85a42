// Package loader builds the initial fleet from operator feeds, fleet files or
// a seeded generator.
package loader

import (
	"fmt"
	"sort"

	"github.com/kilianp07/enginepool/core/fleet"
	"github.com/kilianp07/enginepool/core/model"
)

// Fleet is loader output: aircraft in enumeration order and every known
// motor, installed ones carrying InstalledOn.
type Fleet struct {
	Aircraft []model.Aircraft
	Motors   []model.Motor
}

// Store builds the runtime fleet store.
func (f *Fleet) Store() (*fleet.Store, error) {
	s, err := fleet.New(f.Aircraft, f.Motors)
	if err != nil {
		return nil, fmt.Errorf("build fleet: %w", err)
	}
	return s, nil
}

// Spares returns the motors not installed on any aircraft.
func (f *Fleet) Spares() []model.Motor {
	var out []model.Motor
	for _, m := range f.Motors {
		if m.InstalledOn == "" {
			out = append(out, m)
		}
	}
	return out
}

// FamilyCount is the number of aircraft per base family and category.
type FamilyCount struct {
	Family   string
	Category model.Category
	Aircraft int
}

// Families groups the fleet by base family, sorted by family.
func (f *Fleet) Families() []FamilyCount {
	idx := map[string]int{}
	var out []FamilyCount
	for _, a := range f.Aircraft {
		base := model.BaseFamily(a.Family)
		i, ok := idx[base]
		if !ok {
			i = len(out)
			idx[base] = i
			out = append(out, FamilyCount{Family: base, Category: a.Category})
		}
		out[i].Aircraft++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Family < out[j].Family })
	return out
}
