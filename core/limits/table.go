// Package limits holds the family to cycle-ceiling table.
package limits

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/enginepool/core/model"
)

// ErrUnknownFamily is matched by every UnknownFamilyError.
var ErrUnknownFamily = errors.New("family has no cycle ceiling")

// UnknownFamilyError names the family code that failed to resolve.
type UnknownFamilyError struct {
	Family string
	Base   string
}

func (e *UnknownFamilyError) Error() string {
	return fmt.Sprintf("family %q (base %q) has no cycle ceiling", e.Family, e.Base)
}

func (e *UnknownFamilyError) Is(target error) bool { return target == ErrUnknownFamily }

// Table maps a base family to its cycle ceiling. The zero value is empty and
// resolves nothing. A Table is never mutated after construction.
type Table struct {
	ceilings map[string]float64
}

// Default returns the ceilings of the reference fleet.
func Default() Table {
	t, _ := New(DefaultCeilings())
	return t
}

// DefaultCeilings returns a fresh copy of the reference ceilings.
func DefaultCeilings() map[string]float64 {
	return map[string]float64{
		"A319":  15500,
		"A320":  15500,
		"A321":  8000,
		"B767F": 14500,
		"B767J": 15500,
	}
}

// New builds a table from family -> ceiling. Keys are reduced to their base
// family; two keys collapsing onto the same base must agree.
func New(ceilings map[string]float64) (Table, error) {
	t := Table{ceilings: make(map[string]float64, len(ceilings))}
	for fam, limit := range ceilings {
		if limit <= 0 {
			return Table{}, fmt.Errorf("family %s: ceiling must be positive, got %v", fam, limit)
		}
		base := model.BaseFamily(fam)
		if base == "" {
			return Table{}, fmt.Errorf("family %q normalizes to an empty code", fam)
		}
		if prev, ok := t.ceilings[base]; ok && prev != limit {
			return Table{}, fmt.Errorf("family %s: conflicting ceilings %v and %v", base, prev, limit)
		}
		t.ceilings[base] = limit
	}
	return t, nil
}

// Limit returns the ceiling for the base family of code.
func (t Table) Limit(code string) (float64, error) {
	base := model.BaseFamily(code)
	if l, ok := t.ceilings[base]; ok {
		return l, nil
	}
	return 0, &UnknownFamilyError{Family: code, Base: base}
}

// Families lists the configured base families in sorted order.
func (t Table) Families() []string {
	out := make([]string, 0, len(t.ceilings))
	for f := range t.ceilings {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of families.
func (t Table) Len() int { return len(t.ceilings) }
