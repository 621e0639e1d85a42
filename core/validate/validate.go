// Package validate checks a produced schedule against the fleet rules: full
// coverage, one holder per motor, cycle ceilings, maintenance duration and the
// reported leasing cost.
package validate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/core/model"
	"github.com/kilianp07/enginepool/core/schedule"
)

// ErrInvalidSchedule is wrapped by Report.Err when violations were found.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Check identifies one family of rules.
type Check string

const (
	CheckCoverage    Check = "coverage"
	CheckUniqueness  Check = "uniqueness"
	CheckCeiling     Check = "ceiling"
	CheckMaintenance Check = "maintenance"
	CheckCost        Check = "cost"
)

// DefaultTolerance absorbs the one-decimal rounding of logged cycles on both
// ends of a re-derivation.
const DefaultTolerance = 0.11

// Violation is a single broken rule.
type Violation struct {
	Check    Check  `json:"check"`
	Week     int    `json:"week,omitempty"`
	Aircraft string `json:"aircraft,omitempty"`
	Motor    string `json:"motor,omitempty"`
	Detail   string `json:"detail"`
}

func (v Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", v.Check)
	if v.Check != CheckCost {
		fmt.Fprintf(&b, " week %d", v.Week)
	}
	if v.Aircraft != "" {
		fmt.Fprintf(&b, " aircraft %s", v.Aircraft)
	}
	if v.Motor != "" {
		fmt.Fprintf(&b, " motor %s", v.Motor)
	}
	b.WriteString(": ")
	b.WriteString(v.Detail)
	return b.String()
}

// Options carries the context a schedule is checked against. Aircraft and
// Limits enable the ceiling check; MaintenanceWeeks enables the gap check;
// ReportedLeaseCost enables the cost check.
type Options struct {
	Aircraft         []model.Aircraft
	Limits           limits.Table
	MaintenanceWeeks int
	LeasePrice       float64
	// ReportedLeaseCost is the ledger total the schedule must agree with.
	ReportedLeaseCost *float64
	// AllowUncovered accepts NONE rows produced by spare-only runs.
	AllowUncovered bool
	Tolerance      float64
}

// Report summarises a validation pass.
type Report struct {
	Weeks      int         `json:"weeks"`
	FleetSize  int         `json:"fleet_size"`
	Rows       int         `json:"rows"`
	LeasedRows int         `json:"leased_rows"`
	Uncovered  int         `json:"uncovered_rows"`
	LeaseCost  float64     `json:"lease_cost"`
	Violations []Violation `json:"violations"`
}

// OK reports whether no rule was broken.
func (r *Report) OK() bool { return len(r.Violations) == 0 }

// Count returns the number of violations of one check.
func (r *Report) Count(c Check) int {
	n := 0
	for _, v := range r.Violations {
		if v.Check == c {
			n++
		}
	}
	return n
}

// Err returns nil for a valid schedule, or an error wrapping
// ErrInvalidSchedule with a per-check breakdown.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	var parts []string
	for _, c := range []Check{CheckCoverage, CheckUniqueness, CheckCeiling, CheckMaintenance, CheckCost} {
		if n := r.Count(c); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	return fmt.Errorf("%w: %d violations (%s)", ErrInvalidSchedule, len(r.Violations), strings.Join(parts, ", "))
}

func (r *Report) add(v Violation) { r.Violations = append(r.Violations, v) }

// Schedule runs every enabled check over rows.
func Schedule(rows []schedule.Row, opts Options) *Report {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	r := &Report{Rows: len(rows)}
	for _, row := range rows {
		if row.Leased {
			r.LeasedRows++
		}
		if row.Uncovered() {
			r.Uncovered++
		}
	}
	r.LeaseCost = float64(r.LeasedRows) * opts.LeasePrice

	checkCoverage(r, rows, opts)
	checkUniqueness(r, rows)
	if len(opts.Aircraft) > 0 && opts.Limits.Len() > 0 {
		checkCeilings(r, rows, opts)
	}
	if opts.MaintenanceWeeks > 0 {
		checkMaintenance(r, rows, opts.MaintenanceWeeks)
	}
	if opts.ReportedLeaseCost != nil && math.Abs(*opts.ReportedLeaseCost-r.LeaseCost) > 1e-6 {
		r.add(Violation{
			Check:  CheckCost,
			Detail: fmt.Sprintf("reported lease cost %.2f, schedule implies %d leased weeks = %.2f", *opts.ReportedLeaseCost, r.LeasedRows, r.LeaseCost),
		})
	}
	return r
}

func checkCoverage(r *Report, rows []schedule.Row, opts Options) {
	if len(rows) == 0 {
		return
	}
	perWeek := map[int]int{}
	minWeek, maxWeek := rows[0].Week, rows[0].Week
	for _, row := range rows {
		perWeek[row.Week]++
		minWeek = min(minWeek, row.Week)
		maxWeek = max(maxWeek, row.Week)
		if row.Uncovered() && !opts.AllowUncovered {
			r.add(Violation{Check: CheckCoverage, Week: row.Week, Aircraft: row.Aircraft, Detail: "aircraft has no motor"})
		}
	}
	r.Weeks = len(perWeek)
	size := len(opts.Aircraft)
	if size == 0 {
		size = perWeek[minWeek]
	}
	r.FleetSize = size
	for w := minWeek; w <= maxWeek; w++ {
		n, ok := perWeek[w]
		switch {
		case !ok:
			r.add(Violation{Check: CheckCoverage, Week: w, Detail: "week missing from schedule"})
		case n != size:
			r.add(Violation{Check: CheckCoverage, Week: w, Detail: fmt.Sprintf("%d rows, fleet has %d aircraft", n, size)})
		}
	}
}

func checkUniqueness(r *Report, rows []schedule.Row) {
	type key struct {
		week int
		id   string
	}
	tails := map[key]struct{}{}
	holders := map[key]string{}
	for _, row := range rows {
		k := key{row.Week, row.Aircraft}
		if _, dup := tails[k]; dup {
			r.add(Violation{Check: CheckUniqueness, Week: row.Week, Aircraft: row.Aircraft, Detail: "aircraft listed twice"})
		}
		tails[k] = struct{}{}
		if row.Uncovered() {
			continue
		}
		mk := key{row.Week, row.Motor}
		if prev, dup := holders[mk]; dup {
			r.add(Violation{Check: CheckUniqueness, Week: row.Week, Aircraft: row.Aircraft, Motor: row.Motor,
				Detail: fmt.Sprintf("motor also installed on %s", prev)})
			continue
		}
		holders[mk] = row.Aircraft
	}
}

// byMotor groups covered rows per motor, each group sorted by week.
func byMotor(rows []schedule.Row) map[string][]schedule.Row {
	out := map[string][]schedule.Row{}
	for _, row := range rows {
		if row.Uncovered() {
			continue
		}
		out[row.Motor] = append(out[row.Motor], row)
	}
	for _, g := range out {
		sort.SliceStable(g, func(i, j int) bool { return g[i].Week < g[j].Week })
	}
	return out
}

func sortedKeys(m map[string][]schedule.Row) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkCeilings re-derives each motor's cycles from the weekly rates. A run
// of consecutive weeks on one aircraft is anchored on its first logged value;
// any later run starts from a fresh life at zero.
func checkCeilings(r *Report, rows []schedule.Row, opts Options) {
	fleet := make(map[string]model.Aircraft, len(opts.Aircraft))
	for _, a := range opts.Aircraft {
		fleet[a.ID] = a
	}
	groups := byMotor(rows)
	for _, id := range sortedKeys(groups) {
		var expected float64
		for i, row := range groups[id] {
			ac, ok := fleet[row.Aircraft]
			if !ok {
				r.add(Violation{Check: CheckCeiling, Week: row.Week, Aircraft: row.Aircraft, Motor: id, Detail: "aircraft not in fleet"})
				break
			}
			limit, err := opts.Limits.Limit(ac.Family)
			if err != nil {
				r.add(Violation{Check: CheckCeiling, Week: row.Week, Aircraft: row.Aircraft, Motor: id, Detail: err.Error()})
				break
			}
			switch {
			case i == 0:
				expected = row.Cycles
			default:
				prev := groups[id][i-1]
				// A reinstalled motor always starts a fresh life.
				if row.Week-prev.Week > 1 || row.Aircraft != prev.Aircraft || row.Cycles <= opts.Tolerance {
					expected = 0
				} else {
					expected += ac.CyclesPerWeek
				}
			}
			if math.Abs(expected-row.Cycles) > opts.Tolerance {
				r.add(Violation{Check: CheckCeiling, Week: row.Week, Aircraft: row.Aircraft, Motor: id,
					Detail: fmt.Sprintf("logged %.1f cycles, expected %.1f", row.Cycles, expected)})
				break
			}
			if expected > limit+1e-6 {
				r.add(Violation{Check: CheckCeiling, Week: row.Week, Aircraft: row.Aircraft, Motor: id,
					Detail: fmt.Sprintf("%.1f cycles over the %.0f ceiling", expected, limit)})
				break
			}
		}
	}
}

// checkMaintenance requires every absence of an owned motor to last at least
// duration-1 weeks: the removal week is the first maintenance week and the
// motor flies again in the week its maintenance ends.
func checkMaintenance(r *Report, rows []schedule.Row, duration int) {
	groups := byMotor(rows)
	for _, id := range sortedKeys(groups) {
		g := groups[id]
		for i := 1; i < len(g); i++ {
			gap := g[i].Week - g[i-1].Week - 1
			if gap > 0 && gap < duration-1 {
				r.add(Violation{Check: CheckMaintenance, Week: g[i].Week, Aircraft: g[i].Aircraft, Motor: id,
					Detail: fmt.Sprintf("back after %d weeks, maintenance takes %d", gap, duration)})
			}
		}
	}
}
