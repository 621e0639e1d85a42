// Package schedule holds the weekly engine schedule produced by a simulation
// run and the stores it can be persisted to.
package schedule

import "math"

// NoMotor is logged for an aircraft left without an engine.
const NoMotor = "NONE"

// Row is the state of one aircraft at the end of one week.
type Row struct {
	Week     int     `json:"week"`
	Aircraft string  `json:"aircraft"`
	Motor    string  `json:"motor"`
	Leased   bool    `json:"is_leased"`
	Cycles   float64 `json:"cycles"`
}

// Uncovered reports whether the row carries the NONE sentinel.
func (r Row) Uncovered() bool { return r.Motor == NoMotor || r.Motor == "" }

// RoundCycles rounds to one decimal, the precision of the schedule table.
func RoundCycles(c float64) float64 { return math.Round(c*10) / 10 }

// Query filters rows. Zero fields match everything; ToWeek is inclusive and
// only applied when HasToWeek is set.
type Query struct {
	FromWeek   int
	ToWeek     int
	HasToWeek  bool
	Aircraft   string
	Motor      string
	LeasedOnly bool
}

// Match reports whether r passes the filter.
func (q Query) Match(r Row) bool {
	if r.Week < q.FromWeek {
		return false
	}
	if q.HasToWeek && r.Week > q.ToWeek {
		return false
	}
	if q.Aircraft != "" && r.Aircraft != q.Aircraft {
		return false
	}
	if q.Motor != "" && r.Motor != q.Motor {
		return false
	}
	if q.LeasedOnly && !r.Leased {
		return false
	}
	return true
}
