// Package ledger accumulates simulation costs.
package ledger

import "sort"

// KindLease is the ledger key for leased engine-weeks.
const KindLease = "lease"

// Entry is one charge.
type Entry struct {
	Kind   string  `json:"kind"`
	Week   int     `json:"week"`
	Ref    string  `json:"ref,omitempty"`
	Amount float64 `json:"amount"`
}

// Ledger is an append-only cost journal with running totals per kind.
type Ledger struct {
	entries []Entry
	totals  map[string]float64
	counts  map[string]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{totals: map[string]float64{}, counts: map[string]int{}}
}

// Charge records amount under kind for the given week. ref identifies what
// was charged (a lease id for instance).
func (l *Ledger) Charge(kind string, week int, ref string, amount float64) {
	l.entries = append(l.entries, Entry{Kind: kind, Week: week, Ref: ref, Amount: amount})
	l.totals[kind] += amount
	l.counts[kind]++
}

// Total returns the accumulated amount for kind.
func (l *Ledger) Total(kind string) float64 { return l.totals[kind] }

// Count returns how many charges of kind were recorded.
func (l *Ledger) Count(kind string) int { return l.counts[kind] }

// Summary returns the totals per kind. The lease key is always present.
func (l *Ledger) Summary() map[string]float64 {
	out := make(map[string]float64, len(l.totals)+1)
	out[KindLease] = 0
	for k, v := range l.totals {
		out[k] = v
	}
	return out
}

// WeekTotals returns the amount of kind charged per week, sorted by week.
func (l *Ledger) WeekTotals(kind string) []Entry {
	byWeek := map[int]float64{}
	for _, e := range l.entries {
		if e.Kind == kind {
			byWeek[e.Week] += e.Amount
		}
	}
	out := make([]Entry, 0, len(byWeek))
	for w, amt := range byWeek {
		out = append(out, Entry{Kind: kind, Week: w, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}
