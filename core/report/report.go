// Package report condenses a run into summary statistics.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/enginepool/core/ledger"
	"github.com/kilianp07/enginepool/core/schedule"
	"github.com/kilianp07/enginepool/core/sim"
)

// Tally counts engine events. Register it with sim.WithObserver.
type Tally struct {
	Removals  int
	Returns   int
	Spares    int
	Leases    int
	Retags    int
	Uncovered int
}

// OnEvent implements sim.Observer.
func (t *Tally) OnEvent(ev sim.Event) {
	switch e := ev.(type) {
	case sim.RemovalEvent:
		t.Removals++
	case sim.ReadyEvent:
		t.Returns++
	case sim.AssignEvent:
		switch {
		case e.Motor == "":
			t.Uncovered++
		case e.Leased:
			t.Leases++
		default:
			t.Spares++
		}
		if e.Retagged {
			t.Retags++
		}
	}
}

// Distribution describes a weekly series.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Max    float64 `json:"max"`
	// PeakWeek is the first week reaching Max.
	PeakWeek int `json:"peak_week"`
}

// Report is the run summary.
type Report struct {
	Weeks       int     `json:"weeks"`
	FleetSize   int     `json:"fleet_size"`
	Rows        int     `json:"rows"`
	LeasedWeeks int     `json:"leased_weeks"`
	LeaseCost   float64 `json:"lease_cost"`
	// Availability is the share of aircraft-weeks flown with a motor.
	Availability float64      `json:"availability"`
	Leased       Distribution `json:"leased_per_week"`

	Removals int `json:"removals"`
	Returns  int `json:"returns"`
	Retags   int `json:"retags"`
	// SpareShare is the share of assignments served from inventory.
	SpareShare float64 `json:"spare_share"`
}

// Build summarises rows and costs. tally may be nil when no events were
// observed.
func Build(rows []schedule.Row, costs map[string]float64, tally *Tally) Report {
	r := Report{Rows: len(rows), LeaseCost: costs[ledger.KindLease]}
	perWeek := map[int]float64{}
	maxWeek := 0
	covered := 0
	for _, row := range rows {
		if _, ok := perWeek[row.Week]; !ok {
			perWeek[row.Week] = 0
		}
		if row.Week > maxWeek {
			maxWeek = row.Week
		}
		if row.Leased {
			perWeek[row.Week]++
			r.LeasedWeeks++
		}
		if !row.Uncovered() {
			covered++
		}
	}
	r.Weeks = len(perWeek)
	if r.Weeks > 0 {
		r.FleetSize = len(rows) / r.Weeks
	}
	if len(rows) > 0 {
		r.Availability = float64(covered) / float64(len(rows))
	}

	series := make([]float64, 0, maxWeek)
	for w := 1; w <= maxWeek; w++ {
		series = append(series, perWeek[w])
	}
	r.Leased = distribution(series)

	if tally != nil {
		r.Removals = tally.Removals
		r.Returns = tally.Returns
		r.Retags = tally.Retags
		if n := tally.Spares + tally.Leases; n > 0 {
			r.SpareShare = float64(tally.Spares) / float64(n)
		}
	}
	return r
}

func distribution(series []float64) Distribution {
	if len(series) == 0 {
		return Distribution{}
	}
	d := Distribution{Mean: stat.Mean(series, nil)}
	if len(series) > 1 {
		d.StdDev = stat.StdDev(series, nil)
	}
	i := floats.MaxIdx(series)
	d.Max = series[i]
	d.PeakWeek = i + 1
	if math.IsNaN(d.StdDev) {
		d.StdDev = 0
	}
	return d
}

// Print writes a human-readable summary.
func (r Report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "weeks\t%d\n", r.Weeks)
	fmt.Fprintf(tw, "fleet size\t%d\n", r.FleetSize)
	fmt.Fprintf(tw, "availability\t%.2f%%\n", r.Availability*100)
	fmt.Fprintf(tw, "leased weeks\t%d\n", r.LeasedWeeks)
	fmt.Fprintf(tw, "lease cost\t%.0f\n", r.LeaseCost)
	fmt.Fprintf(tw, "leases per week\tmean %.2f  stddev %.2f  max %.0f (week %d)\n", r.Leased.Mean, r.Leased.StdDev, r.Leased.Max, r.Leased.PeakWeek)
	fmt.Fprintf(tw, "removals\t%d\n", r.Removals)
	fmt.Fprintf(tw, "returns from maintenance\t%d\n", r.Returns)
	fmt.Fprintf(tw, "cross-family retags\t%d\n", r.Retags)
	fmt.Fprintf(tw, "spare share\t%.2f%%\n", r.SpareShare*100)
	return tw.Flush()
}
