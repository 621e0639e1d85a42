package scenarios

import (
	"context"
	"fmt"
	"math"

	"github.com/kilianp07/enginepool/core/ledger"
	"github.com/kilianp07/enginepool/core/logger"
	"github.com/kilianp07/enginepool/core/report"
	"github.com/kilianp07/enginepool/core/schedule"
	"github.com/kilianp07/enginepool/core/sim"
	"github.com/kilianp07/enginepool/core/validate"
)

// Outcome is what a scenario run produced.
type Outcome struct {
	Result     *sim.Result
	Report     report.Report
	Validation *validate.Report
}

// Run executes sc. log may be nil.
func Run(ctx context.Context, sc *Scenario, log logger.Logger) (*Outcome, error) {
	cfg, err := sc.Settings.SimConfig()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	fl, err := sc.Fleet.Fleet()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	store, err := fl.Store()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	tally := &report.Tally{}
	eng, err := sim.New(cfg, store, sim.WithObserver(tally), sim.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	res, err := eng.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	cost := res.Costs[ledger.KindLease]
	val := validate.Schedule(res.Rows, validate.Options{
		Aircraft:          fl.Aircraft,
		Limits:            cfg.Limits,
		MaintenanceWeeks:  cfg.MaintenanceWeeks,
		LeasePrice:        cfg.LeasePrice,
		ReportedLeaseCost: &cost,
		AllowUncovered:    cfg.LeasingDisabled,
	})
	return &Outcome{
		Result:     res,
		Report:     report.Build(res.Rows, res.Costs, tally),
		Validation: val,
	}, nil
}

type rowKey struct {
	week     int
	aircraft string
}

// Check compares an outcome with the scenario expectations and returns one
// message per mismatch.
func Check(sc *Scenario, out *Outcome) []string {
	var msgs []string
	exp := sc.Expected
	fail := func(format string, args ...any) { msgs = append(msgs, fmt.Sprintf(format, args...)) }
	counter := func(name string, want *int, got int) {
		if want != nil && *want != got {
			fail("%s: want %d, got %d", name, *want, got)
		}
	}
	counter("leased_weeks", exp.LeasedWeeks, out.Result.LeasedRows)
	counter("removals", exp.Removals, out.Report.Removals)
	counter("returns", exp.Returns, out.Report.Returns)
	counter("retags", exp.Retags, out.Report.Retags)
	counter("uncovered", exp.Uncovered, out.Validation.Uncovered)
	if exp.LeaseCost != nil && math.Abs(*exp.LeaseCost-out.Report.LeaseCost) > 1e-6 {
		fail("lease_cost: want %.2f, got %.2f", *exp.LeaseCost, out.Report.LeaseCost)
	}
	if exp.Valid && !out.Validation.OK() {
		for _, v := range out.Validation.Violations {
			fail("validation: %s", v)
		}
	}
	if !exp.Valid && out.Validation.OK() {
		fail("validation: expected violations, schedule is valid")
	}

	index := make(map[rowKey]schedule.Row, len(out.Result.Rows))
	used := map[string]bool{}
	for _, r := range out.Result.Rows {
		index[rowKey{r.Week, r.Aircraft}] = r
		used[r.Motor] = true
	}
	for _, want := range exp.Rows {
		got, ok := index[rowKey{want.Week, want.Aircraft}]
		if !ok {
			fail("week %d %s: no row", want.Week, want.Aircraft)
			continue
		}
		if want.Motor != "" && got.Motor != want.Motor {
			fail("week %d %s: motor want %s, got %s", want.Week, want.Aircraft, want.Motor, got.Motor)
		}
		if want.Leased != nil && got.Leased != *want.Leased {
			fail("week %d %s: leased want %v, got %v", want.Week, want.Aircraft, *want.Leased, got.Leased)
		}
		if want.Cycles != nil && math.Abs(got.Cycles-*want.Cycles) > 1e-6 {
			fail("week %d %s: cycles want %.1f, got %.1f", want.Week, want.Aircraft, *want.Cycles, got.Cycles)
		}
	}
	for _, id := range exp.Unused {
		if used[id] {
			fail("motor %s: expected unused", id)
		}
	}
	return msgs
}
