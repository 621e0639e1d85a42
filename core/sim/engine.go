package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/enginepool/core/fleet"
	"github.com/kilianp07/enginepool/core/ledger"
	"github.com/kilianp07/enginepool/core/logger"
	"github.com/kilianp07/enginepool/core/model"
	"github.com/kilianp07/enginepool/core/schedule"
)

// Engine advances a fleet week by week. It owns the store for the duration of
// the run and is not safe for concurrent use.
type Engine struct {
	cfg      Config
	store    *fleet.Store
	ledger   *ledger.Ledger
	log      *schedule.Log
	logger   logger.Logger
	observer Observer
	writer   schedule.Writer

	week  int
	ready []string
	stats WeekStats
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers an observer for engine events.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithWriter forwards the rows of every week completed by Run to w.
func WithWriter(w schedule.Writer) Option {
	return func(e *Engine) { e.writer = w }
}

// Result is the outcome of a run.
type Result struct {
	Rows  []schedule.Row
	Costs map[string]float64
	Weeks int
	// LeasedRows counts aircraft-weeks flown on a leased motor.
	LeasedRows int
	// WeeklyCosts holds the lease charges of every week that leased, by week.
	WeeklyCosts []ledger.Entry
	Duration    time.Duration
}

// New validates cfg against the fleet and returns an engine positioned before
// week 1. Every aircraft and motor family must resolve to a ceiling.
func New(cfg Config, store *fleet.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("sim: nil fleet store")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, a := range store.Aircraft() {
		if _, err := cfg.Limits.Limit(a.Family); err != nil {
			return nil, &ConfigError{Key: "family_limits." + model.BaseFamily(a.Family), Err: fmt.Errorf("aircraft %s: %w", a.ID, err)}
		}
	}
	motors := store.Inventory()
	for _, a := range store.Aircraft() {
		if a.HasMotor() {
			motors = append(motors, a.MotorID)
		}
	}
	for _, id := range motors {
		m, _ := store.Motor(id)
		if _, err := cfg.Limits.Limit(m.Family); err != nil {
			return nil, &ConfigError{Key: "family_limits." + model.BaseFamily(m.Family), Err: fmt.Errorf("motor %s: %w", id, err)}
		}
	}
	e := &Engine{
		cfg:    cfg,
		store:  store,
		ledger: ledger.New(),
		log:    schedule.NewLog(cfg.Weeks * store.Len()),
		logger: logger.Nop{},
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Week returns the number of completed weeks.
func (e *Engine) Week() int { return e.week }

// Done reports whether the horizon has been reached.
func (e *Engine) Done() bool { return e.week >= e.cfg.Weeks }

// Store exposes the fleet being simulated.
func (e *Engine) Store() *fleet.Store { return e.store }

// Ledger exposes the cost ledger.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Log exposes the schedule log.
func (e *Engine) Log() *schedule.Log { return e.log }

// Config returns the run parameters.
func (e *Engine) Config() Config { return e.cfg }

// Step simulates the next week and returns its rows.
func (e *Engine) Step() ([]schedule.Row, error) {
	if e.Done() {
		return nil, ErrHorizonReached
	}
	w := e.week + 1
	e.stats = WeekStats{}
	costBefore := e.ledger.Total(ledger.KindLease)

	removed, err := e.accrue(w)
	if err != nil {
		return nil, err
	}
	if err := e.progressMaintenance(w, removed); err != nil {
		return nil, err
	}
	if err := e.assign(w); err != nil {
		return nil, err
	}
	rows := e.emit(w)
	if err := e.returnLeases(); err != nil {
		return nil, err
	}
	if e.cfg.CheckInvariants {
		if err := e.store.Verify(); err != nil {
			return nil, &InvariantError{Week: w, Err: err}
		}
	}
	e.week = w
	e.stats.LeaseCost = e.ledger.Total(ledger.KindLease) - costBefore
	e.publish(WeekEndEvent{Week: w, Stats: e.stats})
	return rows, nil
}

// Run simulates the remaining weeks. When ctx is cancelled between weeks the
// result holds every completed week and the context error is returned with it.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	e.logger.Infow("simulation started", map[string]any{
		"weeks":    e.cfg.Weeks,
		"aircraft": e.store.Len(),
		"spares":   len(e.store.Inventory()),
		"leasing":  !e.cfg.LeasingDisabled,
	})
	for !e.Done() {
		if err := ctx.Err(); err != nil {
			e.logger.Warnf("simulation stopped after week %d: %v", e.week, err)
			return e.result(start), err
		}
		rows, err := e.Step()
		if err != nil {
			return nil, err
		}
		if e.writer != nil {
			if err := e.writer.Append(ctx, rows); err != nil {
				return e.result(start), fmt.Errorf("week %d: write schedule: %w", e.week, err)
			}
		}
	}
	res := e.result(start)
	e.logger.Infow("simulation finished", map[string]any{
		"weeks":       res.Weeks,
		"rows":        len(res.Rows),
		"leased_rows": res.LeasedRows,
		"lease_cost":  res.Costs[ledger.KindLease],
		"duration":    res.Duration.String(),
	})
	return res, nil
}

func (e *Engine) result(start time.Time) *Result {
	return &Result{
		Rows:        e.log.Rows(),
		Costs:       e.ledger.Summary(),
		Weeks:       e.week,
		LeasedRows:  e.log.LeasedRows(),
		WeeklyCosts: e.ledger.WeekTotals(ledger.KindLease),
		Duration:    time.Since(start),
	}
}

func (e *Engine) publish(ev Event) {
	if e.observer != nil {
		e.observer.OnEvent(ev)
	}
}
