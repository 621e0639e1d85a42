// Package app wires configuration, fleet loading, the simulation engine and
// every output adapter into one runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	scheduleapi "github.com/kilianp07/enginepool/api/schedule"
	"github.com/kilianp07/enginepool/app/plugins"
	"github.com/kilianp07/enginepool/config"
	"github.com/kilianp07/enginepool/core/ledger"
	coremetrics "github.com/kilianp07/enginepool/core/metrics"
	coremon "github.com/kilianp07/enginepool/core/monitoring"
	coremqtt "github.com/kilianp07/enginepool/core/mqtt"
	"github.com/kilianp07/enginepool/core/report"
	"github.com/kilianp07/enginepool/core/schedule"
	"github.com/kilianp07/enginepool/core/sim"
	"github.com/kilianp07/enginepool/core/validate"
	"github.com/kilianp07/enginepool/infra/loader"
	"github.com/kilianp07/enginepool/infra/logger"
	"github.com/kilianp07/enginepool/infra/metrics"
	"github.com/kilianp07/enginepool/infra/monitoring"
	"github.com/kilianp07/enginepool/infra/mqtt"
	"github.com/kilianp07/enginepool/internal/eventbus"
	"github.com/kilianp07/enginepool/pkg/export"
)

const busBuffer = 256

// Service runs one simulation with its outputs.
type Service struct {
	cfg    *config.Config
	simCfg sim.Config
	fleet  *loader.Fleet
	runID  string
	log    logger.Logger

	sink      coremetrics.MetricsSink
	store     schedule.Store
	publisher *mqtt.SchedulePublisher

	stopServers context.CancelFunc
	servers     sync.WaitGroup

	// Stdout receives the printed report. Defaults to os.Stdout.
	Stdout io.Writer
}

// Outcome is the result of Service.Run.
type Outcome struct {
	RunID string
	Rows  []schedule.Row
	Costs map[string]float64
	// WeeklyCosts holds the lease charges per leasing week.
	WeeklyCosts []ledger.Entry
	Weeks       int
	Report      report.Report
	Validation  *validate.Report
}

// New loads the fleet and opens the configured outputs.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	simCfg, err := cfg.Simulation.SimConfig()
	if err != nil {
		return nil, err
	}
	fl, err := plugins.LoadFleet(cfg.Fleet, simCfg.Limits)
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg:    cfg,
		simCfg: simCfg,
		fleet:  fl,
		runID:  uuid.NewString(),
		log:    logger.New("service"),
		Stdout: os.Stdout,
	}
	s.sink, err = coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	s.store, err = schedule.NewStore(cfg.Schedule)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("schedule store: %w", err)
	}
	if cfg.MQTT.Enabled {
		s.publisher, err = mqtt.NewSchedulePublisher(cfg.MQTT, s.runID)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}
	s.startServers()
	return s, nil
}

func (s *Service) startServers() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopServers = cancel
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		s.servers.Add(1)
		go func() {
			defer s.servers.Done()
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if addr := s.cfg.API.Addr; addr != "" && s.store != nil {
		h := scheduleapi.NewHandler(s.store, s.cfg.API.Token)
		s.servers.Add(1)
		go func() {
			defer s.servers.Done()
			if err := scheduleapi.Serve(ctx, addr, h, logger.New("schedule-api")); err != nil {
				s.log.Errorf("schedule api: %v", err)
			}
		}()
	}
}

// RunID identifies this run in metrics, MQTT topics and exports.
func (s *Service) RunID() string { return s.runID }

// Fleet returns the loaded fleet.
func (s *Service) Fleet() *loader.Fleet { return s.fleet }

// Run simulates the configured horizon. When ctx is cancelled the outcome of
// the completed weeks is returned together with the context error.
func (s *Service) Run(ctx context.Context) (*Outcome, error) {
	store, err := s.fleet.Store()
	if err != nil {
		return nil, err
	}
	bus := eventbus.NewTyped[sim.Event](busBuffer)
	collector := metrics.NewCollector(s.runID, store.Len(), s.cfg.Simulation.Origin(), s.sink)
	collected := collector.Start(bus)
	forward := sim.ObserverFunc(func(ev sim.Event) {
		if err := bus.Send(ctx, ev); err != nil {
			s.log.Debugf("event not forwarded: %v", err)
		}
	})
	tally := &report.Tally{}
	writers := schedule.NewMultiWriter(s.store, s.writer())

	eng, err := sim.New(s.simCfg, store,
		sim.WithLogger(logger.New("sim")),
		sim.WithObserver(sim.Observers{tally, forward}),
		sim.WithWriter(writers),
	)
	if err != nil {
		bus.Close()
		<-collected
		return nil, err
	}
	res, runErr := eng.Run(ctx)
	bus.Close()
	<-collected
	if res == nil {
		coremon.CaptureException(runErr, map[string]string{"module": "sim", "run_id": s.runID})
		return nil, runErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		coremon.CaptureException(runErr, map[string]string{"module": "sim", "run_id": s.runID})
	}
	if n := collector.Failures(); n > 0 {
		s.log.Warnf("%d metrics samples could not be recorded", n)
	}

	out := s.outcome(res, tally)
	if err := s.export(out); err != nil {
		return out, err
	}
	s.finish(ctx, out, res, runErr == nil)
	return out, runErr
}

func (s *Service) writer() schedule.Writer {
	if s.publisher == nil {
		return nil
	}
	return s.publisher
}

func (s *Service) outcome(res *sim.Result, tally *report.Tally) *Outcome {
	cost := res.Costs[ledger.KindLease]
	val := validate.Schedule(res.Rows, validate.Options{
		Aircraft:          s.fleet.Aircraft,
		Limits:            s.simCfg.Limits,
		MaintenanceWeeks:  s.simCfg.MaintenanceWeeks,
		LeasePrice:        s.simCfg.LeasePrice,
		ReportedLeaseCost: &cost,
		AllowUncovered:    s.simCfg.LeasingDisabled,
	})
	rep := report.Build(res.Rows, res.Costs, tally)
	return &Outcome{
		RunID:       s.runID,
		Rows:        res.Rows,
		Costs:       res.Costs,
		WeeklyCosts: res.WeeklyCosts,
		Weeks:       res.Weeks,
		Report:      rep,
		Validation:  val,
	}
}

func (s *Service) export(out *Outcome) error {
	o := s.cfg.Output
	if o.ScheduleCSV != "" {
		if err := export.WriteFile(o.ScheduleCSV, func(w io.Writer) error { return export.WriteCSV(w, out.Rows) }); err != nil {
			return fmt.Errorf("export schedule csv: %w", err)
		}
		s.log.Infof("schedule written to %s", o.ScheduleCSV)
	}
	if o.ScheduleJSON != "" {
		if err := export.WriteFile(o.ScheduleJSON, func(w io.Writer) error { return export.WriteJSON(w, out.Rows) }); err != nil {
			return fmt.Errorf("export schedule json: %w", err)
		}
	}
	if o.CostsJSON != "" {
		costs := export.Costs{
			RunID:       out.RunID,
			Weeks:       out.Weeks,
			LeasedWeeks: out.Report.LeasedWeeks,
			LeasePrice:  s.simCfg.LeasePrice,
			Totals:      out.Costs,
			Weekly:      out.WeeklyCosts,
		}
		if err := export.WriteFile(o.CostsJSON, func(w io.Writer) error { return export.WriteCosts(w, costs) }); err != nil {
			return fmt.Errorf("export costs: %w", err)
		}
	}
	if o.Report && s.Stdout != nil {
		if err := out.Report.Print(s.Stdout); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) finish(ctx context.Context, out *Outcome, res *sim.Result, completed bool) {
	s.log.Infof("total lease cost over %d weeks: %.0f (%d leased engine-weeks)",
		out.Weeks, out.Costs[ledger.KindLease], out.Report.LeasedWeeks)
	if !out.Validation.OK() {
		s.log.Warnf("schedule failed validation: %v", out.Validation.Err())
	}
	if rec, ok := s.sink.(coremetrics.RunRecorder); ok {
		err := rec.RecordRun(coremetrics.RunSummary{
			RunID:       s.runID,
			Weeks:       out.Weeks,
			FleetSize:   len(s.fleet.Aircraft),
			LeasedWeeks: out.Report.LeasedWeeks,
			LeaseCost:   out.Costs[ledger.KindLease],
			Duration:    res.Duration,
			Time:        time.Now(),
		})
		if err != nil {
			s.log.Errorf("record run: %v", err)
		}
	}
	if s.publisher != nil {
		err := s.publisher.PublishSummary(context.WithoutCancel(ctx), coremqtt.SummaryMessage{
			RunID:       s.runID,
			Weeks:       out.Weeks,
			FleetSize:   len(s.fleet.Aircraft),
			LeasedWeeks: out.Report.LeasedWeeks,
			Costs:       out.Costs,
			Completed:   completed,
		})
		if err != nil {
			s.log.Errorf("publish summary: %v", err)
		}
	}
}

// Close stops the servers and releases every output. It is safe to call more
// than once.
func (s *Service) Close() error {
	if s.stopServers != nil {
		s.stopServers()
		s.servers.Wait()
		s.stopServers = nil
	}
	var errs []error
	if s.store != nil {
		errs = append(errs, s.store.Close())
		s.store = nil
	}
	if s.publisher != nil {
		errs = append(errs, s.publisher.Close())
		s.publisher = nil
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
		s.sink = nil
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
