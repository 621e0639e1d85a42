package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/enginepool/app"
	"github.com/kilianp07/enginepool/config"
	"github.com/kilianp07/enginepool/infra/logger"
)

const defaultConfigFile = "config.yaml"

var cfgPath string

var runFlags struct {
	weeks   int
	noLease bool
	hold    bool
}

var rootCmd = &cobra.Command{
	Use:   "enginepool",
	Short: "Weekly engine pool simulator",
	Long: `enginepool simulates the weekly assignment of engines to a fleet of
aircraft: cycle accrual, removals at the family ceiling, shop visits,
spare assignment and leasing. The schedule and lease costs are exported
to the configured outputs.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (default ./config.yaml when present)")
	rootCmd.Flags().IntVar(&runFlags.weeks, "weeks", 0, "override simulation.weeks")
	rootCmd.Flags().BoolVar(&runFlags.noLease, "no-lease", false, "disable leasing; uncovered aircraft stay grounded")
	rootCmd.Flags().BoolVar(&runFlags.hold, "hold", false, "keep serving /metrics and the schedule API after the run until interrupted")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.weeks > 0 {
		cfg.Simulation.Weeks = runFlags.weeks
	}
	if runFlags.noLease {
		cfg.Simulation.LeasingDisabled = true
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	svc.Stdout = cmd.OutOrStdout()

	out, err := svc.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && out != nil {
			logger.New("main").Warnf("interrupted after %d weeks", out.Weeks)
		}
		return err
	}
	if !out.Validation.OK() {
		return out.Validation.Err()
	}
	if runFlags.hold && (cfg.Metrics.PrometheusAddr != "" || cfg.API.Addr != "") {
		logger.New("main").Infof("run %s done, serving until interrupted", out.RunID)
		<-ctx.Done()
	}
	return nil
}
