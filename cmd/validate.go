package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/enginepool/app/plugins"
	"github.com/kilianp07/enginepool/core/validate"
	"github.com/kilianp07/enginepool/pkg/export"
)

var validateFlags struct {
	leaseCost      float64
	skipFleet      bool
	allowUncovered bool
}

var validateCmd = &cobra.Command{
	Use:   "validate [schedule.csv]",
	Short: "Check a schedule against the fleet rules",
	Long: `validate re-reads an exported schedule and checks fleet coverage,
duplicate assignments, cycle ceilings, maintenance gaps and, when
--lease-cost is given, the reported lease total.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Float64Var(&validateFlags.leaseCost, "lease-cost", -1, "reported lease total to check against the leased rows")
	validateCmd.Flags().BoolVar(&validateFlags.skipFleet, "skip-fleet", false, "do not load the fleet; the ceiling check is skipped")
	validateCmd.Flags().BoolVar(&validateFlags.allowUncovered, "allow-uncovered", false, "accept NONE rows")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Output.ScheduleCSV
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no schedule file given")
	}
	rows, err := export.ReadCSVFile(path)
	if err != nil {
		return err
	}
	simCfg, err := cfg.Simulation.SimConfig()
	if err != nil {
		return err
	}
	opts := validate.Options{
		Limits:           simCfg.Limits,
		MaintenanceWeeks: simCfg.MaintenanceWeeks,
		LeasePrice:       simCfg.LeasePrice,
		AllowUncovered:   validateFlags.allowUncovered || simCfg.LeasingDisabled,
	}
	if validateFlags.leaseCost >= 0 {
		cost := validateFlags.leaseCost
		opts.ReportedLeaseCost = &cost
	}
	if !validateFlags.skipFleet {
		fl, err := plugins.LoadFleet(cfg.Fleet, simCfg.Limits)
		if err != nil {
			return err
		}
		opts.Aircraft = fl.Aircraft
	}

	rep := validate.Schedule(rows, opts)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d rows, %d weeks, fleet of %d\n", rep.Rows, rep.Weeks, rep.FleetSize)
	fmt.Fprintf(w, "leased rows: %d  lease cost: %.0f\n", rep.LeasedRows, rep.LeaseCost)
	for _, v := range rep.Violations {
		fmt.Fprintln(w, v)
	}
	if err := rep.Err(); err != nil {
		return err
	}
	fmt.Fprintln(w, "schedule OK")
	return nil
}
