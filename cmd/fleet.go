package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/enginepool/app/plugins"
	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/infra/loader"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Summarise the configured fleet",
	RunE:  runFleetLs,
}

var generateFlags struct {
	out  string
	cfg  loader.SyntheticConfig
	wear float64
}

var fleetGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a seeded synthetic fleet file",
	RunE:  runFleetGenerate,
}

func init() {
	f := fleetGenerateCmd.Flags()
	f.StringVarP(&generateFlags.out, "out", "o", "fleet.yaml", "output file (.yaml or .json)")
	f.IntVar(&generateFlags.cfg.Size, "size", 50, "number of aircraft")
	f.IntVar(&generateFlags.cfg.Spares, "spares", 5, "number of spare engines")
	f.Int64Var(&generateFlags.cfg.Seed, "seed", 1, "random seed")
	f.Float64Var(&generateFlags.wear, "wear", 0.9, "max initial wear as a share of the ceiling")
	fleetCmd.AddCommand(fleetLsCmd, fleetGenerateCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := cfg.Simulation.Limits()
	if err != nil {
		return err
	}
	fl, err := plugins.LoadFleet(cfg.Fleet, table)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tCATEGORY\tAIRCRAFT\tCEILING")
	for _, fc := range fl.Families() {
		ceiling := "-"
		if l, err := table.Limit(fc.Family); err == nil {
			ceiling = fmt.Sprintf("%.0f", l)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", fc.Family, fc.Category, fc.Aircraft, ceiling)
	}
	fmt.Fprintf(tw, "\ntotal\t\t%d\t\n", len(fl.Aircraft))
	fmt.Fprintf(tw, "spares\t\t%d\t\n", len(fl.Spares()))
	return tw.Flush()
}

func runFleetGenerate(cmd *cobra.Command, _ []string) error {
	sc := generateFlags.cfg
	sc.WearFraction = generateFlags.wear
	fl, err := loader.Generate(sc, limits.Default())
	if err != nil {
		return err
	}
	if err := loader.SaveFile(generateFlags.out, fl); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d aircraft and %d spares to %s\n", len(fl.Aircraft), len(fl.Spares()), generateFlags.out)
	return nil
}
