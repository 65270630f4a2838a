package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCurveCmd(flags *engineFlags) *cobra.Command {
	var distance, depth float64
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Sample the line profile between fairlead and anchor",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.engine()
			if err != nil {
				return err
			}
			points, err := e.SampleCurve(distance, depth, 0)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), points)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "x\ty")
			for _, p := range points {
				fmt.Fprintf(tw, "%.3f\t%.3f\n", p.X, p.Y)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&distance, "anchor-distance", 0, "horizontal fairlead to anchor distance")
	cmd.Flags().Float64Var(&depth, "depth", 0, "water depth")
	return cmd
}

func newSafetyCmd(flags *engineFlags) *cobra.Command {
	var mbl, tension float64
	cmd := &cobra.Command{
		Use:   "safety",
		Short: "Check MBL against an applied tension",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(mbl > 0) || !(tension > 0) {
				return fmt.Errorf("--mbl and --tension must be positive")
			}
			e, err := flags.engine()
			if err != nil {
				return err
			}
			check := e.CheckSafety(mbl, tension, 0)
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), check)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "safety factor %.3f, required %.2f: %s\n",
				check.SafetyFactor, check.RequiredSafetyFactor, verdict(check.IsValid))
			return err
		},
	}
	cmd.Flags().Float64Var(&mbl, "mbl", 0, "minimum breaking load")
	cmd.Flags().Float64Var(&tension, "tension", 0, "applied tension")
	return cmd
}
