package main

import (
	"fmt"
	"text/tabwriter"

	"Mooring/internal/calc/components"
	"Mooring/internal/calc/recommend"

	"github.com/spf13/cobra"
)

func newRecommendCmd(flags *engineFlags) *cobra.Command {
	var in recommend.Input
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank catalog components for a site by safety and weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.engine()
			if err != nil {
				return err
			}
			res, err := recommend.Recommend(e, components.Default(), in, 0)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tWEIGHT\tSAFETY\tMARGIN\tCHECK")
			for _, c := range res.Candidates {
				fmt.Fprintf(tw, "%s\t%g\t%.3f\t%+.3f\t%s\n", c.Spec.Key, c.Spec.Weight,
					c.Response.Safety.SafetyFactor, c.Margin, verdict(c.Response.Safety.IsValid))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if res.Recommended == nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no component meets the required safety factor")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "recommended: %s\n", res.Recommended.Spec.Key)
			return err
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.FairleadTension, "tension", 0, "fairlead tension")
	f.Float64Var(&in.WaterDepth, "depth", 0, "water depth")
	f.StringVar(&in.ComponentType, "type", "", "restrict to one component type")
	f.Float64Var(&in.ComponentLength, "length", 0, "line length; catalog default when unset")
	return cmd
}
