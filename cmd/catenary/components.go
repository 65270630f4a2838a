package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"Mooring/internal/calc/components"

	"github.com/spf13/cobra"
)

func newComponentsCmd(flags *engineFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "components [type]",
		Short: "List catalog component defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := components.Default()
			specs := cat.Defaults
			if len(args) == 1 {
				c, ok := cat.Category(args[0])
				if !ok {
					return fmt.Errorf("unknown component type %q", args[0])
				}
				specs = nil
				for _, s := range cat.Defaults {
					if s.Type == c.Type {
						specs = append(specs, s)
					}
				}
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), specs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join([]string{"KEY", "TYPE", "WEIGHT", "STIFFNESS", "MBL", "LENGTH", "OPTION"}, "\t"))
			for _, s := range specs {
				fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%s\n", s.Key, s.Type, s.Weight, s.Stiffness, s.MBL, s.DefaultLength, s.Option)
			}
			return tw.Flush()
		},
	}
}
