// Command catenary runs the mooring-line engine from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/logging"

	"github.com/spf13/cobra"
)

type engineFlags struct {
	curve    string
	samples  int
	minSF    float64
	asJSON   bool
	logLevel string
}

func (f *engineFlags) engine() (*catenary.Engine, error) {
	model, err := catenary.ParseCurveModel(f.curve)
	if err != nil {
		return nil, err
	}
	return catenary.New(catenary.Options{
		Curve:           model,
		SampleCount:     f.samples,
		MinSafetyFactor: f.minSF,
	}), nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &engineFlags{}
	root := &cobra.Command{
		Use:           "catenary",
		Short:         "Mooring-line catenary calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logging.New(stderr, logging.Config{Level: flags.logLevel})
			cmd.SetContext(withLogger(cmd.Context(), log))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.curve, "curve", string(catenary.CurveLegacyCosine), "curve model: legacy or catenary")
	pf.IntVar(&flags.samples, "samples", catenary.DefaultSampleCount, "number of curve segments")
	pf.Float64Var(&flags.minSF, "min-safety-factor", catenary.DefaultMinSafetyFactor, "required safety factor")
	pf.BoolVar(&flags.asJSON, "json", false, "print JSON instead of a table")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newComputeCmd(flags),
		newCurveCmd(flags),
		newSafetyCmd(flags),
		newComponentsCmd(flags),
		newRecommendCmd(flags),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if kind := catenary.KindName(err); kind != "" {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
