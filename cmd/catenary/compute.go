package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/components"

	"github.com/spf13/cobra"
)

type computeOutput struct {
	Input  catenary.LineInput   `json:"input"`
	Result catenary.Result      `json:"result"`
	Safety catenary.SafetyCheck `json:"safety"`
}

func newComputeCmd(flags *engineFlags) *cobra.Command {
	var (
		in        catenary.LineInput
		compType  string
		preset    string
		showCurve bool
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute catenary geometry and safety factor for one line",
		Example: `  catenary compute --component Chain-76mm --tension 500000 --depth 100
  catenary compute --type Chain --tension 500000 --depth 100 --length 300 \
      --weight 113.5 --stiffness 5.9e10 --mbl 4370000 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := loggerFrom(cmd.Context())
			in.ComponentType = catenary.ComponentType(compType)
			if preset != "" {
				spec, ok := components.Default().LookupKey(preset)
				if !ok {
					return fmt.Errorf("unknown component %q", preset)
				}
				applyPreset(cmd, &in, spec)
				log.Debug("applied component preset", "component", spec.Key)
			}
			e, err := flags.engine()
			if err != nil {
				return err
			}
			res, err := e.Compute(in)
			if err != nil {
				return err
			}
			out := computeOutput{
				Input:  in,
				Result: res,
				Safety: e.CheckSafety(in.ComponentMBL, in.FairleadTension, 0),
			}
			if !showCurve && !flags.asJSON {
				out.Result.Curve = nil
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			return printCompute(cmd.OutOrStdout(), out)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.FairleadTension, "tension", 0, "fairlead tension")
	f.Float64Var(&in.WaterDepth, "depth", 0, "water depth")
	f.StringVar(&compType, "type", string(catenary.Chain), "component type (Chain, Wire Rope, Synthetic Rope, Polyester Rope)")
	f.StringVar(&in.ComponentSize, "size", "", "component size label")
	f.Float64Var(&in.ComponentLength, "length", 0, "component length")
	f.Float64Var(&in.ComponentWeight, "weight", 0, "submerged weight per unit length")
	f.Float64Var(&in.ComponentStiffness, "stiffness", 0, "axial stiffness")
	f.Float64Var(&in.ComponentMBL, "mbl", 0, "minimum breaking load")
	f.StringVar(&preset, "component", "", "catalog preset such as Chain-76mm; explicit flags override it")
	f.BoolVar(&showCurve, "curve-points", false, "include the sampled curve in table output")
	return cmd
}

// applyPreset copies catalog defaults into fields whose flags were not set.
func applyPreset(cmd *cobra.Command, in *catenary.LineInput, spec components.Spec) {
	changed := cmd.Flags().Changed
	if !changed("type") {
		in.ComponentType = spec.Type
	}
	if !changed("size") {
		in.ComponentSize = spec.Size()
	}
	if !changed("length") {
		in.ComponentLength = spec.DefaultLength
	}
	if !changed("weight") {
		in.ComponentWeight = spec.Weight
	}
	if !changed("stiffness") {
		in.ComponentStiffness = spec.Stiffness
	}
	if !changed("mbl") {
		in.ComponentMBL = spec.MBL
	}
}

func printCompute(w io.Writer, out computeOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	r := out.Result
	fmt.Fprintf(tw, "Fairlead angle\t%.2f\tdeg\n", r.FairleadAngle)
	fmt.Fprintf(tw, "Grounded length\t%.2f\t\n", r.GroundedLength)
	fmt.Fprintf(tw, "Anchor distance\t%.2f\t\n", r.AnchorDistance)
	fmt.Fprintf(tw, "Anchor angle\t%.2f\tdeg\n", r.AnchorAngle)
	fmt.Fprintf(tw, "Anchor tension\t%.2f\t\n", r.AnchorTension)
	fmt.Fprintf(tw, "Safety factor\t%.3f\t(required %.2f: %s)\n", r.SafetyFactor, out.Safety.RequiredSafetyFactor, verdict(out.Safety.IsValid))
	if len(r.Curve) > 0 {
		fmt.Fprintln(tw, "\nx\ty\t")
		for _, p := range r.Curve {
			fmt.Fprintf(tw, "%.3f\t%.3f\t\n", p.X, p.Y)
		}
	}
	return tw.Flush()
}

func verdict(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
