package main

import (
	"bytes"
	"encoding/json"
	"testing"

	catenary "Mooring/internal/calc/catenary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCompute_Table(t *testing.T) {
	out, err := run(t, "compute", "--tension", "1000000", "--depth", "100", "--length", "500",
		"--weight", "100", "--stiffness", "1e9", "--mbl", "5e6")
	require.NoError(t, err)
	assert.Contains(t, out, "Anchor distance")
	assert.Contains(t, out, "489.90")
	assert.Contains(t, out, "PASS")
	assert.NotContains(t, out, "\nx ")
}

func TestCompute_PresetJSON(t *testing.T) {
	out, err := run(t, "--json", "--samples", "4", "--curve", "catenary",
		"compute", "--component", "Chain-76mm", "--tension", "500000", "--depth", "100", "--length", "400")
	require.NoError(t, err)

	var got computeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, catenary.Chain, got.Input.ComponentType)
	assert.Equal(t, "76mm", got.Input.ComponentSize)
	assert.Equal(t, 400.0, got.Input.ComponentLength)
	assert.Equal(t, 113.5, got.Input.ComponentWeight)
	require.Len(t, got.Result.Curve, 5)
	assert.Equal(t, 100.0, got.Result.Curve[4].Y)
}

func TestCompute_EngineError(t *testing.T) {
	_, err := run(t, "compute", "--tension", "1000000", "--depth", "100", "--length", "50",
		"--weight", "100", "--stiffness", "1e9", "--mbl", "5e6")
	require.Error(t, err)
	assert.Equal(t, "geometry", catenary.KindName(err))

	_, err = run(t, "compute", "--component", "Chain-1mm")
	assert.Error(t, err)

	_, err = run(t, "--curve", "spline", "compute")
	assert.Error(t, err)
}

func TestCurve(t *testing.T) {
	out, err := run(t, "--json", "--samples", "2", "curve", "--anchor-distance", "10", "--depth", "5")
	require.NoError(t, err)
	var pts []catenary.Point
	require.NoError(t, json.Unmarshal([]byte(out), &pts))
	assert.Equal(t, []catenary.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 10}}, pts)

	_, err = run(t, "curve", "--anchor-distance", "0", "--depth", "5")
	assert.Equal(t, "degenerate_input", catenary.KindName(err))
}

func TestSafety(t *testing.T) {
	out, err := run(t, "--min-safety-factor", "2", "safety", "--mbl", "3000", "--tension", "1000")
	require.NoError(t, err)
	assert.Equal(t, "safety factor 3.000, required 2.00: PASS\n", out)

	_, err = run(t, "safety", "--mbl", "0", "--tension", "1000")
	assert.Error(t, err)
}

func TestComponents(t *testing.T) {
	out, err := run(t, "components", "Wire")
	require.NoError(t, err)
	assert.Contains(t, out, "Wire-80mm")
	assert.NotContains(t, out, "Chain-76mm")

	_, err = run(t, "components", "Hemp")
	assert.Error(t, err)
}

func TestRecommend(t *testing.T) {
	out, err := run(t, "recommend", "--tension", "2500000", "--depth", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "recommended: Synthetic-100mm")

	out, err = run(t, "--min-safety-factor", "5", "recommend", "--tension", "2500000", "--depth", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "no component meets")
}
