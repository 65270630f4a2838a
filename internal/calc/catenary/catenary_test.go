package catenary

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain76 is the R3 studless chain preset in 100 m of water.
func chain76() LineInput {
	return LineInput{
		FairleadTension:    500000,
		WaterDepth:         100,
		ComponentType:      Chain,
		ComponentSize:      "76mm",
		ComponentLength:    300,
		ComponentWeight:    113.5,
		ComponentStiffness: 5.9e10,
		ComponentMBL:       4370000,
	}
}

func TestCompute_Chain76(t *testing.T) {
	res, err := Compute(chain76())
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(300*300-100*100), res.AnchorDistance, 1e-9)
	assert.InDelta(t, 282.84, res.AnchorDistance, 0.01)
	assert.InDelta(t, 33.69, res.FairleadAngle, 0.01)
	assert.Equal(t, 8.74, res.SafetyFactor)

	hyp := math.Sqrt(100*100 + 150*150)
	assert.InDelta(t, 300-hyp, res.GroundedLength, 1e-9)
	assert.InDelta(t, math.Atan2(100, res.AnchorDistance)*180/math.Pi, res.AnchorAngle, 1e-12)
	assert.InDelta(t, 500000*math.Exp(-113.5*res.GroundedLength/500000), res.AnchorTension, 1e-6)
	assert.Less(t, res.AnchorTension, 500000.0)

	require.Len(t, res.Curve, DefaultSampleCount+1)
	assert.Equal(t, 0.0, res.Curve[0].X)
	assert.Equal(t, res.AnchorDistance, res.Curve[DefaultSampleCount].X)
}

func TestCompute_Deterministic(t *testing.T) {
	a, err := Compute(chain76())
	require.NoError(t, err)
	b, err := Compute(chain76())
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("repeated compute differs (-first +second):\n%s", diff)
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LineInput)
		kind   error
		field  string
	}{
		{"valid", func(*LineInput) {}, nil, ""},
		{"nan tension", func(in *LineInput) { in.FairleadTension = math.NaN() }, ErrMissingParameter, "fairleadTension"},
		{"inf weight", func(in *LineInput) { in.ComponentWeight = math.Inf(1) }, ErrMissingParameter, "componentWeight"},
		{"zero depth", func(in *LineInput) { in.WaterDepth = 0 }, ErrDomain, "waterDepth"},
		{"negative mbl", func(in *LineInput) { in.ComponentMBL = -1 }, ErrDomain, "componentMBL"},
		{"zero stiffness", func(in *LineInput) { in.ComponentStiffness = 0 }, ErrDomain, "componentStiffness"},
		{"length below depth", func(in *LineInput) { in.ComponentLength = 50 }, ErrGeometry, ""},
		{"length equals depth", func(in *LineInput) { in.ComponentLength = in.WaterDepth }, ErrGeometry, ""},
		{"unknown type", func(in *LineInput) { in.ComponentType = "Kevlar" }, ErrDomain, "componentType"},
		// finiteness is checked for every field before positivity
		{"nan wins over negative", func(in *LineInput) {
			in.FairleadTension = -5
			in.ComponentMBL = math.NaN()
		}, ErrMissingParameter, "componentMBL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := chain76()
			tt.mutate(&in)
			err := ValidateInput(in)
			if tt.kind == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.kind)
			var ie *InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestValidateInput_GeometryMessage(t *testing.T) {
	in := chain76()
	in.ComponentLength = 50
	err := ValidateInput(in)
	require.ErrorIs(t, err, ErrGeometry)
	assert.Contains(t, err.Error(), "component length must exceed water depth")
	assert.Equal(t, "geometry", KindName(err))
}

func TestCompute_RejectsInvalidInputAtomically(t *testing.T) {
	in := chain76()
	in.ComponentLength = 50
	res, err := Compute(in)
	require.ErrorIs(t, err, ErrGeometry)
	assert.Equal(t, ValidateInput(in).Error(), err.Error())
	assert.Zero(t, res.AnchorDistance)
	assert.Nil(t, res.Curve)
}

func TestCompute_AnchorTensionUnderflow(t *testing.T) {
	in := chain76()
	in.FairleadTension = 1e-300
	res, err := Compute(in)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.AnchorTension, 0.0)
	assert.LessOrEqual(t, res.AnchorTension, in.FairleadTension)
}

func TestCompute_NoGroundedLength(t *testing.T) {
	// hypotenuse exceeds the line length, so nothing rests on the seabed
	in := chain76()
	in.WaterDepth = 200
	in.ComponentLength = 210
	res, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.GroundedLength)
	assert.Equal(t, in.FairleadTension, res.AnchorTension)
}

func TestCompute_VeryLongLine(t *testing.T) {
	in := chain76()
	in.ComponentLength = 1e200
	res, err := Compute(in)
	require.NoError(t, err)
	assert.InEpsilon(t, 1e200, res.AnchorDistance, 1e-12)
	assert.InEpsilon(t, 1e200-math.Hypot(100, 5e199), res.GroundedLength, 1e-12)
	assert.Equal(t, res.AnchorDistance, res.Curve[DefaultSampleCount].X)
}

func TestCompute_NonFiniteSafetyFactor(t *testing.T) {
	in := chain76()
	in.FairleadTension = 1e-300
	in.ComponentMBL = 1e10
	res, err := Compute(in)
	require.ErrorIs(t, err, ErrDomain)
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "safetyFactor", ie.Field)
	assert.Equal(t, Result{}, res)
}

type stubModel struct {
	res Result
	err error
}

func (stubModel) Name() string { return "stub" }

func (m stubModel) ComputeGeometry(LineInput) (Result, error) { return m.res, m.err }

func TestEngine_CustomModel(t *testing.T) {
	e := New(Options{Model: stubModel{res: Result{AnchorDistance: 10, SafetyFactor: 3}}, SampleCount: 4})
	res, err := e.Compute(chain76())
	require.NoError(t, err)
	assert.Equal(t, "stub", e.ModelName())
	assert.Equal(t, 3.0, res.SafetyFactor)
	require.Len(t, res.Curve, 5)
	assert.Equal(t, 10.0, res.Curve[4].X)
}

func TestEngine_ModelErrorIsReturnedWithoutResult(t *testing.T) {
	boom := errors.New("solver diverged")
	e := New(Options{Model: stubModel{res: Result{AnchorDistance: 10}, err: boom}})
	res, err := e.Compute(chain76())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Result{}, res)
}

func TestEngine_DegenerateModelOutput(t *testing.T) {
	e := New(Options{Model: stubModel{res: Result{AnchorDistance: 0}}})
	_, err := e.Compute(chain76())
	require.ErrorIs(t, err, ErrDegenerateInput)
}

func TestEngine_Defaults(t *testing.T) {
	e := New(Options{SampleCount: -3, MinSafetyFactor: math.NaN()})
	assert.Equal(t, DefaultSampleCount, e.SampleCount())
	assert.Equal(t, DefaultMinSafetyFactor, e.MinSafetyFactor())
	assert.Equal(t, CurveLegacyCosine, e.CurveModel())
	assert.Equal(t, "simplified", e.ModelName())
}

func TestFormInput_LineInput(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	form := FormInput{
		FairleadTension:    f(500000),
		WaterDepth:         f(100),
		ComponentType:      "Chain",
		ComponentSize:      "76mm",
		ComponentLength:    f(300),
		ComponentWeight:    f(113.5),
		ComponentStiffness: f(5.9e10),
		ComponentMBL:       f(4370000),
	}
	in, err := form.LineInput()
	require.NoError(t, err)
	assert.Equal(t, chain76(), in)

	missing := form
	missing.ComponentWeight = nil
	_, err = missing.LineInput()
	require.ErrorIs(t, err, ErrMissingParameter)

	noType := form
	noType.ComponentType = ""
	_, err = noType.LineInput()
	require.ErrorIs(t, err, ErrMissingParameter)

	deep := form
	deep.WaterDepth = f(5001)
	_, err = deep.LineInput()
	require.ErrorIs(t, err, ErrDomain)

	heavy := form
	heavy.FairleadTension = f(10_000_001)
	_, err = heavy.LineInput()
	require.ErrorIs(t, err, ErrDomain)
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "missing_parameter", KindName(ErrMissingParameter))
	assert.Equal(t, "domain", KindName(NewInputError(ErrDomain, "x", "bad")))
	assert.Equal(t, "degenerate_input", KindName(ErrDegenerateInput))
	assert.Equal(t, "", KindName(errors.New("other")))
	assert.Equal(t, "", KindName(nil))
}
