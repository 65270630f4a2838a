package recommend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/components"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_LightestPassing(t *testing.T) {
	e := catenary.New(catenary.Options{SampleCount: 10})
	res, err := Recommend(e, components.Default(), Input{FairleadTension: 2.5e6, WaterDepth: 150}, 0)
	require.NoError(t, err)
	require.NotNil(t, res.Recommended)

	// 2.5 MN at 1.67 needs an MBL of at least 4.175 MN.
	assert.GreaterOrEqual(t, res.Recommended.Spec.MBL, 4.175e6)
	for _, c := range res.Candidates {
		if c.Response.Safety.IsValid {
			assert.GreaterOrEqual(t, c.Spec.Weight, res.Recommended.Spec.Weight, c.Spec.Key)
		}
	}
	assert.Equal(t, "Synthetic-100mm", res.Recommended.Spec.Key)
	assert.Len(t, res.Candidates, len(components.Default().Defaults))
}

func TestRecommend_TypeFilterAndLength(t *testing.T) {
	e := catenary.New(catenary.Options{})
	in := Input{FairleadTension: 1e6, WaterDepth: 400, ComponentType: "Chain", MinSafetyFactor: 2}

	// catalog chain is 300 m long, too short for 400 m of water
	_, err := Recommend(e, components.Default(), in, 0)
	assert.ErrorIs(t, err, ErrNoCandidates)

	in.ComponentLength = 900
	res, err := Recommend(e, components.Default(), in, 0)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 3)
	for _, c := range res.Candidates {
		assert.Equal(t, catenary.Chain, c.Spec.Type)
		assert.InDelta(t, 806.2258, c.Response.Result.AnchorDistance, 1e-4)
		assert.Equal(t, 2.0, c.Response.Safety.RequiredSafetyFactor)
	}
	require.NotNil(t, res.Recommended)
	assert.Equal(t, "Chain-76mm", res.Recommended.Spec.Key)
}

func TestRecommend_Errors(t *testing.T) {
	e := catenary.New(catenary.Options{})
	cat := components.Default()

	_, err := Recommend(e, cat, Input{FairleadTension: 1e6, WaterDepth: 2000}, 0)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = Recommend(e, cat, Input{FairleadTension: 0, WaterDepth: 100}, 0)
	assert.ErrorIs(t, err, catenary.ErrDomain)

	_, err = Recommend(e, cat, Input{FairleadTension: 1e6, WaterDepth: 100, ComponentType: "Hemp"}, 0)
	assert.Equal(t, "domain", catenary.KindName(err))
}

func TestRecommend_NoneSafe(t *testing.T) {
	e := catenary.New(catenary.Options{})
	res, err := Recommend(e, components.Default(), Input{FairleadTension: 9e6, WaterDepth: 100, ComponentLength: 600}, 0)
	require.NoError(t, err)
	assert.Nil(t, res.Recommended)
	assert.Len(t, res.Candidates, 10)
	assert.Empty(t, res.Skipped)
}

func TestHandler_Component(t *testing.T) {
	h := &Handler{Engine: catenary.New(catenary.Options{})}

	rec := httptest.NewRecorder()
	h.Component(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"fairleadTension":1000000,"waterDepth":100,"componentType":"Wire"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Data.Recommended)
	assert.Equal(t, "Wire-70mm", body.Data.Recommended.Spec.Key)

	rec = httptest.NewRecorder()
	h.Component(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"fairleadTension":1000000,"waterDepth":4000}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
