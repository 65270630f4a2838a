// Package recommend sizes a mooring line from the component catalog: every
// default that fits the site is computed and ranked.
package recommend

import (
	"errors"
	"math"
	"sort"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/components"
	"Mooring/internal/calc/tools"
)

var ErrNoCandidates = errors.New("no catalog component matches the request")

type Input struct {
	FairleadTension float64 `json:"fairleadTension"`
	WaterDepth      float64 `json:"waterDepth"`
	// ComponentType limits the search to one category; empty searches all.
	ComponentType string `json:"componentType"`
	// ComponentLength overrides the catalog default length when positive.
	ComponentLength float64 `json:"componentLength"`
	// MinSafetyFactor of 0 selects the caller's default.
	MinSafetyFactor float64 `json:"minSafetyFactor"`
}

type Candidate struct {
	Spec     components.Spec    `json:"spec"`
	Response tools.CalcResponse `json:"response"`
	Margin   float64            `json:"margin"`
}

type Result struct {
	// Recommended is the lightest passing candidate, nil when none passes.
	Recommended *Candidate  `json:"recommended"`
	Candidates  []Candidate `json:"candidates"`
	Skipped     []string    `json:"skipped"`
}

// Recommend computes every matching catalog default at the given tension and
// depth. Candidates are ordered passing first, then by submerged weight, so
// the first passing entry is the lightest line that meets the safety factor.
// Entries the engine rejects for this site are listed in Skipped.
func Recommend(e *catenary.Engine, c *components.Catalog, in Input, requiredFactor float64) (Result, error) {
	if !(in.FairleadTension > 0) || math.IsInf(in.FairleadTension, 0) {
		return Result{}, catenary.NewInputError(catenary.ErrDomain, "fairleadTension", "must be positive")
	}
	if !(in.WaterDepth > 0) || math.IsInf(in.WaterDepth, 0) {
		return Result{}, catenary.NewInputError(catenary.ErrDomain, "waterDepth", "must be positive")
	}
	if in.MinSafetyFactor > 0 {
		requiredFactor = in.MinSafetyFactor
	}

	var typ catenary.ComponentType
	if in.ComponentType != "" {
		cat, ok := c.Category(in.ComponentType)
		if !ok {
			return Result{}, catenary.NewInputError(catenary.ErrDomain, "componentType", "is not a recognized component type")
		}
		typ = cat.Type
	}

	res := Result{Candidates: []Candidate{}, Skipped: []string{}}
	for _, spec := range c.Defaults {
		if typ != "" && spec.Type != typ {
			continue
		}
		line := spec.Input(in.FairleadTension, in.WaterDepth)
		if in.ComponentLength > 0 {
			line.ComponentLength = in.ComponentLength
		}
		resp, err := tools.Run(e, "recommend", line, requiredFactor)
		if err != nil {
			if catenary.KindName(err) == "" {
				return Result{}, err
			}
			res.Skipped = append(res.Skipped, spec.Key)
			continue
		}
		res.Candidates = append(res.Candidates, Candidate{
			Spec:     spec,
			Response: resp,
			Margin:   resp.Safety.SafetyFactor - resp.Safety.RequiredSafetyFactor,
		})
	}
	if len(res.Candidates) == 0 {
		return Result{}, ErrNoCandidates
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		a, b := res.Candidates[i], res.Candidates[j]
		if a.Response.Safety.IsValid != b.Response.Safety.IsValid {
			return a.Response.Safety.IsValid
		}
		return a.Spec.Weight < b.Spec.Weight
	})
	if first := res.Candidates[0]; first.Response.Safety.IsValid {
		res.Recommended = &first
	}
	return res, nil
}
