package batch

import (
	"errors"
	"fmt"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/tools"
)

// MaxItems bounds the size of one batch request.
const MaxItems = 500

var ErrEmpty = errors.New("no items")

type Input struct {
	Items []catenary.FormInput `json:"items"`
}

type Result struct {
	Results []tools.CalcResponse `json:"results"`
}

// ItemError reports which line of the batch failed.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

func (e *ItemError) Unwrap() error { return e.Err }

// Calculate computes every item in order. The batch is all or nothing: the
// first failing item aborts it and no results are returned.
func Calculate(e *catenary.Engine, in Input, requiredFactor float64) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrEmpty
	}
	if len(in.Items) > MaxItems {
		return Result{}, fmt.Errorf("batch of %d items exceeds the limit of %d", len(in.Items), MaxItems)
	}
	out := Result{Results: make([]tools.CalcResponse, 0, len(in.Items))}
	for i, item := range in.Items {
		line, err := item.LineInput()
		if err != nil {
			return Result{}, &ItemError{Index: i, Err: err}
		}
		res, err := tools.Run(e, "batch", line, requiredFactor)
		if err != nil {
			return Result{}, &ItemError{Index: i, Err: err}
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
