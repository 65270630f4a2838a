// Package importer reads mooring lines from an Excel workbook and computes
// each row.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/tools"

	"github.com/xuri/excelize/v2"
)

// MaxRows bounds the number of data rows read from one sheet.
const MaxRows = 1000

var ErrEmptySheet = errors.New("sheet has no data rows")

// aliases maps the short labels used in reports to column names.
var aliases = map[string]string{
	"type":      "componentType",
	"size":      "componentSize",
	"length":    "componentLength",
	"depth":     "waterDepth",
	"weight":    "componentWeight",
	"stiffness": "componentStiffness",
	"mbl":       "componentMBL",
	"tension":   "fairleadTension",
}

// Columns is the default column order, used when the sheet has no
// recognizable header row. It matches the order of the Excel export.
var Columns = []string{
	"componentType",
	"componentSize",
	"componentLength",
	"waterDepth",
	"componentWeight",
	"componentStiffness",
	"componentMBL",
	"fairleadTension",
}

// RowResult is the outcome for one sheet row. Exactly one of Result and
// Error is set.
type RowResult struct {
	Row    int                 `json:"row"`
	Result *tools.CalcResponse `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
	Kind   string              `json:"kind,omitempty"`
	Input  *catenary.LineInput `json:"input,omitempty"`
}

type Report struct {
	Sheet  string      `json:"sheet"`
	Count  int         `json:"count"`
	Failed int         `json:"failed"`
	Rows   []RowResult `json:"rows"`
}

// Import computes every data row of the first sheet. Rows that fail keep
// their error in the report; blank rows are skipped.
func Import(r io.Reader, e *catenary.Engine, requiredFactor float64) (Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Report{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	index, start := headerIndex(rows)
	if len(rows) <= start {
		return Report{}, ErrEmptySheet
	}
	if len(rows)-start > MaxRows {
		return Report{}, fmt.Errorf("sheet has %d rows, limit is %d", len(rows)-start, MaxRows)
	}

	rep := Report{Sheet: sheet, Rows: []RowResult{}}
	for i := start; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		rr := RowResult{Row: i + 1}
		form, err := parseRow(rows[i], index)
		var in catenary.LineInput
		if err == nil {
			in, err = form.LineInput()
		}
		if err == nil {
			rr.Input = &in
			var res tools.CalcResponse
			if res, err = tools.Run(e, "import", in, requiredFactor); err == nil {
				rr.Result = &res
				rep.Count++
			}
		}
		if err != nil {
			rr.Error = err.Error()
			rr.Kind = catenary.KindName(err)
			rep.Failed++
		}
		rep.Rows = append(rep.Rows, rr)
	}
	if len(rep.Rows) == 0 {
		return Report{}, ErrEmptySheet
	}
	return rep, nil
}

// headerIndex maps column names to positions. When the first row names at
// least the numeric columns it is treated as a header.
func headerIndex(rows [][]string) (map[string]int, int) {
	if len(rows) > 0 {
		idx := map[string]int{}
		for i, cell := range rows[0] {
			key := normalize(cell)
			if c, ok := aliases[key]; ok {
				idx[c] = i
				continue
			}
			for _, c := range Columns {
				if normalize(c) == key {
					idx[c] = i
				}
			}
		}
		if len(idx) >= 6 {
			return idx, 1
		}
	}
	idx := make(map[string]int, len(Columns))
	for i, c := range Columns {
		idx[c] = i
	}
	return idx, 0
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, '('); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(row []string, index map[string]int) (catenary.FormInput, error) {
	form := catenary.FormInput{
		ComponentType: cell(row, index, "componentType"),
		ComponentSize: cell(row, index, "componentSize"),
	}
	targets := map[string]**float64{
		"componentLength":    &form.ComponentLength,
		"waterDepth":         &form.WaterDepth,
		"componentWeight":    &form.ComponentWeight,
		"componentStiffness": &form.ComponentStiffness,
		"componentMBL":       &form.ComponentMBL,
		"fairleadTension":    &form.FairleadTension,
	}
	for _, name := range Columns {
		dst, ok := targets[name]
		if !ok {
			continue
		}
		raw := cell(row, index, name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return catenary.FormInput{}, catenary.NewInputError(catenary.ErrMissingParameter, name, fmt.Sprintf("is not a number: %q", raw))
		}
		*dst = &v
	}
	return form, nil
}
