// Package report renders a catenary calculation as a PDF or an Excel workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	catenary "Mooring/internal/calc/catenary"
	repo "Mooring/internal/repo"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", PDF:
		return PDF, nil
	case XLSX, "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Document is everything a report shows. Units label values only.
type Document struct {
	Title       string
	Project     string
	Author      string
	Name        string
	Notes       string
	Inputs      catenary.LineInput
	Result      catenary.Result
	Safety      catenary.SafetyCheck
	Units       repo.Settings
	GeneratedAt time.Time
}

// Filename is the suggested download name, e.g. catenary-results-2024-05-01.pdf.
func (d Document) Filename(f Format) string {
	return fmt.Sprintf("catenary-results-%s.%s", d.GeneratedAt.Format("2006-01-02"), f)
}

type row struct {
	label string
	value string
}

func (d Document) resultRows() []row {
	r, u := d.Result, d.Units
	return []row{
		{"Fairlead Angle (degrees)", fmt.Sprintf("%.2f", r.FairleadAngle)},
		{fmt.Sprintf("Grounded Length (%s)", u.LengthUnit), fmt.Sprintf("%.2f", r.GroundedLength)},
		{fmt.Sprintf("Anchor Distance (%s)", u.LengthUnit), fmt.Sprintf("%.2f", r.AnchorDistance)},
		{"Anchor Angle (degrees)", fmt.Sprintf("%.2f", r.AnchorAngle)},
		{fmt.Sprintf("Anchor Tension (%s)", u.ForceUnit), fmt.Sprintf("%.2f", r.AnchorTension)},
		{"Safety Factor", fmt.Sprintf("%.3f", r.SafetyFactor)},
		{"Required Safety Factor", fmt.Sprintf("%.2f", d.Safety.RequiredSafetyFactor)},
		{"Safety Check", passFail(d.Safety.IsValid)},
	}
}

func (d Document) inputRows() []row {
	in, u := d.Inputs, d.Units
	return []row{
		{"Component Type", string(in.ComponentType)},
		{"Component Size", in.ComponentSize},
		{fmt.Sprintf("Component Length (%s)", u.LengthUnit), fmt.Sprintf("%g", in.ComponentLength)},
		{fmt.Sprintf("Water Depth (%s)", u.LengthUnit), fmt.Sprintf("%g", in.WaterDepth)},
		{fmt.Sprintf("Weight (%s/%s)", u.ForceUnit, u.LengthUnit), fmt.Sprintf("%g", in.ComponentWeight)},
		{fmt.Sprintf("Stiffness (%s/%s²)", u.ForceUnit, u.LengthUnit), fmt.Sprintf("%g", in.ComponentStiffness)},
		{fmt.Sprintf("MBL (%s)", u.ForceUnit), fmt.Sprintf("%g", in.ComponentMBL)},
		{fmt.Sprintf("Fairlead Tension (%s)", u.ForceUnit), fmt.Sprintf("%g", in.FairleadTension)},
	}
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// Write renders d in format f.
func Write(w io.Writer, f Format, d Document) error {
	if d.Title == "" {
		d.Title = "Catenary Calculator Results"
	}
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now()
	}
	if d.Units.LengthUnit == "" || d.Units.ForceUnit == "" {
		d.Units = repo.DefaultSettings()
	}
	switch f {
	case PDF:
		return writePDF(w, d)
	case XLSX:
		return writeXLSX(w, d)
	}
	return fmt.Errorf("unknown report format %q", f)
}

func writePDF(w io.Writer, d Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(d.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if d.Name != "" {
		pdf.Cell(0, 6, tr("Calculation: "+d.Name))
		pdf.Ln(6)
	}
	if d.Project != "" {
		pdf.Cell(0, 6, tr("Project: "+d.Project))
		pdf.Ln(6)
	}
	if d.Author != "" {
		pdf.Cell(0, 6, tr("Author: "+d.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Generated on: "+d.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	drawCurve(pdf, d.Result.Curve, 20, pdf.GetY(), 170, 70)
	pdf.SetY(pdf.GetY() + 78)

	table := func(title string, rows []row) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, r := range rows {
			pdf.CellFormat(90, 6, tr(r.label), "B", 0, "L", false, 0, "")
			pdf.CellFormat(80, 6, tr(r.value), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}
	table("Calculation Results", d.resultRows())
	table("Input Parameters", d.inputRows())

	if d.Notes != "" {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Notes")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(d.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

// drawCurve plots the sampled profile into the box at (x, y) with size w by h
// millimetres. Depth grows downward, as on the calculator screen.
func drawCurve(pdf *gofpdf.Fpdf, pts []catenary.Point, x, y, w, h float64) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.Rect(x, y, w, h, "D")
	if len(pts) < 2 {
		return
	}
	maxX, maxY := pts[len(pts)-1].X, 0.0
	for _, p := range pts {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if maxX <= 0 || maxY <= 0 {
		return
	}
	px := func(v float64) float64 { return x + v/maxX*w }
	py := func(v float64) float64 { return y + v/maxY*h }

	pdf.SetDrawColor(25, 90, 170)
	pdf.SetLineWidth(0.5)
	for i := 1; i < len(pts); i++ {
		pdf.Line(px(pts[i-1].X), py(pts[i-1].Y), px(pts[i].X), py(pts[i].Y))
	}
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)
}

func writeXLSX(w io.Writer, d Document) error {
	f := excelize.NewFile()
	defer f.Close()

	const results, inputs, curve = "Results", "Inputs", "Curve"
	if err := f.SetSheetName("Sheet1", results); err != nil {
		return err
	}
	for _, s := range []string{inputs, curve} {
		if _, err := f.NewSheet(s); err != nil {
			return err
		}
	}

	writeRows := func(sheet string, header [2]string, rows []row) error {
		if err := f.SetSheetRow(sheet, "A1", &[]any{header[0], header[1]}); err != nil {
			return err
		}
		for i, r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &[]any{r.label, r.value}); err != nil {
				return err
			}
		}
		return f.SetColWidth(sheet, "A", "A", 34)
	}
	if err := writeRows(results, [2]string{"Calculation Results", ""}, d.resultRows()); err != nil {
		return err
	}
	if err := writeRows(inputs, [2]string{"Input Parameters", ""}, d.inputRows()); err != nil {
		return err
	}

	xHead := fmt.Sprintf("x (%s)", d.Units.LengthUnit)
	yHead := fmt.Sprintf("y (%s)", d.Units.LengthUnit)
	if err := f.SetSheetRow(curve, "A1", &[]any{xHead, yHead}); err != nil {
		return err
	}
	for i, p := range d.Result.Curve {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(curve, cell, &[]any{p.X, p.Y}); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}
