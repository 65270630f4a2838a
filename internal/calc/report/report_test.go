package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	catenary "Mooring/internal/calc/catenary"
	repo "Mooring/internal/repo"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()
	in := catenary.LineInput{
		FairleadTension: 1e6, WaterDepth: 100, ComponentType: catenary.Chain, ComponentSize: "76mm",
		ComponentLength: 500, ComponentWeight: 113.5, ComponentStiffness: 5.9e10, ComponentMBL: 4.37e6,
	}
	res, err := catenary.New(catenary.Options{SampleCount: 20}).Compute(in)
	require.NoError(t, err)
	return Document{
		Project:     "Buoy 7",
		Name:        "North leg",
		Notes:       "Surveyed in spring.",
		Inputs:      in,
		Result:      res,
		Safety:      catenary.CheckSafety(in.ComponentMBL, in.FairleadTension, 0),
		Units:       repo.Settings{LengthUnit: "m", ForceUnit: "kN"},
		GeneratedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PDF, "pdf": PDF, "XLSX": XLSX, "excel": XLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("docx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	d := sampleDocument(t)
	assert.Equal(t, "catenary-results-2026-05-01.pdf", d.Filename(PDF))
	assert.Equal(t, "catenary-results-2026-05-01.xlsx", d.Filename(XLSX))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, PDF, sampleDocument(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteXLSX(t *testing.T) {
	d := sampleDocument(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XLSX, d))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Results", "Inputs", "Curve"}, f.GetSheetList())

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	assert.Equal(t, "Calculation Results", rows[0][0])
	assert.Equal(t, "Anchor Tension (kN)", rows[5][0])
	assert.Equal(t, "PASS", rows[8][1])

	curve, err := f.GetRows("Curve")
	require.NoError(t, err)
	assert.Len(t, curve, len(d.Result.Curve)+1)
	assert.Equal(t, []string{"x (m)", "y (m)"}, curve[0])

	inputs, err := f.GetRows("Inputs")
	require.NoError(t, err)
	assert.Equal(t, []string{"Component Size", "76mm"}, inputs[2])
}

func TestHandler_Generate(t *testing.T) {
	h := &Handler{Engine: catenary.New(catenary.Options{})}
	router := mux.NewRouter()
	router.HandleFunc("/report/{format}", h.Generate)

	body := `{"project":"Buoy 7","inputs":{"fairleadTension":1000000,"waterDepth":100,"componentType":"Chain",
"componentLength":500,"componentWeight":100,"componentStiffness":1000000000,"componentMBL":5000000}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/report/xlsx", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, XLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/report/pdf", strings.NewReader(`{"inputs":{}}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/report/odt", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
