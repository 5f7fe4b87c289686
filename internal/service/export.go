package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lab-report-reader/internal/domain"
)

const (
	resultsSheet = "Results"
	patientSheet = "Patient"
)

var patientRows = []struct {
	label string
	key   string
}{
	{"Name", domain.PatientName},
	{"Patient ID", domain.PatientID},
	{"Age", domain.PatientAge},
	{"Gender", domain.PatientGender},
	{"Date of Collection", domain.PatientCollectionDate},
	{"Report Date", domain.PatientReportDate},
}

// BuildWorkbook renders an extraction as an XLSX workbook with a "Results"
// sheet (one row per test, in report order) and a "Patient" sheet.
func BuildWorkbook(result domain.ExtractionResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it so the results open first.
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(patientSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	results := &sheetWriter{file: f, sheet: resultsSheet}
	for i, h := range []string{"Test Name", "Test Key", "Value", "Normal Range", "Min Normal", "Max Normal", "Unit"} {
		results.cell(i+1, 1, h)
	}
	for i, r := range result.TestResults {
		row := i + 2
		results.cell(1, row, r.TestName)
		results.cell(2, row, r.TestKey)
		results.cell(3, row, r.Value)
		results.cell(4, row, r.NormalRange)
		results.cell(5, row, boundCell(r.MinNormal))
		results.cell(6, row, boundCell(r.MaxNormal))
		results.cell(7, row, r.Unit)
	}
	results.width("A", "A", 28)
	results.width("B", "B", 16)
	results.width("C", "F", 14)
	results.width("G", "G", 16)
	if results.err != nil {
		return nil, results.err
	}

	patient := &sheetWriter{file: f, sheet: patientSheet}
	for i, p := range patientRows {
		value, _ := result.PatientInfo.Get(p.key)
		patient.cell(1, i+1, p.label)
		patient.cell(2, i+1, value)
	}
	patient.width("A", "A", 20)
	patient.width("B", "B", 28)
	if patient.err != nil {
		return nil, patient.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter writes cells into one sheet and keeps the first error;
// later writes are skipped once one fails.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) cell(col, row int, v any) {
	if w.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err == nil {
		err = w.file.SetCellValue(w.sheet, name, v)
	}
	if err != nil {
		w.err = fmt.Errorf("xlsx cell: %w", err)
	}
}

func (w *sheetWriter) width(startCol, endCol string, width float64) {
	if w.err != nil {
		return
	}
	if err := w.file.SetColWidth(w.sheet, startCol, endCol, width); err != nil {
		w.err = fmt.Errorf("xlsx cell: %w", err)
	}
}

// boundCell is a number for concrete bounds, "inf" for open ones and blank
// when the report gave no bound.
func boundCell(b domain.Bound) any {
	switch b.Kind {
	case domain.BoundValue:
		return b.Value
	case domain.BoundOpen:
		return "inf"
	}
	return ""
}
