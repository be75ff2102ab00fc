package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"afmdash/domain/curves"
)

const (
	SheetForceModel      = "ForceModel"
	SheetElasticityModel = "ElasticityModel"
)

type paramRow struct {
	index  int
	values []float64
}

// WorkbookWriter renders fit parameters as an XLSX workbook
type WorkbookWriter struct{}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// WriteParameters writes force-model and elasticity-model parameters to w,
// one row per curve, resolving curve indexes to curve ids where possible
func (WorkbookWriter) WriteParameters(w io.Writer, d curves.Datasets) error {
	f := excelize.NewFile()
	defer f.Close()

	fparams := make([]paramRow, len(d.Indentation.CurvesFParam))
	for i, p := range d.Indentation.CurvesFParam {
		fparams[i] = paramRow{index: p.CurveIndex, values: p.FParam}
	}
	if err := writeSheet(f, SheetForceModel, fparams, d.Indentation.CurvesCP); err != nil {
		return err
	}

	eparams := make([]paramRow, len(d.Elasticity.CurvesElasticityParam))
	for i, p := range d.Elasticity.CurvesElasticityParam {
		eparams[i] = paramRow{index: p.CurveIndex, values: p.ElasticityParam}
	}
	if err := writeSheet(f, SheetElasticityModel, eparams, d.Elasticity.Curves); err != nil {
		return err
	}

	// NewFile always starts with Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetForceModel); err == nil {
		f.SetActiveSheet(idx)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows []paramRow, list []curves.Curve) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.values))
	}

	header := []interface{}{"curve_index", "curve_id"}
	for i := 0; i < width; i++ {
		header = append(header, fmt.Sprintf("param_%d", i))
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, r := range rows {
		row := []interface{}{r.index, curves.CurveIDAt(list, r.index)}
		for _, v := range r.values {
			row = append(row, v)
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, n int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, n, err)
	}
	return nil
}
