package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// Sheet names of the XLSX export.
const (
	VitalsSheet  = "Vitals"
	SummarySheet = "Summary"
)

var summaryHeader = []string{"metric", "unit", "count", "mean", "min", "max", "stddev"}

// WriteXLSX writes series as a workbook: a Vitals sheet in CSV column order
// with a frozen, styled header and a Summary sheet of per-metric statistics.
func WriteXLSX(w io.Writer, series model.VitalSeries) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", VitalsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeHeader(f, VitalsSheet, model.Columns(), headerStyle); err != nil {
		return err
	}
	for i, s := range series {
		row := []any{s.Date.Format(model.DateLayout)}
		for _, m := range model.SeriesMetrics {
			v, _ := s.Value(m)
			row = append(row, v)
		}
		if err := writeRow(f, VitalsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(VitalsSheet, "A", "A", 12); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(model.Columns()))
	if err != nil {
		return fmt.Errorf("convert column number: %w", err)
	}
	if err := f.SetColWidth(VitalsSheet, "B", lastCol, 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetPanes(VitalsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeHeader(f, SummarySheet, summaryHeader, headerStyle); err != nil {
		return err
	}
	for i, s := range model.SummarizeAll(series) {
		row := []any{s.Metric, s.Unit, s.Count, s.Mean, s.Min, s.Max, s.StdDev}
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("set header style: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

// ExportXLSX writes the workbook to path ("-" or empty for stdout).
func ExportXLSX(path string, series model.VitalSeries) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()
	return WriteXLSX(w, series)
}
