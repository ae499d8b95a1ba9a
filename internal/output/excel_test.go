package output

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleSeries()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(VitalsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	cols := model.Columns()
	for i, c := range cols {
		if rows[0][i] != c {
			t.Errorf("header %d = %q, want %q", i, rows[0][i], c)
		}
	}
	if rows[1][0] != "2024-05-01" || rows[1][1] != "72" {
		t.Errorf("first row = %v", rows[1])
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("GetRows summary: %v", err)
	}
	if len(summary) != len(model.SeriesMetrics)+1 {
		t.Errorf("summary rows = %d, want %d", len(summary), len(model.SeriesMetrics)+1)
	}
	if summary[1][0] != model.MetricHeartRate {
		t.Errorf("first summary metric = %q", summary[1][0])
	}
}
