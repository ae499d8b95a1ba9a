// Package output serializes series and reports to CSV, XLSX and JSON.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// ErrBadHeader is returned when a CSV header does not match model.Columns.
var ErrBadHeader = errors.New("unexpected CSV header")

// WriteCSV writes series with a header row in column order. Dates are
// YYYY-MM-DD; temperature and weight carry one decimal place.
func WriteCSV(w io.Writer, series model.VitalSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, s := range series {
		if err := cw.Write(csvRecord(s)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(s model.VitalSample) []string {
	return []string{
		s.Date.Format(model.DateLayout),
		strconv.Itoa(s.HeartRate),
		strconv.Itoa(s.BloodPressureSystolic),
		strconv.Itoa(s.BloodPressureDiastolic),
		strconv.Itoa(s.BloodGlucose),
		strconv.FormatFloat(s.Temperature, 'f', 1, 64),
		strconv.Itoa(s.OxygenSaturation),
		strconv.FormatFloat(s.Weight, 'f', 1, 64),
	}
}

// ReadCSV parses a series written by WriteCSV. The header must list the
// columns in order; cell errors name the row and column.
func ReadCSV(r io.Reader) (model.VitalSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(model.Columns())
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var series model.VitalSeries
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		s, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		series = append(series, s)
	}
	return series, nil
}

func checkHeader(header []string) error {
	want := model.Columns()
	for i, col := range want {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if got != col {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, got, col)
		}
	}
	return nil
}

func parseRecord(rec []string) (model.VitalSample, error) {
	var s model.VitalSample
	cols := model.Columns()

	d, err := time.Parse(model.DateLayout, strings.TrimSpace(rec[0]))
	if err != nil {
		return s, fmt.Errorf("column %q: %w", cols[0], err)
	}
	s.Date = d

	vals := make([]float64, len(rec)-1)
	for i := 1; i < len(rec); i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return s, fmt.Errorf("column %q: %w", cols[i], err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return s, fmt.Errorf("column %q: value %q is not a finite number", cols[i], rec[i])
		}
		vals[i-1] = v
	}

	s.HeartRate = int(math.Round(vals[0]))
	s.BloodPressureSystolic = int(math.Round(vals[1]))
	s.BloodPressureDiastolic = int(math.Round(vals[2]))
	s.BloodGlucose = int(math.Round(vals[3]))
	s.Temperature = vals[4]
	s.OxygenSaturation = int(math.Round(vals[5]))
	s.Weight = vals[6]
	return s, nil
}

// ExportCSV writes series to path ("-" or empty for stdout).
func ExportCSV(path string, series model.VitalSeries) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()
	return WriteCSV(w, series)
}

// LoadCSV reads a series from a file.
func LoadCSV(path string) (model.VitalSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	series, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return series, nil
}
