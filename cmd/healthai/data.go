package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitriimaksimovdevelop/healthai/internal/generator"
	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
	"github.com/dmitriimaksimovdevelop/healthai/internal/output"
)

// seriesFlags selects where a command's vital series comes from: a CSV
// file, or a generated series.
type seriesFlags struct {
	data string
	days int
	seed int64
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "CSV file of daily vitals (default: generate a series)")
	cmd.Flags().IntVar(&f.days, "days", 30, "Days to generate when --data is not given")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Generator seed (0 = random)")
}

func (f *seriesFlags) load() (model.VitalSeries, error) {
	if f.data != "" {
		return output.LoadCSV(f.data)
	}
	if f.days < 1 {
		return nil, fmt.Errorf("--days must be at least 1, got %d", f.days)
	}
	return generator.Generate(f.days, generator.Options{Seed: f.seed}), nil
}

// Export formats.
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
	formatJSON = "json"
)

// formatFor returns the explicit format or infers it from path's extension,
// defaulting to CSV.
func formatFor(format, path string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return formatXLSX
	case ".json":
		return formatJSON
	}
	return formatCSV
}

// writeSeries writes series to path ("-" is stdout) in the given format.
func writeSeries(stdout io.Writer, series model.VitalSeries, path, format string) error {
	toStdout := path == "" || path == "-"
	switch formatFor(format, path) {
	case formatCSV:
		if toStdout {
			return output.WriteCSV(stdout, series)
		}
		return output.ExportCSV(path, series)
	case formatXLSX:
		if toStdout {
			return fmt.Errorf("xlsx output needs a file path (-o)")
		}
		return output.ExportXLSX(path, series)
	case formatJSON:
		if toStdout {
			return output.EncodeJSON(stdout, series)
		}
		return output.WriteJSON(series, path)
	default:
		return fmt.Errorf("unknown format %q (want csv, xlsx or json)", format)
	}
}
