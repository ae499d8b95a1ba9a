package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// Paint renders s in the terminal color for tag. Orange has no ANSI
// equivalent and renders yellow; gray renders faint white.
func Paint(tag model.Color, s string) string {
	return colorFor(tag).Sprint(s)
}

func colorFor(tag model.Color) *color.Color {
	switch tag {
	case model.ColorGreen:
		return color.New(color.FgGreen)
	case model.ColorOrange:
		return color.New(color.FgYellow)
	case model.ColorRed:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite, color.Faint)
	}
}

// WriteStatuses prints one line per classified metric.
func WriteStatuses(w io.Writer, statuses []model.MetricStatus) {
	for _, st := range statuses {
		value := fmt.Sprintf("%g %s", st.Value, st.Unit)
		fmt.Fprintf(w, "  %-26s %-14s %s\n", st.Metric, value, Paint(st.Color, string(st.Status)))
	}
}

// WriteScore prints the score, its tier and any deductions.
func WriteScore(w io.Writer, score int, tier model.RiskTier, deductions []model.Deduction) {
	fmt.Fprintf(w, "Health Score: %s (%s)\n",
		Paint(tier.Color, fmt.Sprintf("%d/100", score)), Paint(tier.Color, tier.Label))
	for _, d := range deductions {
		fmt.Fprintf(w, "  -%d  %s\n", d.Points, d.Reason)
	}
}

// WriteDashboard prints a dashboard as text.
func WriteDashboard(w io.Writer, d *model.Dashboard) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s  period=%s samples=%d\n\n", bold("=== Health Dashboard ==="), d.Period, d.Days)
	if !d.HasData {
		fmt.Fprintln(w, Paint(model.ColorGray, "No vital data recorded. Showing the score of default vitals."))
		fmt.Fprintln(w)
	}

	WriteScore(w, d.HealthScore, d.Risk, d.Deductions)
	fmt.Fprintln(w)

	if d.Latest != nil {
		fmt.Fprintf(w, "%s (%s)\n", bold("Latest vitals"), d.Latest.Date.Format(model.DateLayout))
		WriteStatuses(w, d.Statuses)
		fmt.Fprintln(w)
	}

	if len(d.Breakdown) > 0 {
		fmt.Fprintln(w, bold("Score breakdown"))
		for _, c := range d.Breakdown {
			fmt.Fprintf(w, "  %-16s %3d %s\n", c.Component, c.Score, bar(c.Score))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, bold("Statistics"))
	fmt.Fprintf(w, "  %-26s %5s %8s %8s %8s %8s\n", "metric", "n", "mean", "min", "max", "stddev")
	for _, s := range d.Summaries {
		if s.NoData {
			fmt.Fprintf(w, "  %-26s %5s\n", s.Metric, "-")
			continue
		}
		fmt.Fprintf(w, "  %-26s %5d %8.1f %8.1f %8.1f %8.2f\n", s.Metric, s.Count, s.Mean, s.Min, s.Max, s.StdDev)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, bold("Threshold breaches"))
	for _, b := range d.Breaches {
		tag := model.ColorGreen
		if b.Count > 0 {
			tag = model.ColorOrange
		}
		fmt.Fprintf(w, "  %-24s %s\n", b.Label, Paint(tag, fmt.Sprintf("%d of %d days", b.Count, b.Total)))
	}

	if len(d.Insights) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold("Insights"))
		for _, line := range d.Insights {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
}

// bar draws a 20-cell gauge for a 0-100 value.
func bar(v int) string {
	n := v / 5
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	return strings.Repeat("█", n) + strings.Repeat("░", 20-n)
}
