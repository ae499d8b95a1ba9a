// Package diff compares two vital series and highlights regressions/improvements.
package diff

import (
	"fmt"
	"math"
	"strings"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// Change directions.
const (
	Regression  = "regression"
	Improvement = "improvement"
	Unchanged   = "unchanged"
)

// DiffReport contains the comparison between two series.
type DiffReport struct {
	Baseline     string         `json:"baseline"`
	Current      string         `json:"current"`
	Changes      []MetricChange `json:"changes"`
	Regressions  int            `json:"regressions"`
	Improvements int            `json:"improvements"`
	OldScore     int            `json:"old_score"`
	NewScore     int            `json:"new_score"`
	HealthDelta  int            `json:"health_delta"` // positive = improved
}

// MetricChange represents a single metric difference between series.
type MetricChange struct {
	Category     string  `json:"category"` // "mean" or "breaches"
	Metric       string  `json:"metric"`
	OldValue     float64 `json:"old_value"`
	NewValue     float64 `json:"new_value"`
	Delta        float64 `json:"delta"`
	DeltaPct     float64 `json:"delta_pct"`
	Direction    string  `json:"direction"`    // "regression", "improvement", "unchanged"
	Significance string  `json:"significance"` // "high", "medium", "low"
}

// Compare computes differences between two series: per-metric means judged
// against the metric's normal range, breach rates, and the latest score.
func Compare(baseline, current model.VitalSeries) *DiffReport {
	diff := &DiffReport{
		Baseline: spanLabel(baseline),
		Current:  spanLabel(current),
		OldScore: latestScore(baseline),
		NewScore: latestScore(current),
	}
	diff.HealthDelta = diff.NewScore - diff.OldScore

	for _, m := range model.SeriesMetrics {
		oldSum := model.Summarize(baseline, m)
		newSum := model.Summarize(current, m)
		if oldSum.NoData || newSum.NoData {
			continue
		}
		addMeanChange(diff, m, oldSum.Mean, newSum.Mean)
	}

	for _, rule := range model.DefaultBreachRules() {
		if baseline.Len() == 0 || current.Len() == 0 {
			break
		}
		oldRate := breachRate(model.CountBreaches(baseline, rule))
		newRate := breachRate(model.CountBreaches(current, rule))
		addChange(diff, "breaches", rule.Name, oldRate, newRate, directionHigherIsWorse)
	}

	// Tally regressions vs improvements
	for _, c := range diff.Changes {
		switch c.Direction {
		case Regression:
			diff.Regressions++
		case Improvement:
			diff.Improvements++
		}
	}
	return diff
}

func latestScore(vs model.VitalSeries) int {
	snap := model.DefaultSnapshot()
	if s, ok := vs.Latest(); ok {
		snap = model.SnapshotFromSample(s)
	}
	return model.ComputeHealthScore(snap)
}

func spanLabel(vs model.VitalSeries) string {
	if vs.Len() == 0 {
		return "empty"
	}
	first, last := vs[0].Date, vs[len(vs)-1].Date
	return fmt.Sprintf("%s..%s (%d days)", first.Format(model.DateLayout), last.Format(model.DateLayout), vs.Len())
}

// breachRate is the percentage of samples that hit the rule.
func breachRate(b model.BreachCount) float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Count) / float64(b.Total) * 100
}

// outsideBy is how far v lies outside r; 0 inside the band.
func outsideBy(r model.MetricRange, v float64) float64 {
	switch {
	case v < r.Low:
		return r.Low - v
	case v > r.High:
		return v - r.High
	}
	return 0
}

type directionFunc func(oldVal, newVal, deltaPct float64) string

func directionHigherIsWorse(_, _, deltaPct float64) string {
	if deltaPct > 5 {
		return Regression
	} else if deltaPct < -5 {
		return Improvement
	}
	return Unchanged
}

// addMeanChange judges a mean by its distance from the normal band: drifting
// away is a regression, moving toward it an improvement. Metrics without a
// range are reported as unchanged.
func addMeanChange(diff *DiffReport, metric string, oldVal, newVal float64) {
	r, ok := model.LookupRange(metric)
	dir := func(oldVal, newVal, deltaPct float64) string {
		if !ok || math.Abs(deltaPct) <= 1 {
			return Unchanged
		}
		oldOut, newOut := outsideBy(r, oldVal), outsideBy(r, newVal)
		switch {
		case newOut > oldOut:
			return Regression
		case newOut < oldOut:
			return Improvement
		}
		return Unchanged
	}
	addChange(diff, "mean", metric, oldVal, newVal, dir)
}

func addChange(diff *DiffReport, category, metric string, oldVal, newVal float64, direction directionFunc) {
	delta := newVal - oldVal
	deltaPct := 0.0
	if oldVal != 0 {
		deltaPct = (delta / math.Abs(oldVal)) * 100
	} else if newVal != 0 {
		deltaPct = 100
	}

	// Skip negligible changes
	if math.Abs(deltaPct) < 1.0 && math.Abs(delta) < 0.1 {
		return
	}

	significance := "low"
	absPct := math.Abs(deltaPct)
	if absPct >= 50 {
		significance = "high"
	} else if absPct >= 20 {
		significance = "medium"
	}

	diff.Changes = append(diff.Changes, MetricChange{
		Category:     category,
		Metric:       metric,
		OldValue:     oldVal,
		NewValue:     newVal,
		Delta:        delta,
		DeltaPct:     deltaPct,
		Direction:    direction(oldVal, newVal, deltaPct),
		Significance: significance,
	})
}

// FormatDiff returns a human-readable diff summary.
func FormatDiff(d *DiffReport) string {
	var sb strings.Builder

	sb.WriteString("=== Series Diff ===\n")
	sb.WriteString(fmt.Sprintf("Baseline: %s\n", d.Baseline))
	sb.WriteString(fmt.Sprintf("Current:  %s\n\n", d.Current))

	symbol := "→"
	if d.HealthDelta > 0 {
		symbol = "↑"
	} else if d.HealthDelta < 0 {
		symbol = "↓"
	}
	sb.WriteString(fmt.Sprintf("Health Score: %d → %d (%+d %s)\n", d.OldScore, d.NewScore, d.HealthDelta, symbol))
	sb.WriteString(fmt.Sprintf("Regressions: %d, Improvements: %d\n\n", d.Regressions, d.Improvements))

	// Show regressions first
	if d.Regressions > 0 {
		sb.WriteString("⚠ Regressions:\n")
		writeChanges(&sb, d.Changes, Regression)
		sb.WriteString("\n")
	}
	if d.Improvements > 0 {
		sb.WriteString("✓ Improvements:\n")
		writeChanges(&sb, d.Changes, Improvement)
	}
	return sb.String()
}

func writeChanges(sb *strings.Builder, changes []MetricChange, direction string) {
	for _, c := range changes {
		if c.Direction == direction {
			sb.WriteString(fmt.Sprintf("  [%s] %s/%s: %.2f → %.2f (%+.1f%%)\n",
				strings.ToUpper(c.Significance), c.Category, c.Metric,
				c.OldValue, c.NewValue, c.DeltaPct))
		}
	}
}
