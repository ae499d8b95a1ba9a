package diff

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

func flat(days int, s model.VitalSample) model.VitalSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var vs model.VitalSeries
	for i := 0; i < days; i++ {
		s.Date = start.AddDate(0, 0, i)
		vs = vs.Append(s)
	}
	return vs
}

var healthy = model.VitalSample{
	HeartRate: 72, BloodPressureSystolic: 115, BloodPressureDiastolic: 75,
	BloodGlucose: 90, Temperature: 98.6, OxygenSaturation: 98, Weight: 70,
}

func findChange(d *DiffReport, category, metric string) *MetricChange {
	for i := range d.Changes {
		if d.Changes[i].Category == category && d.Changes[i].Metric == metric {
			return &d.Changes[i]
		}
	}
	return nil
}

func TestCompareRegression(t *testing.T) {
	sick := healthy
	sick.BloodGlucose = 150
	sick.OxygenSaturation = 90

	diff := Compare(flat(7, healthy), flat(7, sick))

	if diff.HealthDelta != -30 {
		t.Errorf("health delta = %d, want -30", diff.HealthDelta)
	}
	if diff.Regressions == 0 {
		t.Fatal("expected regressions")
	}

	c := findChange(diff, "mean", model.MetricBloodGlucose)
	if c == nil {
		t.Fatal("missing glucose change")
	}
	if c.Direction != Regression {
		t.Errorf("glucose direction = %q, want regression", c.Direction)
	}
	if c.Significance != "high" {
		t.Errorf("glucose significance = %q, want high (66.7%% change)", c.Significance)
	}

	b := findChange(diff, "breaches", "glucose_high")
	if b == nil || b.Direction != Regression || b.NewValue != 100 {
		t.Errorf("glucose_high breach change = %+v", b)
	}
}

func TestCompareIdentical(t *testing.T) {
	vs := flat(10, healthy)
	diff := Compare(vs, vs)
	if diff.HealthDelta != 0 {
		t.Errorf("health delta = %d, want 0", diff.HealthDelta)
	}
	if diff.Regressions != 0 || diff.Improvements != 0 || len(diff.Changes) != 0 {
		t.Errorf("identical series produced changes: %+v", diff.Changes)
	}
}

func TestCompareImprovement(t *testing.T) {
	before := healthy
	before.HeartRate = 120
	diff := Compare(flat(5, before), flat(5, healthy))

	if diff.HealthDelta != 10 {
		t.Errorf("health delta = %d, want 10", diff.HealthDelta)
	}
	c := findChange(diff, "mean", model.MetricHeartRate)
	if c == nil || c.Direction != Improvement {
		t.Errorf("heart rate change = %+v, want improvement", c)
	}
}

func TestCompareWithinRangeIsUnchanged(t *testing.T) {
	after := healthy
	after.HeartRate = 90 // +25% but still inside 60-100
	diff := Compare(flat(5, healthy), flat(5, after))

	c := findChange(diff, "mean", model.MetricHeartRate)
	if c == nil {
		t.Fatal("missing heart rate change")
	}
	if c.Direction != Unchanged {
		t.Errorf("direction = %q, want unchanged", c.Direction)
	}
	if c.Significance != "medium" {
		t.Errorf("significance = %q, want medium", c.Significance)
	}
}

func TestCompareEmpty(t *testing.T) {
	diff := Compare(nil, flat(3, healthy))
	if diff.Baseline != "empty" {
		t.Errorf("baseline label = %q", diff.Baseline)
	}
	if len(diff.Changes) != 0 {
		t.Errorf("changes = %d, want 0 against empty baseline", len(diff.Changes))
	}
}

func TestFormatDiff(t *testing.T) {
	diff := &DiffReport{
		Baseline:     "2024-01-01..2024-01-07 (7 days)",
		Current:      "2024-01-08..2024-01-14 (7 days)",
		OldScore:     100,
		NewScore:     70,
		HealthDelta:  -30,
		Regressions:  1,
		Improvements: 1,
		Changes: []MetricChange{
			{Category: "mean", Metric: "blood_glucose", OldValue: 90, NewValue: 150, DeltaPct: 66.7, Direction: Regression, Significance: "high"},
			{Category: "mean", Metric: "heart_rate", OldValue: 120, NewValue: 72, DeltaPct: -40, Direction: Improvement, Significance: "medium"},
		},
	}

	output := FormatDiff(diff)
	for _, want := range []string{"100 → 70", "⚠ Regressions", "mean/blood_glucose", "✓ Improvements", "[MEDIUM] mean/heart_rate"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
