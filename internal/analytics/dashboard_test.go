package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

func fixedBuilder() *Builder {
	b := New(nil)
	b.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func series(n int) model.VitalSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var vs model.VitalSeries
	for i := 0; i < n; i++ {
		vs = vs.Append(model.VitalSample{
			Date:                   start.AddDate(0, 0, i),
			HeartRate:              70 + i%5,
			BloodPressureSystolic:  118,
			BloodPressureDiastolic: 78,
			BloodGlucose:           90 + i%20,
			Temperature:            98.6,
			OxygenSaturation:       97,
			Weight:                 70,
		})
	}
	return vs
}

func TestBuildEmptySeries(t *testing.T) {
	d := fixedBuilder().Build(nil, Options{})

	if d.HasData {
		t.Error("HasData = true, want false")
	}
	if d.HealthScore != 100 {
		t.Errorf("score = %d, want 100 from default snapshot", d.HealthScore)
	}
	if d.Risk != model.RiskLow {
		t.Errorf("risk = %+v", d.Risk)
	}
	if len(d.Summaries) != len(model.SeriesMetrics) {
		t.Fatalf("summaries = %d", len(d.Summaries))
	}
	for _, s := range d.Summaries {
		if !s.NoData {
			t.Errorf("%s: NoData = false", s.Metric)
		}
	}
	if d.Latest != nil || len(d.Insights) != 0 {
		t.Error("empty dashboard should have no latest sample or insights")
	}
}

func TestBuildPeriodWindow(t *testing.T) {
	d := fixedBuilder().Build(series(60), Options{Period: "7d"})

	if d.Period != "7d" || d.Days != 7 {
		t.Errorf("period = %s days = %d, want 7d/7", d.Period, d.Days)
	}
	if !d.HasData || d.Latest == nil {
		t.Fatal("expected data")
	}
	if d.Summaries[0].Count != 7 {
		t.Errorf("heart_rate count = %d, want 7", d.Summaries[0].Count)
	}
	for _, b := range d.Breaches {
		if b.Total != 7 {
			t.Errorf("%s total = %d, want 7", b.Rule, b.Total)
		}
	}
	if len(d.Statuses) != 6 || len(d.Breakdown) != 4 || len(d.Insights) != 3 {
		t.Errorf("statuses=%d breakdown=%d insights=%d", len(d.Statuses), len(d.Breakdown), len(d.Insights))
	}
	if d.Distributions != nil {
		t.Error("distributions built without being requested")
	}
}

func TestBuildScoresLatestSample(t *testing.T) {
	vs := series(5).Append(model.VitalSample{
		Date:             time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		HeartRate:        110,
		BloodGlucose:     150,
		OxygenSaturation: 90,
		// systolic 0 also triggers a deduction
	})
	d := fixedBuilder().Build(vs, Options{})

	if d.HealthScore != 45 {
		t.Errorf("score = %d, want 45", d.HealthScore)
	}
	if d.Risk != model.RiskHigh {
		t.Errorf("risk = %s, want High Risk", d.Risk.Label)
	}
	if len(d.Deductions) != 4 {
		t.Errorf("deductions = %d, want 4", len(d.Deductions))
	}
}

func TestBuildDistributions(t *testing.T) {
	d := fixedBuilder().Build(series(30), Options{Distributions: true, Bins: 10})
	if len(d.Distributions) != len(model.SeriesMetrics) {
		t.Fatalf("distributions = %d", len(d.Distributions))
	}
	if got := d.Distributions[model.MetricBloodGlucose]; len(got.Buckets) != 10 || got.Total != 30 {
		t.Errorf("glucose distribution = %d buckets, total %d", len(got.Buckets), got.Total)
	}
}

func TestBuildDistributionsNonFinite(t *testing.T) {
	vs := series(10)
	vs[3].Temperature = math.NaN()
	vs[6].Weight = math.Inf(1)

	d := fixedBuilder().Build(vs, Options{Distributions: true})
	if got := d.Distributions[model.MetricTemperature].Total; got != 9 {
		t.Errorf("temperature total = %d, want 9", got)
	}
	if got := d.Distributions[model.MetricWeight].Total; got != 9 {
		t.Errorf("weight total = %d, want 9", got)
	}
}
