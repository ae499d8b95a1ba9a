package generator

import (
	"math"
	"testing"
	"time"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

var end = time.Date(2024, 6, 30, 15, 4, 5, 0, time.UTC)

func TestGenerateLength(t *testing.T) {
	for _, days := range []int{1, 7, 30, 90} {
		vs := Generate(days, Options{Seed: 1, End: end})
		if vs.Len() != days {
			t.Errorf("Generate(%d) len = %d", days, vs.Len())
		}
	}
	for _, days := range []int{0, -3} {
		if vs := Generate(days, Options{Seed: 1}); vs.Len() != 0 {
			t.Errorf("Generate(%d) len = %d, want 0", days, vs.Len())
		}
	}
}

func TestGenerateDates(t *testing.T) {
	vs := Generate(10, Options{Seed: 7, End: end})
	last, _ := vs.Latest()
	if got := last.Date.Format(model.DateLayout); got != "2024-06-30" {
		t.Errorf("last date = %s, want 2024-06-30", got)
	}
	for i := 1; i < vs.Len(); i++ {
		if d := vs[i].Date.Sub(vs[i-1].Date); d != 24*time.Hour {
			t.Fatalf("gap at %d = %v, want 24h", i, d)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(30, Options{Seed: 42, End: end})
	b := Generate(30, Options{Seed: 42, End: end})
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for same seed", i)
		}
	}
}

func TestGenerateDecimals(t *testing.T) {
	vs := Generate(50, Options{Seed: 3, End: end})
	for _, s := range vs {
		for _, v := range []float64{s.Temperature, s.Weight} {
			if r := math.Round(v*10) / 10; math.Abs(r-v) > 1e-9 {
				t.Fatalf("value %v not rounded to one decimal", v)
			}
		}
	}
}

func TestGenerateMeans(t *testing.T) {
	vs := Generate(2000, Options{Seed: 11, End: end})
	tests := []struct {
		metric string
		mean   float64
		tol    float64
	}{
		{model.MetricHeartRate, 75, 2},
		{model.MetricBloodPressureSystolic, 120, 2},
		{model.MetricBloodGlucose, 95, 2},
		{model.MetricTemperature, 98.6, 0.1},
		{model.MetricOxygenSaturation, 98, 1},
	}
	for _, tc := range tests {
		s := model.Summarize(vs, tc.metric)
		// Integer columns truncate, which biases the mean down by up to 1.
		if math.Abs(s.Mean-tc.mean) > tc.tol {
			t.Errorf("%s mean = %.2f, want %.1f±%.1f", tc.metric, s.Mean, tc.mean, tc.tol)
		}
	}
}
