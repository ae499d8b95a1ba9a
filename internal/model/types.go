// Package model defines the vital-sign data types and the scoring engine.
// Every function in this package is pure: inputs are explicit arguments and
// the only shared data is the read-only range table.
package model

import (
	"sort"
	"time"
)

// Recognized metric (column) names.
const (
	MetricHeartRate              = "heart_rate"
	MetricBloodPressureSystolic  = "blood_pressure_systolic"
	MetricBloodPressureDiastolic = "blood_pressure_diastolic"
	MetricBloodGlucose           = "blood_glucose"
	MetricTemperature            = "temperature"
	MetricOxygenSaturation       = "oxygen_saturation"
	MetricWeight                 = "weight"
)

// ColumnDate is the leading column of an exported series.
const ColumnDate = "date"

// DateLayout is the calendar-date format used for samples.
const DateLayout = "2006-01-02"

// SeriesMetrics lists the numeric columns of a series in export order.
var SeriesMetrics = []string{
	MetricHeartRate,
	MetricBloodPressureSystolic,
	MetricBloodPressureDiastolic,
	MetricBloodGlucose,
	MetricTemperature,
	MetricOxygenSaturation,
	MetricWeight,
}

// Columns returns the export header: date followed by SeriesMetrics.
func Columns() []string {
	cols := make([]string, 0, len(SeriesMetrics)+1)
	cols = append(cols, ColumnDate)
	return append(cols, SeriesMetrics...)
}

// --- Samples and series ---

// VitalSample is one day's set of measured vitals.
type VitalSample struct {
	Date                   time.Time `json:"date"`
	HeartRate              int       `json:"heart_rate"`
	BloodPressureSystolic  int       `json:"blood_pressure_systolic"`
	BloodPressureDiastolic int       `json:"blood_pressure_diastolic"`
	BloodGlucose           int       `json:"blood_glucose"`
	Temperature            float64   `json:"temperature"`
	OxygenSaturation       int       `json:"oxygen_saturation"`
	Weight                 float64   `json:"weight"`
}

// Value returns the named column as a float. ok is false for unknown names.
func (s VitalSample) Value(metric string) (float64, bool) {
	switch metric {
	case MetricHeartRate:
		return float64(s.HeartRate), true
	case MetricBloodPressureSystolic:
		return float64(s.BloodPressureSystolic), true
	case MetricBloodPressureDiastolic:
		return float64(s.BloodPressureDiastolic), true
	case MetricBloodGlucose:
		return float64(s.BloodGlucose), true
	case MetricTemperature:
		return s.Temperature, true
	case MetricOxygenSaturation:
		return float64(s.OxygenSaturation), true
	case MetricWeight:
		return s.Weight, true
	}
	return 0, false
}

// VitalSeries is an ordered run of samples, ascending by date.
// Callers replace a series rather than editing samples in place.
type VitalSeries []VitalSample

// Len returns the number of samples.
func (vs VitalSeries) Len() int { return len(vs) }

// Latest returns the most recent sample.
func (vs VitalSeries) Latest() (VitalSample, bool) {
	if len(vs) == 0 {
		return VitalSample{}, false
	}
	return vs[len(vs)-1], true
}

// Values extracts one column across the series. Unknown metrics yield nil.
func (vs VitalSeries) Values(metric string) []float64 {
	var out []float64
	for _, s := range vs {
		v, ok := s.Value(metric)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// Append returns a new series with sample added at the end. The receiver is
// left untouched.
func (vs VitalSeries) Append(sample VitalSample) VitalSeries {
	out := make(VitalSeries, 0, len(vs)+1)
	out = append(out, vs...)
	return append(out, sample)
}

// Insert returns a new series with sample placed in date order. A sample on
// the same UTC day as an existing one replaces it. The receiver is left
// untouched.
func (vs VitalSeries) Insert(sample VitalSample) VitalSeries {
	key := dayOf(sample.Date)
	i := sort.Search(len(vs), func(i int) bool { return !dayOf(vs[i].Date).Before(key) })

	out := make(VitalSeries, 0, len(vs)+1)
	out = append(out, vs[:i]...)
	out = append(out, sample)
	if i < len(vs) && dayOf(vs[i].Date).Equal(key) {
		i++
	}
	return append(out, vs[i:]...)
}

func dayOf(t time.Time) time.Time { return t.UTC().Truncate(24 * time.Hour) }

// Tail returns a copy of the last n samples (all of them if n >= Len).
func (vs VitalSeries) Tail(n int) VitalSeries {
	if n <= 0 {
		return VitalSeries{}
	}
	if n > len(vs) {
		n = len(vs)
	}
	out := make(VitalSeries, n)
	copy(out, vs[len(vs)-n:])
	return out
}

// --- Classification ---

// Status is a per-metric classification label.
type Status string

const (
	StatusLow     Status = "Low"
	StatusNormal  Status = "Normal"
	StatusHigh    Status = "High"
	StatusUnknown Status = "Unknown"
)

// Color is a display severity tag.
type Color string

const (
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorGray   Color = "gray"
)

// MetricRange is the normal band for one metric.
type MetricRange struct {
	Metric string  `json:"metric"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	Unit   string  `json:"unit"`
}

// MetricStatus is the classification of a single value.
type MetricStatus struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Status Status  `json:"status"`
	Color  Color   `json:"color"`
	Unit   string  `json:"unit"`
}

// RiskTier is the coarse classification of a health score.
type RiskTier struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
}

// Deduction is one triggered score penalty.
type Deduction struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Points int     `json:"points"`
	Reason string  `json:"reason"`
}

// ComponentScore is one bar of the score breakdown.
type ComponentScore struct {
	Component string `json:"component"`
	Score     int    `json:"score"`
}

// --- Aggregates ---

// MetricSummary holds the statistics of one column across a series.
// NoData is set when the series had no values for the metric.
type MetricSummary struct {
	Metric string  `json:"metric"`
	Unit   string  `json:"unit,omitempty"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
	NoData bool    `json:"no_data,omitempty"`
}

// BreachCount is the result of evaluating one BreachRule over a series.
type BreachCount struct {
	Rule  string `json:"rule"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}

// Correlation is a symmetric Pearson matrix over Metrics.
type Correlation struct {
	Metrics []string    `json:"metrics"`
	Matrix  [][]float64 `json:"matrix"`
}

// Distribution is an equal-width histogram of one column.
type Distribution struct {
	Metric  string       `json:"metric"`
	Buckets []HistBucket `json:"buckets"`
	Total   int          `json:"total"`
}

// HistBucket covers [Low, High); the last bucket also includes High.
type HistBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// --- Dashboard: one rendering cycle ---

// Dashboard is everything the presentation layer needs for one refresh.
type Dashboard struct {
	GeneratedAt   time.Time               `json:"generated_at"`
	Period        string                  `json:"period"`
	Days          int                     `json:"days"`
	HasData       bool                    `json:"has_data"`
	Latest        *VitalSample            `json:"latest,omitempty"`
	Statuses      []MetricStatus          `json:"statuses"`
	HealthScore   int                     `json:"health_score"`
	Risk          RiskTier                `json:"risk"`
	Deductions    []Deduction             `json:"deductions"`
	Breakdown     []ComponentScore        `json:"breakdown"`
	Summaries     []MetricSummary         `json:"summaries"`
	Breaches      []BreachCount           `json:"breaches"`
	Correlation   Correlation             `json:"correlation"`
	Distributions map[string]Distribution `json:"distributions,omitempty"`
	Insights      []string                `json:"insights,omitempty"`
}
