package model

import "fmt"

// BreachOp is the comparison a BreachRule applies.
type BreachOp string

const (
	OpAbove BreachOp = "above"
	OpBelow BreachOp = "below"
)

// BreachRule counts samples on one side of a threshold. These thresholds are
// kept separate from the range table; the two serve different roles even
// where the numbers coincide.
type BreachRule struct {
	Name      string   `json:"name"`
	Metric    string   `json:"metric"`
	Op        BreachOp `json:"op"`
	Threshold float64  `json:"threshold"`
	Label     string   `json:"label"`
}

// Predicate returns the strict comparison described by the rule.
func (r BreachRule) Predicate() func(float64) bool {
	t := r.Threshold
	if r.Op == OpBelow {
		return func(v float64) bool { return v < t }
	}
	return func(v float64) bool { return v > t }
}

// String renders the rule as "blood_glucose > 100".
func (r BreachRule) String() string {
	sym := ">"
	if r.Op == OpBelow {
		sym = "<"
	}
	return fmt.Sprintf("%s %s %g", r.Metric, sym, r.Threshold)
}

// DefaultBreachRules returns the dashboard tiles.
func DefaultBreachRules() []BreachRule {
	return []BreachRule{
		{Name: "glucose_high", Metric: MetricBloodGlucose, Op: OpAbove, Threshold: 100, Label: "High Glucose Readings"},
		{Name: "glucose_low", Metric: MetricBloodGlucose, Op: OpBelow, Threshold: 70, Label: "Low Glucose Readings"},
		{Name: "oxygen_low", Metric: MetricOxygenSaturation, Op: OpBelow, Threshold: 95, Label: "Low Oxygen Readings"},
		{Name: "fever", Metric: MetricTemperature, Op: OpAbove, Threshold: 99.5, Label: "Fever Readings"},
	}
}

// CountWhere counts samples whose metric value satisfies pred.
// Unknown metrics and empty series count zero.
func CountWhere(series VitalSeries, metric string, pred func(float64) bool) int {
	n := 0
	for _, v := range series.Values(metric) {
		if pred(v) {
			n++
		}
	}
	return n
}

// CountBreaches evaluates rule over series.
func CountBreaches(series VitalSeries, rule BreachRule) BreachCount {
	return BreachCount{
		Rule:  rule.Name,
		Label: rule.Label,
		Count: CountWhere(series, rule.Metric, rule.Predicate()),
		Total: series.Len(),
	}
}
