package model

// metricRanges is the normal-band table, in column order.
// Boundaries are inclusive: a value equal to Low or High is Normal.
var metricRanges = []MetricRange{
	{Metric: MetricHeartRate, Low: 60, High: 100, Unit: "bpm"},
	{Metric: MetricBloodPressureSystolic, Low: 90, High: 120, Unit: "mmHg"},
	{Metric: MetricBloodPressureDiastolic, Low: 60, High: 80, Unit: "mmHg"},
	{Metric: MetricBloodGlucose, Low: 70, High: 100, Unit: "mg/dL"},
	{Metric: MetricTemperature, Low: 97.0, High: 99.5, Unit: "°F"},
	{Metric: MetricOxygenSaturation, Low: 95, High: 100, Unit: "%"},
}

// units for recorded columns that have no normal band.
var extraUnits = map[string]string{
	MetricWeight: "kg",
}

// LookupRange returns the normal band for metric. ok is false for metrics
// outside the table; callers treat that as Unknown.
func LookupRange(metric string) (MetricRange, bool) {
	for _, r := range metricRanges {
		if r.Metric == metric {
			return r, true
		}
	}
	return MetricRange{}, false
}

// MetricRanges returns a copy of the range table in column order.
func MetricRanges() []MetricRange {
	out := make([]MetricRange, len(metricRanges))
	copy(out, metricRanges)
	return out
}

// RangedMetrics returns the metric names that have a normal band.
func RangedMetrics() []string {
	names := make([]string, len(metricRanges))
	for i, r := range metricRanges {
		names[i] = r.Metric
	}
	return names
}

// UnitOf returns the display unit of any recorded column.
func UnitOf(metric string) string {
	if r, ok := LookupRange(metric); ok {
		return r.Unit
	}
	return extraUnits[metric]
}

// ClassifyMetric maps a value to Low/Normal/High against its range.
// Unknown metrics classify as Unknown with gray color and no unit.
func ClassifyMetric(metric string, value float64) MetricStatus {
	r, ok := LookupRange(metric)
	if !ok {
		return MetricStatus{Metric: metric, Value: value, Status: StatusUnknown, Color: ColorGray}
	}

	st := MetricStatus{Metric: metric, Value: value, Unit: r.Unit}
	switch {
	case value < r.Low:
		st.Status, st.Color = StatusLow, ColorOrange
	case value > r.High:
		st.Status, st.Color = StatusHigh, ColorRed
	default:
		st.Status, st.Color = StatusNormal, ColorGreen
	}
	return st
}

// ClassifySample classifies every ranged column of one sample.
func ClassifySample(s VitalSample) []MetricStatus {
	out := make([]MetricStatus, 0, len(metricRanges))
	for _, r := range metricRanges {
		v, _ := s.Value(r.Metric)
		out = append(out, ClassifyMetric(r.Metric, v))
	}
	return out
}
