package model

import "fmt"

// Snapshot is the set of vitals the health score is computed from.
type Snapshot struct {
	HeartRate             float64 `json:"heart_rate"`
	BloodPressureSystolic float64 `json:"blood_pressure_systolic"`
	BloodGlucose          float64 `json:"blood_glucose"`
	OxygenSaturation      float64 `json:"oxygen_saturation"`
}

// DefaultSnapshot returns the values substituted for missing inputs.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		HeartRate:             75,
		BloodPressureSystolic: 120,
		BloodGlucose:          95,
		OxygenSaturation:      98,
	}
}

// DefaultSample returns the values used for columns a partial reading leaves
// out: the DefaultSnapshot vitals plus diastolic 80, 98.6 °F and 70 kg. Date
// is zero.
func DefaultSample() VitalSample {
	d := DefaultSnapshot()
	return VitalSample{
		HeartRate:              int(d.HeartRate),
		BloodPressureSystolic:  int(d.BloodPressureSystolic),
		BloodPressureDiastolic: 80,
		BloodGlucose:           int(d.BloodGlucose),
		Temperature:            98.6,
		OxygenSaturation:       int(d.OxygenSaturation),
		Weight:                 70,
	}
}

// SnapshotFromMap builds a Snapshot from metric-name keys. Missing keys take
// the DefaultSnapshot value; unrelated keys are ignored.
func SnapshotFromMap(m map[string]float64) Snapshot {
	s := DefaultSnapshot()
	if v, ok := m[MetricHeartRate]; ok {
		s.HeartRate = v
	}
	if v, ok := m[MetricBloodPressureSystolic]; ok {
		s.BloodPressureSystolic = v
	}
	if v, ok := m[MetricBloodGlucose]; ok {
		s.BloodGlucose = v
	}
	if v, ok := m[MetricOxygenSaturation]; ok {
		s.OxygenSaturation = v
	}
	return s
}

// SnapshotFromSample takes the scored columns of a sample.
func SnapshotFromSample(v VitalSample) Snapshot {
	return Snapshot{
		HeartRate:             float64(v.HeartRate),
		BloodPressureSystolic: float64(v.BloodPressureSystolic),
		BloodGlucose:          float64(v.BloodGlucose),
		OxygenSaturation:      float64(v.OxygenSaturation),
	}
}

// Deduction amounts. Each rule fires at most once.
const (
	heartRatePenalty = 10
	systolicPenalty  = 15
	glucosePenalty   = 10
	oxygenPenalty    = 20
)

// ScoreDeductions returns the penalties triggered by s, in a fixed order.
func ScoreDeductions(s Snapshot) []Deduction {
	var out []Deduction

	if s.HeartRate < 60 || s.HeartRate > 100 {
		out = append(out, Deduction{
			Metric: MetricHeartRate, Value: s.HeartRate, Points: heartRatePenalty,
			Reason: fmt.Sprintf("heart rate %.0f bpm outside 60-100", s.HeartRate),
		})
	}
	if s.BloodPressureSystolic > 130 || s.BloodPressureSystolic < 90 {
		out = append(out, Deduction{
			Metric: MetricBloodPressureSystolic, Value: s.BloodPressureSystolic, Points: systolicPenalty,
			Reason: fmt.Sprintf("systolic pressure %.0f mmHg outside 90-130", s.BloodPressureSystolic),
		})
	}
	if s.BloodGlucose < 70 || s.BloodGlucose > 100 {
		out = append(out, Deduction{
			Metric: MetricBloodGlucose, Value: s.BloodGlucose, Points: glucosePenalty,
			Reason: fmt.Sprintf("blood glucose %.0f mg/dL outside 70-100", s.BloodGlucose),
		})
	}
	if s.OxygenSaturation < 95 {
		out = append(out, Deduction{
			Metric: MetricOxygenSaturation, Value: s.OxygenSaturation, Points: oxygenPenalty,
			Reason: fmt.Sprintf("oxygen saturation %.0f%% below 95", s.OxygenSaturation),
		})
	}
	return out
}

// ComputeHealthScore computes a 0-100 wellness score.
// Start at 100 and subtract every triggered deduction.
func ComputeHealthScore(s Snapshot) int {
	score := 100
	for _, d := range ScoreDeductions(s) {
		score -= d.Points
	}

	// Clamp to [0, 100]
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Risk tiers.
var (
	RiskLow      = RiskTier{Label: "Low Risk", Color: ColorGreen}
	RiskModerate = RiskTier{Label: "Moderate Risk", Color: ColorOrange}
	RiskHigh     = RiskTier{Label: "High Risk", Color: ColorRed}
)

// RiskLevel maps a score to its tier: >=80 low, 60-79 moderate, below 60 high.
func RiskLevel(score int) RiskTier {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// ScoreBreakdown returns the per-system component scores shown next to the
// overall score.
func ScoreBreakdown(v VitalSample) []ComponentScore {
	pick := func(ok bool, good, bad int) int {
		if ok {
			return good
		}
		return bad
	}
	return []ComponentScore{
		{Component: "Cardiovascular", Score: pick(v.HeartRate <= 100, 85, 70)},
		{Component: "Blood Pressure", Score: pick(v.BloodPressureSystolic <= 120, 90, 75)},
		{Component: "Metabolic", Score: pick(v.BloodGlucose <= 100, 80, 65)},
		{Component: "Respiratory", Score: pick(v.OxygenSaturation >= 95, 95, 70)},
	}
}
