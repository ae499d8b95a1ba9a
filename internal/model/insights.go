package model

// Values assumed by RuleInsights when a key is missing.
const (
	insightDefaultHeartRate = 70
	insightDefaultGlucose   = 90
	insightDefaultSystolic  = 120
	insightDefaultDiastolic = 80
)

// RuleInsights turns per-metric averages into plain-language observations.
// Missing keys are read as unremarkable values.
func RuleInsights(avg map[string]float64) []string {
	get := func(key string, def float64) float64 {
		if v, ok := avg[key]; ok {
			return v
		}
		return def
	}
	var out []string

	hr := get(MetricHeartRate, insightDefaultHeartRate)
	switch {
	case hr < 60:
		out = append(out, "Heart rate is slightly low. Consider light physical activity.")
	case hr > 100:
		out = append(out, "Heart rate is high. Monitor and consult a doctor if persistent.")
	default:
		out = append(out, "Heart rate is normal.")
	}

	glucose := get(MetricBloodGlucose, insightDefaultGlucose)
	switch {
	case glucose > 125:
		out = append(out, "Blood glucose is high. Maintain a balanced diet.")
	case glucose < 70:
		out = append(out, "Blood glucose is low. Eat regular meals.")
	default:
		out = append(out, "Blood glucose is within normal range.")
	}

	sys := get(MetricBloodPressureSystolic, insightDefaultSystolic)
	dia := get(MetricBloodPressureDiastolic, insightDefaultDiastolic)
	if sys >= 140 || dia >= 90 {
		out = append(out, "Blood pressure is elevated. Reduce salt and stress.")
	} else {
		out = append(out, "Blood pressure is normal.")
	}
	return out
}

// MeansOf collects the Mean of each summary that has data.
func MeansOf(summaries []MetricSummary) map[string]float64 {
	m := make(map[string]float64, len(summaries))
	for _, s := range summaries {
		if !s.NoData {
			m[s.Metric] = s.Mean
		}
	}
	return m
}

// LifestyleTips are the general recommendations shown with the analytics.
func LifestyleTips() []string {
	return []string{
		"Exercise: 30 minutes daily moderate activity",
		"Diet: Balanced nutrition, limit processed foods",
		"Hydration: 8 glasses of water per day",
		"Sleep: 7-9 hours per night",
		"Stress: Practice relaxation techniques",
	}
}

// WarningSigns lists symptoms that warrant prompt medical attention.
func WarningSigns() []string {
	return []string{
		"Chest pain or pressure",
		"Difficulty breathing",
		"Severe headache",
		"Blood pressure > 180/120",
		"Blood glucose < 70 or > 200",
		"Persistent symptoms",
	}
}
