package advisor

import (
	"sort"
	"strings"
)

// CommonSymptoms is the symptom checklist offered to users.
func CommonSymptoms() []string {
	return []string{
		"Fever", "Cough", "Headache", "Fatigue", "Nausea",
		"Sore Throat", "Body Aches", "Shortness of Breath",
		"Chest Pain", "Dizziness", "Abdominal Pain", "Runny Nose",
		"Sneezing", "Vomiting", "Diarrhea", "Rash",
		"Joint Pain", "Back Pain", "Loss of Appetite", "Insomnia",
	}
}

// CommonConditions is the condition list offered for treatment plans.
func CommonConditions() []string {
	return []string{
		"Common Cold",
		"Seasonal Flu",
		"Migraine",
		"Type 2 Diabetes",
		"Hypertension (High Blood Pressure)",
		"Anxiety Disorder",
		"Depression",
		"Gastritis",
		"Allergic Rhinitis",
		"Asthma",
		"Back Pain",
		"Insomnia",
		"Acid Reflux (GERD)",
		"Arthritis",
		"Sinusitis",
	}
}

// conditionHints maps a condition to symptoms that commonly accompany it.
var conditionHints = map[string][]string{
	"cold":         {"runny nose", "sneezing", "sore throat", "cough"},
	"flu":          {"fever", "body aches", "fatigue", "headache"},
	"migraine":     {"severe headache", "nausea", "light sensitivity"},
	"allergies":    {"sneezing", "itchy eyes", "runny nose"},
	"diabetes":     {"increased thirst", "frequent urination", "fatigue"},
	"hypertension": {"headache", "dizziness", "chest pain"},
	"gastritis":    {"stomach pain", "nausea", "bloating"},
	"anxiety":      {"restlessness", "rapid heartbeat", "worry"},
	"depression":   {"sadness", "fatigue", "loss of interest"},
}

// ConditionHints returns the typical symptoms for a condition keyword.
func ConditionHints(condition string) ([]string, bool) {
	h, ok := conditionHints[strings.ToLower(strings.TrimSpace(condition))]
	if !ok {
		return nil, false
	}
	out := make([]string, len(h))
	copy(out, h)
	return out, true
}

// MatchConditions lists condition keywords sharing at least one symptom with
// symptoms, most overlaps first, ties by name.
func MatchConditions(symptoms []string) []string {
	have := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	type hit struct {
		name string
		n    int
	}
	var hits []hit
	for name, hints := range conditionHints {
		n := 0
		for _, h := range hints {
			if have[h] {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, hit{name, n})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].n != hits[j].n {
			return hits[i].n > hits[j].n
		}
		return hits[i].name < hits[j].name
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

// TreatmentSections are the headings every treatment plan is asked to cover.
func TreatmentSections() []string {
	return []string{
		"Medications and Dosages",
		"Lifestyle Modifications",
		"Dietary Recommendations",
		"Exercise Guidelines",
		"Monitoring Requirements",
		"Follow-up Schedule",
		"Warning Signs to Watch For",
	}
}

// SymptomDurations are the accepted answers to "how long".
func SymptomDurations() []string {
	return []string{"Less than 1 day", "1-3 days", "3-7 days", "1-2 weeks", "More than 2 weeks"}
}

// TreatmentGoals are the selectable goals for a treatment plan.
func TreatmentGoals() []string {
	return []string{
		"Pain Relief", "Symptom Management", "Long-term Health",
		"Quality of Life", "Prevent Complications", "Cure/Recovery",
	}
}

// IntensityLevels are the treatment-plan severity labels.
func IntensityLevels() []string {
	return []string{"Mild", "Moderate", "Severe", "Very Severe"}
}

// SeverityLabel buckets a 1-10 rating: 1-3 mild, 4-6 moderate, 7-10 severe.
func SeverityLabel(n int) string {
	switch {
	case n <= 3:
		return "Mild"
	case n <= 6:
		return "Moderate"
	default:
		return "Severe"
	}
}

// BMI computes body-mass index from kilograms and centimeters. ok is false
// when either input is not positive.
func BMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return weightKg / (m * m), true
}

// BMICategory returns Underweight, Normal, Overweight or Obese.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
