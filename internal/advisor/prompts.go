package advisor

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// chatContextTurns is how many past exchanges a chat prompt carries.
const chatContextTurns = 3

// SymptomPrompt builds the symptom-analysis request.
func SymptomPrompt(symptoms []string, p *PatientInfo) string {
	var sb strings.Builder
	sb.WriteString("You are a medical AI assistant. Analyze the following symptoms ")
	sb.WriteString("and provide a structured medical assessment.\n\n")
	sb.WriteString(fmt.Sprintf("Symptoms: %s\n\n", strings.Join(symptoms, ", ")))
	sb.WriteString("Provide your analysis in the following format:\n")
	sb.WriteString("1. Possible Conditions (list 3-4 most likely conditions)\n")
	sb.WriteString("2. Severity Assessment (Low/Moderate/High)\n")
	sb.WriteString("3. Recommended Actions\n")
	sb.WriteString("4. When to Seek Immediate Care\n\n")
	sb.WriteString("Keep your response professional, clear, and concise. Use bullet points where appropriate.")

	if p != nil {
		sb.WriteString("\n\nPatient Information:\n")
		sb.WriteString(fmt.Sprintf("Age: %s\n", orNA(ageText(p.Age))))
		sb.WriteString(fmt.Sprintf("Gender: %s", orNA(p.Gender)))
		if p.Conditions != "" {
			sb.WriteString(fmt.Sprintf("\nExisting Conditions: %s", p.Conditions))
		}
		if p.Duration != "" {
			sb.WriteString(fmt.Sprintf("\nSymptom Duration: %s", p.Duration))
		}
		if p.Severity > 0 {
			sb.WriteString(fmt.Sprintf("\nSeverity: %d/10 (%s)", p.Severity, SeverityLabel(p.Severity)))
		}
	}
	return sb.String()
}

// TreatmentPrompt builds the treatment-plan request.
func TreatmentPrompt(condition string, p *PatientInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a medical AI assistant. Create a comprehensive treatment plan for: %s\n\n", condition))
	sb.WriteString("Provide a structured treatment plan including:\n")
	for i, section := range TreatmentSections() {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, section))
	}
	sb.WriteString("\nMake recommendations evidence-based and patient-friendly.")

	if p != nil {
		sb.WriteString("\n\nPatient Profile:\n")
		sb.WriteString(fmt.Sprintf("Age: %s\n", orNA(ageText(p.Age))))
		sb.WriteString(fmt.Sprintf("Gender: %s\n", orNA(p.Gender)))
		sb.WriteString(fmt.Sprintf("Existing Conditions: %s", orNone(p.Conditions)))
		if p.Medications != "" {
			sb.WriteString(fmt.Sprintf("\nCurrent Medications: %s", p.Medications))
		}
		if p.Allergies != "" {
			sb.WriteString(fmt.Sprintf("\nAllergies: %s", p.Allergies))
		}
		if bmi, ok := BMI(p.WeightKg, p.HeightCm); ok {
			sb.WriteString(fmt.Sprintf("\nBMI: %.1f (%s)", bmi, BMICategory(bmi)))
		}
		if p.Intensity != "" {
			sb.WriteString(fmt.Sprintf("\nSymptom Severity: %s", p.Intensity))
		}
		if len(p.Goals) > 0 {
			sb.WriteString(fmt.Sprintf("\nTreatment Goals: %s", strings.Join(p.Goals, ", ")))
		}
		if p.Notes != "" {
			sb.WriteString(fmt.Sprintf("\nAdditional Notes: %s", p.Notes))
		}
	}
	return sb.String()
}

// ChatPrompt builds a conversational request carrying the last three
// exchanges as context.
func ChatPrompt(message string, history []ChatExchange) string {
	if len(history) > chatContextTurns {
		history = history[len(history)-chatContextTurns:]
	}
	turns := make([]string, 0, len(history))
	for _, h := range history {
		turns = append(turns, fmt.Sprintf("User: %s\nAssistant: %s", h.User, h.Assistant))
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful medical AI assistant. Provide accurate, empathetic health information.\n\n")
	if len(turns) > 0 {
		sb.WriteString(strings.Join(turns, "\n"))
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("User: %s\nAssistant:", message))
	return sb.String()
}

// TrendsPrompt builds the trend-analysis request from aggregated metrics.
func TrendsPrompt(data TrendData) string {
	var sb strings.Builder
	sb.WriteString("You are a medical data analyst. Analyze the following health metrics and provide insights:\n\n")
	sb.WriteString("Health Metrics Summary:\n")
	sb.WriteString(FormatMetrics(data.Summaries))
	if len(data.Breaches) > 0 {
		sb.WriteString("\n\nThreshold Breaches:\n")
		sb.WriteString(FormatBreaches(data.Breaches))
	}
	sb.WriteString("\n\nProvide:\n")
	sb.WriteString("1. Key Observations\n")
	sb.WriteString("2. Concerning Trends (if any)\n")
	sb.WriteString("3. Positive Trends\n")
	sb.WriteString("4. Recommendations for Improvement\n\n")
	sb.WriteString("Be specific and actionable.")
	return sb.String()
}

// FormatMetrics renders one "name: Average x.x, Range a-b" line per summary.
func FormatMetrics(summaries []model.MetricSummary) string {
	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if s.NoData {
			lines = append(lines, fmt.Sprintf("%s: no data", s.Metric))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: Average %.1f, Range %s-%s",
			s.Metric, s.Mean, num(s.Min), num(s.Max)))
	}
	return strings.Join(lines, "\n")
}

// FormatBreaches renders one "label: n of N days" line per count.
func FormatBreaches(breaches []model.BreachCount) string {
	lines := make([]string, 0, len(breaches))
	for _, b := range breaches {
		lines = append(lines, fmt.Sprintf("%s: %d of %d days", b.Label, b.Count, b.Total))
	}
	return strings.Join(lines, "\n")
}

// FormatSymptoms title-cases and joins a symptom list for display.
func FormatSymptoms(symptoms []string) string {
	if len(symptoms) == 0 {
		return "No symptoms recorded"
	}
	caser := cases.Title(language.English)
	out := make([]string, len(symptoms))
	for i, s := range symptoms {
		out[i] = caser.String(strings.TrimSpace(s))
	}
	return strings.Join(out, ", ")
}

// ParseSymptoms splits a comma-separated list, lower-cases and trims each
// entry and drops empties.
func ParseSymptoms(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if s := strings.ToLower(strings.TrimSpace(part)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ageText(age int) string {
	if age <= 0 {
		return ""
	}
	return strconv.Itoa(age)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
