// Package advisor builds prompts from health data and forwards them to a
// remote text-generation service. All medical reasoning happens remotely;
// this package only formats requests and classifies failures.
package advisor

import (
	"context"
	"time"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// TextGenerator is the one capability every backend provides.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Advisor is the full advisory surface used by the CLI, HTTP API and MCP
// server.
type Advisor interface {
	TextGenerator
	AnalyzeSymptoms(ctx context.Context, symptoms []string, patient *PatientInfo) (*SymptomAnalysis, error)
	GenerateTreatmentPlan(ctx context.Context, condition string, patient *PatientInfo) (*TreatmentPlan, error)
	ChatResponse(ctx context.Context, message string, history []ChatExchange) (string, error)
	AnalyzeTrends(ctx context.Context, data TrendData) (string, error)
}

// TrendData is the aggregated view of a series sent for trend analysis.
type TrendData struct {
	Summaries []model.MetricSummary `json:"summaries"`
	Breaches  []model.BreachCount   `json:"breaches,omitempty"`
}

// TrendDataFrom summarizes every column of series and evaluates the default
// breach rules over it.
func TrendDataFrom(series model.VitalSeries) TrendData {
	d := TrendData{Summaries: model.SummarizeAll(series)}
	for _, rule := range model.DefaultBreachRules() {
		d.Breaches = append(d.Breaches, model.CountBreaches(series, rule))
	}
	return d
}

// PatientInfo carries optional context for symptom and treatment prompts.
// Empty fields are left out of the prompt.
type PatientInfo struct {
	Age         int      `json:"age,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	Conditions  string   `json:"conditions,omitempty"`
	Medications string   `json:"medications,omitempty"`
	Allergies   string   `json:"allergies,omitempty"`
	WeightKg    float64  `json:"weight_kg,omitempty"`
	HeightCm    float64  `json:"height_cm,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Severity    int      `json:"severity,omitempty"`  // symptom severity 1-10
	Intensity   string   `json:"intensity,omitempty"` // treatment severity label
	Goals       []string `json:"goals,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// SymptomAnalysis is the result of AnalyzeSymptoms.
type SymptomAnalysis struct {
	Analysis  string    `json:"analysis"`
	Symptoms  []string  `json:"symptoms"`
	Timestamp time.Time `json:"timestamp"`
}

// TreatmentPlan is the result of GenerateTreatmentPlan.
type TreatmentPlan struct {
	Plan      string    `json:"plan"`
	Condition string    `json:"condition"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatExchange is one user turn and the reply it received.
type ChatExchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// GenerationParams are the sampling settings sent with every request.
type GenerationParams struct {
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
	MaxTokens         int // used when a caller passes maxTokens <= 0
}

// DefaultGenerationParams returns temperature 0.7, top-p 0.9, repetition
// penalty 1.1 and 512 tokens.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:       0.7,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
		MaxTokens:         512,
	}
}

// Per-operation token budgets.
const (
	SymptomTokens   = 600
	TreatmentTokens = 800
	ChatTokens      = 400
	TrendTokens     = 500
)
