package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
	"github.com/dmitriimaksimovdevelop/healthai/internal/generator"
	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

// trendsTimeout bounds one analyze_trends call, retries included.
const trendsTimeout = 5 * time.Minute

// defaultGenerateDays is used by summarize_series when nothing is loaded.
const defaultGenerateDays = 30

type tools struct {
	sess    *session.Session
	advisor advisor.Advisor
	dash    *analytics.Builder
	log     *zap.Logger
}

// handleGetHealth scores a snapshot built from the supplied vitals.
func (t *tools) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)

	vitals := make(map[string]float64)
	var statuses []model.MetricStatus
	for _, m := range model.SeriesMetrics {
		v, ok := numberArg(args, m)
		if !ok {
			continue
		}
		vitals[m] = v
		statuses = append(statuses, model.ClassifyMetric(m, v))
	}
	if statuses == nil {
		statuses = []model.MetricStatus{}
	}

	snap := model.SnapshotFromMap(vitals)
	score := model.ComputeHealthScore(snap)
	deductions := model.ScoreDeductions(snap)
	if deductions == nil {
		deductions = []model.Deduction{}
	}

	summary := map[string]interface{}{
		"health_score": score,
		"risk":         model.RiskLevel(score),
		"deductions":   deductions,
		"statuses":     statuses,
		"snapshot":     snap,
	}
	return jsonResult(summary)
}

// handleClassifyMetric classifies a single value.
func (t *tools) handleClassifyMetric(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	metric := stringArg(args, "metric", "")
	if metric == "" {
		return errResult("metric is required"), nil
	}
	value, ok := numberArg(args, "value")
	if !ok {
		return errResult("value is required and must be a number"), nil
	}
	return jsonResult(model.ClassifyMetric(metric, value))
}

// handleListMetrics returns every ranged metric plus weight.
func (t *tools) handleListMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		Metric string   `json:"metric"`
		Unit   string   `json:"unit"`
		Low    *float64 `json:"low,omitempty"`
		High   *float64 `json:"high,omitempty"`
	}
	list := make([]entry, 0, len(model.SeriesMetrics))
	for _, m := range model.SeriesMetrics {
		e := entry{Metric: m, Unit: model.UnitOf(m)}
		if r, ok := model.LookupRange(m); ok {
			e.Low, e.High = &r.Low, &r.High
		}
		list = append(list, e)
	}
	return jsonResult(list)
}

// handleExplainMetric returns the explanation text for a metric.
func (t *tools) handleExplainMetric(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	metric := stringArg(args, "metric", "")
	if metric == "" {
		return errResult("metric is required"), nil
	}

	desc, ok := metricExplanations[metric]
	if !ok {
		known := make([]string, 0, len(metricExplanations))
		for k := range metricExplanations {
			known = append(known, k)
		}
		sort.Strings(known)
		return newTextResult(fmt.Sprintf(
			"No explanation for %q. Known metrics: %v", metric, known)), nil
	}
	if r, ok := model.LookupRange(metric); ok {
		desc += fmt.Sprintf("\n**Normal range:** %g-%g %s", r.Low, r.High, r.Unit)
	}
	return newTextResult(desc), nil
}

// handleSummarizeSeries builds the dashboard for the session series,
// generating one first when the session is empty.
func (t *tools) handleSummarizeSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	period := stringArg(args, "period", analytics.DefaultPeriod)

	series := t.sess.Series()
	if series.Len() == 0 {
		days := defaultGenerateDays
		if v, ok := numberArg(args, "days"); ok && v >= 1 {
			days = int(v)
		}
		var seed int64
		if v, ok := numberArg(args, "seed"); ok {
			seed = int64(v)
		}
		series = generator.Generate(days, generator.Options{Seed: seed})
		t.sess.ReplaceSeries(series)
		t.log.Info("generated series for summary", zap.Int("days", days))
	}

	d := t.dash.Build(series, analytics.Options{Period: period})
	return jsonResult(d)
}

// handleAnalyzeTrends forwards the aggregated series to the advisor.
func (t *tools) handleAnalyzeTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.advisor == nil {
		return errResult("advisor disabled"), nil
	}
	args := getArgs(request)
	period := analytics.GetPeriod(stringArg(args, "period", analytics.DefaultPeriod))

	window := t.sess.Series().Tail(period.Days)
	if window.Len() == 0 {
		return errResult("no vital data loaded; call summarize_series first"), nil
	}

	ctx, cancel := context.WithTimeout(ctx, trendsTimeout)
	defer cancel()

	text, err := t.advisor.AnalyzeTrends(ctx, advisor.TrendDataFrom(window))
	if err != nil {
		t.log.Warn("analyze_trends failed", zap.Error(err))
		return errResult(advisor.StatusText(err)), nil
	}
	return newTextResult(text), nil
}

// --- helpers ---

// getArgs safely extracts the arguments map from a CallToolRequest.
// Returns an empty map if arguments are nil or not a map.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// numberArg extracts a numeric argument. JSON numbers arrive as float64.
func numberArg(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(jsonData)), nil
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
// This is returned as a tool-level error, not a transport-level JSON-RPC error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}

var metricExplanations = map[string]string{
	model.MetricHeartRate: `**Heart Rate**
Beats per minute at rest.
**Low (bradycardia):**
- High aerobic fitness
- Beta blockers or other rate-lowering drugs
- Conduction problems
**High (tachycardia):**
- Fever, dehydration or anemia
- Caffeine, stress or anxiety
- Thyroid overactivity`,

	model.MetricBloodPressureSystolic: `**Systolic Blood Pressure**
Arterial pressure while the heart contracts.
**Low:**
- Dehydration or blood loss
- Blood pressure medication
**High:**
- Hypertension
- High salt intake, stress, pain
- Kidney disease`,

	model.MetricBloodPressureDiastolic: `**Diastolic Blood Pressure**
Arterial pressure between beats.
**Low:**
- Dehydration
- Vasodilating medication
**High:**
- Hypertension
- Obesity or high salt intake`,

	model.MetricBloodGlucose: `**Blood Glucose**
Fasting blood sugar.
**Low (hypoglycemia):**
- Missed meals
- Insulin or sulfonylurea dosing
**High (hyperglycemia):**
- Diabetes or prediabetes
- Recent carbohydrate-heavy meal
- Infection or steroid use`,

	model.MetricTemperature: `**Body Temperature**
Core temperature in Fahrenheit.
**Low:**
- Cold exposure
- Hypothyroidism
**High (fever):**
- Infection
- Heat exhaustion
- Inflammatory conditions`,

	model.MetricOxygenSaturation: `**Oxygen Saturation (SpO2)**
Share of hemoglobin carrying oxygen.
**Low:**
- Lung disease (asthma, COPD, pneumonia)
- High altitude
- Poor sensor contact or cold fingers`,

	model.MetricWeight: `**Weight**
Body weight in kilograms. No fixed normal range; read together with height as BMI.
**Sudden change:**
- Fluid retention (heart or kidney problems)
- Diet or activity change
- Thyroid disorders`,
}
