package advisor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

func TestClientGenerateTextTrims(t *testing.T) {
	gen := &fakeGenerator{reply: "  answer \n"}
	c := NewClient(gen, 0, nil)

	text, err := c.GenerateText(context.Background(), "hi", 0)
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, []int{512}, gen.tokens)
}

func TestClientAnalyzeSymptoms(t *testing.T) {
	gen := &fakeGenerator{reply: "likely a cold"}
	c := NewClient(gen, 0, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	res, err := c.AnalyzeSymptoms(context.Background(), []string{"cough", "sneezing"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "likely a cold", res.Analysis)
	assert.Equal(t, []string{"cough", "sneezing"}, res.Symptoms)
	assert.Equal(t, fixed, res.Timestamp)
	assert.Equal(t, []int{SymptomTokens}, gen.tokens)
	assert.Contains(t, gen.prompts[0], "Symptoms: cough, sneezing")

	_, err = c.AnalyzeSymptoms(context.Background(), nil, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, gen.calls())
}

func TestClientTreatmentPlan(t *testing.T) {
	gen := &fakeGenerator{reply: "rest"}
	c := NewClient(gen, 0, nil)

	plan, err := c.GenerateTreatmentPlan(context.Background(), "  Migraine ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Migraine", plan.Condition)
	assert.Equal(t, "rest", plan.Plan)
	assert.Equal(t, []int{TreatmentTokens}, gen.tokens)

	_, err = c.GenerateTreatmentPlan(context.Background(), " ", nil)
	assert.Error(t, err)
}

func TestClientChatResponse(t *testing.T) {
	gen := &fakeGenerator{reply: "drink water"}
	c := NewClient(gen, 0, nil)

	reply, err := c.ChatResponse(context.Background(), "tips?", []ChatExchange{{User: "hi", Assistant: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "drink water", reply)
	assert.Contains(t, gen.prompts[0], "User: hi\nAssistant: hello")
	assert.Equal(t, []int{ChatTokens}, gen.tokens)

	_, err = c.ChatResponse(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestClientPropagatesErrors(t *testing.T) {
	gen := &fakeGenerator{errs: []error{fmt.Errorf("x: %w", ErrAuth)}}
	c := NewClient(gen, 0, nil)

	_, err := c.ChatResponse(context.Background(), "hello", nil)
	assert.True(t, errors.Is(err, ErrAuth))
}

func TestClientAnalyzeTrendsRemote(t *testing.T) {
	gen := &fakeGenerator{reply: "stable"}
	c := NewClient(gen, 0, nil)

	vs := model.VitalSeries{{HeartRate: 70}, {HeartRate: 72}}
	text, err := c.AnalyzeTrends(context.Background(), TrendData{
		Summaries: []model.MetricSummary{model.Summarize(vs, model.MetricHeartRate)},
	})
	require.NoError(t, err)
	assert.Equal(t, "stable", text)
	assert.Equal(t, []int{TrendTokens}, gen.tokens)
	assert.Contains(t, gen.prompts[0], "heart_rate: Average 71.0, Range 70-72")
}

func TestClientAnalyzeTrendsOffline(t *testing.T) {
	c := NewClient(Offline{}, 0, nil)

	text, err := c.AnalyzeTrends(context.Background(), TrendData{
		Summaries: []model.MetricSummary{{Metric: model.MetricHeartRate, Count: 2, Mean: 110}},
	})
	require.NoError(t, err)
	assert.Contains(t, text, "Heart rate is high.")
	assert.Contains(t, text, "Recommendations:")
	assert.NotEqual(t, OfflineMessage, text)
}
