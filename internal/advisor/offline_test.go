package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

func TestOfflineGenerateText(t *testing.T) {
	text, err := Offline{}.GenerateText(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Equal(t, OfflineMessage, text)
}

func TestOfflineTrendInsights(t *testing.T) {
	text := Offline{}.TrendInsights(TrendData{
		Summaries: []model.MetricSummary{
			{Metric: model.MetricBloodGlucose, Count: 3, Mean: 140},
			{Metric: model.MetricHeartRate, NoData: true, Mean: 20},
		},
		Breaches: []model.BreachCount{{Label: "High Glucose Readings", Count: 3, Total: 3}},
	})

	assert.True(t, strings.HasPrefix(text, "Key Observations (rule-based):"))
	assert.Contains(t, text, "- Blood glucose is high.")
	// NoData summaries are ignored, so heart rate falls back to normal.
	assert.Contains(t, text, "- Heart rate is normal.")
	assert.Contains(t, text, "High Glucose Readings: 3 of 3 days")
	assert.False(t, strings.HasSuffix(text, "\n"))
}
