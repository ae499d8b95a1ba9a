package advisor

import (
	"context"
	"strings"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// OfflineMessage is the reply to every free-form prompt when no remote
// backend is configured.
const OfflineMessage = "AI advisory service is not configured. " +
	"Set HUGGINGFACE_TOKEN or ANTHROPIC_API_KEY to enable AI responses."

// Offline answers without network access. Trend analysis falls back to the
// rule-based insights; everything else gets OfflineMessage.
type Offline struct{}

// GenerateText returns OfflineMessage.
func (Offline) GenerateText(_ context.Context, _ string, _ int) (string, error) {
	return OfflineMessage, nil
}

// TrendInsights renders rule-based observations for the summarized metrics.
func (Offline) TrendInsights(data TrendData) string {
	var sb strings.Builder
	sb.WriteString("Key Observations (rule-based):\n")
	for _, line := range model.RuleInsights(model.MeansOf(data.Summaries)) {
		sb.WriteString("- " + line + "\n")
	}
	if len(data.Breaches) > 0 {
		sb.WriteString("\nThreshold Breaches:\n")
		sb.WriteString(FormatBreaches(data.Breaches))
		sb.WriteString("\n")
	}
	sb.WriteString("\nRecommendations:\n")
	for _, tip := range model.LifestyleTips() {
		sb.WriteString("- " + tip + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
