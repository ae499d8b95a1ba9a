package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TrendInsighter is implemented by backends that can describe trends
// without a remote call.
type TrendInsighter interface {
	TrendInsights(data TrendData) string
}

// Client implements Advisor on top of a TextGenerator backend.
type Client struct {
	gen       TextGenerator
	maxTokens int
	log       *zap.Logger
	now       func() time.Time
}

// NewClient wraps gen. maxTokens is the budget for GenerateText calls that
// do not name one; 0 uses the default of 512.
func NewClient(gen TextGenerator, maxTokens int, log *zap.Logger) *Client {
	if maxTokens <= 0 {
		maxTokens = DefaultGenerationParams().MaxTokens
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gen: gen, maxTokens: maxTokens, log: log, now: time.Now}
}

// GenerateText sends prompt as-is and returns the trimmed reply.
func (c *Client) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	start := c.now()
	text, err := c.gen.GenerateText(ctx, prompt, maxTokens)
	if err != nil {
		c.log.Warn("advisor call failed",
			zap.Int("prompt_chars", len(prompt)),
			zap.Duration("elapsed", c.now().Sub(start)),
			zap.Error(err))
		return "", err
	}
	c.log.Debug("advisor call",
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("reply_chars", len(text)),
		zap.Int("max_tokens", maxTokens),
		zap.Duration("elapsed", c.now().Sub(start)))
	return strings.TrimSpace(text), nil
}

// AnalyzeSymptoms asks for likely conditions, severity and next steps.
func (c *Client) AnalyzeSymptoms(ctx context.Context, symptoms []string, patient *PatientInfo) (*SymptomAnalysis, error) {
	if len(symptoms) == 0 {
		return nil, errors.New("no symptoms given")
	}
	text, err := c.GenerateText(ctx, SymptomPrompt(symptoms, patient), SymptomTokens)
	if err != nil {
		return nil, err
	}
	return &SymptomAnalysis{
		Analysis:  text,
		Symptoms:  append([]string(nil), symptoms...),
		Timestamp: c.now(),
	}, nil
}

// GenerateTreatmentPlan asks for a structured plan for condition.
func (c *Client) GenerateTreatmentPlan(ctx context.Context, condition string, patient *PatientInfo) (*TreatmentPlan, error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil, errors.New("no condition given")
	}
	text, err := c.GenerateText(ctx, TreatmentPrompt(condition, patient), TreatmentTokens)
	if err != nil {
		return nil, err
	}
	return &TreatmentPlan{Plan: text, Condition: condition, Timestamp: c.now()}, nil
}

// ChatResponse answers message with recent history as context.
func (c *Client) ChatResponse(ctx context.Context, message string, history []ChatExchange) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("empty message")
	}
	return c.GenerateText(ctx, ChatPrompt(message, history), ChatTokens)
}

// AnalyzeTrends describes the aggregated metrics. Backends implementing
// TrendInsighter answer locally.
func (c *Client) AnalyzeTrends(ctx context.Context, data TrendData) (string, error) {
	if ti, ok := c.gen.(TrendInsighter); ok {
		return ti.TrendInsights(data), nil
	}
	return c.GenerateText(ctx, TrendsPrompt(data), TrendTokens)
}
