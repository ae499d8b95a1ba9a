package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the Messages API backend.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional override, mainly for tests
	Params  GenerationParams
}

// Anthropic sends prompts as a single user message. Only temperature is
// sent; the Messages API rejects requests that also set top_p.
type Anthropic struct {
	client anthropic.Client
	model  string
	params GenerationParams
	hasKey bool
}

// NewAnthropic creates the backend. SDK retries are disabled; Resilient
// owns retry policy.
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		params: cfg.Params,
		hasKey: cfg.APIKey != "",
	}
}

// GenerateText implements TextGenerator.
func (a *Anthropic) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !a.hasKey {
		return "", errNotConfigured("anthropic")
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(a.params.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			if sentinel := classifyStatus(apiErr.StatusCode); sentinel != nil {
				return "", fmt.Errorf("anthropic: %w (status %d)", sentinel, apiErr.StatusCode)
			}
			return "", fmt.Errorf("anthropic: unexpected status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("anthropic: %w: %v", classifyTransport(err), err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
