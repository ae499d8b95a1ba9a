package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HuggingFaceConfig configures the inference-API backend.
type HuggingFaceConfig struct {
	BaseURL string
	Model   string
	Token   string
	Timeout time.Duration
	Params  GenerationParams
}

// HuggingFace calls the hosted text-generation endpoint
// POST {base}/models/{model}.
type HuggingFace struct {
	client *resty.Client
	model  string
	token  string
	params GenerationParams
}

// NewHuggingFace creates the backend. Retries are left to Resilient.
func NewHuggingFace(cfg HuggingFaceConfig) *HuggingFace {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HuggingFace{
		client: client,
		model:  cfg.Model,
		token:  cfg.Token,
		params: cfg.Params,
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	ReturnFullText    bool    `json:"return_full_text"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error"`
}

// GenerateText implements TextGenerator.
func (h *HuggingFace) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if h.token == "" {
		return "", errNotConfigured("huggingface")
	}

	req := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:      maxTokens,
			Temperature:       h.params.Temperature,
			TopP:              h.params.TopP,
			RepetitionPenalty: h.params.RepetitionPenalty,
			ReturnFullText:    false,
		},
		Options: hfOptions{WaitForModel: true},
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(h.token).
		SetBody(req).
		Post("/models/" + h.model)
	if err != nil {
		return "", fmt.Errorf("huggingface: %w: %v", classifyTransport(err), err)
	}

	code := resp.StatusCode()
	if sentinel := classifyStatus(code); sentinel != nil {
		return "", fmt.Errorf("huggingface: %w (status %d: %s)", sentinel, code, snippet(resp.String()))
	}
	if resp.IsError() {
		return "", fmt.Errorf("huggingface: unexpected status %d: %s", code, snippet(resp.String()))
	}
	return parseGeneration(resp.Body())
}

// parseGeneration accepts both the list and the single-object reply shapes.
func parseGeneration(body []byte) (string, error) {
	var list []hfGeneration
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return "", fmt.Errorf("huggingface: empty response")
		}
		return strings.TrimSpace(list[0].GeneratedText), nil
	}

	var one hfGeneration
	if err := json.Unmarshal(body, &one); err != nil {
		return "", fmt.Errorf("huggingface: decode response: %w", err)
	}
	if one.Error != "" {
		return "", fmt.Errorf("huggingface: %w: %s", ErrRemoteUnavailable, one.Error)
	}
	return strings.TrimSpace(one.GeneratedText), nil
}

func snippet(s string) string {
	const limit = 200
	s = strings.TrimSpace(s)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
