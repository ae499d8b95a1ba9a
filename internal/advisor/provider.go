package advisor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/config"
)

// Provider builds the configured advisor once and hands the same instance
// to every caller.
type Provider struct {
	cfg *config.Config
	log *zap.Logger

	once   sync.Once
	client *Client
}

// NewProvider returns a Provider for cfg. Nothing is constructed until the
// first call to Advisor.
func NewProvider(cfg *config.Config, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{cfg: cfg, log: log}
}

// Advisor returns the shared client, constructing it on first use.
func (p *Provider) Advisor() *Client {
	p.once.Do(func() {
		gen := Backend(p.cfg, p.log)
		p.client = NewClient(gen, p.cfg.MaxLength, p.log.Named("advisor"))
		p.log.Info("advisor ready",
			zap.String("backend", p.cfg.Backend),
			zap.String("model", modelFor(p.cfg)))
	})
	return p.client
}

// Backend constructs the TextGenerator selected by cfg.Backend. Remote
// backends are wrapped in Resilient.
func Backend(cfg *config.Config, log *zap.Logger) TextGenerator {
	params := GenerationParamsFrom(cfg)
	retry := RetryConfigFrom(cfg)

	switch cfg.Backend {
	case config.BackendHuggingFace:
		hf := NewHuggingFace(HuggingFaceConfig{
			BaseURL: cfg.HFBaseURL,
			Model:   cfg.ModelName,
			Token:   cfg.HuggingFaceToken,
			Timeout: cfg.RequestTimeout,
			Params:  params,
		})
		return NewResilient(hf, retry, log)
	case config.BackendAnthropic:
		an := NewAnthropic(AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
			Params: params,
		})
		return NewResilient(an, retry, log)
	default:
		return Offline{}
	}
}

// GenerationParamsFrom reads sampling settings from cfg.
func GenerationParamsFrom(cfg *config.Config) GenerationParams {
	p := DefaultGenerationParams()
	p.Temperature = cfg.Temperature
	p.TopP = cfg.TopP
	if cfg.MaxLength > 0 {
		p.MaxTokens = cfg.MaxLength
	}
	return p
}

// RetryConfigFrom reads retry and limiting settings from cfg.
func RetryConfigFrom(cfg *config.Config) RetryConfig {
	r := DefaultRetryConfig()
	r.MaxRetries = cfg.MaxRetries
	r.Timeout = cfg.RequestTimeout
	r.MaxConcurrentCalls = cfg.MaxConcurrentCalls
	r.RequestsPerMinute = cfg.RequestsPerMinute
	return r
}

func modelFor(cfg *config.Config) string {
	switch cfg.Backend {
	case config.BackendHuggingFace:
		return cfg.ModelName
	case config.BackendAnthropic:
		return cfg.AnthropicModel
	}
	return "none"
}
