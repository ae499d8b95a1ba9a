// Package config loads runtime settings from .env, the environment and an
// optional YAML file, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Advisor backends.
const (
	BackendHuggingFace = "huggingface"
	BackendAnthropic   = "anthropic"
	BackendOffline     = "offline"
)

// Defaults.
const (
	DefaultModelName      = "ibm-granite/granite-3b-code-instruct"
	DefaultAnthropicModel = "claude-3-5-haiku-20241022"
	DefaultHFBaseURL      = "https://api-inference.huggingface.co"
	DefaultMaxLength      = 512
	DefaultTemperature    = 0.7
	DefaultTopP           = 0.9
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxRetries     = 2
	DefaultMaxConcurrent  = 3
	DefaultRequestsPerMin = 30
	DefaultHTTPAddr       = ":8080"
	DefaultMQTTTopic      = "healthai/vitals"
	DefaultMQTTClientID   = "healthai-ingest"
	DefaultProfilePath    = "healthai-profile.json"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// Config holds every runtime setting.
type Config struct {
	Backend            string        `yaml:"advisor_backend"`
	HuggingFaceToken   string        `yaml:"huggingface_token"`
	AnthropicAPIKey    string        `yaml:"anthropic_api_key"`
	ModelName          string        `yaml:"model_name"`
	AnthropicModel     string        `yaml:"anthropic_model"`
	HFBaseURL          string        `yaml:"hf_base_url"`
	MaxLength          int           `yaml:"max_length"`
	Temperature        float64       `yaml:"temperature"`
	TopP               float64       `yaml:"top_p"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	MaxRetries         int           `yaml:"max_retries"`
	MaxConcurrentCalls int           `yaml:"max_concurrent_calls"`
	RequestsPerMinute  int           `yaml:"requests_per_minute"`
	Debug              bool          `yaml:"debug"`
	LogLevel           string        `yaml:"log_level"`
	LogFormat          string        `yaml:"log_format"`
	HTTPAddr           string        `yaml:"http_addr"`
	MQTTBroker         string        `yaml:"mqtt_broker"`
	MQTTTopic          string        `yaml:"mqtt_topic"`
	MQTTClientID       string        `yaml:"mqtt_client_id"`
	ProfilePath        string        `yaml:"profile_path"`
}

// Load reads .env (if present), then the environment, then the YAML file at
// path when path is non-empty. Keys present in the file override.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyBackendDefault()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults only.
func FromEnv() (*Config, error) {
	p := &envParser{}
	cfg := &Config{
		Backend:            strings.ToLower(os.Getenv("ADVISOR_BACKEND")),
		HuggingFaceToken:   os.Getenv("HUGGINGFACE_TOKEN"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		ModelName:          getEnv("MODEL_NAME", DefaultModelName),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", DefaultAnthropicModel),
		HFBaseURL:          getEnv("HF_BASE_URL", DefaultHFBaseURL),
		MaxLength:          p.intVal("MAX_LENGTH", DefaultMaxLength),
		Temperature:        p.floatVal("TEMPERATURE", DefaultTemperature),
		TopP:               p.floatVal("TOP_P", DefaultTopP),
		RequestTimeout:     p.duration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		MaxRetries:         p.intVal("MAX_RETRIES", DefaultMaxRetries),
		MaxConcurrentCalls: p.intVal("MAX_CONCURRENT_CALLS", DefaultMaxConcurrent),
		RequestsPerMinute:  p.intVal("REQUESTS_PER_MINUTE", DefaultRequestsPerMin),
		Debug:              p.boolVal("DEBUG_MODE", false),
		LogLevel:           getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:          getEnv("LOG_FORMAT", DefaultLogFormat),
		HTTPAddr:           getEnv("HTTP_ADDR", DefaultHTTPAddr),
		MQTTBroker:         os.Getenv("MQTT_BROKER"),
		MQTTTopic:          getEnv("MQTT_TOPIC", DefaultMQTTTopic),
		MQTTClientID:       getEnv("MQTT_CLIENT_ID", DefaultMQTTClientID),
		ProfilePath:        getEnv("PROFILE_PATH", DefaultProfilePath),
	}
	if p.err != nil {
		return nil, p.err
	}
	if cfg.Debug && os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	c.Backend = strings.ToLower(c.Backend)
	return nil
}

// applyBackendDefault picks huggingface when a token is present and offline
// otherwise, unless a backend was chosen explicitly.
func (c *Config) applyBackendDefault() {
	if c.Backend != "" {
		return
	}
	if c.HuggingFaceToken != "" {
		c.Backend = BackendHuggingFace
	} else {
		c.Backend = BackendOffline
	}
}

// Validate checks enumerations and numeric bounds.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHuggingFace, BackendAnthropic, BackendOffline:
	default:
		return fmt.Errorf("ADVISOR_BACKEND: unknown backend %q", c.Backend)
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("MAX_LENGTH must be positive, got %d", c.MaxLength)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("TEMPERATURE must not be negative, got %v", c.Temperature)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("TOP_P must be in (0,1], got %v", c.TopP)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// envParser records the first malformed value it sees.
type envParser struct {
	err error
}

func (p *envParser) fail(key, val string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: invalid value %q: %w", key, val, err)
	}
}

func (p *envParser) intVal(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		p.fail(key, val, err)
		return def
	}
	return n
}

func (p *envParser) floatVal(key string, def float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		p.fail(key, val, err)
		return def
	}
	return f
}

func (p *envParser) boolVal(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		p.fail(key, val, err)
		return def
	}
	return b
}

// duration accepts Go durations ("90s") or a bare number of seconds.
func (p *envParser) duration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		p.fail(key, val, err)
		return def
	}
	return d
}
