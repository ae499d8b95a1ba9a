package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// RetryConfig holds retry configuration for advisory calls.
type RetryConfig struct {
	MaxRetries        int           // retries after the first attempt
	InitialBackoff    time.Duration // wait before the first retry
	MaxBackoff        time.Duration // backoff ceiling
	BackoffMultiplier float64       // growth per retry
	Timeout           time.Duration // per-attempt timeout

	MaxConcurrentCalls int // 0 = unlimited
	RequestsPerMinute  int // 0 = unlimited
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:         2,
		InitialBackoff:     1 * time.Second,
		MaxBackoff:         30 * time.Second,
		BackoffMultiplier:  2.0,
		Timeout:            60 * time.Second,
		MaxConcurrentCalls: 3,
		RequestsPerMinute:  30,
	}
}

// Resilient wraps a TextGenerator with a concurrency cap, a request rate
// limit, a per-attempt timeout and exponential backoff. Only
// ErrRemoteUnavailable and ErrTimeout are retried.
type Resilient struct {
	next    TextGenerator
	cfg     RetryConfig
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewResilient wraps next.
func NewResilient(next TextGenerator, cfg RetryConfig, log *zap.Logger) *Resilient {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.BackoffMultiplier < 1 {
		cfg.BackoffMultiplier = 1
	}
	r := &Resilient{next: next, cfg: cfg, log: log}
	if cfg.MaxConcurrentCalls > 0 {
		r.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrentCalls))
	}
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.MaxConcurrentCalls
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), burst)
	}
	return r
}

// GenerateText implements TextGenerator.
func (r *Resilient) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("acquire concurrency slot: %w", err)
		}
		defer r.sem.Release(1)
	}

	var lastErr error
	backoff := r.cfg.InitialBackoff

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit wait: %w", err)
			}
		}

		text, err := r.attempt(ctx, prompt, maxTokens)
		if err == nil {
			if attempt > 0 {
				r.log.Info("advisor call succeeded after retries", zap.Int("retries", attempt))
			}
			return text, nil
		}
		lastErr = err

		if !IsRetriable(err) {
			return "", err
		}
		if attempt == r.cfg.MaxRetries {
			break
		}

		r.log.Warn("advisor call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", r.cfg.MaxRetries+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * r.cfg.BackoffMultiplier)
			if r.cfg.MaxBackoff > 0 && backoff > r.cfg.MaxBackoff {
				backoff = r.cfg.MaxBackoff
			}
		case <-ctx.Done():
			return "", fmt.Errorf("canceled during backoff: %w", ctx.Err())
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", r.cfg.MaxRetries+1, lastErr)
}

func (r *Resilient) attempt(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if r.cfg.Timeout <= 0 {
		return r.next.GenerateText(ctx, prompt, maxTokens)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	text, err := r.next.GenerateText(attemptCtx, prompt, maxTokens)
	// A bare deadline from the per-attempt timeout is an advisory timeout,
	// as long as the caller's own context is still live.
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return text, err
}
