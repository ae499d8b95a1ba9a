package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(retries int) RetryConfig {
	return RetryConfig{
		MaxRetries:        retries,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        2 * time.Millisecond,
		BackoffMultiplier: 2,
	}
}

func TestResilientRetriesUnavailable(t *testing.T) {
	gen := &fakeGenerator{
		reply: "ok",
		errs:  []error{fmt.Errorf("x: %w", ErrRemoteUnavailable), fmt.Errorf("x: %w", ErrTimeout)},
	}
	r := NewResilient(gen, fastRetry(2), nil)

	text, err := r.GenerateText(context.Background(), "p", 10)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, gen.calls())
}

func TestResilientGivesUp(t *testing.T) {
	unavailable := fmt.Errorf("x: %w", ErrRemoteUnavailable)
	gen := &fakeGenerator{errs: []error{unavailable, unavailable, unavailable, unavailable}}
	r := NewResilient(gen, fastRetry(2), nil)

	_, err := r.GenerateText(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Equal(t, 3, gen.calls())
}

func TestResilientNoRetryOnAuth(t *testing.T) {
	gen := &fakeGenerator{errs: []error{fmt.Errorf("x: %w", ErrAuth)}}
	r := NewResilient(gen, fastRetry(3), nil)

	_, err := r.GenerateText(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 1, gen.calls())
}

func TestResilientNoRetryOnPlainError(t *testing.T) {
	gen := &fakeGenerator{errs: []error{errors.New("bad request")}}
	r := NewResilient(gen, fastRetry(3), nil)

	_, err := r.GenerateText(context.Background(), "p", 10)
	assert.Error(t, err)
	assert.Equal(t, 1, gen.calls())
}

type slowGenerator struct{}

func (slowGenerator) GenerateText(ctx context.Context, _ string, _ int) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestResilientAttemptTimeout(t *testing.T) {
	cfg := fastRetry(0)
	cfg.Timeout = 5 * time.Millisecond
	r := NewResilient(slowGenerator{}, cfg, nil)

	_, err := r.GenerateText(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestResilientCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetry(0)
	cfg.MaxConcurrentCalls = 1
	cfg.RequestsPerMinute = 60
	r := NewResilient(&fakeGenerator{reply: "ok"}, cfg, nil)

	_, err := r.GenerateText(ctx, "p", 10)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingGenerator struct {
	active, peak atomic.Int32
}

func (c *countingGenerator) GenerateText(_ context.Context, _ string, _ int) (string, error) {
	n := c.active.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	c.active.Add(-1)
	return "ok", nil
}

func TestResilientConcurrencyCap(t *testing.T) {
	gen := &countingGenerator{}
	cfg := fastRetry(0)
	cfg.MaxConcurrentCalls = 2
	r := NewResilient(gen, cfg, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GenerateText(context.Background(), "p", 10)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, gen.peak.Load(), int32(2))
}
