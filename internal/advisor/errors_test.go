package advisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuth},
		{http.StatusRequestTimeout, ErrTimeout},
		{http.StatusGatewayTimeout, ErrTimeout},
		{http.StatusTooManyRequests, ErrRemoteUnavailable},
		{http.StatusServiceUnavailable, ErrRemoteUnavailable},
		{http.StatusInternalServerError, ErrRemoteUnavailable},
		{http.StatusBadRequest, nil},
		{http.StatusOK, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyStatus(tt.code), "status %d", tt.code)
	}
}

func TestClassifyTransport(t *testing.T) {
	assert.Equal(t, ErrTimeout, classifyTransport(fmt.Errorf("post: %w", context.DeadlineExceeded)))
	assert.Equal(t, ErrRemoteUnavailable, classifyTransport(errors.New("connection refused")))
}

func TestIsRetriable(t *testing.T) {
	assert.True(t, IsRetriable(fmt.Errorf("x: %w", ErrRemoteUnavailable)))
	assert.True(t, IsRetriable(fmt.Errorf("x: %w", ErrTimeout)))
	assert.False(t, IsRetriable(fmt.Errorf("x: %w", ErrAuth)))
	assert.False(t, IsRetriable(errNotConfigured("test")))
	assert.False(t, IsRetriable(errors.New("bad request")))
	assert.False(t, IsRetriable(nil))
}

func TestErrNotConfiguredMatchesAuth(t *testing.T) {
	err := errNotConfigured("huggingface")
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStatusText(t *testing.T) {
	assert.Empty(t, StatusText(nil))
	assert.Contains(t, StatusText(errNotConfigured("x")), "not configured")
	assert.Contains(t, StatusText(fmt.Errorf("x: %w", ErrAuth)), "credential")
	assert.Contains(t, StatusText(fmt.Errorf("x: %w", ErrTimeout)), "timed out")
	assert.Contains(t, StatusText(fmt.Errorf("x: %w", ErrRemoteUnavailable)), "unavailable")
	assert.Equal(t, "Error generating response: boom", StatusText(errors.New("boom")))
}
