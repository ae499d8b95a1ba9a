package advisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Failure classes of the advisory service. Backends wrap every transport or
// status failure in one of these so callers can test with errors.Is.
var (
	ErrRemoteUnavailable = errors.New("advisory service unavailable")
	ErrAuth              = errors.New("advisory service rejected credentials")
	ErrTimeout           = errors.New("advisory service timed out")

	// ErrNotConfigured marks a missing credential. It is always reported
	// together with ErrAuth.
	ErrNotConfigured = errors.New("no credential configured")
)

// errNotConfigured returns an error matching both ErrAuth and ErrNotConfigured.
func errNotConfigured(backend string) error {
	return fmt.Errorf("%s: %w: %w", backend, ErrAuth, ErrNotConfigured)
}

// classifyStatus maps an HTTP status to a sentinel. nil means the status is
// not one of the known failure classes.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuth
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ErrTimeout
	case code == http.StatusTooManyRequests || code >= 500:
		return ErrRemoteUnavailable
	}
	return nil
}

// classifyTransport maps a transport error (no HTTP response) to a sentinel.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrRemoteUnavailable
}

// IsRetriable reports whether a failed call may succeed if repeated.
func IsRetriable(err error) bool {
	if errors.Is(err, ErrAuth) {
		return false
	}
	return errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrTimeout)
}

// StatusText renders an advisory failure as a short message for end users.
func StatusText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "AI advisor not configured. Set HUGGINGFACE_TOKEN or ANTHROPIC_API_KEY."
	case errors.Is(err, ErrAuth):
		return "AI advisor rejected the credential. Check your API token."
	case errors.Is(err, ErrTimeout):
		return "AI advisor timed out. Please try again."
	case errors.Is(err, ErrRemoteUnavailable):
		return "AI advisor is temporarily unavailable. Please try again later."
	}
	return "Error generating response: " + err.Error()
}
