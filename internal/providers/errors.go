package providers

import (
	"errors"
	"fmt"
	"time"
)

// Error classification for backend failures. Every non-success outcome of a
// Generate call is one of the types below so callers can decide retryability
// with errors.As rather than string matching.
//
// Retryable: RateLimitError, ServerError, TransportError.
// Fatal: AuthError, MalformedResponseError.

// AuthError indicates the backend rejected the request's credentials or the
// request itself (4xx other than 429). Retrying cannot help.
type AuthError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication/request rejected (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// RateLimitError indicates the backend throttled the request (429).
// RetryAfter carries the server's hint when one was present, zero otherwise.
type RateLimitError struct {
	Provider   string
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// ServerError indicates a backend-side failure (5xx).
type ServerError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// TransportError indicates the request never produced an HTTP response:
// connection refused, DNS failure, timeout.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates the backend returned a success status but
// the body could not be interpreted. Treated as fatal: the same request
// would likely produce the same body.
type MalformedResponseError struct {
	Provider string
	Message  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Provider, e.Message)
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	var (
		rateLimit *RateLimitError
		server    *ServerError
		transport *TransportError
	)
	return errors.As(err, &rateLimit) || errors.As(err, &server) || errors.As(err, &transport)
}

// IsRateLimitError extracts a RateLimitError from err's chain.
func IsRateLimitError(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// ErrorType returns a short label for metrics and reports.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}
	var (
		auth      *AuthError
		rateLimit *RateLimitError
		server    *ServerError
		transport *TransportError
		malformed *MalformedResponseError
	)
	switch {
	case errors.As(err, &auth):
		return "auth"
	case errors.As(err, &rateLimit):
		return "rate_limit"
	case errors.As(err, &server):
		return "server"
	case errors.As(err, &transport):
		return "transport"
	case errors.As(err, &malformed):
		return "malformed_response"
	default:
		return "unknown"
	}
}

// classifyStatus maps a non-200 HTTP status to a classified error.
func classifyStatus(provider string, status int, body string) error {
	switch {
	case status == 401 || status == 403:
		return &AuthError{Provider: provider, StatusCode: status, Message: body}
	case status == 429:
		return &RateLimitError{Provider: provider, StatusCode: status, Message: body}
	case status >= 500:
		return &ServerError{Provider: provider, StatusCode: status, Message: body}
	case status >= 400:
		return &AuthError{Provider: provider, StatusCode: status, Message: body}
	default:
		return &ServerError{Provider: provider, StatusCode: status, Message: body}
	}
}
