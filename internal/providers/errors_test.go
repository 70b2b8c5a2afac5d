package providers

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantType  string
		retryable bool
	}{
		{"unauthorized", 401, "auth", false},
		{"forbidden", 403, "auth", false},
		{"bad request", 400, "auth", false},
		{"not found", 404, "auth", false},
		{"rate limited", 429, "rate_limit", true},
		{"internal error", 500, "server", true},
		{"bad gateway", 502, "server", true},
		{"overloaded", 529, "server", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus("test", tt.status, "body")
			if got := ErrorType(err); got != tt.wantType {
				t.Errorf("ErrorType() = %q, want %q", got, tt.wantType)
			}
			if got := IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"auth", &AuthError{Provider: "p", StatusCode: 401}, false},
		{"malformed", &MalformedResponseError{Provider: "p"}, false},
		{"rate limit", &RateLimitError{Provider: "p", StatusCode: 429}, true},
		{"server", &ServerError{Provider: "p", StatusCode: 500}, true},
		{"transport", &TransportError{Provider: "p", Err: errors.New("refused")}, true},
		{"plain error", errors.New("something"), false},
		{"wrapped server", fmt.Errorf("stage failed: %w", &ServerError{Provider: "p", StatusCode: 500}), true},
		{"wrapped auth", fmt.Errorf("stage failed: %w", &AuthError{Provider: "p", StatusCode: 403}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	inner := &RateLimitError{Provider: "p", StatusCode: 429, RetryAfter: 5e9}
	wrapped := fmt.Errorf("call failed: %w", inner)

	got, ok := IsRateLimitError(wrapped)
	if !ok {
		t.Fatal("IsRateLimitError() = false, want true")
	}
	if got != inner {
		t.Error("IsRateLimitError() did not return the original error value")
	}

	if _, ok := IsRateLimitError(&ServerError{Provider: "p"}); ok {
		t.Error("IsRateLimitError(ServerError) = true, want false")
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Provider: "p", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestErrorTypeUnknown(t *testing.T) {
	if got := ErrorType(errors.New("plain")); got != "unknown" {
		t.Errorf("ErrorType(plain) = %q, want %q", got, "unknown")
	}
	if got := ErrorType(nil); got != "" {
		t.Errorf("ErrorType(nil) = %q, want empty", got)
	}
}
