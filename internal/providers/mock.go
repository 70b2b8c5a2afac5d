package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockClient is a Provider for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ResponseText string
	MockModel    string

	// Err is returned on every call when set (and FailFirst is 0).
	Err error

	// FailFirst fails the first N requests with Err, then succeeds.
	FailFirst int

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
		MockModel:    "mock-model",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockName
}

// Model returns the mock model name.
func (c *MockClient) Model() string {
	return c.MockModel
}

// Generate returns the configured response or error.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	if c.Err != nil {
		if c.FailFirst == 0 || count <= int64(c.FailFirst) {
			return nil, c.Err
		}
	}

	return &GenerateResult{
		Content:          c.ResponseText,
		PromptTokens:     len(req.SystemPrompt)/4 + len(req.UserPrompt)/4,
		CompletionTokens: len(c.ResponseText) / 4,
		TotalTokens:      (len(req.SystemPrompt) + len(req.UserPrompt) + len(c.ResponseText)) / 4,
		ExecutionTime:    time.Since(start),
		Provider:         MockName,
		ModelUsed:        c.MockModel,
		RequestID:        fmt.Sprintf("mock-%d", count),
	}, nil
}

// RequestCount returns the number of Generate calls made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset clears the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}

// Verify interface
var _ Provider = (*MockClient)(nil)
