package providers

import (
	"context"
	"time"
)

// Provider is the primary interface for text generation requests.
// Backend differences (auth headers, request envelope, response shape)
// are confined entirely to the implementations; callers see one contract.
type Provider interface {
	// Generate sends a (system prompt, user prompt) pair and returns the
	// generated text. Errors are classified per errors.go.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the provider identifier (e.g., "anthropic").
	Name() string

	// Model returns the configured default model.
	Model() string
}

// GenerateRequest is a request to a text-generation backend.
type GenerateRequest struct {
	// SystemPrompt may be empty.
	SystemPrompt string

	// UserPrompt is required.
	UserPrompt string

	// Model selection (uses client default if empty)
	Model string

	// Generation parameters
	Temperature float64
	MaxTokens   int

	// Request tracking
	RequestID string
}

// GenerateResult is the complete response from a generation call.
type GenerateResult struct {
	// Response content, non-empty on success.
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Cost and timing
	CostUSD       float64       `json:"cost_usd"`
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
}

// Config is the immutable per-backend record resolved once at startup and
// passed explicitly to client constructors.
type Config struct {
	Name       string
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	MaxRetries int
	RetryDelay time.Duration
}
