package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	AnthropicName       = "anthropic"
	AnthropicBaseURL    = "https://api.anthropic.com/v1"
	AnthropicAPIVersion = "2023-06-01"

	anthropicDefaultModel     = "claude-sonnet-4-20250514"
	anthropicDefaultMaxTokens = 4096
)

// AnthropicClient implements Provider using the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	apiVersion string
	client     *http.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(cfg Config) *AnthropicClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = AnthropicBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = anthropicDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &AnthropicClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		apiVersion: AnthropicAPIVersion,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (c *AnthropicClient) Name() string {
	return AnthropicName
}

// Model returns the configured default model.
func (c *AnthropicClient) Model() string {
	return c.model
}

// Generate sends a messages request and extracts the generated text.
func (c *AnthropicClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	if req == nil || req.UserPrompt == "" {
		return nil, fmt.Errorf("user prompt is required")
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	aReq := anthropicRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserPrompt},
		},
	}

	bodyBytes, err := json.Marshal(aReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("anthropic-version", c.apiVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: AnthropicName, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: AnthropicName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		err := classifyStatus(AnthropicName, resp.StatusCode, string(respBody))
		if rle, ok := IsRateLimitError(err); ok {
			rle.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return nil, err
	}

	var aResp anthropicResponse
	if err := json.Unmarshal(respBody, &aResp); err != nil {
		return nil, &MalformedResponseError{Provider: AnthropicName, Message: fmt.Sprintf("failed to unmarshal response: %v", err)}
	}

	if len(aResp.Content) == 0 || aResp.Content[0].Text == "" {
		return nil, &MalformedResponseError{Provider: AnthropicName, Message: "empty content in response"}
	}

	return &GenerateResult{
		Content:          aResp.Content[0].Text,
		PromptTokens:     aResp.Usage.InputTokens,
		CompletionTokens: aResp.Usage.OutputTokens,
		TotalTokens:      aResp.Usage.InputTokens + aResp.Usage.OutputTokens,
		ExecutionTime:    time.Since(start),
		Provider:         AnthropicName,
		ModelUsed:        aResp.Model,
		RequestID:        requestID,
	}, nil
}

// parseRetryAfter parses a Retry-After header value in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Anthropic API types

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Verify interface
var _ Provider = (*AnthropicClient)(nil)
