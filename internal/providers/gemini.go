package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	GeminiName    = "gemini"
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	geminiDefaultModel = "gemini-2.0-flash"
)

// GeminiClient implements Provider using Gemini's OpenAI-compatible
// chat completions endpoint. Authentication uses the native x-goog-api-key
// header by default; set UseBearerAuth for bearer-token deployments.
type GeminiClient struct {
	apiKey        string
	baseURL       string
	model         string
	useBearerAuth bool
	client        *http.Client
}

// GeminiOption customizes a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithBearerAuth switches the client from the native key header to
// Authorization: Bearer.
func WithBearerAuth() GeminiOption {
	return func(c *GeminiClient) {
		c.useBearerAuth = true
	}
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg Config, opts ...GeminiOption) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	c := &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Model returns the configured default model.
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends a chat completion request and extracts the generated text.
func (c *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
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

	gReq := chatCompletionsRequest{
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemPrompt != "" {
		gReq.Messages = append(gReq.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	gReq.Messages = append(gReq.Messages, chatMessage{Role: "user", Content: req.UserPrompt})

	bodyBytes, err := json.Marshal(gReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.useBearerAuth {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	} else {
		httpReq.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: GeminiName, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: GeminiName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		err := classifyStatus(GeminiName, resp.StatusCode, string(respBody))
		if rle, ok := IsRateLimitError(err); ok {
			rle.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return nil, err
	}

	var gResp chatCompletionsResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return nil, &MalformedResponseError{Provider: GeminiName, Message: fmt.Sprintf("failed to unmarshal response: %v", err)}
	}

	if len(gResp.Choices) == 0 || gResp.Choices[0].Message.Content == "" {
		return nil, &MalformedResponseError{Provider: GeminiName, Message: "no choices in response"}
	}

	return &GenerateResult{
		Content:          gResp.Choices[0].Message.Content,
		PromptTokens:     gResp.Usage.PromptTokens,
		CompletionTokens: gResp.Usage.CompletionTokens,
		TotalTokens:      gResp.Usage.TotalTokens,
		ExecutionTime:    time.Since(start),
		Provider:         GeminiName,
		ModelUsed:        gResp.Model,
		RequestID:        requestID,
	}, nil
}

// OpenAI-compatible wire types shared by compatible backends.

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Verify interface
var _ Provider = (*GeminiClient)(nil)
