// Package anthropic implements the analysis-model collaborator against the
// Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pullguard/pullguard/internal/adapter/llm"
	llmhttp "github.com/pullguard/pullguard/internal/adapter/llm/http"
)

const (
	providerName            = "anthropic"
	defaultBaseURL          = "https://api.anthropic.com"
	defaultTimeout          = 60 * time.Second
	defaultAnthropicVersion = "2023-06-01"
)

// Client is an HTTP client for the Anthropic Messages API. Its Complete
// method satisfies the completion ports of the review and suggest usecases.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	retry   llmhttp.RetryConfig
	logger  llmhttp.Logger
}

// NewClient creates a client for the given key and model with default
// timeout and retry policy.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		retry:   llmhttp.DefaultRetryConfig(),
	}
}

// SetBaseURL overrides the API base URL (tests, proxies).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout overrides the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetRetryConfig overrides the retry policy.
func (c *Client) SetRetryConfig(cfg llmhttp.RetryConfig) {
	c.retry = cfg
}

// SetLogger wires structured call logging.
func (c *Client) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a single-turn completion request and returns the response
// text. Temperature is always sent explicitly, including 0, so deterministic
// callers get deterministic sampling.
func (c *Client) Complete(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := MessagesRequest{
		Model:       c.model,
		System:      system,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	if c.logger != nil {
		c.logger.LogRequest(ctx, llmhttp.RequestLog{
			Provider:     providerName,
			Model:        c.model,
			Timestamp:    time.Now(),
			PromptChars:  len(prompt),
			PromptTokens: llm.EstimateTokens(prompt),
			APIKey:       c.apiKey,
		})
	}

	url := c.baseURL + "/v1/messages"
	start := time.Now()

	var resp *http.Response
	err = llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if reqErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", defaultAnthropicVersion)

		var callErr error
		resp, callErr = c.client.Do(req)
		if callErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeTimeout,
				Message:   callErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}

		if resp.StatusCode >= 400 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return c.errorFromStatus(resp.StatusCode, bodyBytes)
		}
		return nil
	}, c.retry)

	if err != nil {
		c.logCallError(ctx, err, time.Since(start))
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var messagesResp MessagesResponse
	if err := json.Unmarshal(bodyBytes, &messagesResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(messagesResp.Content) == 0 {
		return "", fmt.Errorf("%s: no content in response", providerName)
	}

	var textParts []string
	for _, block := range messagesResp.Content {
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}

	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:  providerName,
			Model:     messagesResp.Model,
			Timestamp: time.Now(),
			Duration:  time.Since(start),
			TokensIn:  messagesResp.Usage.InputTokens,
			TokensOut: messagesResp.Usage.OutputTokens,
		})
	}

	return strings.Join(textParts, ""), nil
}

// errorFromStatus maps HTTP status codes to typed errors.
func (c *Client) errorFromStatus(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &llmhttp.Error{Type: llmhttp.ErrTypeAuthentication, Message: message, StatusCode: statusCode, Retryable: false, Provider: providerName}
	case http.StatusTooManyRequests:
		return &llmhttp.Error{Type: llmhttp.ErrTypeRateLimit, Message: message, StatusCode: statusCode, Retryable: true, Provider: providerName}
	case http.StatusBadRequest:
		return &llmhttp.Error{Type: llmhttp.ErrTypeInvalidRequest, Message: message, StatusCode: statusCode, Retryable: false, Provider: providerName}
	case 529: // Anthropic-specific: overloaded
		return &llmhttp.Error{Type: llmhttp.ErrTypeServiceUnavailable, Message: message, StatusCode: statusCode, Retryable: true, Provider: providerName}
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return &llmhttp.Error{Type: llmhttp.ErrTypeServiceUnavailable, Message: message, StatusCode: statusCode, Retryable: true, Provider: providerName}
	default:
		return &llmhttp.Error{Type: llmhttp.ErrTypeUnknown, Message: message, StatusCode: statusCode, Retryable: false, Provider: providerName}
	}
}

func (c *Client) logCallError(ctx context.Context, err error, duration time.Duration) {
	if c.logger == nil {
		return
	}
	entry := llmhttp.ErrorLog{
		Provider:  providerName,
		Model:     c.model,
		Timestamp: time.Now(),
		Duration:  duration,
		Error:     err,
	}
	if typed, ok := err.(*llmhttp.Error); ok {
		entry.StatusCode = typed.StatusCode
		entry.Retryable = typed.Retryable
	}
	c.logger.LogError(ctx, entry)
}
