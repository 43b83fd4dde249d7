// Package static provides a canned in-process model client for tests and for
// running the service without an API key.
package static

import "context"

const defaultResponse = "No issues found. The change is small and self-contained."

// Client satisfies the completion ports of the review and suggest usecases
// with a fixed response.
type Client struct {
	model    string
	response string
	err      error
}

// NewClient constructs a static client for the supplied model label.
func NewClient(model string) *Client {
	return &Client{
		model:    model,
		response: defaultResponse,
	}
}

// WithResponse overrides the canned response text.
func (c *Client) WithResponse(text string) *Client {
	c.response = text
	return c
}

// WithError makes every call fail with err, for exercising failure paths.
func (c *Client) WithError(err error) *Client {
	c.err = err
	return c
}

// Model returns the configured model label.
func (c *Client) Model() string {
	return c.model
}

// Complete returns the canned response regardless of input.
func (c *Client) Complete(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}
