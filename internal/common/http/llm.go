package http

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrLLMTimeout       = errors.New("LLM_TIMEOUT")
	ErrLLMRequestFailed = errors.New("LLM_REQUEST_FAILED")
)

// ChatMessage is one turn of an OpenAI-compatible conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// LLMOptions configures an LLMClient.
type LLMOptions struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// LLMClient calls the /chat/completions endpoint of an OpenAI-compatible
// provider such as Groq.
type LLMClient struct {
	client  *Client
	timeout time.Duration
}

func NewLLMClient(opts LLMOptions) *LLMClient {
	c := NewClient(strings.TrimRight(opts.BaseURL, "/"), opts.Timeout, opts.MaxRetries).
		SetAuthToken(opts.APIKey)
	return &LLMClient{client: c, timeout: opts.Timeout}
}

// Complete sends req and returns the first choice's content.
func (c *LLMClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	var (
		result  chatResponse
		failure apiError
	)

	resp, err := c.client.Resty().R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrLLMTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
	}

	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrLLMRequestFailed, resp.StatusCode(), msg)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrLLMRequestFailed)
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// Timeout returns the configured per-request timeout.
func (c *LLMClient) Timeout() time.Duration {
	return c.timeout
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
