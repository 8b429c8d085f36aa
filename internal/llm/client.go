// Package llm wraps the provider's chat-completions REST API. The client is
// constructed once at startup and is safe for concurrent use; it performs no
// retries and leaves timeout handling to its embedded transport.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one turn of a chat-completion exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AuthError reports that the provider rejected our credentials.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return "completion provider authentication failed"
}

// CallError reports any other provider failure: rate limiting, transport
// errors, malformed responses.
type CallError struct {
	Msg string
}

func (e *CallError) Error() string {
	return "completion call failed: " + e.Msg
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New creates a Client. The API key must be non-empty; callers validate it at
// startup so a missing credential fails the process, not the first request.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion provider API key is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the messages to the given model and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	payload, err := json.Marshal(completionRequest{Model: model, Messages: messages})
	if err != nil {
		return "", &CallError{Msg: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &CallError{Msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &CallError{Msg: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CallError{Msg: err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &AuthError{Status: resp.StatusCode}
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &CallError{Msg: fmt.Sprintf("invalid provider response (status %d)", resp.StatusCode)}
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("provider returned status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", &CallError{Msg: msg}
	}

	if len(parsed.Choices) == 0 {
		return "", &CallError{Msg: "provider returned no choices"}
	}

	return parsed.Choices[0].Message.Content, nil
}
