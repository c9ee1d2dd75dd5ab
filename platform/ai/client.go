// Package ai provides access to an external OpenAI-compatible text-generation
// service. This is part of the platform layer and contains no business logic.
//
// Callers must treat the service as unreliable: any error is expected to be
// caught locally and replaced with a deterministic fallback. A nil *Client is
// valid and means the service is not configured.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config for the text-generation service.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client talks to an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	config Config
	client *http.Client
}

// New creates a client, or nil when no API key is configured.
func New(cfg Config) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error interface{} `json:"error"`
}

// Generate produces a completion for the given prompt, bounded by maxTokens.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "user", Content: prompt},
	}, maxTokens, nil)
}

// Classify answers a classification prompt with a small token budget and
// temperature zero, using the given system instruction.
func (c *Client) Classify(ctx context.Context, instruction, prompt string) (string, error) {
	zero := 0.0
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: instruction},
		{Role: "user", Content: prompt},
	}, 10, &zero)
}

func (c *Client) complete(ctx context.Context, messages []chatMessage, maxTokens int, temperature *float64) (string, error) {
	if c == nil {
		return "", fmt.Errorf("ai service not configured")
	}

	payload := map[string]interface{}{
		"model":    c.config.Model,
		"messages": messages,
	}
	if maxTokens > 0 {
		payload["max_tokens"] = maxTokens
	}
	if temperature != nil {
		payload["temperature"] = *temperature
	}

	jsonBody, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %v", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("completion api error: %v", result.Error)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion api error: empty choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
