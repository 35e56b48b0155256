package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config configures the OpenAI-compatible client.
type Config struct {
	// BaseURL of the API (default: https://api.openai.com/v1).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model name (default: gpt-4o-mini).
	Model string `json:"model" yaml:"model"`

	// APIKeyEnv names the environment variable holding the API key
	// (default: OPENAI_API_KEY). APIKey, if set, takes precedence.
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env"`
	APIKey    string `json:"-" yaml:"-"`

	// Timeout for one call (default: 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Temperature, when non-nil, overrides the provider default.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	hc     *http.Client
	url    string
	apiKey string
	model  string
	temp   *float64
}

// NewClient builds a Client from cfg. Returns an error when no API key is
// available.
func NewClient(cfg Config) (*Client, error) {
	cfg.defaults()
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("llm: missing API key (set %s)", cfg.APIKeyEnv)
	}
	return &Client{
		hc:     &http.Client{Timeout: cfg.Timeout},
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey: key,
		model:  cfg.Model,
		temp:   cfg.Temperature,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// responseFormat enables the provider's structured-output mode. Even with
// strict mode the response is re-validated by the caller; providers drift.
type responseFormat struct {
	Type       string      `json:"type"` // "json_schema"
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

// Complete performs one chat completion call. A single attempt, no retry:
// the pipeline's fallback policy owns failure handling.
func (c *Client) Complete(ctx context.Context, r Request) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: c.temp,
	}
	if r.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: r.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: r.Prompt})

	if len(r.Schema) > 0 {
		name := r.SchemaName
		if name == "" {
			name = "response"
		}
		req.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchema{Name: name, Schema: r.Schema},
		}
	}

	body, err := json.Marshal(&req)
	if err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("llm: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("llm: upstream %d: %s", resp.StatusCode, strings.TrimSpace(string(slurp)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("llm: decode: %w", ErrResponseInvalid)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", ErrResponseInvalid
	}
	return cr.Choices[0].Message.Content, nil
}
