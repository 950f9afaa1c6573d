package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"bookbot/internal/llm"
)

// Client generates completions via the Gemini generateContent REST endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Config configures the Gemini generation client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a Gemini generation client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

// Generate sends the prompt as a single user turn and returns the first
// candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []part{{Text: prompt}}},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", &llm.GenerationError{Message: err.Error()}
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", &llm.GenerationError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &llm.GenerationError{Message: err.Error()}
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.GenerationError{Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode >= 300 {
		return "", &llm.GenerationError{Status: resp.StatusCode, Message: apiErrorMessage(payload, resp.Status)}
	}
	var out struct {
		Candidates []struct {
			Content content `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", &llm.GenerationError{Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &llm.GenerationError{Status: resp.StatusCode, Message: "no candidates returned"}
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func apiErrorMessage(payload []byte, fallback string) string {
	var out struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &out); err == nil && out.Error.Message != "" {
		return out.Error.Message
	}
	return fallback
}
