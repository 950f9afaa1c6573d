package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"bookbot/internal/llm"
)

// Client generates completions through any OpenAI-compatible chat endpoint.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
}

// Config configures the OpenAI-compatible generation client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float32
}

// NewClient creates a generation client for OpenAI or any compatible provider.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	clientConfig := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends the prompt as a single user message and returns the first
// choice's content.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &llm.GenerationError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return "", &llm.GenerationError{Message: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return "", &llm.GenerationError{Message: "no choices returned"}
	}
	return resp.Choices[0].Message.Content, nil
}
