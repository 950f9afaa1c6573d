package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"bookbot/internal/embedding"
)

// Client embeds text through any OpenAI-compatible embeddings endpoint.
// The OpenAI API has no document/query task distinction, so both operations
// produce the same kind of vector.
type Client struct {
	client *openai.Client
	model  string
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
}

// NewClient creates an embeddings client for OpenAI or any compatible provider.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	clientConfig := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// EmbedDocuments returns one vector per input text, in input order.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, serviceError(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, &embedding.ServiceError{
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// EmbedQuery embeds a single search query.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func serviceError(err error) *embedding.ServiceError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &embedding.ServiceError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	return &embedding.ServiceError{Message: err.Error()}
}
