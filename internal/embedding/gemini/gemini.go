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

	"bookbot/internal/embedding"
)

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Client talks to the Gemini embedding API over REST. It distinguishes
// document embedding from query embedding via the API's task type, which
// produces vectors optimized for each side of the retrieval.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	batchSize int
	client    *http.Client
}

// Config configures the Gemini embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	BatchSize int
}

// NewClient creates a Gemini embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	b := cfg.BatchSize
	if b <= 0 {
		b = 100
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    key,
		model:     cfg.Model,
		batchSize: b,
		client:    &http.Client{Timeout: t},
	}, nil
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType"`
}

type values struct {
	Values []float32 `json:"values"`
}

// EmbedDocuments embeds the texts with the document task type, batching
// requests against the batch endpoint. Output order matches input order
// across batches.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// EmbedQuery embeds a single search query with the query task type.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	body := embedRequest{
		Model:    "models/" + c.model,
		Content:  content{Parts: []part{{Text: text}}},
		TaskType: taskQuery,
	}
	var out struct {
		Embedding values `json:"embedding"`
	}
	url := fmt.Sprintf("%s/models/%s:embedContent", c.baseURL, c.model)
	if err := c.postJSON(ctx, url, body, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding.Values) == 0 {
		return nil, &embedding.ServiceError{Message: "no embedding returned"}
	}
	return out.Embedding.Values, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	reqs := make([]embedRequest, len(texts))
	for i, t := range texts {
		reqs[i] = embedRequest{
			Model:    "models/" + c.model,
			Content:  content{Parts: []part{{Text: t}}},
			TaskType: taskDocument,
		}
	}
	body := map[string]any{"requests": reqs}
	var out struct {
		Embeddings []values `json:"embeddings"`
	}
	url := fmt.Sprintf("%s/models/%s:batchEmbedContents", c.baseURL, c.model)
	if err := c.postJSON(ctx, url, body, &out); err != nil {
		return nil, err
	}
	if len(out.Embeddings) != len(texts) {
		return nil, &embedding.ServiceError{
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(out.Embeddings)),
		}
	}
	vectors := make([][]float32, len(out.Embeddings))
	for i, e := range out.Embeddings {
		if len(e.Values) == 0 {
			return nil, &embedding.ServiceError{Message: fmt.Sprintf("empty embedding at index %d", i)}
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &embedding.ServiceError{Message: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return &embedding.ServiceError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return &embedding.ServiceError{Message: err.Error()}
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &embedding.ServiceError{Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode >= 300 {
		return &embedding.ServiceError{Status: resp.StatusCode, Message: apiErrorMessage(payload, resp.Status)}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &embedding.ServiceError{Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
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
