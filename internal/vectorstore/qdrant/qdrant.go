package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bookbot/internal/vectorstore"
)

// Store is a REST client to a Qdrant collection. It uses cosine distance
// and creates the collection on first use.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// Config contains connection details for a Qdrant vector store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStore creates a Qdrant-backed vector store client.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if it does not exist. An existing
// collection with a different vector size fails fast rather than silently
// degrading retrieval quality.
func (s *Store) EnsureCollection(ctx context.Context, vectorSize int) error {
	if vectorSize <= 0 {
		return &vectorstore.SchemaError{Message: fmt.Sprintf("invalid vector size %d", vectorSize)}
	}
	existing, found, err := s.collectionSize(ctx)
	if err != nil {
		return err
	}
	if found {
		if existing != vectorSize {
			return &vectorstore.SchemaError{
				Message: fmt.Sprintf("collection %q has vector size %d, want %d", s.collection, existing, vectorSize),
			}
		}
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}
	return s.send(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil)
}

// Upsert writes the points with overwrite semantics keyed by id. The call
// waits for the write to be applied, so a success means the whole batch is
// visible; Qdrant applies a points request as a unit.
func (s *Store) Upsert(ctx context.Context, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": toWire(points)}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
	return s.send(ctx, http.MethodPut, url, body, nil)
}

// Search returns up to topK passages by descending cosine similarity.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]vectorstore.ScoredPassage, error) {
	if topK <= 0 {
		topK = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.send(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}
	passages := make([]vectorstore.ScoredPassage, 0, len(resp.Result))
	for _, r := range resp.Result {
		text, _ := r.Payload["text"].(string)
		passages = append(passages, vectorstore.ScoredPassage{Score: r.Score, Text: text})
	}
	return passages, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func toWire(points []vectorstore.Point) []map[string]any {
	wire := make([]map[string]any, len(points))
	for i, p := range points {
		wire[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": map[string]any{"text": p.Text},
		}
	}
	return wire
}

// collectionSize reports the vector size of the collection, or found=false
// when the collection does not exist yet.
func (s *Store) collectionSize(ctx context.Context) (size int, found bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return 0, false, &vectorstore.UnavailableError{Err: err}
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, false, &vectorstore.UnavailableError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.StatusCode >= 300 {
		return 0, false, statusError(resp.StatusCode, "GET collection")
	}
	var out struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, false, &vectorstore.UnavailableError{Err: err}
	}
	return out.Result.Config.Params.Vectors.Size, true, nil
}

func (s *Store) send(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return &vectorstore.UnavailableError{Err: err}
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return &vectorstore.UnavailableError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, fmt.Sprintf("%s %s", method, url))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

// statusError maps Qdrant HTTP statuses onto the store error taxonomy: a
// missing collection or rejected request is a schema problem, everything
// else is treated as transient.
func statusError(status int, op string) error {
	switch {
	case status == http.StatusNotFound:
		return &vectorstore.SchemaError{Message: fmt.Sprintf("%s: collection not found", op)}
	case status >= 400 && status < 500:
		return &vectorstore.SchemaError{Message: fmt.Sprintf("%s: rejected with status %d", op, status)}
	default:
		return &vectorstore.UnavailableError{Err: fmt.Errorf("%s: status %d", op, status)}
	}
}
