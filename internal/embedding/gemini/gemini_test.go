package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/internal/embedding"
)

func newTestClient(t *testing.T, handler http.Handler, batchSize int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_GEMINI_KEY", "secret")
	c, err := NewClient(Config{
		BaseURL:   srv.URL,
		APIKeyEnv: "TEST_GEMINI_KEY",
		Model:     "text-embedding-004",
		BatchSize: batchSize,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_GEMINI_KEY"})
	assert.Error(t, err)
}

func TestEmbedDocumentsPreservesOrder(t *testing.T) {
	var gotTasks []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:batchEmbedContents", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		var body struct {
			Requests []struct {
				TaskType string `json:"taskType"`
				Content  struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"requests"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		type vals struct {
			Values []float32 `json:"values"`
		}
		out := struct {
			Embeddings []vals `json:"embeddings"`
		}{}
		for i, req := range body.Requests {
			gotTasks = append(gotTasks, req.TaskType)
			// Encode the input index into the vector so order is observable.
			out.Embeddings = append(out.Embeddings, vals{Values: []float32{float32(i), 1}})
		}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	})

	c := newTestClient(t, handler, 2)
	vectors, err := c.EmbedDocuments(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	// Batch size 2 means batches [a b] and [c]; indexes restart per batch.
	assert.Equal(t, []float32{0, 1}, vectors[0])
	assert.Equal(t, []float32{1, 1}, vectors[1])
	assert.Equal(t, []float32{0, 1}, vectors[2])
	for _, task := range gotTasks {
		assert.Equal(t, "RETRIEVAL_DOCUMENT", task)
	}
}

func TestEmbedDocumentsEmptyInput(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no service call expected for empty input")
	})
	c := newTestClient(t, handler, 10)
	vectors, err := c.EmbedDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedQueryUsesQueryTaskType(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:embedContent", r.URL.Path)
		var body struct {
			TaskType string `json:"taskType"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "RETRIEVAL_QUERY", body.TaskType)
		fmt.Fprint(w, `{"embedding":{"values":[0.1,0.2,0.3]}}`)
	})
	c := newTestClient(t, handler, 10)
	vec, err := c.EmbedQuery(context.Background(), "what is this?")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestErrorStatusBecomesServiceError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	})
	c := newTestClient(t, handler, 10)

	_, err := c.EmbedQuery(context.Background(), "q")
	var svcErr *embedding.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusTooManyRequests, svcErr.Status)
	assert.Equal(t, "quota exceeded", svcErr.Message)
}

func TestMalformedResponseBecomesServiceError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json at all`)
	})
	c := newTestClient(t, handler, 10)

	_, err := c.EmbedDocuments(context.Background(), []string{"a"})
	var svcErr *embedding.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestShortResponseBecomesServiceError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"embeddings":[{"values":[1]}]}`)
	})
	c := newTestClient(t, handler, 10)

	_, err := c.EmbedDocuments(context.Background(), []string{"a", "b"})
	var svcErr *embedding.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Message, "expected 2")
}
