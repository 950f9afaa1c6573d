package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/internal/embedding"
	"bookbot/internal/vectorstore/memory"
)

// lexicalEmbedder maps text onto a fixed vocabulary as a bag-of-words
// vector, so cosine similarity tracks lexical overlap. Good enough to make
// retrieval ranking observable without a real embedding service.
type lexicalEmbedder struct {
	vocab []string
}

func newLexicalEmbedder(vocab ...string) *lexicalEmbedder {
	return &lexicalEmbedder{vocab: vocab}
}

func (e *lexicalEmbedder) embed(text string) []float32 {
	tokens := map[string]bool{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tokens[strings.Trim(tok, ".,!?")] = true
	}
	vec := make([]float32, len(e.vocab))
	for i, w := range e.vocab {
		if tokens[w] {
			vec[i] = 1
		}
	}
	return vec
}

func (e *lexicalEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *lexicalEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, &embedding.ServiceError{Status: 503, Message: "overloaded"}
}

func (failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, &embedding.ServiceError{Status: 503, Message: "overloaded"}
}

func TestIngestAndRetrieveRanksByOverlap(t *testing.T) {
	emb := newLexicalEmbedder("the", "sky", "is", "blue", "water", "boils", "at", "100c", "what", "color")
	store := memory.NewStore()
	r := New(emb, store)

	chunks := []string{"The sky is blue.", "Water boils at 100C."}
	require.NoError(t, r.Ingest(context.Background(), chunks))
	assert.Equal(t, 2, store.Count())

	passages, err := r.Retrieve(context.Background(), "What color is the sky?", 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "The sky is blue.", passages[0])
}

func TestIngestIsIdempotent(t *testing.T) {
	emb := newLexicalEmbedder("a", "b", "c")
	store := memory.NewStore()
	r := New(emb, store)

	chunks := []string{"a", "b", "c"}
	require.NoError(t, r.Ingest(context.Background(), chunks))
	require.NoError(t, r.Ingest(context.Background(), chunks))
	assert.Equal(t, len(chunks), store.Count(), "re-ingestion overwrites, never duplicates")
}

func TestIngestEmptyIsNoop(t *testing.T) {
	store := memory.NewStore()
	r := New(failingEmbedder{}, store)
	assert.NoError(t, r.Ingest(context.Background(), nil))
	assert.Zero(t, store.Count())
}

func TestIngestEmbedFailureSkipsUpsert(t *testing.T) {
	store := memory.NewStore()
	r := New(failingEmbedder{}, store)

	err := r.Ingest(context.Background(), []string{"chunk"})
	require.Error(t, err)
	var svcErr *embedding.ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Zero(t, store.Count(), "no upsert may happen when embedding fails")
}

func TestRetrieveNeverExceedsTopKOrPointCount(t *testing.T) {
	emb := newLexicalEmbedder("x", "y", "z")
	store := memory.NewStore()
	r := New(emb, store)
	require.NoError(t, r.Ingest(context.Background(), []string{"x", "y"}))

	passages, err := r.Retrieve(context.Background(), "x y", 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(passages), 2)

	passages, err = r.Retrieve(context.Background(), "x y", 1)
	require.NoError(t, err)
	assert.Len(t, passages, 1)
}

func TestRetrieveEmptyCollection(t *testing.T) {
	emb := newLexicalEmbedder("x")
	store := memory.NewStore()
	require.NoError(t, store.EnsureCollection(context.Background(), 1))
	r := New(emb, store)

	passages, err := r.Retrieve(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, passages, "empty collection is an empty result, not an error")
}

func TestRetrieveEmbedFailure(t *testing.T) {
	store := memory.NewStore()
	r := New(failingEmbedder{}, store)
	_, err := r.Retrieve(context.Background(), "q", 3)
	assert.True(t, errors.As(err, new(*embedding.ServiceError)))
}
