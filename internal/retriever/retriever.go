package retriever

import (
	"context"
	"fmt"

	"bookbot/internal/embedding"
	"bookbot/internal/vectorstore"
)

// Retriever composes the embedding client and the vector store: bulk
// ingestion at indexing time, top-k passage retrieval at query time. It
// holds references to both collaborators but owns neither.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorstore.Store
}

// New creates a retriever over the given embedder and store.
func New(embedder embedding.Embedder, store vectorstore.Store) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Ingest embeds all chunks in document mode and upserts them with
// sequential ids 0..n-1. If embedding fails, no upsert is attempted.
// Because upsert is id-keyed and overwrite-based, a failed ingestion can
// safely be retried as a whole.
func (r *Retriever) Ingest(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}
	vectors, err := r.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	if err := r.store.EnsureCollection(ctx, len(vectors[0])); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	points := make([]vectorstore.Point, len(chunks))
	for i := range chunks {
		points[i] = vectorstore.Point{
			ID:     uint64(i),
			Vector: vectors[i],
			Text:   chunks[i],
		}
	}
	if err := r.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Retrieve embeds the query in query mode, searches the store, and returns
// the passage texts in the store's similarity ranking. An empty collection
// yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	passages := make([]string, 0, len(hits))
	for _, h := range hits {
		passages = append(passages, h.Text)
	}
	return passages, nil
}
