package vectorstore

import (
	"context"
	"fmt"
)

// Point is the persisted unit in the vector store: an integer identifier,
// the embedding vector, and the chunk text as payload. Upserting a point
// with an existing id overwrites it.
type Point struct {
	ID     uint64
	Vector []float32
	Text   string
}

// ScoredPassage is one similarity-search hit.
type ScoredPassage struct {
	Score float64
	Text  string
}

// Store owns a named collection in an external vector index.
type Store interface {
	// EnsureCollection creates the collection if absent. A pre-existing
	// collection with a different vector size is a *SchemaError.
	EnsureCollection(ctx context.Context, vectorSize int) error

	// Upsert writes the points with overwrite semantics keyed by id. The
	// batch is atomic from the caller's perspective: either all points
	// become visible or an error is returned.
	Upsert(ctx context.Context, points []Point) error

	// Search returns up to topK passages ordered by descending similarity.
	// It never mutates the collection.
	Search(ctx context.Context, vector []float32, topK int) ([]ScoredPassage, error)

	// Close releases the store's network resources. Must be called on all
	// exit paths once the store is no longer needed.
	Close() error
}

// UnavailableError reports a transient connection or service failure.
// Callers may retry the whole operation.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("vector store unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// SchemaError reports a fatal collection problem: a missing collection or
// a vector-size mismatch. Retrying cannot help; the configuration is wrong.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("vector store schema: %s", e.Message)
}
