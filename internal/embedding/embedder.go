package embedding

import (
	"context"
	"fmt"
)

// Embedder converts text into fixed-dimension vectors via an external
// embedding service. Document and query embedding are separate operations
// because some services optimize the vector differently for each side of
// the retrieval.
type Embedder interface {
	// EmbedDocuments returns one vector per input text, in input order.
	// A nil or empty input returns an empty result without a service call.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery returns the vector for a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ServiceError reports a failed call to the embedding service: transport
// failures, non-success statuses, and malformed responses all surface as
// this type so callers can decide retry vs abort.
type ServiceError struct {
	// Status is the HTTP status code, or 0 when the call never completed.
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("embedding service: %s", e.Message)
	}
	return fmt.Sprintf("embedding service: status %d: %s", e.Status, e.Message)
}
