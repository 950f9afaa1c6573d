package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"bookbot/internal/vectorstore"
)

// Store is an in-memory vector store using brute-force cosine similarity.
// It exists for development and tests; the contract matches the Qdrant
// adapter, including overwrite-by-id upserts and the schema error on a
// dimension mismatch.
type Store struct {
	mu        sync.RWMutex
	dimension int
	points    map[uint64]vectorstore.Point
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{points: make(map[uint64]vectorstore.Point)}
}

// EnsureCollection fixes the vector dimension on first call; a later call
// with a different size is a schema error, matching the external store.
func (s *Store) EnsureCollection(_ context.Context, vectorSize int) error {
	if vectorSize <= 0 {
		return &vectorstore.SchemaError{Message: fmt.Sprintf("invalid vector size %d", vectorSize)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension != 0 && s.dimension != vectorSize {
		return &vectorstore.SchemaError{
			Message: fmt.Sprintf("collection has vector size %d, want %d", s.dimension, vectorSize),
		}
	}
	s.dimension = vectorSize
	return nil
}

// Upsert stores the points, overwriting any existing point with the same id.
func (s *Store) Upsert(_ context.Context, points []vectorstore.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return &vectorstore.SchemaError{Message: "collection not created"}
	}
	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return &vectorstore.SchemaError{
				Message: fmt.Sprintf("point %d has dimension %d, want %d", p.ID, len(p.Vector), s.dimension),
			}
		}
	}
	for _, p := range points {
		s.points[p.ID] = p
	}
	return nil
}

// Search returns up to topK passages by descending cosine similarity.
// Ties break on ascending id so results are deterministic for an unchanged
// collection.
func (s *Store) Search(_ context.Context, vector []float32, topK int) ([]vectorstore.ScoredPassage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	type scored struct {
		id    uint64
		score float64
		text  string
	}
	hits := make([]scored, 0, len(s.points))
	for id, p := range s.points {
		hits = append(hits, scored{id: id, score: cosine(vector, p.Vector), text: p.Text})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})
	if topK > len(hits) {
		topK = len(hits)
	}
	passages := make([]vectorstore.ScoredPassage, 0, topK)
	for _, h := range hits[:topK] {
		passages = append(passages, vectorstore.ScoredPassage{Score: h.score, Text: h.text})
	}
	return passages, nil
}

// Close is a no-op; nothing is held outside process memory.
func (s *Store) Close() error { return nil }

// Count reports the number of stored points.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
