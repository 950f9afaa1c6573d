package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/internal/vectorstore"
)

func TestEnsureCollectionDimensionMismatch(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.EnsureCollection(context.Background(), 3))
	require.NoError(t, s.EnsureCollection(context.Background(), 3), "same size is idempotent")

	err := s.EnsureCollection(context.Background(), 4)
	var schemaErr *vectorstore.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestUpsertRequiresCollection(t *testing.T) {
	s := NewStore()
	err := s.Upsert(context.Background(), []vectorstore.Point{{ID: 0, Vector: []float32{1}}})
	var schemaErr *vectorstore.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestUpsertOverwritesById(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 2))

	require.NoError(t, s.Upsert(ctx, []vectorstore.Point{
		{ID: 0, Vector: []float32{1, 0}, Text: "old"},
	}))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Point{
		{ID: 0, Vector: []float32{1, 0}, Text: "new"},
	}))

	assert.Equal(t, 1, s.Count())
	hits, err := s.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Text)
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 2))

	err := s.Upsert(ctx, []vectorstore.Point{{ID: 0, Vector: []float32{1, 2, 3}}})
	var schemaErr *vectorstore.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Zero(t, s.Count(), "a rejected batch must not be partially applied")
}

func TestSearchOrdersByDescendingSimilarity(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Point{
		{ID: 0, Vector: []float32{1, 0}, Text: "east"},
		{ID: 1, Vector: []float32{0, 1}, Text: "north"},
		{ID: 2, Vector: []float32{1, 1}, Text: "northeast"},
	}))

	hits, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "east", hits[0].Text)
	assert.Equal(t, "northeast", hits[1].Text)
	assert.Equal(t, "north", hits[2].Text)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	assert.GreaterOrEqual(t, hits[1].Score, hits[2].Score)
}

func TestSearchDeterministicOnTies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Point{
		{ID: 5, Vector: []float32{1, 0}, Text: "five"},
		{ID: 2, Vector: []float32{1, 0}, Text: "two"},
		{ID: 9, Vector: []float32{1, 0}, Text: "nine"},
	}))

	first, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	second, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "two", first[0].Text, "ties break on ascending id")
}

func TestSearchRespectsTopK(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 1))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Point{
		{ID: 0, Vector: []float32{1}}, {ID: 1, Vector: []float32{2}},
	}))

	hits, err := s.Search(ctx, []float32{1}, 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.Search(ctx, []float32{1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}
