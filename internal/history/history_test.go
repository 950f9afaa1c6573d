package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestAppendAndListBySession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turns := []domain.Turn{
		{SessionID: "s1", UserMessage: "hello", BotResponse: "hi"},
		{SessionID: "s2", UserMessage: "other session", BotResponse: "yes"},
		{SessionID: "s1", UserMessage: "what is the book about?", BotResponse: "robots"},
	}
	for _, turn := range turns {
		require.NoError(t, s.Append(ctx, turn))
	}

	got, err := s.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].UserMessage)
	assert.Equal(t, "hi", got[0].BotResponse)
	assert.Equal(t, "what is the book about?", got[1].UserMessage)
	assert.False(t, got[0].Timestamp.IsZero(), "zero timestamp is filled at append time")
	assert.True(t, got[0].ID < got[1].ID, "insertion order preserved")
}

func TestListUnknownSessionIsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ListBySession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}
