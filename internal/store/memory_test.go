package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkay81/numquest/internal/game"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	e := game.New(nil)
	require.NoError(t, s.Save(ctx, "alice", e))

	got, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, e, got)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := game.New(nil)
	second := game.New(nil)
	require.NoError(t, s.Save(ctx, "bob", first))
	require.NoError(t, s.Save(ctx, "bob", second))

	got, err := s.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Same(t, second, got)
}
