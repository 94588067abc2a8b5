package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docuchat/internal/docuchat/store"
)

func TestMemoryStoreInsertAndCount(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	ids, err := s.Insert(ctx, []*store.Entry{
		{Source: "a.txt", ChunkIndex: 0, Content: "first", Embedding: []float32{1, 0}},
		{Source: "a.txt", ChunkIndex: 1, Content: "second", Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMemoryStoreSearchRanksBySimilarity(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, []*store.Entry{
		{Source: "sky.txt", Content: "the sky is blue", Embedding: []float32{1, 0, 0}},
		{Source: "grass.txt", Content: "the grass is green", Embedding: []float32{0, 1, 0}},
		{Source: "sun.txt", Content: "the sun is bright", Embedding: []float32{0.9, 0.1, 0}},
	})
	require.NoError(t, err)

	results, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "the sky is blue", results[0].Content)
	assert.Equal(t, "the sun is bright", results[1].Content)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStoreSearchTopKBound(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, []*store.Entry{
		{Source: "a.txt", Content: "a", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)

	results, err := s.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryStoreEntriesAndDelete(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	ids, err := s.Insert(ctx, []*store.Entry{
		{Source: "a.txt", Content: "a", Embedding: []float32{1, 0}},
		{Source: "b.txt", Content: "b", Embedding: []float32{0, 1}},
		{Source: "a.txt", Content: "a2", Embedding: []float32{1, 1}},
	})
	require.NoError(t, err)

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var toDelete []int64
	for _, e := range entries {
		if e.Source == "a.txt" {
			toDelete = append(toDelete, e.ID)
		}
	}
	require.Len(t, toDelete, 2)

	require.NoError(t, s.DeleteByIDs(ctx, toDelete))

	entries, err = s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.txt", entries[0].Source)

	// Deleting unknown IDs is a no-op.
	require.NoError(t, s.DeleteByIDs(ctx, ids))
}
