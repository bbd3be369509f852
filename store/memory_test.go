package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCollectionLifecycle(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()

	exists, err := c.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.CreateCollection(ctx, "docs", 4))

	exists, err = c.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.ErrorIs(t, c.CreateCollection(ctx, "docs", 4), ErrCollectionExists)

	require.NoError(t, c.DropCollection(ctx, "docs"))
	exists, err = c.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, exists)

	// Dropping a missing collection is not an error.
	assert.NoError(t, c.DropCollection(ctx, "docs"))
}

func TestMemoryCreateCollectionBadName(t *testing.T) {
	c := NewMemoryClient()

	assert.Error(t, c.CreateCollection(context.Background(), "bad name;", 4))
	assert.Error(t, c.CreateCollection(context.Background(), "", 4))
}

func TestMemoryInsertAssignsIDs(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	count, err := c.Insert(ctx, "docs", []Record{
		{DocumentID: "d1", Content: "one", Embedding: []float32{1, 0}},
		{DocumentID: "d1", Content: "two", Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	hits, err := c.Search(ctx, "docs", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(1), hits[0].ID)
	assert.Equal(t, "one", hits[0].Content)
}

func TestMemoryInsertValidation(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	_, err := c.Insert(ctx, "docs", []Record{
		{DocumentID: "d1", Content: "bad dim", Embedding: []float32{1, 0, 0}},
	})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = c.Insert(ctx, "docs", []Record{
		{DocumentID: "", Content: "no id", Embedding: []float32{1, 0}},
	})
	assert.Error(t, err)

	_, err = c.Insert(ctx, "missing", []Record{
		{DocumentID: "d1", Content: "x", Embedding: []float32{1, 0}},
	})
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestMemorySearchOrderingAndLimit(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	_, err := c.Insert(ctx, "docs", []Record{
		{DocumentID: "far", Content: "far", Embedding: []float32{10, 10}},
		{DocumentID: "near", Content: "near", Embedding: []float32{1, 1}},
		{DocumentID: "exact", Content: "exact", Embedding: []float32{0, 0}},
	})
	require.NoError(t, err)

	hits, err := c.Search(ctx, "docs", []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].DocumentID)
	assert.Equal(t, "near", hits[1].DocumentID)
	assert.Equal(t, 0.0, hits[0].Distance)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestMemorySearchDimensionMismatch(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	_, err := c.Search(ctx, "docs", []float32{1, 2, 3}, 5)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMemoryIndexLifecycle(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	_, err := c.DescribeIndex(ctx, "docs", "embedding_index")
	assert.ErrorIs(t, err, ErrIndexNotFound)

	require.NoError(t, c.CreateIndex(ctx, "docs", DefaultIndexParams()))

	info, err := c.DescribeIndex(ctx, "docs", "embedding_index")
	require.NoError(t, err)
	assert.Equal(t, "FLAT", info.Type)
	assert.Equal(t, "L2", info.Metric)
	assert.Equal(t, "embedding", info.Field)
}

func TestMemoryInsertCopiesEmbedding(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	vec := []float32{1, 0}
	_, err := c.Insert(ctx, "docs", []Record{{DocumentID: "d1", Content: "x", Embedding: vec}})
	require.NoError(t, err)

	// Mutating the caller's slice must not change stored distances.
	vec[0] = 100
	hits, err := c.Search(ctx, "docs", []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hits[0].Distance)
}
