package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteClient {
	t.Helper()
	c, err := NewSQLiteClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCollectionLifecycle(t *testing.T) {
	c := newTestSQLite(t)
	ctx := context.Background()

	exists, err := c.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.CreateCollection(ctx, "docs", 3))

	exists, err = c.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.ErrorIs(t, c.CreateCollection(ctx, "docs", 3), ErrCollectionExists)

	require.NoError(t, c.DropCollection(ctx, "docs"))
	exists, err = c.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteInsertAndSearch(t *testing.T) {
	c := newTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	count, err := c.Insert(ctx, "docs", []Record{
		{DocumentID: "far", Title: "Far", Content: "far away", Embedding: []float32{10, 10}},
		{DocumentID: "near", Title: "Near", Content: "nearby", Embedding: []float32{1, 1}},
		{DocumentID: "exact", Title: "Exact", Content: "spot on", Embedding: []float32{0, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	hits, err := c.Search(ctx, "docs", []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].DocumentID)
	assert.Equal(t, "Exact", hits[0].Title)
	assert.Equal(t, "spot on", hits[0].Content)
	assert.Equal(t, "near", hits[1].DocumentID)
	assert.Positive(t, hits[0].ID)
}

func TestSQLiteSearchMissingCollection(t *testing.T) {
	c := newTestSQLite(t)

	_, err := c.Search(context.Background(), "missing", []float32{0, 0}, 5)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestSQLiteInsertDimensionMismatch(t *testing.T) {
	c := newTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	_, err := c.Insert(ctx, "docs", []Record{
		{DocumentID: "d1", Content: "x", Embedding: []float32{1, 2, 3}},
	})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSQLiteIndexLifecycle(t *testing.T) {
	c := newTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, c.CreateCollection(ctx, "docs", 2))

	_, err := c.DescribeIndex(ctx, "docs", "embedding_index")
	assert.ErrorIs(t, err, ErrIndexNotFound)

	require.NoError(t, c.CreateIndex(ctx, "docs", DefaultIndexParams()))

	info, err := c.DescribeIndex(ctx, "docs", "embedding_index")
	require.NoError(t, err)
	assert.Equal(t, "FLAT", info.Type)
	assert.Equal(t, "L2", info.Metric)

	assert.ErrorIs(t, c.CreateIndex(ctx, "missing", DefaultIndexParams()), ErrCollectionNotFound)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	c1, err := NewSQLiteClient(path)
	require.NoError(t, err)
	require.NoError(t, c1.CreateCollection(ctx, "docs", 2))
	_, err = c1.Insert(ctx, "docs", []Record{
		{DocumentID: "d1", Content: "kept", Embedding: []float32{1, 1}},
	})
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := NewSQLiteClient(path)
	require.NoError(t, err)
	defer c2.Close()

	hits, err := c2.Search(ctx, "docs", []float32{1, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "kept", hits[0].Content)
}
