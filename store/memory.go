package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryClient is an in-memory Client for development and testing. It
// performs a brute-force L2 scan on search, matching the flat-index
// semantics of the durable backends.
type MemoryClient struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	dimension int
	nextID    int64
	records   []Record
	indexes   map[string]IndexInfo
}

// NewMemoryClient creates an empty in-memory store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{collections: make(map[string]*memCollection)}
}

// HasCollection reports whether the named collection exists.
func (c *MemoryClient) HasCollection(ctx context.Context, name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.collections[name]
	return ok, nil
}

// CreateCollection creates the named collection.
func (c *MemoryClient) CreateCollection(ctx context.Context, name string, dimension int) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}
	if dimension <= 0 {
		return ErrDimensionMismatch
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.collections[name]; ok {
		return ErrCollectionExists
	}
	c.collections[name] = &memCollection{
		dimension: dimension,
		nextID:    1,
		indexes:   make(map[string]IndexInfo),
	}
	return nil
}

// DropCollection removes the collection and its records.
func (c *MemoryClient) DropCollection(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.collections, name)
	return nil
}

// CreateIndex registers a vector index on the collection.
func (c *MemoryClient) CreateIndex(ctx context.Context, collection string, params IndexParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	col, ok := c.collections[collection]
	if !ok {
		return ErrCollectionNotFound
	}
	col.indexes[params.Name] = IndexInfo{
		Name:   params.Name,
		Field:  params.Field,
		Type:   params.Type,
		Metric: params.Metric,
	}
	return nil
}

// DescribeIndex returns the named index or ErrIndexNotFound.
func (c *MemoryClient) DescribeIndex(ctx context.Context, collection, indexName string) (IndexInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	col, ok := c.collections[collection]
	if !ok {
		return IndexInfo{}, ErrCollectionNotFound
	}
	info, ok := col.indexes[indexName]
	if !ok {
		return IndexInfo{}, ErrIndexNotFound
	}
	return info, nil
}

// Insert appends records, assigning sequential IDs.
func (c *MemoryClient) Insert(ctx context.Context, collection string, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	col, ok := c.collections[collection]
	if !ok {
		return 0, ErrCollectionNotFound
	}

	for _, r := range records {
		if err := validateRecord(r, col.dimension); err != nil {
			return 0, err
		}
	}

	for _, r := range records {
		r.ID = col.nextID
		col.nextID++
		// Copy the embedding so callers cannot mutate stored state.
		emb := make([]float32, len(r.Embedding))
		copy(emb, r.Embedding)
		r.Embedding = emb
		col.records = append(col.records, r)
	}
	return len(records), nil
}

// Search brute-force scans the collection and returns the closest records
// by L2 distance, ascending.
func (c *MemoryClient) Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	col, ok := c.collections[collection]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	if len(vector) != col.dimension {
		return nil, ErrDimensionMismatch
	}

	hits := make([]Hit, 0, len(col.records))
	for _, r := range col.records {
		dist, err := l2Distance(vector, r.Embedding)
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{
			ID:         r.ID,
			DocumentID: r.DocumentID,
			Title:      r.Title,
			Content:    r.Content,
			Distance:   dist,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close is a no-op for the in-memory store.
func (c *MemoryClient) Close() error {
	return nil
}

var _ Client = (*MemoryClient)(nil)
