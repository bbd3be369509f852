// Package store provides vector collection storage and nearest-neighbour
// search over SQLite, PostgreSQL/pgvector, or an in-memory backend.
//
// A Client exposes the raw collection operations; Manager layers the
// idempotent ensure-collection / ensure-index policy on top. All backends
// share one fixed record schema: an auto-assigned integer ID, the source
// document's ID and title, the chunk text, and a fixed-dimension float
// vector searched with the Euclidean (L2) metric.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors shared by all backends.
var (
	ErrCollectionNotFound = errors.New("store: collection not found")
	ErrCollectionExists   = errors.New("store: collection already exists")
	ErrIndexNotFound      = errors.New("store: index not found")
	ErrDimensionMismatch  = errors.New("store: embedding dimension mismatch")
)

// Field length limits of the record schema.
const (
	MaxDocumentIDLen = 100
	MaxTitleLen      = 200
	MaxContentLen    = 65535
)

// Record is one stored chunk row. ID is assigned by the store on insert
// and never mutated afterwards.
type Record struct {
	ID         int64
	DocumentID string
	Title      string
	Content    string
	Embedding  []float32
}

// Hit is one raw nearest-neighbour result. Distance is the L2 distance
// between the query vector and the stored embedding; lower is closer.
type Hit struct {
	ID         int64
	DocumentID string
	Title      string
	Content    string
	Distance   float64
}

// IndexParams describes a vector index to create.
type IndexParams struct {
	Name   string
	Field  string
	Type   string
	Metric string
	NList  int
}

// DefaultIndexParams returns the flat L2 index used by the document
// collection.
func DefaultIndexParams() IndexParams {
	return IndexParams{
		Name:   "embedding_index",
		Field:  "embedding",
		Type:   "FLAT",
		Metric: "L2",
		NList:  128,
	}
}

// IndexInfo describes an existing vector index.
type IndexInfo struct {
	Name   string
	Field  string
	Type   string
	Metric string
}

// Client is the raw vector store contract. Implementations must be safe
// for concurrent reads and inserts from multiple goroutines.
type Client interface {
	// HasCollection reports whether the named collection exists.
	HasCollection(ctx context.Context, name string) (bool, error)

	// CreateCollection creates the named collection with the fixed record
	// schema and the given vector dimension. Fails with
	// ErrCollectionExists if the collection already exists.
	CreateCollection(ctx context.Context, name string, dimension int) error

	// DropCollection removes the collection and all of its records and
	// indexes. Dropping a missing collection is not an error.
	DropCollection(ctx context.Context, name string) error

	// CreateIndex creates a vector index on the collection. Recreating an
	// index with the same name replaces its registration.
	CreateIndex(ctx context.Context, collection string, params IndexParams) error

	// DescribeIndex returns the named index, or ErrIndexNotFound.
	DescribeIndex(ctx context.Context, collection, indexName string) (IndexInfo, error)

	// Insert bulk-inserts records, assigning IDs, and returns the number
	// of rows actually persisted.
	Insert(ctx context.Context, collection string, records []Record) (int, error)

	// Search returns up to limit nearest records to the query vector,
	// ordered by ascending distance.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error)

	// Close releases resources.
	Close() error
}

// validateCollectionName restricts names to identifier characters so they
// can be spliced into table names safely.
func validateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("store: collection name is empty")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return fmt.Errorf("store: invalid collection name %q", name)
		}
	}
	return nil
}

// validateRecord enforces the schema's field limits and the collection's
// vector dimension before a row is written.
func validateRecord(r Record, dimension int) error {
	if r.DocumentID == "" {
		return fmt.Errorf("store: record document id is empty")
	}
	if len(r.DocumentID) > MaxDocumentIDLen {
		return fmt.Errorf("store: document id exceeds %d chars", MaxDocumentIDLen)
	}
	if len(r.Title) > MaxTitleLen {
		return fmt.Errorf("store: title exceeds %d chars", MaxTitleLen)
	}
	if r.Content == "" {
		return fmt.Errorf("store: record content is empty")
	}
	if len(r.Content) > MaxContentLen {
		return fmt.Errorf("store: content exceeds %d chars", MaxContentLen)
	}
	if len(r.Embedding) != dimension {
		return fmt.Errorf("%w: got %d, collection expects %d",
			ErrDimensionMismatch, len(r.Embedding), dimension)
	}
	return nil
}
