package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PgClient is a Client backed by PostgreSQL with the pgvector extension.
// Distances are computed server-side with the L2 operator; without a
// physical index pgvector performs an exact sequential scan, which matches
// the flat-index contract.
type PgClient struct {
	db *sql.DB
}

// NewPgClient opens a pgvector-backed store, enabling the vector extension
// and creating the metadata tables.
func NewPgClient(dsn string) (*PgClient, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	c := &PgClient{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

func (c *PgClient) migrate() error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			dimension  INTEGER NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS collection_indexes (
			collection TEXT NOT NULL,
			index_name TEXT NOT NULL,
			field      TEXT NOT NULL,
			index_type TEXT NOT NULL,
			metric     TEXT NOT NULL,
			PRIMARY KEY (collection, index_name)
		)`,
	}

	for _, m := range migrations {
		if _, err := c.db.Exec(m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// HasCollection reports whether the named collection exists.
func (c *PgClient) HasCollection(ctx context.Context, name string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collections WHERE name = $1`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query collection: %w", err)
	}
	return n > 0, nil
}

func (c *PgClient) dimensionOf(ctx context.Context, name string) (int, error) {
	var dim int
	err := c.db.QueryRowContext(ctx,
		`SELECT dimension FROM collections WHERE name = $1`, name).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCollectionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query dimension: %w", err)
	}
	return dim, nil
}

// CreateCollection creates the metadata row and the records table.
func (c *PgClient) CreateCollection(ctx context.Context, name string, dimension int) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}
	if dimension <= 0 {
		return fmt.Errorf("store: invalid dimension %d", dimension)
	}

	exists, err := c.HasCollection(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrCollectionExists
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collections (name, dimension) VALUES ($1, $2)`, name, dimension); err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id          BIGSERIAL PRIMARY KEY,
		document_id VARCHAR(%d) NOT NULL,
		title       VARCHAR(%d) NOT NULL,
		content     TEXT NOT NULL,
		embedding   vector(%d) NOT NULL
	)`, recordsTable(name), MaxDocumentIDLen, MaxTitleLen, dimension)
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}

	return tx.Commit()
}

// DropCollection removes the collection metadata, index registrations, and
// records table.
func (c *PgClient) DropCollection(ctx context.Context, name string) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_indexes WHERE collection = $1`, name); err != nil {
		return fmt.Errorf("delete indexes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, recordsTable(name))); err != nil {
		return fmt.Errorf("drop records table: %w", err)
	}

	return tx.Commit()
}

// CreateIndex registers a vector index. A flat index stays a sequential
// scan; IVF_FLAT additionally creates a physical ivfflat index.
func (c *PgClient) CreateIndex(ctx context.Context, collection string, params IndexParams) error {
	exists, err := c.HasCollection(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCollectionNotFound
	}

	if params.Type == "IVF_FLAT" {
		lists := params.NList
		if lists <= 0 {
			lists = 128
		}
		idx := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s USING ivfflat (embedding vector_l2_ops) WITH (lists = %d)`,
			collection, strings.ToLower(params.Name), recordsTable(collection), lists)
		if _, err := c.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create ivfflat index: %w", err)
		}
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO collection_indexes (collection, index_name, field, index_type, metric)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, index_name) DO UPDATE SET
			field = EXCLUDED.field,
			index_type = EXCLUDED.index_type,
			metric = EXCLUDED.metric`,
		collection, params.Name, params.Field, params.Type, params.Metric)
	if err != nil {
		return fmt.Errorf("register index: %w", err)
	}
	return nil
}

// DescribeIndex returns the named index registration or ErrIndexNotFound.
func (c *PgClient) DescribeIndex(ctx context.Context, collection, indexName string) (IndexInfo, error) {
	var info IndexInfo
	err := c.db.QueryRowContext(ctx, `
		SELECT index_name, field, index_type, metric
		FROM collection_indexes WHERE collection = $1 AND index_name = $2`,
		collection, indexName).Scan(&info.Name, &info.Field, &info.Type, &info.Metric)
	if errors.Is(err, sql.ErrNoRows) {
		return IndexInfo{}, ErrIndexNotFound
	}
	if err != nil {
		return IndexInfo{}, fmt.Errorf("query index: %w", err)
	}
	return info, nil
}

// Insert bulk-inserts records in one transaction, assigning IDs.
func (c *PgClient) Insert(ctx context.Context, collection string, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	dim, err := c.dimensionOf(ctx, collection)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		if err := validateRecord(r, dim); err != nil {
			return 0, err
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(
		`INSERT INTO %s (document_id, title, content, embedding) VALUES ($1, $2, $3, $4)`,
		recordsTable(collection))

	count := 0
	for _, r := range records {
		if _, err := tx.ExecContext(ctx, query, r.DocumentID, r.Title, r.Content, formatVector(r.Embedding)); err != nil {
			return 0, fmt.Errorf("insert record: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

// Search orders records by L2 distance to the query vector server-side.
func (c *PgClient) Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error) {
	dim, err := c.dimensionOf(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(vector) != dim {
		return nil, ErrDimensionMismatch
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, document_id, title, content, embedding <-> $1 AS distance
		FROM %s
		ORDER BY embedding <-> $1
		LIMIT $2`, recordsTable(collection)),
		formatVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ID, &h.DocumentID, &h.Title, &h.Content, &h.Distance); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Close closes the database connection.
func (c *PgClient) Close() error {
	return c.db.Close()
}

// formatVector renders a vector in pgvector text format: "[0.1,0.2,0.3]".
func formatVector(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

var _ Client = (*PgClient)(nil)
