package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hubenschmidt/go-vecdoc/store/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteClient is a Client backed by a local SQLite file. Embeddings are
// stored as little-endian float32 BLOBs and searched with a brute-force L2
// scan, which is exactly the flat-index contract: exact nearest
// neighbours, no approximation.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens (or creates) a SQLite-backed store at the given
// path, creating parent directories as needed.
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	if path == "" {
		path = "data/vecdoc.db"
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

func runSQLiteMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func recordsTable(collection string) string {
	return "records_" + collection
}

// HasCollection reports whether the named collection exists.
func (c *SQLiteClient) HasCollection(ctx context.Context, name string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collections WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query collection: %w", err)
	}
	return n > 0, nil
}

// dimensionOf returns the configured vector dimension of a collection.
func (c *SQLiteClient) dimensionOf(ctx context.Context, name string) (int, error) {
	var dim int
	err := c.db.QueryRowContext(ctx,
		`SELECT dimension FROM collections WHERE name = ?`, name).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCollectionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query dimension: %w", err)
	}
	return dim, nil
}

// CreateCollection creates the metadata row and the records table.
func (c *SQLiteClient) CreateCollection(ctx context.Context, name string, dimension int) error {
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
		`INSERT INTO collections (name, dimension) VALUES (?, ?)`, name, dimension); err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id TEXT NOT NULL,
		title       TEXT NOT NULL,
		content     TEXT NOT NULL,
		embedding   BLOB NOT NULL
	)`, recordsTable(name))
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}

	return tx.Commit()
}

// DropCollection removes the collection metadata, index registrations, and
// records table.
func (c *SQLiteClient) DropCollection(ctx context.Context, name string) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_indexes WHERE collection = ?`, name); err != nil {
		return fmt.Errorf("delete indexes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, recordsTable(name))); err != nil {
		return fmt.Errorf("drop records table: %w", err)
	}

	return tx.Commit()
}

// CreateIndex registers a vector index. The flat index needs no physical
// structure in SQLite; search is always an exact scan.
func (c *SQLiteClient) CreateIndex(ctx context.Context, collection string, params IndexParams) error {
	exists, err := c.HasCollection(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCollectionNotFound
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO collection_indexes (collection, index_name, field, index_type, metric)
		VALUES (?, ?, ?, ?, ?)`,
		collection, params.Name, params.Field, params.Type, params.Metric)
	if err != nil {
		return fmt.Errorf("register index: %w", err)
	}
	return nil
}

// DescribeIndex returns the named index registration or ErrIndexNotFound.
func (c *SQLiteClient) DescribeIndex(ctx context.Context, collection, indexName string) (IndexInfo, error) {
	var info IndexInfo
	err := c.db.QueryRowContext(ctx, `
		SELECT index_name, field, index_type, metric
		FROM collection_indexes WHERE collection = ? AND index_name = ?`,
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
func (c *SQLiteClient) Insert(ctx context.Context, collection string, records []Record) (int, error) {
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

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (document_id, title, content, embedding) VALUES (?, ?, ?, ?)`,
		recordsTable(collection)))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.DocumentID, r.Title, r.Content, encodeVector(r.Embedding)); err != nil {
			return 0, fmt.Errorf("insert record: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

// Search scans every record in the collection, computes the L2 distance to
// the query vector, and returns the closest rows in ascending order.
func (c *SQLiteClient) Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error) {
	dim, err := c.dimensionOf(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(vector) != dim {
		return nil, ErrDimensionMismatch
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, document_id, title, content, embedding FROM %s`,
		recordsTable(collection)))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var blob []byte
		if err := rows.Scan(&h.ID, &h.DocumentID, &h.Title, &h.Content, &blob); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		emb, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		h.Distance, err = l2Distance(vector, emb)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close closes the database.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

var _ Client = (*SQLiteClient)(nil)
