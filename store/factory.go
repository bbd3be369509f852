package store

import (
	"log"
	"strings"
)

// Open selects a backend from the DSN. Postgres URLs route to pgvector,
// ":memory:" to the in-memory client, and anything else is treated as a
// SQLite file path. An empty DSN falls back to the default SQLite file.
func Open(dsn string) (Client, error) {
	switch {
	case dsn == ":memory:":
		log.Printf("[store] using in-memory backend")
		return NewMemoryClient(), nil
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		log.Printf("[store] using pgvector backend")
		return NewPgClient(dsn)
	case dsn == "":
		log.Printf("[store] no DSN configured, using default sqlite file")
		return NewSQLiteClient("")
	default:
		log.Printf("[store] using sqlite backend at %s", dsn)
		return NewSQLiteClient(dsn)
	}
}
