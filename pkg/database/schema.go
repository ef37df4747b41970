package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_entries (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	expires_at BIGINT NOT NULL
)`

// EnsureKVSchema creates the key-value table used by the SQL session store.
// The statement is valid for both PostgreSQL and SQLite.
func EnsureKVSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("create kv_entries: %w", err)
	}
	return nil
}
