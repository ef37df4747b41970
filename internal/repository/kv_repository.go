package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

// QueryObserver receives SQL timing.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// KVRepository is the SQL key-value store used when sessions live in
// PostgreSQL or SQLite. expires_at holds unix milliseconds, 0 meaning never.
type KVRepository struct {
	db       *sqlx.DB
	observer QueryObserver
	now      func() time.Time
}

// NewKVRepository constructs a KVRepository. observer may be nil.
func NewKVRepository(db *sqlx.DB, observer QueryObserver) *KVRepository {
	return &KVRepository{db: db, observer: observer, now: time.Now}
}

func (r *KVRepository) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
}

// Get loads a live entry into dest.
func (r *KVRepository) Get(ctx context.Context, key string, dest interface{}) error {
	defer r.observe("kv_get", time.Now())

	query := r.db.Rebind("SELECT value FROM kv_entries WHERE key = ? AND (expires_at = 0 OR expires_at > ?)")
	var raw string
	if err := r.db.GetContext(ctx, &raw, query, key, r.now().UnixMilli()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("kv get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("unmarshal kv value for %s: %w", key, err)
	}
	return nil
}

// Set upserts an entry. A zero TTL never expires.
func (r *KVRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	defer r.observe("kv_set", time.Now())

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal kv value for %s: %w", key, err)
	}
	var expiresAt int64
	if ttl > 0 {
		expiresAt = r.now().Add(ttl).UnixMilli()
	}

	query := r.db.Rebind(`INSERT INTO kv_entries (key, value, expires_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`)
	if _, err := r.db.ExecContext(ctx, query, key, string(payload), expiresAt); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys.
func (r *KVRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	defer r.observe("kv_delete", time.Now())

	query, args, err := sqlx.In("DELETE FROM kv_entries WHERE key IN (?)", keys)
	if err != nil {
		return fmt.Errorf("build kv delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

// DeleteByPattern removes entries matching a glob pattern where * matches any
// run of characters.
func (r *KVRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	defer r.observe("kv_delete_pattern", time.Now())

	query := r.db.Rebind(`DELETE FROM kv_entries WHERE key LIKE ? ESCAPE '\'`)
	if _, err := r.db.ExecContext(ctx, query, globToLike(pattern)); err != nil {
		return fmt.Errorf("kv delete pattern %s: %w", pattern, err)
	}
	return nil
}

// PurgeExpired drops entries whose TTL elapsed and reports how many went.
func (r *KVRepository) PurgeExpired(ctx context.Context) (int64, error) {
	defer r.observe("kv_purge", time.Now())

	query := r.db.Rebind("DELETE FROM kv_entries WHERE expires_at > 0 AND expires_at <= ?")
	res, err := r.db.ExecContext(ctx, query, r.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("kv purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func globToLike(pattern string) string {
	return strings.ReplaceAll(likeEscaper.Replace(pattern), "*", "%")
}
