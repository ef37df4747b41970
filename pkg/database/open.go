// Package database opens the SQL handles backing the session key-value store.
package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/grindsup/trainer-gateway/pkg/config"
)

const (
	defaultSQLitePath = "grindsup-sessions.db"
	pingTimeout       = 5 * time.Second
)

// Open connects the SQL store selected by cfg.Session.Store and verifies it answers.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Session.Store {
	case config.SessionStoreSQLite:
		db, err = sqlx.Open("sqlite", sqliteDSN(cfg.Session.SQLitePath))
		if err == nil {
			// single writer
			db.SetMaxOpenConns(1)
		}
	case config.SessionStorePostgres:
		db, err = sqlx.Open("postgres", postgresDSN(cfg.Database))
		if err == nil {
			tunePool(db, cfg.Database)
		}
	default:
		return nil, fmt.Errorf("store %q is not SQL backed", cfg.Session.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Session.Store, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Session.Store, err)
	}
	return db, nil
}

func postgresDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	q.Set("application_name", "grindsup-gateway")
	u.RawQuery = q.Encode()
	return u.String()
}

func sqliteDSN(path string) string {
	if path == "" {
		path = defaultSQLitePath
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

func tunePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)
}
