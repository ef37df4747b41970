package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/pkg/config"
)

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	dsn := postgresDSN(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "gym", Password: "p@ss word", Name: "grindsup", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://gym:p%40ss%20word@db:5432/grindsup?application_name=grindsup-gateway&sslmode=disable", dsn)
}

func TestSQLiteDSNDefaultsPath(t *testing.T) {
	assert.Contains(t, sqliteDSN(""), "file:grindsup-sessions.db?")
}

func TestOpenRejectsRedisStore(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Session: config.SessionConfig{Store: config.SessionStoreRedis}})
	assert.Error(t, err)
}

func TestOpenSQLiteCreatesKVSchema(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{
		Store:      config.SessionStoreSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "kv.db"),
	}}
	db, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureKVSchema(context.Background(), db))
	require.NoError(t, EnsureKVSchema(context.Background(), db))
}
