package service

import (
	"context"
	"time"
)

// KVStore is the key-value store holding session records and cached trainer
// ids. Get returns errors.ErrCacheMiss for absent or expired keys.
type KVStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func sessionKey(sessionID, part string) string {
	return "session:" + sessionID + ":" + part
}

const (
	sessionUserPart      = "user"
	sessionTokenPart     = "token"
	sessionTrainerIDPart = "trainer_id"
)
