package service

import (
	"context"
	"encoding/json"
	"time"

	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type memoryStore struct {
	data    map[string][]byte
	gets    []string
	sets    []string
	deletes []string
	getErr  error
	setErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets = append(m.gets, key)
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets = append(m.sets, key)
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		m.deletes = append(m.deletes, key)
		delete(m.data, key)
	}
	return nil
}

func (m *memoryStore) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	return nil
}

func int64Ptr(v int64) *int64 {
	return &v
}
