package repository

import (
	"context"
	"sync"
	"time"

	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"

	"github.com/google/uuid"
)

// memoryStore 进程内缓存，未配置 Postgres 时使用
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]model.CachedResponse
}

// NewMemoryStore 创建进程内响应缓存
func NewMemoryStore() interfaces.ResponseStore {
	return &memoryStore{entries: make(map[string]model.CachedResponse)}
}

func (m *memoryStore) Get(_ context.Context, url string) (*model.CachedResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[url]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *memoryStore) Save(_ context.Context, entry *model.CachedResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.entries[entry.URL]; ok {
		entry.ID, entry.EntryUUID, entry.CreatedAt = prev.ID, prev.EntryUUID, prev.CreatedAt
	} else {
		entry.ID = uint64(len(m.entries) + 1)
		if entry.EntryUUID == "" {
			entry.EntryUUID = uuid.NewString()
		}
		entry.CreatedAt = time.Now()
	}
	entry.UpdatedAt = time.Now()
	m.entries[entry.URL] = *entry
	return nil
}

func (m *memoryStore) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for url, entry := range m.entries {
		if entry.ExpiresAt.Before(before) {
			delete(m.entries, url)
			n++
		}
	}
	return n, nil
}
