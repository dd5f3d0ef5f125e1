package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
	lastUsed time.Time
}

func (m *memoryItem) expired(now time.Time) bool {
	return now.After(m.expireAt)
}

// MemoryStore is an in-process Store with TTL expiry and least-recently-used eviction.
type MemoryStore struct {
	mu         sync.Mutex
	data       map[string]*memoryItem
	maxEntries int
	defaultTTL time.Duration
	stop       chan struct{}
	closeOnce  sync.Once
	now        func() time.Time
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{
		MaxEntries:      1000,
		DefaultTTL:      6 * time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ms := &MemoryStore{
		data:       make(map[string]*memoryItem),
		maxEntries: cfg.MaxEntries,
		defaultTTL: cfg.DefaultTTL,
		stop:       make(chan struct{}),
		now:        time.Now,
	}
	if cfg.CleanupInterval > 0 {
		go ms.sweep(cfg.CleanupInterval)
	}
	return ms
}

func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	item, ok := ms.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if item.expired(now) {
		delete(ms.data, key)
		return nil, ErrCacheMiss
	}
	item.lastUsed = now
	return item.value, nil
}

func (ms *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ttl <= 0 {
		ttl = ms.defaultTTL
	}
	if _, exists := ms.data[key]; !exists && ms.maxEntries > 0 && len(ms.data) >= ms.maxEntries {
		ms.evictLRU()
	}
	now := ms.now()
	ms.data[key] = &memoryItem{value: value, expireAt: now.Add(ttl), lastUsed: now}
	return nil
}

func (ms *MemoryStore) Delete(_ context.Context, keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, key := range keys {
		delete(ms.data, key)
	}
	return nil
}

// Len returns the number of stored keys, expired or not.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.data)
}

func (ms *MemoryStore) evictLRU() {
	var oldestKey string
	var oldest time.Time
	for key, item := range ms.data {
		if oldestKey == "" || item.lastUsed.Before(oldest) {
			oldestKey, oldest = key, item.lastUsed
		}
	}
	if oldestKey != "" {
		delete(ms.data, oldestKey)
	}
}

func (ms *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, item := range ms.data {
				if item.expired(now) {
					delete(ms.data, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}

// Close stops the sweeper.
func (ms *MemoryStore) Close() error {
	ms.closeOnce.Do(func() { close(ms.stop) })
	return nil
}
