package adapter

import (
	"context"
	"sync"
	"time"

	"go-parley/internal/infrastructure/cache/port"
)

// MemoryCache is an in-process port.Cache used as the test double and for
// single-node development runs. TTLs are honored lazily on read.
type MemoryCache struct {
	mu     sync.RWMutex
	kv     map[string]memoryValue
	lists  map[string][]string
	sets   map[string]map[string]struct{}
	closed bool
}

type memoryValue struct {
	value     string
	expiresAt time.Time // zero means no expiration
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		kv:    make(map[string]memoryValue),
		lists: make(map[string][]string),
		sets:  make(map[string]map[string]struct{}),
	}
}

var _ port.Cache = (*MemoryCache)(nil)

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	if !ok {
		return "", port.ErrMiss
	}
	if !v.expiresAt.IsZero() && time.Now().After(v.expiresAt) {
		delete(m.kv, key)
		return "", port.ErrMiss
	}
	return v.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := memoryValue{value: value}
	if ttl > 0 {
		v.expiresAt = time.Now().Add(ttl)
	}
	m.kv[key] = v
	return nil
}

func (m *MemoryCache) Del(_ context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := m.kv[key]; ok {
			delete(m.kv, key)
			removed++
			continue
		}
		if _, ok := m.lists[key]; ok {
			delete(m.lists, key)
			removed++
			continue
		}
		if _, ok := m.sets[key]; ok {
			delete(m.sets, key)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryCache) PushList(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *MemoryCache) ListRange(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.lists[key]
	out := make([]string, len(src))
	copy(out, src)
	return out, nil
}

func (m *MemoryCache) AddSet(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	if set == nil {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, member := range members {
		set[member] = struct{}{}
	}
	return nil
}

func (m *MemoryCache) RemoveSet(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	for _, member := range members {
		delete(set, member)
	}
	return nil
}

func (m *MemoryCache) SetMembers(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.sets[key]
	out := make([]string, 0, len(set))
	for member := range set {
		out = append(out, member)
	}
	return out, nil
}

func (m *MemoryCache) SetCard(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.sets[key])), nil
}

func (m *MemoryCache) Ping(context.Context) error { return nil }

func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// HasSet reports whether the backing set record still exists, as opposed to
// existing with zero members. Exposed for tests that assert set deletion.
func (m *MemoryCache) HasSet(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sets[key]
	return ok
}
