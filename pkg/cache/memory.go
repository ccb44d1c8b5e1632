// Package cache provides the two in-process caches the listing pipeline runs
// on: a TTL key-value store for cross-request memoization and a revalidating
// wrapper around fetch functions with tag-based bulk invalidation.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

type memoryEntry struct {
	value      interface{}
	insertedAt time.Time
	ttl        time.Duration
}

// Memory is an in-process TTL cache. Expiry is strict from insertion time:
// reads never extend an entry's life. Contents are lost on process restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Set stores value under key, unconditionally overwriting any existing entry.
// A non-positive ttl falls back to DefaultTTL.
func (m *Memory) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, insertedAt: m.now(), ttl: ttl}
	m.mu.Unlock()
}

// Get returns the value for key, or nil if absent or expired. Expired entries
// are deleted on read.
func (m *Memory) Get(key string) interface{} {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	if m.now().Sub(entry.insertedAt) > entry.ttl {
		m.mu.Lock()
		// Re-check under the write lock: the entry may have been overwritten
		// with a fresh value since the read.
		if current, ok := m.entries[key]; ok && current.insertedAt.Equal(entry.insertedAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil
	}

	return entry.value
}

// Delete removes key and reports whether an entry existed.
func (m *Memory) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	if ok {
		delete(m.entries, key)
	}
	return ok
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
}

// Cleanup evicts all expired entries. Intended to run on a fixed interval so
// memory does not grow unbounded between reads.
func (m *Memory) Cleanup() {
	now := m.now()
	m.mu.Lock()
	for key, entry := range m.entries {
		if now.Sub(entry.insertedAt) > entry.ttl {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}

// Len returns the number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
