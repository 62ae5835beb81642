// internal/storage/memory.go
package storage

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	values    map[string]string
	touchedAt time.Time
}

// MemoryStore keeps visitor state in process. Idle visitors expire after ttl.
type MemoryStore struct {
	mu       sync.RWMutex
	visitors map[string]*memoryItem
	ttl      time.Duration
	stop     chan struct{}
	once     sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		visitors: make(map[string]*memoryItem),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.cleanupExpired()
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, visitorID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, found := s.visitors[visitorID]
	if !found || s.expired(item) {
		return "", false, nil
	}

	value, found := item.values[key]
	return value, found, nil
}

func (s *MemoryStore) Set(_ context.Context, visitorID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, found := s.visitors[visitorID]
	if !found || s.expired(item) {
		item = &memoryItem{values: make(map[string]string)}
		s.visitors[visitorID] = item
	}
	item.values[key] = value
	item.touchedAt = time.Now()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, visitorID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, found := s.visitors[visitorID]
	if !found {
		return nil
	}
	for _, key := range keys {
		delete(item.values, key)
	}
	if len(item.values) == 0 {
		delete(s.visitors, visitorID)
	}
	return nil
}

func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visitors)
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) expired(item *memoryItem) bool {
	return s.ttl > 0 && time.Since(item.touchedAt) > s.ttl
}

func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			for visitorID, item := range s.visitors {
				if s.expired(item) {
					delete(s.visitors, visitorID)
				}
			}
			s.mu.Unlock()
		}
	}
}
