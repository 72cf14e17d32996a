package kv

import (
	"context"
	"sync"
	"time"

	"toystore/internal/domain"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means never
}

type memoryStore struct {
	mu        sync.Mutex
	docs      map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemory returns a process-local Store whose documents never expire. It
// backs tests and the persistent scope in single-process runs.
func NewMemory() Store {
	return newMemory(0, time.Now)
}

// NewMemoryWithTTL returns a process-local session Store. Like the Redis store,
// every Get or Set pushes a key's expiry ttl into the future; idle keys are
// dropped.
func NewMemoryWithTTL(ttl time.Duration) Store {
	return newMemory(ttl, time.Now)
}

func newMemory(ttl time.Duration, now func() time.Time) *memoryStore {
	return &memoryStore{docs: make(map[string]memoryEntry), ttl: ttl, now: now, lastSweep: now()}
}

func (s *memoryStore) expiry(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

func expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// sweep drops expired keys at most once per ttl. Callers hold mu.
func (s *memoryStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for k, e := range s.docs {
		if expired(e, now) {
			delete(s.docs, k)
		}
	}
	s.lastSweep = now
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.docs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if expired(e, now) {
		delete(s.docs, key)
		return nil, domain.ErrNotFound
	}
	e.expiresAt = s.expiry(now)
	s.docs[key] = e

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.docs[key] = memoryEntry{value: v, expiresAt: s.expiry(now)}
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

// Len reports how many keys are held, expired or not.
func (s *memoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
