// Package cache is a bounded in-memory store with idle expiry.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store holds at most capacity values. An entry not touched for ttl is
// treated as absent. The least recently used entry is evicted when full.
type Store[K comparable, V any] struct {
	mu    sync.Mutex
	lru   *lru.Cache[K, *item[V]]
	ttl   time.Duration
	now   func() time.Time
	onDel func(K, V)
}

type item[V any] struct {
	value    V
	lastUsed time.Time
}

type Option[K comparable, V any] func(*Store[K, V])

// WithClock replaces time.Now, mainly for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(s *Store[K, V]) { s.now = now }
}

// WithEvictHook is called for every entry that leaves the store other
// than through Delete.
func WithEvictHook[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(s *Store[K, V]) { s.onDel = fn }
}

func New[K comparable, V any](capacity int, ttl time.Duration, opts ...Option[K, V]) (*Store[K, V], error) {
	s := &Store[K, V]{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	c, err := lru.NewWithEvict[K, *item[V]](capacity, func(k K, it *item[V]) {
		if s.onDel != nil {
			s.onDel(k, it.value)
		}
	})
	if err != nil {
		return nil, err
	}
	s.lru = c
	return s, nil
}

func (s *Store[K, V]) expired(it *item[V], now time.Time) bool {
	return s.ttl > 0 && now.Sub(it.lastUsed) > s.ttl
}

// Put inserts or replaces the value for key.
func (s *Store[K, V]) Put(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Add(key, &item[V]{value: value, lastUsed: s.now()})
}

// Get returns the value and refreshes its idle timer.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	it, ok := s.lru.Get(key)
	if !ok {
		return zero, false
	}
	now := s.now()
	if s.expired(it, now) {
		s.lru.Remove(key)
		return zero, false
	}
	it.lastUsed = now
	return it.value, true
}

// Delete removes key without calling the evict hook.
func (s *Store[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	hook := s.onDel
	s.onDel = nil
	defer func() { s.onDel = hook }()
	return s.lru.Remove(key)
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store[K, V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for _, key := range s.lru.Keys() {
		it, ok := s.lru.Peek(key)
		if ok && s.expired(it, now) {
			s.lru.Remove(key)
			removed++
		}
	}
	return removed
}

func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lru.Len()
}
