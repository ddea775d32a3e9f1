package session

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store - сессии в памяти с TTL (chat id -> identity). Результаты пайплайна сюда не кладем.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	stopped bool
}

func New[K comparable, V any](ttl time.Duration) *Store[K, V] {
	return NewWithContext[K, V](context.Background(), ttl)
}

func NewWithContext[K comparable, V any](ctx context.Context, ttl time.Duration) *Store[K, V] {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &Store[K, V]{
		items: make(map[K]entry[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go s.cleanup(ctx)
	return s
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[key]
	if !ok || s.now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set кладет значение, TTL отсчитывается заново
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.items[key] = entry[V]{value: value, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[K, V]) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stop)
	}
	s.mu.Unlock()
}

// cleanup чистит просроченные записи раз в 5 минут
func (s *Store[K, V]) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *Store[K, V]) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, it := range s.items {
		if now.After(it.expiresAt) {
			delete(s.items, k)
		}
	}
}
