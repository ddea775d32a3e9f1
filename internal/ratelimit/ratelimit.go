package ratelimit

import (
	"sync"
	"time"
)

// Limiter - sliding window на ключ (IP для HTTP, chat id для телеграма)
type Limiter[K comparable] struct {
	mu       sync.Mutex
	requests map[K][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

type Config struct {
	RequestsPerMinute int
}

func New[K comparable](cfg Config) *Limiter[K] {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = 10
	}

	l := &Limiter[K]{
		requests: make(map[K][]time.Time),
		limit:    limit,
		window:   time.Minute,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *Limiter[K]) Allow(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.fresh(key, now)

	if len(fresh) >= l.limit {
		l.requests[key] = fresh
		return false
	}

	l.requests[key] = append(fresh, now)
	return true
}

func (l *Limiter[K]) RemainingRequests(key K) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	cnt := 0
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			cnt++
		}
	}

	if rem := l.limit - cnt; rem > 0 {
		return rem
	}
	return 0
}

// ResetTime - когда освободится ближайший слот (приблизительно)
func (l *Limiter[K]) ResetTime(key K) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.requests[key]
	if len(ts) == 0 {
		return l.now()
	}

	oldest := ts[0]
	for _, t := range ts[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}
	return oldest.Add(l.window)
}

func (l *Limiter[K]) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// fresh оставляет только запросы внутри окна. Вызывать под mu.
func (l *Limiter[K]) fresh(key K, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	old := l.requests[key]
	fresh := old[:0]
	for _, t := range old {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

func (l *Limiter[K]) cleanup() {
	tick := time.NewTicker(5 * time.Minute)
	defer tick.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-tick.C:
			l.removeStale()
		}
	}
}

func (l *Limiter[K]) removeStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key := range l.requests {
		fresh := l.fresh(key, now)
		if len(fresh) == 0 {
			delete(l.requests, key)
		} else {
			l.requests[key] = fresh
		}
	}
}
