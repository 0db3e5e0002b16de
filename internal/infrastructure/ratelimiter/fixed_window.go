package ratelimiter

import (
	"sync"
	"time"
)

// Limiter decides whether one more call from key fits its budget.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// FixedWindow counts calls per key in aligned windows of a fixed length.
type FixedWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*window

	cleanupTick *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

type window struct {
	count   int
	resetAt time.Time
}

type Option func(*FixedWindow)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(rl *FixedWindow) {
		rl.now = now
	}
}

func NewFixedWindow(limit int, period time.Duration, opts ...Option) *FixedWindow {
	rl := &FixedWindow{
		limit:       limit,
		window:      period,
		now:         time.Now,
		clients:     make(map[string]*window),
		cleanupTick: time.NewTicker(period),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.startCleanup()
	return rl
}

// Allow records a call for key. When the budget is spent it reports false
// together with the time left until the window resets.
func (rl *FixedWindow) Allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[key]
	if !ok || !now.Before(w.resetAt) {
		rl.clients[key] = &window{
			count:   1,
			resetAt: now.Truncate(rl.window).Add(rl.window),
		}
		return true, 0
	}

	if w.count >= rl.limit {
		return false, w.resetAt.Sub(now)
	}

	w.count++
	return true, 0
}

// Len is the number of keys currently tracked.
func (rl *FixedWindow) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *FixedWindow) startCleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindow) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.clients {
		if !now.Before(w.resetAt) {
			delete(rl.clients, key)
		}
	}
}

func (rl *FixedWindow) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
		rl.cleanupTick.Stop()
	})
}
