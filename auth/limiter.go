package auth

import (
	"sync"
	"time"

	"github.com/parley-chat/parley/common"
)

type windowEntry struct {
	count uint32
	start time.Time
}

// FixedWindowLimiter admits up to limit hits per key within each fixed
// window. The first hit after a window elapses resets the key's window.
type FixedWindowLimiter struct {
	limit  uint32
	window time.Duration

	mu      sync.Mutex
	entries map[string]windowEntry
	now     func() time.Time
}

// NewFixedWindowLimiter returns a limiter allowing limit hits per window
func NewFixedWindowLimiter(limit uint32, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]windowEntry),
		now:     time.Now,
	}
}

// Allow records a hit for key, returning common.ErrRateLimited when the
// window's quota is already spent
func (l *FixedWindowLimiter) Allow(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	switch {
	case !ok || now.Sub(entry.start) >= l.window:
		l.entries[key] = windowEntry{count: 1, start: now}
	case entry.count < l.limit:
		entry.count++
		l.entries[key] = entry
	default:
		return common.ErrRateLimited
	}
	return nil
}
