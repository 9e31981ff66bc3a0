package ratelimit

import (
	"sync"
	"time"

	"github.com/qr-forever/resolver/timestamp"
)

const Window = 60 * time.Second

type counter struct {
	windowStart time.Time
	count       int
}

//Limiter is a fixed-window request counter keyed by client identifier.
//Counters are process-local and created lazily; stale identifiers are
//not evicted.
type Limiter struct {
	mutex    *sync.Mutex
	counters map[string]*counter

	now func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		mutex:    &sync.Mutex{},
		counters: map[string]*counter{},
		now:      timestamp.Now,
	}
}

//IsLimited reports whether the identifier exceeded maxPerWindow in the
//current 60 second window. A blocked request is not itself counted.
func (l *Limiter) IsLimited(identifier string, maxPerWindow int) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	current, ok := l.counters[identifier]
	if !ok || now.Sub(current.windowStart) >= Window {
		l.counters[identifier] = &counter{windowStart: now, count: 1}
		return false
	}

	if current.count >= maxPerWindow {
		return true
	}

	current.count++
	return false
}
