// Package ratelimit implements a sliding-window admission gate: at most
// maxCalls within the trailing window. A caller that would exceed the limit
// blocks until the oldest recorded call leaves the window; requests are
// never dropped.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter. The window state is shared by
// all goroutines using one instance and guarded by an internal mutex;
// independently constructed limiters never share state.
type Limiter struct {
	maxCalls int
	window   time.Duration

	mu    sync.Mutex
	calls []time.Time

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a limiter admitting maxCalls per window. maxCalls ≤ 0
// disables limiting.
func New(maxCalls int, window time.Duration) *Limiter {
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
	}
}

// Wait blocks until the window admits one more call or ctx is done. On
// success the call is recorded in the window.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.maxCalls <= 0 {
		return nil
	}

	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.calls) < l.maxCalls {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}

		// Window is full: sleep until the oldest call expires, then
		// re-check. Another goroutine may have claimed the freed slot in
		// the meantime, hence the loop.
		wait := l.window - now.Sub(l.calls[0])
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Pending returns the number of calls currently inside the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls)
}

// prune drops calls that left the window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cut := 0
	for cut < len(l.calls) && now.Sub(l.calls[cut]) >= l.window {
		cut++
	}
	if cut > 0 {
		l.calls = append(l.calls[:0], l.calls[cut:]...)
	}
}
