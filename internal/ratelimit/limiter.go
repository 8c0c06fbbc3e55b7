// Package ratelimit enforces the externally reported Helix request
// bucket. Requests reserve a slot before dispatch; when the bucket is
// exhausted they queue and are drained in FIFO order once the reset
// time elapses. Bucket state is overwritten from response headers
// after every dispatch, which corrects the optimistic local decrement
// for capacity consumed by other processes sharing the same quota.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/fivetwenty-io/twitch-client/internal/constants"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// Bucket is a snapshot of the rate limit state.
type Bucket struct {
	// Remaining is the number of requests left in the current window.
	Remaining int
	// Limit is the total bucket capacity.
	Limit int
	// ResetAt is when the bucket refills. Zero when unknown.
	ResetAt time.Time
}

type waiter struct {
	ready chan struct{}
}

// Limiter serializes bucket accounting for the Helix endpoint group.
// Check-and-decrement is atomic under one mutex so two in-flight
// dispatches can never both consume a single remaining slot.
type Limiter struct {
	mu      sync.Mutex
	bucket  Bucket
	known   bool
	waiters []*waiter
	timer   *time.Timer
}

// New creates a limiter in the unknown state. Until the first header
// refresh arrives, requests dispatch without queuing.
func New() *Limiter {
	return &Limiter{}
}

// Acquire reserves one bucket slot, blocking in FIFO order behind
// earlier callers when the bucket is exhausted. It returns the context
// error if ctx is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()

	if len(l.waiters) == 0 && l.hasCapacityLocked() {
		l.reserveLocked()
		l.mu.Unlock()

		return nil
	}

	w := &waiter{ready: make(chan struct{})}
	l.waiters = append(l.waiters, w)
	l.scheduleDrainLocked()
	l.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		select {
		case <-w.ready:
			// Slot was reserved between cancellation and locking;
			// keep it and let the transport observe the dead context.
			l.mu.Unlock()

			return nil
		default:
		}

		for i, queued := range l.waiters {
			if queued == w {
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)

				break
			}
		}
		l.mu.Unlock()

		return ctx.Err()
	}
}

// UpdateFromHeaders overwrites the bucket state with the values the
// response reports. The reported values are the source of truth and
// replace the optimistic local decrement. Missing headers are an
// error: every Helix response is required to carry them.
func (l *Limiter) UpdateFromHeaders(h http.Header) error {
	remainingStr := h.Get(constants.HeaderRateLimitRemaining)
	limitStr := h.Get(constants.HeaderRateLimitLimit)
	resetStr := h.Get(constants.HeaderRateLimitReset)

	if remainingStr == "" || limitStr == "" || resetStr == "" {
		return twitch.ErrMissingRateLimitHeaders
	}

	remaining, err := strconv.Atoi(remainingStr)
	if err != nil {
		return twitch.ErrMissingRateLimitHeaders
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return twitch.ErrMissingRateLimitHeaders
	}

	resetUnix, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return twitch.ErrMissingRateLimitHeaders
	}

	l.Update(remaining, limit, time.Unix(resetUnix, 0))

	return nil
}

// Update overwrites the bucket state and drains any waiters the new
// capacity allows.
func (l *Limiter) Update(remaining, limit int, resetAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.bucket = Bucket{Remaining: remaining, Limit: limit, ResetAt: resetAt}
	l.known = true

	l.drainLocked()
	l.scheduleDrainLocked()
}

// Snapshot returns a copy of the current bucket state.
func (l *Limiter) Snapshot() Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.bucket
}

// hasCapacityLocked reports whether a slot is available, restoring the
// bucket when the reset time has elapsed. Caller holds the lock.
func (l *Limiter) hasCapacityLocked() bool {
	if !l.known {
		return true
	}

	if l.bucket.Remaining > 0 {
		return true
	}

	if !l.bucket.ResetAt.IsZero() && !time.Now().Before(l.bucket.ResetAt) {
		// The window rolled over. Restore capacity optimistically; the
		// next response headers overwrite this with the true values.
		l.bucket.Remaining = l.bucket.Limit
		l.bucket.ResetAt = time.Time{}

		return l.bucket.Remaining > 0
	}

	return false
}

// reserveLocked consumes one slot. Caller holds the lock and has
// verified capacity.
func (l *Limiter) reserveLocked() {
	if l.known && l.bucket.Remaining > 0 {
		l.bucket.Remaining--
	}
}

// drainLocked pops queued waiters in arrival order while capacity
// lasts, re-checking after each pop. Caller holds the lock.
func (l *Limiter) drainLocked() {
	for len(l.waiters) > 0 && l.hasCapacityLocked() {
		w := l.waiters[0]
		l.waiters = l.waiters[1:]
		l.reserveLocked()
		close(w.ready)
	}
}

// scheduleDrainLocked arms a timer for the bucket reset so queued
// waiters are drained once the window rolls over. Caller holds the
// lock.
func (l *Limiter) scheduleDrainLocked() {
	if len(l.waiters) == 0 || l.bucket.ResetAt.IsZero() {
		return
	}

	delay := time.Until(l.bucket.ResetAt)
	if delay < 0 {
		delay = 0
	}

	if l.timer != nil {
		l.timer.Stop()
	}

	l.timer = time.AfterFunc(delay, func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		l.timer = nil
		l.drainLocked()
		l.scheduleDrainLocked()
	})
}
