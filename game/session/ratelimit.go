package session

import "time"

// rateWindow is the fixed rate-limit window length.
const rateWindow = 60 * time.Second

// RateBucket is a fixed-window counter: capacity calls per window, refilled
// when the window rolls over. Not safe for concurrent use; callers hold the
// session lock.
type RateBucket struct {
	capacity    int
	remaining   int
	windowStart time.Time
}

// NewRateBucket returns a full bucket.
func NewRateBucket(capacity int, now time.Time) *RateBucket {
	return &RateBucket{capacity: capacity, remaining: capacity, windowStart: now}
}

// Allow consumes one call. When the current window has elapsed the bucket
// refills first; a rejection changes nothing.
func (b *RateBucket) Allow(now time.Time) bool {
	if now.Sub(b.windowStart) >= rateWindow {
		b.windowStart = now
		b.remaining = b.capacity
	}
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining reports the calls left in the current window.
func (b *RateBucket) Remaining() int {
	return b.remaining
}
