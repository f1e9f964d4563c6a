package image

import (
	"sync"
	"time"
)

// throttle is a sliding-window rate limiter shared by the search clients.
// wait blocks until another request fits inside the window.
type throttle struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	sent   []time.Time
}

func newThrottle(limit int, window time.Duration) *throttle {
	return &throttle{
		limit:  limit,
		window: window,
		sent:   make([]time.Time, 0, limit),
	}
}

func (t *throttle) wait() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-t.window)

	keep := t.sent[:0]
	for _, ts := range t.sent {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	t.sent = keep

	if len(t.sent) >= t.limit {
		pause := t.sent[0].Add(t.window).Sub(now)
		if pause > 0 {
			time.Sleep(pause)
		}
	}

	t.sent = append(t.sent, time.Now())
}
