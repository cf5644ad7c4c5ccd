package ai

import (
	"sync"
	"time"
)

const (
	minuteWindow = time.Minute
	dayWindow    = 24 * time.Hour
)

// requestTracker enforces per-minute and per-day request quotas for one
// client instance. The per-minute quota is a sliding window of timestamps;
// the daily quota is a counter reset every 24h from lastReset.
type requestTracker struct {
	mu            sync.Mutex
	requests      []time.Time
	dailyRequests int
	lastReset     time.Time
	rpm           int
	rpd           int
	now           func() time.Time
}

func newRequestTracker(rpm, rpd int, now func() time.Time) *requestTracker {
	if now == nil {
		now = time.Now
	}
	return &requestTracker{
		rpm:       rpm,
		rpd:       rpd,
		lastReset: now(),
		now:       now,
	}
}

// admit reports whether a request may be issued right now. When it may not,
// it returns the duration after which the next admission check could pass.
func (t *requestTracker) admit() (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	if now.Sub(t.lastReset) >= dayWindow {
		t.dailyRequests = 0
		t.lastReset = now
	}
	if t.dailyRequests >= t.rpd {
		return false, t.lastReset.Add(dayWindow).Sub(now)
	}

	t.prune(now)
	if len(t.requests) >= t.rpm {
		return false, t.requests[0].Add(minuteWindow).Sub(now)
	}

	return true, 0
}

// record counts an admitted request against both quotas.
func (t *requestTracker) record() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)
	t.requests = append(t.requests, now)
	t.dailyRequests++
}

// prune drops sliding-window entries older than one minute. Callers hold t.mu.
func (t *requestTracker) prune(now time.Time) {
	cutoff := now.Add(-minuteWindow)
	i := 0
	for i < len(t.requests) && !t.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		t.requests = append(t.requests[:0], t.requests[i:]...)
	}
}
