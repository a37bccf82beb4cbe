package risk

import (
	"sync"
	"time"
)

// alertThrottle suppresses repeat notifications for the same alert key
// within a time-to-live window. The breach itself is still logged every
// cycle; only the outbound notification is rate limited.
type alertThrottle struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func newAlertThrottle(ttl time.Duration) *alertThrottle {
	return &alertThrottle{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

// allow reports whether a notification for key may be sent now, and records
// the send time when it may.
func (t *alertThrottle) allow(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.seen[key]; ok && now.Sub(last) < t.ttl {
		return false
	}
	t.seen[key] = now
	return true
}
