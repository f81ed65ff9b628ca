package engine

import (
	"sync"
	"time"
)

// CooldownLimiter gates submission frequency per (community, pseudonym).
// State is process-local; a restart resetting everyone's cooldown is
// acceptable.
type CooldownLimiter struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewCooldownLimiter creates an empty cooldown limiter.
func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{last: make(map[string]time.Time)}
}

// TryConsume reports whether a submission is allowed at now. A zero cooldown
// always allows and records nothing. On success the timestamp is recorded;
// on failure the remaining wait is returned.
func (l *CooldownLimiter) TryConsume(pseudonym, communityID string, now time.Time, cooldown time.Duration) (time.Duration, bool) {
	if cooldown <= 0 {
		return 0, true
	}

	key := communityID + "/" + pseudonym
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.last[key]; ok {
		if wait := cooldown - now.Sub(last); wait > 0 {
			return wait, false
		}
	}
	l.last[key] = now
	return 0, true
}
