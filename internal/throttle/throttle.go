// Package throttle rate-limits replies per rule so a popular pattern does not
// flood the channel.
package throttle

import (
	"sync"
	"time"
)

// Throttle suppresses repeated replies for the same rule within a fixed
// window. The first allowed reply records the rule's timestamp; later checks
// inside the window are suppressed. Privileged senders always pass and never
// update the timestamp.
type Throttle struct {
	mu        sync.Mutex
	window    time.Duration
	lastFired map[int64]time.Time
	now       func() time.Time
}

// New creates a Throttle with the given suppression window.
func New(window time.Duration) *Throttle {
	return &Throttle{
		window:    window,
		lastFired: make(map[int64]time.Time),
		now:       time.Now,
	}
}

// ShouldSuppress reports whether a reply for the rule should be dropped. When
// it returns false for an unprivileged sender, the rule's last-fired time is
// updated, so the caller must only ask when it intends to reply.
func (t *Throttle) ShouldSuppress(ruleID int64, privileged bool) bool {
	if privileged {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.lastFired[ruleID]; ok && now.Sub(last) < t.window {
		return true
	}

	t.lastFired[ruleID] = now
	return false
}
