package controller

import (
	"sync"
	"time"

	"motion-tracker/utils"
)

// DefaultNotificationTTL is how long a message stays visible.
const DefaultNotificationTTL = 3 * time.Second

// Notifier holds the single transient user-facing message. A new message
// replaces the previous one and restarts the TTL.
type Notifier struct {
	mu      sync.Mutex
	clock   utils.Clock
	ttl     time.Duration
	msg     string
	expires time.Time
}

// NewNotifier uses the system clock when clock is nil.
func NewNotifier(ttl time.Duration, clock utils.Clock) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Notifier{clock: clock, ttl: ttl}
}

// Show replaces the current message. It is also logged.
func (n *Notifier) Show(msg string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.msg = msg
	n.expires = n.clock.Now().Add(n.ttl)
	n.mu.Unlock()
	utils.L().Info("notify: %s", msg)
}

// Current returns the visible message, or "" once it has expired.
func (n *Notifier) Current() string {
	if n == nil {
		return ""
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.msg == "" || !n.clock.Now().Before(n.expires) {
		return ""
	}
	return n.msg
}
