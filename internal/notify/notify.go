// Package notify is the storefront's toast surface: at most one transient
// notification is visible at a time, a new one replaces the current one
// immediately, and whatever is showing dismisses itself after a fixed
// duration unless the user dismisses it first. Callers never wait on it.
package notify

import (
	"sync"
	"time"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

const defaultTTL = 3 * time.Second

type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

type Center struct {
	mu  sync.Mutex
	cur *Notification
	seq uint64
	ttl time.Duration
}

func NewCenter() *Center {
	return NewCenterTTL(defaultTTL)
}

// NewCenterTTL exists so tests can shrink the auto-dismiss window.
func NewCenterTTL(ttl time.Duration) *Center {
	return &Center{ttl: ttl}
}

// Notify replaces the visible notification and arms its auto-dismiss.
func (c *Center) Notify(message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	seq := c.seq
	c.cur = &Notification{Message: message, Severity: severity, At: time.Now()}

	time.AfterFunc(c.ttl, func() {
		c.dismissSeq(seq)
	})
}

// Dismiss clears the visible notification ahead of its auto-dismiss.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = nil
}

// dismissSeq only clears the notification it was armed for, so a stale timer
// never hides a newer toast.
func (c *Center) dismissSeq(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == seq {
		c.cur = nil
	}
}

// Current returns the visible notification, if any.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur == nil {
		return Notification{}, false
	}
	return *c.cur, true
}
