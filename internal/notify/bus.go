// Package notify is a process-wide single-slot queue of transient
// user-facing status messages. Publishers and the display surface share
// nothing but the bus handle.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// Notification is one transient status message.
type Notification struct {
	Kind    Kind
	Message string
}

// DefaultExpiry is how long a notification stays visible before it dismisses
// itself.
const DefaultExpiry = 5 * time.Second

// Bus holds at most one active notification. Publishing replaces the slot
// and re-arms the auto-expiry; a superseded expiry never clears a newer
// notification. All delivery is synchronous, in registration order.
type Bus struct {
	mu      sync.Mutex
	current *Notification
	timer   *time.Timer
	// gen identifies which publish armed the pending timer. A timer that
	// fires with a stale gen does nothing.
	gen    uint64
	expiry time.Duration

	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	fn func(*Notification)
}

// Option configures a Bus.
type Option func(*Bus)

// WithExpiry overrides the auto-expiry duration. Used by tests.
func WithExpiry(d time.Duration) Option {
	return func(b *Bus) { b.expiry = d }
}

// NewBus creates an idle Bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{expiry: DefaultExpiry}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish replaces the active notification, notifies subscribers, and arms
// a fresh auto-expiry. Any pending expiry from an earlier publish is
// canceled first.
func (b *Bus) Publish(kind Kind, message string) {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	gen := b.gen
	n := &Notification{Kind: kind, Message: message}
	b.current = n
	entries := b.snapshotListeners()
	b.timer = time.AfterFunc(b.expiry, func() { b.expire(gen) })
	b.mu.Unlock()

	for _, e := range entries {
		e.fn(n)
	}
}

// Dismiss clears the active notification and notifies subscribers with nil.
// Dismissing an idle bus is a no-op.
func (b *Bus) Dismiss() {
	b.mu.Lock()
	if b.current == nil {
		b.mu.Unlock()
		return
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.current = nil
	entries := b.snapshotListeners()
	b.mu.Unlock()

	for _, e := range entries {
		e.fn(nil)
	}
}

// expire is the timer callback. It only dismisses if no newer publish or
// dismiss has happened since the timer was armed.
func (b *Bus) expire(gen uint64) {
	b.mu.Lock()
	if b.gen != gen || b.current == nil {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.current = nil
	entries := b.snapshotListeners()
	b.mu.Unlock()

	for _, e := range entries {
		e.fn(nil)
	}
}

// Current returns the active notification, or nil when idle. Subscribers do
// not get a replay on registration; this is the initial-state query.
func (b *Bus) Current() *Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Subscribe registers fn for every publish and dismiss from now on. The
// returned function removes the listener.
func (b *Bus) Subscribe(fn func(*Notification)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.listeners = append(b.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.listeners {
			if e.id == id {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) snapshotListeners() []listenerEntry {
	entries := make([]listenerEntry, len(b.listeners))
	copy(entries, b.listeners)
	return entries
}
