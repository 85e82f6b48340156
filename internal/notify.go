package internal

import (
	"sync"
	"time"
)

// NotificationKind classifies a transient status notification.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
	NotifyLoading NotificationKind = "loading"
)

// Notification is a transient status message. At most one is live at a time.
type Notification struct {
	Message string
	Kind    NotificationKind
}

// Notifier is a single-slot notification broadcaster. Publish replaces the
// current notification unconditionally (last publish wins, no queue, no
// merge); Clear empties the slot. Subscribers are invoked on every slot
// change.
//
// There is no reliance on auto-expiry for correctness: every initiator of a
// "loading" notification must clear it on all exit paths, which the scoped
// release returned by Loading guarantees.
type Notifier struct {
	mu          sync.Mutex
	current     *Notification
	subscribers []func(*Notification)
	expiry      *time.Timer
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn to be called with the new slot value (nil when
// cleared) on every change.
func (n *Notifier) Subscribe(fn func(*Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// Current returns the live notification, or nil when the slot is empty.
func (n *Notifier) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	copied := *n.current
	return &copied
}

// Publish replaces the current notification.
func (n *Notifier) Publish(notification Notification) {
	n.mu.Lock()
	n.stopExpiryLocked()
	n.current = &notification
	subs := n.subscribers
	copied := notification
	n.mu.Unlock()

	for _, fn := range subs {
		fn(&copied)
	}
}

// PublishFor publishes a notification that clears itself after ttl. The
// timer is cancelled if the slot is replaced or cleared first, so a delayed
// expiry never stomps a newer notification.
func (n *Notifier) PublishFor(notification Notification, ttl time.Duration) {
	n.Publish(notification)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.expiry = time.AfterFunc(ttl, func() {
		n.mu.Lock()
		// Replaced in the meantime; the newer publish already stopped this
		// timer, but guard against the race where it fired first.
		if n.current == nil || *n.current != notification {
			n.mu.Unlock()
			return
		}
		n.current = nil
		subs := n.subscribers
		n.mu.Unlock()

		for _, fn := range subs {
			fn(nil)
		}
	})
}

// Clear empties the slot.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.stopExpiryLocked()
	n.current = nil
	subs := n.subscribers
	n.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

// Loading publishes a loading notification and returns a release that clears
// it. Callers defer the release so the clear happens on every exit path:
// success, error, or early return. The release only clears its own
// notification, so an error published before the deferred release runs is
// not wiped.
func (n *Notifier) Loading(message string) func() {
	note := Notification{Message: message, Kind: NotifyLoading}
	n.Publish(note)

	return func() {
		n.mu.Lock()
		if n.current == nil || *n.current != note {
			n.mu.Unlock()
			return
		}
		n.stopExpiryLocked()
		n.current = nil
		subs := n.subscribers
		n.mu.Unlock()

		for _, fn := range subs {
			fn(nil)
		}
	}
}

func (n *Notifier) stopExpiryLocked() {
	if n.expiry != nil {
		n.expiry.Stop()
		n.expiry = nil
	}
}
