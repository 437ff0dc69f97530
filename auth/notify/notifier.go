package notify

import "sync"

// ReasonExpired marks a forced logout triggered by expiry detection.
const ReasonExpired = "expired"

// Event is a one-way notification that a forced logout occurred.
type Event struct {
	Reason string
}

// Notifier decouples "a forced logout happened" from whatever surface
// renders it. The auth manager raises it; the acknowledgement comes from
// the operator closing the dialog, which is the point at which the UI is
// guaranteed consistent with the logged-out state.
type Notifier struct {
	lock       sync.Mutex
	dialogOpen bool
	reason     string
	events     chan Event
}

func New() *Notifier {
	return &Notifier{events: make(chan Event, 1)}
}

// Raise opens the dialog with the given reason and publishes an event.
// Raising while the dialog is already open keeps the first reason.
func (n *Notifier) Raise(reason string) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if n.dialogOpen {
		return
	}
	n.dialogOpen = true
	n.reason = reason

	select {
	case n.events <- Event{Reason: reason}:
	default: // an unconsumed pending event is enough
	}
}

// Acknowledge closes the dialog and clears the reason. Idempotent.
func (n *Notifier) Acknowledge() {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.dialogOpen = false
	n.reason = ""
}

func (n *Notifier) DialogOpen() bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.dialogOpen
}

func (n *Notifier) Reason() string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.reason
}

// Events returns the notification channel. The channel is buffered with a
// single slot; the manager never blocks on a slow consumer.
func (n *Notifier) Events() <-chan Event {
	return n.events
}
