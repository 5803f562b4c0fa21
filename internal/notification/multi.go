package notification

import "boo-display-backend/internal/event"

// Multi forwards each event to every notifier in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ev event.Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ev)
		}
	}
}
