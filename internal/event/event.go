// Package event defines the payloads dispatched to subscribers.
package event

// Type names a state transition.
type Type string

const (
	TypeArmed         Type = "armed"
	TypeDisarmed      Type = "disarmed"
	TypeOnline        Type = "online"
	TypeOffline       Type = "offline"
	TypeServerRestart Type = "server_restart"
)

// Event is the JSON body delivered to subscribers. Only armed carries text.
type Event struct {
	Type Type   `json:"event"`
	Text string `json:"text,omitempty"`
}

// Armed is emitted when text is set on the display through the API.
func Armed(text string) Event { return Event{Type: TypeArmed, Text: text} }

// Disarmed is emitted when the alarm stops blinking.
func Disarmed() Event { return Event{Type: TypeDisarmed} }

// Online is emitted when the device becomes reachable.
func Online() Event { return Event{Type: TypeOnline} }

// Offline is emitted when a poll fails.
func Offline() Event { return Event{Type: TypeOffline} }

// ServerRestart is emitted once at process start.
func ServerRestart() Event { return Event{Type: TypeServerRestart} }
