package poller

import "boo-display-backend/internal/event"

// Tristate is a boolean that may not have been observed yet.
type Tristate int

const (
	Unknown Tristate = iota
	True
	False
)

// TristateOf converts an observed value.
func TristateOf(v bool) Tristate {
	if v {
		return True
	}
	return False
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Reading is the outcome of one poll of the alarm sensor.
type Reading struct {
	Value bool
	Err   error
}

// State is the last known device reachability and alarm value. Both start
// Unknown.
type State struct {
	Online   Tristate
	Blinking Tristate
}

// Observe applies r and returns the events caused by the transition.
//
// A failed reading marks the device offline once and leaves Blinking alone.
// A successful reading marks it online once, and emits disarmed only when the
// previous known value was blinking and the new one is not.
func (s *State) Observe(r Reading) []event.Event {
	var events []event.Event

	if r.Err != nil {
		if s.Online != False {
			s.Online = False
			events = append(events, event.Offline())
		}
		return events
	}

	if s.Online != True {
		s.Online = True
		events = append(events, event.Online())
	}
	if s.Blinking == True && !r.Value {
		events = append(events, event.Disarmed())
	}
	s.Blinking = TristateOf(r.Value)
	return events
}
