package evergreen

import "time"

// EventSink is the interface for optional event integration. When set on a
// Scene, drive transitions are forwarded to it from the frame goroutine.
type EventSink interface {
	EmitEvent(event DriveEvent)
}

// EventType identifies a drive transition.
type EventType uint8

const (
	EventModeChanged EventType = iota // display mode switched
	EventHandFound                    // a hand appeared after absence
	EventHandLost                     // the hand disappeared
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventModeChanged:
		return "mode-changed"
	case EventHandFound:
		return "hand-found"
	case EventHandLost:
		return "hand-lost"
	default:
		return "unknown"
	}
}

// DriveEvent carries a drive transition for the event sink.
type DriveEvent struct {
	Type EventType
	// From and To are the modes before and after the update.
	From, To Mode
	// Drive is the state after the update.
	Drive DriveState
	// Elapsed is the scene time at which the transition happened.
	Elapsed time.Duration
}

// driveEvents compares two consecutive drive states and returns the
// transitions between them.
func driveEvents(prev, next DriveState, elapsed time.Duration) []DriveEvent {
	var out []DriveEvent
	if prev.Detected != next.Detected {
		typ := EventHandFound
		if !next.Detected {
			typ = EventHandLost
		}
		out = append(out, DriveEvent{Type: typ, From: prev.Mode, To: next.Mode, Drive: next, Elapsed: elapsed})
	}
	if prev.Mode != next.Mode {
		out = append(out, DriveEvent{Type: EventModeChanged, From: prev.Mode, To: next.Mode, Drive: next, Elapsed: elapsed})
	}
	return out
}
