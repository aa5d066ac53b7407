package verdant

// EventType identifies a choreography event.
type EventType uint8

const (
	EventPinEnter EventType = iota // a section became pinned
	EventPinLeave                  // a pinned section scrolled past either bound
	EventReveal                    // a fade-reveal element was revealed
)

// String returns a short lowercase name for the event type.
func (t EventType) String() string {
	switch t {
	case EventPinEnter:
		return "pin-enter"
	case EventPinLeave:
		return "pin-leave"
	case EventReveal:
		return "reveal"
	default:
		return "unknown"
	}
}

// ChoreoEvent is delivered to an EventSink when a section pins or unpins, or
// an element is revealed.
type ChoreoEvent struct {
	Type      EventType
	ElementID uint32
	Element   string
	State     PinState // section state after the transition (pin events only)
	Progress  float64
	Offset    float64
}

// EventSink receives choreography events. The ecs sub-module provides one
// backed by a Donburi world.
type EventSink interface {
	EmitEvent(event ChoreoEvent)
}
