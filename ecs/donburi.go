package ecs

import (
	"github.com/phanxgames/verdant"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ChoreoEventType is the Donburi event type for choreography events.
var ChoreoEventType = events.NewEventType[verdant.ChoreoEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on ChoreoEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) verdant.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event verdant.ChoreoEvent) {
	ChoreoEventType.Publish(s.world, event)
}
