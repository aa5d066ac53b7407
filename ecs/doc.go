// Package ecs forwards verdant choreography events into a [Donburi] world.
//
// [NewDonburiSink] publishes every pin-enter, pin-leave and reveal event as a
// typed Donburi event. Subscribe to [ChoreoEventType] in your systems:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.Choreographer().SetEventSink(sink)
//
//	ecs.ChoreoEventType.Subscribe(world, func(w donburi.World, e verdant.ChoreoEvent) {
//		// react to e.Type, e.Element, e.Progress
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
