// Package ecs provides ECS adapters for evergreen's drive events.
//
// The primary adapter is [NewDonburiSink], which publishes drive transitions
// (hand found, hand lost, mode changed) into a [Donburi] world as typed
// events. Subscribe to [DriveEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
