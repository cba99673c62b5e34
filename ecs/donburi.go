package ecs

import (
	"github.com/phanxgames/evergreen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// DriveEventType is the Donburi event type for evergreen drive transitions.
var DriveEventType = events.NewEventType[evergreen.DriveEvent]()

// Drive is a component holding the drive state carried by the most recent
// transition event. It changes only when a hand is found or lost or the mode
// changes; dispersion and rotation between transitions are not tracked. The
// sink keeps it on a single entity so systems can read it without
// subscribing.
var Drive = donburi.NewComponentType[evergreen.DriveState]()

// DonburiSink is an EventSink backed by a Donburi world.
type DonburiSink struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiSink creates an EventSink publishing to DriveEventType. It also
// creates the entity carrying the Drive component.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{
		world:  world,
		entity: world.Create(Drive),
	}
}

// EmitEvent publishes event and updates the Drive component.
func (s *DonburiSink) EmitEvent(event evergreen.DriveEvent) {
	if entry := s.world.Entry(s.entity); entry.Valid() {
		Drive.SetValue(entry, event.Drive)
	}
	DriveEventType.Publish(s.world, event)
}

// Entity returns the entity carrying the Drive component.
func (s *DonburiSink) Entity() donburi.Entity {
	return s.entity
}

// LatestDrive returns the drive state of the last published event.
func LatestDrive(world donburi.World, sink *DonburiSink) (evergreen.DriveState, bool) {
	entry := world.Entry(sink.entity)
	if !entry.Valid() {
		return evergreen.DriveState{}, false
	}
	return *Drive.Get(entry), true
}
