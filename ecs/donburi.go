package ecs

import (
	"github.com/phanxgames/flick"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for recognized gestures.
var GestureEventType = events.NewEventType[flick.GestureEvent]()

// ScrollEventType is the Donburi event type for scroller activity bridged
// with BindScroller.
var ScrollEventType = events.NewEventType[ScrollEvent]()

// ScrollPhase distinguishes the three scroller callbacks.
type ScrollPhase uint8

const (
	ScrollStarted ScrollPhase = iota
	ScrollMoved
	ScrollEnded
)

// ScrollEvent is a scroller callback tagged with the entity it belongs to.
type ScrollEvent struct {
	Phase    ScrollPhase
	EntityID uint32
	Offset   flick.Vec2
	Velocity flick.Vec2
	State    flick.ScrollState
}

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Gesture events are published to GestureEventType and can be consumed
// with Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) flick.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event flick.GestureEvent) {
	GestureEventType.Publish(s.world, event)
}

// BindScroller publishes the scroller's start, scroll and end callbacks to
// ScrollEventType, tagged with the viewport's EntityID. Remove the returned
// handles to unbind.
func BindScroller(world donburi.World, s *flick.Scroller) []flick.CallbackHandle {
	publish := func(phase ScrollPhase) func(flick.ScrollEvent) {
		return func(e flick.ScrollEvent) {
			ScrollEventType.Publish(world, ScrollEvent{
				Phase:    phase,
				EntityID: s.Viewport().EntityID,
				Offset:   e.Offset,
				Velocity: e.Velocity,
				State:    e.State,
			})
		}
	}
	return []flick.CallbackHandle{
		s.OnScrollStart(publish(ScrollStarted)),
		s.OnScroll(publish(ScrollMoved)),
		s.OnScrollEnd(publish(ScrollEnded)),
	}
}
