// Package ecs provides ECS adapters for flick's gesture and scroll events.
//
// The primary adapter is [NewDonburiStore], which bridges recognized
// gestures (tap, swipe, scroll, pinch and the rest) into a [Donburi] world
// as typed events. Nodes opt in by carrying an EntityID; pinch gestures are
// published even without one. Subscribe to [GestureEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	recognizer.SetEntityStore(store)
//
// Scroller activity can be bridged the same way with [BindScroller].
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
