// Package flick recognizes touch and mouse gestures over a node tree and
// drives momentum scrolling for [Ebitengine] games and TinyGo touch panels.
//
// # Quick start
//
// Build a tree of [Node]s, create one [Recognizer] for it, register
// handlers, then bind the recognizer to an input [Source]:
//
//	root := flick.NewNode("root", 640, 480)
//	button := flick.NewNode("button", 120, 40)
//	root.AddChild(button)
//
//	rec := flick.NewRecognizer(flick.DefaultGestureConfig())
//	rec.On(button, flick.GestureTap, func(e *flick.Event) flick.Result {
//		fmt.Println("tapped", e.Target.Name)
//		return flick.Continue
//	})
//
//	src := flick.NewEbitenSource(root)
//	rec.Init(src)
//
// Inside the game loop, poll the source and advance the recognizer's clock:
//
//	func (g *Game) Update() error {
//		g.src.Update()
//		g.rec.Update(g.src.Now())
//		return nil
//	}
//
// # Gestures
//
// The recognizer classifies each contact into tap, doubletap, taphold,
// tapcancel, swipe, scrollstart/scroll/scrollend and pinchstart/pinch, and
// also reports the raw touchstart, touchmove and touchend phases. Gestures
// bubble from the node first touched to its ancestors. The listeners for a
// contact are captured when it goes down, so registering or removing
// handlers never affects a contact already in flight (removed handlers are
// skipped).
//
// A handler returns [Continue] or [StopPropagation]. Stopping a touchstart,
// tapstart or touchmove vetoes the rest of the contact's classification.
// [ListenerOptions] add delay, debounce, one-shot, delegation and scroll
// axis preferences.
//
// # Scrolling
//
// [NewScroller] binds a content node inside a viewport node. Dragging moves
// the content 1:1, at half rate past the edges. On release the content
// keeps moving under exponential decay and springs back if it overshoots.
// Optional snapping rounds the settled position to a grid or to pages.
// Each enabled axis gets a [Scrollbar] that fades out when idle.
//
// # Time
//
// Everything runs on the caller's goroutine. Timers (taphold repeats,
// delayed handlers, scroller frames, scrollbar fades) live on the
// recognizer's [Scheduler], a virtual clock that only moves when the host
// calls [Recognizer.Update] or a native event arrives.
//
// # Configuration
//
// [DefaultConfig] returns the stock thresholds and physics constants.
// [LoadConfig] overlays a YAML document on top of them.
//
// # Testing
//
// [InjectSource] replays scripted contacts frame by frame, and
// [LoadTestScript] reads such scripts from JSON. ECS integration via the
// [Donburi] adapter lives in flick/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package flick
