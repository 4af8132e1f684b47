package flick

import "time"

// Vec2 is a 2D vector used for positions, offsets, sizes, and velocities
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// PointerID identifies one contact. Touch sources use their platform
// identifier; mouse input always uses MousePointer.
type PointerID int

// MousePointer is the synthetic identifier assigned to mouse contacts.
const MousePointer PointerID = -1

// Gesture identifies a synthesized gesture event.
type Gesture uint8

const (
	GestureTouchStart  Gesture = iota // contact began
	GestureTouchMove                  // contact moved; vetoing it moves the threshold origin to this point
	GestureTouchEnd                   // contact released
	GestureTapStart                   // contact began and may become a tap
	GestureTap                        // released without moving past the tap threshold
	GestureTapHold                    // held in place; repeats every tap-hold interval
	GestureTapCancel                  // a tap candidate moved too far
	GestureDoubleTap                  // second tap on the same target inside the window
	GestureSwipe                      // fast horizontal flick
	GestureScrollStart                // movement crossed the scroll threshold
	GestureScroll                     // every sample after scroll start
	GestureScrollEnd                  // a scrolling contact was released
	GesturePinchStart                 // two contacts paired under a pinch listener
	GesturePinch                      // paired contacts moved

	gestureCount
)

var gestureNames = [gestureCount]string{
	"touchstart", "touchmove", "touchend",
	"tapstart", "tap", "taphold", "tapcancel", "doubletap",
	"swipe",
	"scrollstart", "scroll", "scrollend",
	"pinchstart", "pinch",
}

// String returns the lowercase gesture name, e.g. "doubletap".
func (g Gesture) String() string {
	if g >= gestureCount {
		return "unknown"
	}
	return gestureNames[g]
}

// ParseGesture returns the gesture with the given lowercase name.
func ParseGesture(name string) (Gesture, bool) {
	for i, n := range gestureNames {
		if n == name {
			return Gesture(i), true
		}
	}
	return 0, false
}

func (g Gesture) valid() bool {
	return g < gestureCount
}

// Result is returned by every gesture handler. StopPropagation prevents the
// remaining listeners of the current dispatch from running and is reported
// back to the recognizer, which treats it as a veto where that has meaning
// (touchstart, tapstart, touchmove).
type Result uint8

const (
	Continue        Result = iota // keep dispatching
	StopPropagation               // stop the current dispatch
)

// Handler receives synthesized gesture events.
type Handler func(e *Event) Result

// SwipeDirection is the horizontal direction of a swipe.
type SwipeDirection uint8

const (
	SwipeNone SwipeDirection = iota
	SwipeLeft
	SwipeRight
)

func (d SwipeDirection) String() string {
	switch d {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	}
	return "none"
}

// Event is the normalized payload delivered with every gesture.
type Event struct {
	Type     Gesture
	Target   *Node // node first touched, or the delegate match
	Listener *Node // node the running handler was registered on

	Time      time.Duration
	DeltaTime time.Duration // since the gesture started

	PageX, PageY                   float64
	DeltaX, DeltaY                 float64 // from the gesture's own start
	AbsDeltaX, AbsDeltaY           float64
	PreviousDeltaX, PreviousDeltaY float64 // from the prior sample

	Touches []Touch
	Native  *NativeEvent

	// Swipe fields
	Direction SwipeDirection
	Distance  float64

	// Pinch fields
	Scale            float64
	PreviousScale    float64
	DeltaScale       float64
	PinchDistance    float64
	PreviousDistance float64
	DeltaDistance    float64
}

// clone returns a shallow copy safe to hand to a deferred handler.
func (e *Event) clone() *Event {
	c := *e
	if e.Touches != nil {
		c.Touches = append([]Touch(nil), e.Touches...)
	}
	return &c
}
