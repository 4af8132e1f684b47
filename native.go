package flick

import "time"

// NativeType is the phase of a raw pointer batch.
type NativeType uint8

const (
	NativeStart NativeType = iota // one or more contacts went down
	NativeMove                    // one or more contacts moved
	NativeEnd                     // one or more contacts were released
)

func (t NativeType) String() string {
	switch t {
	case NativeStart:
		return "start"
	case NativeMove:
		return "move"
	case NativeEnd:
		return "end"
	}
	return "unknown"
}

// Touch is one raw contact as reported by the platform.
type Touch struct {
	Identifier   PointerID
	PageX, PageY float64
	Target       *Node // node under the contact when it went down
}

// NativeEvent is a batch of raw pointer changes delivered by a Source.
// Touches lists every contact still down after the batch; ChangedTouches
// lists the contacts this batch is about.
type NativeEvent struct {
	Type           NativeType
	Touches        []Touch
	ChangedTouches []Touch
	TimeStamp      time.Duration

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault asks the platform to skip its default handling.
func (e *NativeEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *NativeEvent) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation asks the platform not to forward the raw event further.
func (e *NativeEvent) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *NativeEvent) PropagationStopped() bool { return e.propagationStopped }

// InputKind selects which family of raw listeners a Source installs.
type InputKind uint8

const (
	MouseInput InputKind = iota // single pointer, MousePointer identifier
	TouchInput                  // multi-touch identifiers
)

func (k InputKind) String() string {
	if k == TouchInput {
		return "touch"
	}
	return "mouse"
}

// Capabilities is the result of platform feature detection.
type Capabilities struct {
	Touch      bool // multi-touch input is available
	Transforms bool // content translation can be animated
}

// Source delivers raw pointer batches from a platform. Listen is called at
// most once per recognizer, with the input kind chosen from Capabilities.
type Source interface {
	Capabilities() Capabilities
	Listen(kind InputKind, fn func(*NativeEvent))
	ViewportSize() (w, h float64)
}
