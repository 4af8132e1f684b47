package flick

import (
	"math"
	"slices"
	"time"
)

// DefaultInjectFrame is the frame time used by InjectSource.
const DefaultInjectFrame = 16 * time.Millisecond

// InjectSource is a scripted Source. Calls queue frames, each a snapshot of
// the contacts that are down; Update consumes one frame per call and
// delivers the difference from the previous one. It drives the test runner
// and headless tests.
type InjectSource struct {
	caps    Capabilities
	kind    InputKind
	tracker contactTracker

	width, height float64
	// FrameTime is how far the clock moves per Update.
	FrameTime time.Duration

	now   time.Duration
	queue [][]contact
	tail  []contact // contacts down after the last queued frame
}

// NewInjectSource creates a touch-capable scripted source for a viewport
// of the given size, hit-testing contacts against root.
func NewInjectSource(root *Node, width, height float64) *InjectSource {
	return &InjectSource{
		caps:      Capabilities{Touch: true, Transforms: true},
		kind:      TouchInput,
		tracker:   contactTracker{root: root},
		width:     width,
		height:    height,
		FrameTime: DefaultInjectFrame,
	}
}

// SetCapabilities overrides the reported capabilities. Call before Init.
func (s *InjectSource) SetCapabilities(c Capabilities) { s.caps = c }

// Capabilities implements Source.
func (s *InjectSource) Capabilities() Capabilities { return s.caps }

// Listen implements Source.
func (s *InjectSource) Listen(kind InputKind, fn func(*NativeEvent)) {
	s.kind = kind
	s.tracker.listen = fn
	s.tracker.reset()
}

// ViewportSize implements Source.
func (s *InjectSource) ViewportSize() (w, h float64) { return s.width, s.height }

// Now returns the source clock.
func (s *InjectSource) Now() time.Duration { return s.now }

// Pending returns the number of queued frames.
func (s *InjectSource) Pending() int { return len(s.queue) }

func (s *InjectSource) push() {
	s.queue = append(s.queue, slices.Clone(s.tail))
}

func (s *InjectSource) set(id PointerID, x, y float64) {
	for i := range s.tail {
		if s.tail[i].id == id {
			s.tail[i].x, s.tail[i].y = x, y
			return
		}
	}
	s.tail = append(s.tail, contact{id: id, x: x, y: y})
}

// Press queues a frame in which contact id goes down at (x, y).
func (s *InjectSource) Press(id PointerID, x, y float64) {
	s.set(id, x, y)
	s.push()
}

// Move queues a frame in which contact id is at (x, y).
func (s *InjectSource) Move(id PointerID, x, y float64) {
	s.set(id, x, y)
	s.push()
}

// Release queues a frame in which contact id is lifted.
func (s *InjectSource) Release(id PointerID) {
	s.tail = slices.DeleteFunc(s.tail, func(c contact) bool { return c.id == id })
	s.push()
}

// Wait queues frames in which nothing changes.
func (s *InjectSource) Wait(frames int) {
	for range frames {
		s.push()
	}
}

// WaitFor queues enough idle frames to cover d.
func (s *InjectSource) WaitFor(d time.Duration) {
	s.Wait(int(math.Ceil(float64(d) / float64(s.FrameTime))))
}

// Tap queues a press followed by a release at the same point. Consumes two
// frames.
func (s *InjectSource) Tap(x, y float64) {
	s.Press(0, x, y)
	s.Release(0)
}

// Drag queues a press at (fromX, fromY), linearly interpolated moves over
// frames-2 intermediate frames, then a move to (toX, toY) and a release.
// Minimum frames is 2.
func (s *InjectSource) Drag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.Press(0, fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.Move(0, fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.Move(0, toX, toY)
	s.Release(0)
}

// Pinch queues two contacts placed horizontally around (cx, cy), spread
// from fromDist to toDist apart over frames moves, then lifted together.
func (s *InjectSource) Pinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	s.set(0, cx-fromDist/2, cy)
	s.set(1, cx+fromDist/2, cy)
	s.push()
	for i := 1; i <= frames; i++ {
		d := fromDist + (toDist-fromDist)*float64(i)/float64(frames)
		s.set(0, cx-d/2, cy)
		s.set(1, cx+d/2, cy)
		s.push()
	}
	s.tail = slices.DeleteFunc(s.tail, func(c contact) bool { return c.id == 0 || c.id == 1 })
	s.push()
}

// Update advances the clock by one frame and delivers the next queued
// frame. It reports whether a frame was consumed.
func (s *InjectSource) Update() bool {
	s.now += s.FrameTime
	if len(s.queue) == 0 {
		return false
	}
	frame := s.queue[0]
	s.queue = s.queue[1:]
	if s.kind == MouseInput {
		frame = mouseFrame(frame)
	}
	s.tracker.frame(s.now, frame)
	return true
}

// Run consumes every queued frame, advancing rec's clock after each so
// that timers due between frames fire in order.
func (s *InjectSource) Run(rec *Recognizer) {
	for s.Update() {
		rec.Update(s.now)
	}
	rec.Update(s.now)
}

// mouseFrame keeps only the first contact, as the mouse pointer.
func mouseFrame(frame []contact) []contact {
	if len(frame) == 0 {
		return frame
	}
	c := frame[0]
	c.id = MousePointer
	return []contact{c}
}
