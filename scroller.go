package flick

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// ErrNilRecognizer is returned by NewScroller when no recognizer is given.
var ErrNilRecognizer = errors.New("flick: scroller recognizer is nil")

// ScrollState is the phase of a scroll session.
type ScrollState uint8

const (
	ScrollIdle ScrollState = iota
	ScrollDragging
	ScrollDecelerating
	ScrollBouncing
	ScrollAnimating
)

func (s ScrollState) String() string {
	switch s {
	case ScrollDragging:
		return "dragging"
	case ScrollDecelerating:
		return "decelerating"
	case ScrollBouncing:
		return "bouncing"
	case ScrollAnimating:
		return "animating"
	}
	return "idle"
}

// ScrollEvent is delivered to a scroller's own callbacks.
type ScrollEvent struct {
	Scroller *Scroller
	Offset   Vec2
	// Velocity is in pixels per frame interval.
	Velocity Vec2
	State    ScrollState
	Time     time.Duration
}

type scrollCallbackKind uint8

const (
	callbackScrollStart scrollCallbackKind = iota
	callbackScroll
	callbackScrollEnd
	callbackKindCount
)

type scrollCallback struct {
	id uint32
	fn func(ScrollEvent)
}

// CallbackHandle allows removing a registered scroller callback.
type CallbackHandle struct {
	id   uint32
	kind scrollCallbackKind
	s    *Scroller
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.s == nil {
		return
	}
	list := h.s.callbacks[h.kind]
	for i := range list {
		if list[i].id == h.id {
			h.s.callbacks[h.kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

type momentumSample struct {
	time   time.Duration
	offset Vec2
}

type axisPhase uint8

const (
	phaseIdle axisPhase = iota
	phaseDecelerating
	phaseBouncing
)

// axisMotion is one axis of the release simulation. While decelerating,
// origin is the offset at release; while bouncing, origin is the bound the
// spring returns to and d0 the displacement past it.
type axisMotion struct {
	phase    axisPhase
	start    time.Duration
	origin   float64
	d0       float64
	v0       float64
	velocity float64
}

// Scroller translates a content node inside a viewport node in response to
// scroll gestures, with rubber-banding while dragging and momentum, bounce
// and snap after release. Offsets are content positions relative to the
// viewport and are always <= 0 when in bounds.
type Scroller struct {
	rec      *Recognizer
	sched    *Scheduler
	cfg      ScrollerConfig
	viewport *Node
	content  *Node
	easing   ease.TweenFunc

	offset   Vec2
	bounds   Vec2
	velocity Vec2
	samples  []momentumSample
	axes     [2]axisMotion

	dragging   bool
	dragOrigin Vec2
	dragDelta  Vec2
	active     bool

	frame *Timer
	tween *offsetTween

	listeners      []ListenerHandle
	callbacks      [callbackKindCount][]scrollCallback
	nextCallbackID uint32

	scrollbars []*Scrollbar
	destroyed  bool
}

// NewScroller binds a scroller to viewport and content. The content node's
// current position becomes the initial offset.
func NewScroller(rec *Recognizer, viewport, content *Node, cfg ScrollerConfig) (*Scroller, error) {
	if rec == nil {
		return nil, ErrNilRecognizer
	}
	if viewport == nil || content == nil {
		return nil, ErrNilNode
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("new scroller: %w", err)
	}
	easing, _ := easingByName(cfg.ScrollToEasing)

	s := &Scroller{
		rec:      rec,
		sched:    rec.Scheduler(),
		cfg:      cfg,
		viewport: viewport,
		content:  content,
		easing:   easing,
		offset:   Vec2{X: content.X, Y: content.Y},
	}
	s.UpdateBounds()

	opts := &ListenerOptions{
		Horizontal: cfg.Direction == AxisHorizontal,
		Vertical:   cfg.Direction == AxisVertical,
	}
	handlers := []struct {
		g  Gesture
		fn Handler
	}{
		{GestureTouchStart, s.onTouchStart},
		{GestureScrollStart, s.onScrollStart},
		{GestureScroll, s.onScroll},
		{GestureScrollEnd, s.onScrollEnd},
		{GestureTouchEnd, s.onTouchEnd},
	}
	for _, h := range handlers {
		handle, err := rec.AddEventListener(viewport, h.g, h.fn, opts)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("new scroller: %w", err)
		}
		s.listeners = append(s.listeners, handle)
	}

	if cfg.Scrollbars {
		if cfg.Direction.horizontal() {
			s.scrollbars = append(s.scrollbars, newScrollbar(s, true))
		}
		if cfg.Direction.vertical() {
			s.scrollbars = append(s.scrollbars, newScrollbar(s, false))
		}
	}
	return s, nil
}

// Offset returns the current content offset.
func (s *Scroller) Offset() Vec2 { return s.offset }

// Bounds returns the most negative legal offset per axis.
func (s *Scroller) Bounds() Vec2 { return s.bounds }

// Velocity returns the current release velocity in pixels per frame.
func (s *Scroller) Velocity() Vec2 { return s.velocity }

// Scrollbars returns the scroller's indicators, horizontal first.
func (s *Scroller) Scrollbars() []*Scrollbar { return s.scrollbars }

// Viewport returns the node the scroller listens on.
func (s *Scroller) Viewport() *Node { return s.viewport }

// Content returns the node the scroller moves.
func (s *Scroller) Content() *Node { return s.content }

// State returns the current phase of the scroll session.
func (s *Scroller) State() ScrollState {
	switch {
	case s.dragging:
		return ScrollDragging
	case s.tween != nil:
		return ScrollAnimating
	}
	state := ScrollIdle
	for _, m := range s.axes {
		switch m.phase {
		case phaseBouncing:
			return ScrollBouncing
		case phaseDecelerating:
			state = ScrollDecelerating
		}
	}
	return state
}

// OnScrollStart registers a callback for the start of a scroll session.
func (s *Scroller) OnScrollStart(fn func(ScrollEvent)) CallbackHandle {
	return s.addCallback(callbackScrollStart, fn)
}

// OnScroll registers a callback fired whenever the offset changes.
func (s *Scroller) OnScroll(fn func(ScrollEvent)) CallbackHandle {
	return s.addCallback(callbackScroll, fn)
}

// OnScrollEnd registers a callback for the end of a scroll session, once
// the content has settled.
func (s *Scroller) OnScrollEnd(fn func(ScrollEvent)) CallbackHandle {
	return s.addCallback(callbackScrollEnd, fn)
}

func (s *Scroller) addCallback(kind scrollCallbackKind, fn func(ScrollEvent)) CallbackHandle {
	s.nextCallbackID++
	s.callbacks[kind] = append(s.callbacks[kind], scrollCallback{id: s.nextCallbackID, fn: fn})
	return CallbackHandle{id: s.nextCallbackID, kind: kind, s: s}
}

func (s *Scroller) emit(kind scrollCallbackKind, now time.Duration) {
	list := s.callbacks[kind]
	if len(list) == 0 {
		return
	}
	ev := ScrollEvent{
		Scroller: s,
		Offset:   s.offset,
		Velocity: s.velocity,
		State:    s.State(),
		Time:     now,
	}
	// Callbacks may remove themselves.
	for _, c := range append([]scrollCallback(nil), list...) {
		c.fn(ev)
	}
}

// UpdateBounds recomputes the legal offset range from the current viewport
// and content sizes. A disabled axis has a bound of zero.
func (s *Scroller) UpdateBounds() {
	var b Vec2
	if s.cfg.Direction.horizontal() {
		b.X = math.Min(0, s.viewport.Width-s.content.Width)
	}
	if s.cfg.Direction.vertical() {
		b.Y = math.Min(0, s.viewport.Height-s.content.Height)
	}
	s.bounds = b
}

// ConstrainToBounds clamps pos into [Bounds, 0] on each axis. It is total:
// NaN clamps to zero and infinities clamp to the nearest bound.
func (s *Scroller) ConstrainToBounds(pos Vec2) Vec2 {
	return Vec2{
		X: clampAxis(pos.X, s.bounds.X),
		Y: clampAxis(pos.Y, s.bounds.Y),
	}
}

// ScrollTo moves to the bounds-clamped pos. A positive duration animates
// the move with easing (nil uses the configured easing); zero jumps. When
// the source cannot animate transforms the move always jumps.
func (s *Scroller) ScrollTo(pos Vec2, d time.Duration, easing ease.TweenFunc) {
	if s.destroyed {
		return
	}
	s.stopFrames()
	s.resetMotion()
	target := s.ConstrainToBounds(pos)
	if d <= 0 || !s.rec.Capabilities().Transforms {
		s.setOffset(target)
		s.emit(callbackScroll, s.sched.Now())
		s.end()
		return
	}
	s.animateTo(target, d, easing)
}

// ApplyVelocity starts the deceleration loop from v, in pixels per frame
// interval. Axes whose speed is below one pixel per frame do not move.
func (s *Scroller) ApplyVelocity(v Vec2) {
	if s.destroyed {
		return
	}
	s.stopFrames()
	s.resetMotion()
	now := s.sched.Now()
	s.begin(now)
	started := false
	for a := range 2 {
		va := axisValue(v, a)
		if !s.axisEnabled(a) || math.Abs(va) < 1 {
			continue
		}
		s.axes[a] = axisMotion{
			phase:    phaseDecelerating,
			start:    now,
			origin:   axisValue(s.offset, a),
			v0:       va,
			velocity: va,
		}
		started = true
	}
	if started {
		s.startFrames()
		return
	}
	s.snapToBounds()
}

// Destroy removes the scroller's listeners and stops its timers and
// animations. The content stays where it is.
func (s *Scroller) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	for _, h := range s.listeners {
		h.Remove()
	}
	s.listeners = nil
	s.stopFrames()
	s.resetMotion()
	s.dragging = false
	for _, sb := range s.scrollbars {
		sb.stop()
	}
}

// --- Gesture handlers ---

func (s *Scroller) onTouchStart(e *Event) Result {
	s.UpdateBounds()
	s.samples = s.samples[:0]
	if s.frame != nil || s.tween != nil {
		s.stopFrames()
		s.resetMotion()
		// Resume from what was last rendered, not from where the
		// interrupted animation was heading.
		s.offset = Vec2{X: s.content.X, Y: s.content.Y}
		s.debugf("interrupted at (%.1f, %.1f)", s.offset.X, s.offset.Y)
	}
	return Continue
}

func (s *Scroller) onScrollStart(e *Event) Result {
	s.dragging = true
	s.dragOrigin = s.offset
	s.dragDelta = Vec2{X: e.DeltaX, Y: e.DeltaY}
	s.samples = append(s.samples[:0], momentumSample{time: e.Time, offset: s.offset})
	s.begin(e.Time)
	s.debugf("drag from (%.1f, %.1f)", s.offset.X, s.offset.Y)
	return Continue
}

func (s *Scroller) onScroll(e *Event) Result {
	if !s.dragging {
		return Continue
	}
	pos := s.offset
	if s.cfg.Direction.horizontal() {
		pos.X = s.dragAxis(s.dragOrigin.X+e.DeltaX-s.dragDelta.X, s.bounds.X, s.cfg.Bounces.horizontal())
	}
	if s.cfg.Direction.vertical() {
		pos.Y = s.dragAxis(s.dragOrigin.Y+e.DeltaY-s.dragDelta.Y, s.bounds.Y, s.cfg.Bounces.vertical())
	}
	s.setOffset(pos)
	s.samples = append(s.samples, momentumSample{time: e.Time, offset: pos})
	s.pruneSamples(e.Time)
	s.emit(callbackScroll, e.Time)
	return Continue
}

func (s *Scroller) onScrollEnd(e *Event) Result {
	if !s.dragging {
		return Continue
	}
	s.dragging = false
	s.release(e.Time)
	return Continue
}

// onTouchEnd settles a contact that never started a drag, such as one that
// interrupted an animation and lifted without moving.
func (s *Scroller) onTouchEnd(e *Event) Result {
	if s.dragging || s.frame != nil || s.tween != nil {
		return Continue
	}
	s.snapToBounds()
	return Continue
}

func (s *Scroller) dragAxis(raw, bound float64, bounces bool) float64 {
	if bounces {
		return rubberBand(raw, bound)
	}
	return clampAxis(raw, bound)
}

// --- Release simulation ---

func (s *Scroller) pruneSamples(now time.Duration) {
	i := 0
	for i < len(s.samples) && now-s.samples[i].time > s.cfg.MomentumWindow {
		i++
	}
	if i > 0 {
		s.samples = append(s.samples[:0], s.samples[i:]...)
	}
}

// releaseVelocity converts the surviving samples into pixels per frame.
func (s *Scroller) releaseVelocity() Vec2 {
	if len(s.samples) < 2 {
		return Vec2{}
	}
	oldest, newest := s.samples[0], s.samples[len(s.samples)-1]
	ms := float64(newest.time-oldest.time) / float64(time.Millisecond)
	if ms <= 0 {
		return Vec2{}
	}
	return Vec2{
		X: (newest.offset.X - oldest.offset.X) / ms * s.cfg.Acceleration,
		Y: (newest.offset.Y - oldest.offset.Y) / ms * s.cfg.Acceleration,
	}
}

func (s *Scroller) release(now time.Duration) {
	s.pruneSamples(now)
	v := s.releaseVelocity()
	s.samples = s.samples[:0]
	s.resetMotion()

	pos := s.offset
	started := false
	for a := range 2 {
		if !s.axisEnabled(a) {
			continue
		}
		cur := axisValue(pos, a)
		if edge, out := outOfBounds(cur, axisValue(s.bounds, a)); out {
			if s.axisBounces(a) {
				s.axes[a] = axisMotion{phase: phaseBouncing, start: now, origin: edge, d0: cur - edge}
				started = true
			} else {
				pos = withAxis(pos, a, edge)
			}
			continue
		}
		va := axisValue(v, a)
		if s.cfg.Momentum && math.Abs(va) >= 1 {
			s.axes[a] = axisMotion{phase: phaseDecelerating, start: now, origin: cur, v0: va, velocity: va}
			started = true
		}
	}
	s.velocity = v
	s.setOffset(pos)
	s.debugf("release v=(%.2f, %.2f) at (%.1f, %.1f)", v.X, v.Y, pos.X, pos.Y)
	if started {
		s.startFrames()
		return
	}
	s.snapToBounds()
}

func (s *Scroller) startFrames() {
	if s.frame == nil {
		s.frame = s.sched.Every(s.cfg.frameInterval(), s.step)
	}
}

func (s *Scroller) stopFrames() {
	if s.frame != nil {
		s.frame.Stop()
		s.frame = nil
	}
	s.tween = nil
}

func (s *Scroller) resetMotion() {
	s.axes = [2]axisMotion{}
	s.velocity = Vec2{}
}

// frames converts elapsed time into frame intervals.
func (s *Scroller) frames(d time.Duration) float64 {
	return float64(d) / float64(s.cfg.frameInterval())
}

// step is the frame loop shared by the release simulation and animated
// scrolls.
func (s *Scroller) step() {
	now := s.sched.Now()
	if s.tween != nil {
		pos, done := s.tween.update(s.cfg.frameInterval(), s.offset)
		s.setOffset(pos)
		s.emit(callbackScroll, now)
		if done {
			s.stopFrames()
			s.end()
		}
		return
	}

	pos := s.offset
	running := false
	for a := range 2 {
		m := &s.axes[a]
		switch m.phase {
		case phaseDecelerating:
			pos = withAxis(pos, a, s.stepDecelerating(a, m, now))
		case phaseBouncing:
			pos = withAxis(pos, a, s.stepBouncing(m, now))
		}
		if m.phase != phaseIdle {
			running = true
		}
	}
	s.velocity = Vec2{X: s.axes[0].velocity, Y: s.axes[1].velocity}
	s.setOffset(pos)
	s.emit(callbackScroll, now)
	if !running {
		s.stopFrames()
		s.snapToBounds()
	}
}

func (s *Scroller) stepDecelerating(a int, m *axisMotion, now time.Duration) float64 {
	t := s.frames(now - m.start)
	m.velocity = decayVelocity(m.v0, s.cfg.Friction, t)
	pos := m.origin + math.Round(decayDistance(m.v0, s.cfg.Friction, t))
	if edge, out := outOfBounds(pos, axisValue(s.bounds, a)); out {
		if s.axisBounces(a) {
			s.debugf("axis %d crossed bound %.1f at v=%.2f, bouncing", a, edge, m.velocity)
			*m = axisMotion{phase: phaseBouncing, start: now, origin: edge, d0: pos - edge, v0: m.velocity, velocity: m.velocity}
			return pos
		}
		*m = axisMotion{}
		return edge
	}
	if math.Abs(m.velocity) < 1 {
		*m = axisMotion{}
	}
	return pos
}

func (s *Scroller) stepBouncing(m *axisMotion, now time.Duration) float64 {
	t := s.frames(now - m.start)
	k := s.cfg.SpringTension
	d := springDisplacement(m.d0, m.v0, k, t)
	m.velocity = springVelocity(m.d0, m.v0, k, t)
	edge := m.origin
	if math.Abs(d) < 1 && d*m.velocity <= 0 {
		*m = axisMotion{}
		return edge
	}
	return edge + math.Round(d)
}

// snapToBounds brings a settled offset back into bounds and onto the snap
// grid, animating when it has to move, and otherwise ends the session.
func (s *Scroller) snapToBounds() {
	target := s.ConstrainToBounds(s.offset)
	if s.cfg.Snap.Enabled() {
		target = s.ConstrainToBounds(s.snapTarget(target))
	}
	if target == s.offset {
		s.end()
		return
	}
	if !s.rec.Capabilities().Transforms || s.cfg.ScrollToDuration <= 0 {
		s.setOffset(target)
		s.emit(callbackScroll, s.sched.Now())
		s.end()
		return
	}
	s.debugf("snap to (%.1f, %.1f)", target.X, target.Y)
	s.animateTo(target, s.cfg.ScrollToDuration, nil)
}

// snapTarget rounds pos to the nearest grid line on each snapping axis.
func (s *Scroller) snapTarget(pos Vec2) Vec2 {
	gx, gy := s.cfg.Snap.X, s.cfg.Snap.Y
	if s.cfg.Snap.Page {
		gx, gy = s.viewport.Width, s.viewport.Height
	}
	if gx > 0 && s.cfg.Direction.horizontal() {
		pos.X = math.Round(pos.X/gx) * gx
	}
	if gy > 0 && s.cfg.Direction.vertical() {
		pos.Y = math.Round(pos.Y/gy) * gy
	}
	return pos
}

func (s *Scroller) animateTo(target Vec2, d time.Duration, easing ease.TweenFunc) {
	if easing == nil {
		easing = s.easing
	}
	s.begin(s.sched.Now())
	s.tween = newOffsetTween(s.offset, target, d, easing)
	s.startFrames()
}

// begin opens a scroll session if one is not already open.
func (s *Scroller) begin(now time.Duration) {
	for _, sb := range s.scrollbars {
		sb.show()
	}
	if s.active {
		return
	}
	s.active = true
	s.emit(callbackScrollStart, now)
}

// end closes the session once nothing is moving.
func (s *Scroller) end() {
	s.resetMotion()
	for _, sb := range s.scrollbars {
		sb.scheduleFade()
	}
	if !s.active {
		return
	}
	s.active = false
	s.debugf("settled at (%.1f, %.1f)", s.offset.X, s.offset.Y)
	s.emit(callbackScrollEnd, s.sched.Now())
}

// setOffset records pos and renders it onto the content node.
func (s *Scroller) setOffset(pos Vec2) {
	s.offset = pos
	s.content.X = pos.X
	s.content.Y = pos.Y
	for _, sb := range s.scrollbars {
		sb.update()
	}
}

func (s *Scroller) axisEnabled(a int) bool {
	if a == 0 {
		return s.cfg.Direction.horizontal()
	}
	return s.cfg.Direction.vertical()
}

func (s *Scroller) axisBounces(a int) bool {
	if a == 0 {
		return s.cfg.Bounces.horizontal()
	}
	return s.cfg.Bounces.vertical()
}

func axisValue(v Vec2, a int) float64 {
	if a == 0 {
		return v.X
	}
	return v.Y
}

func withAxis(v Vec2, a int, val float64) Vec2 {
	if a == 0 {
		v.X = val
	} else {
		v.Y = val
	}
	return v
}
