package flick

import (
	"math"
	"time"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Recognizer, gesture events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event GestureEvent)
}

// GestureEvent carries gesture data for the ECS bridge.
type GestureEvent struct {
	Type     Gesture
	EntityID uint32
	Time     time.Duration
	PageX    float64
	PageY    float64
	DeltaX   float64
	DeltaY   float64
	// Swipe fields (valid for GestureSwipe)
	Direction SwipeDirection
	Distance  float64
	// Pinch fields (valid for GesturePinchStart, GesturePinch)
	Scale      float64
	DeltaScale float64
}

// Recognizer turns raw pointer batches into gesture events. One recognizer
// serves a whole UI tree: it installs a single set of native listeners and
// dispatches to handlers through per-contact ancestor snapshots.
type Recognizer struct {
	cfg   GestureConfig
	sched *Scheduler
	store EntityStore
	debug bool

	source      Source
	kind        InputKind
	initialized bool

	listeners      map[*Node]*nodeListeners
	nextListenerID uint64

	tracks map[PointerID]*Track
	order  []*Track // creation order, for deterministic iteration
	pairs  []*pinchPair

	lastTapTarget *Node
	lastTapTime   time.Duration
	lastTapValid  bool

	dispatchSeq uint64
}

// NewRecognizer creates a recognizer with the given thresholds and its own
// scheduler.
func NewRecognizer(cfg GestureConfig) *Recognizer {
	return &Recognizer{
		cfg:       cfg,
		sched:     NewScheduler(),
		listeners: make(map[*Node]*nodeListeners),
		tracks:    make(map[PointerID]*Track),
	}
}

// Init installs the recognizer's native listeners on src: touch listeners
// when the platform reports touch support, mouse listeners otherwise.
// Calling Init again is a no-op.
func (r *Recognizer) Init(src Source) error {
	if r.initialized {
		return nil
	}
	if src == nil {
		return ErrNilSource
	}
	r.source = src
	r.kind = MouseInput
	if src.Capabilities().Touch {
		r.kind = TouchInput
	}
	src.Listen(r.kind, r.HandleNative)
	r.initialized = true
	r.debugf("init: %s input", r.kind)
	return nil
}

// InputKind returns the listener family chosen by Init.
func (r *Recognizer) InputKind() InputKind {
	return r.kind
}

// Config returns the recognizer's thresholds.
func (r *Recognizer) Config() GestureConfig {
	return r.cfg
}

// Scheduler returns the clock that drives taphold repeats, delayed
// listeners, and any scroller bound to this recognizer.
func (r *Recognizer) Scheduler() *Scheduler {
	return r.sched
}

// Capabilities returns the bound source's capabilities, or the zero value
// before Init.
func (r *Recognizer) Capabilities() Capabilities {
	if r.source == nil {
		return Capabilities{}
	}
	return r.source.Capabilities()
}

// SetEntityStore sets the optional ECS bridge.
func (r *Recognizer) SetEntityStore(store EntityStore) {
	r.store = store
}

// Update advances the recognizer's clock to now, firing due timers.
// Host loops call it once per frame.
func (r *Recognizer) Update(now time.Duration) {
	r.sched.Advance(now)
}

// Tracks returns the number of live contacts.
func (r *Recognizer) Tracks() int {
	return len(r.tracks)
}

// HandleNative processes one raw pointer batch. Sources call it through the
// function passed to Listen; tests may call it directly.
func (r *Recognizer) HandleNative(e *NativeEvent) {
	r.sched.Advance(e.TimeStamp)
	r.dispatchSeq++
	switch e.Type {
	case NativeStart:
		r.onTouchStart(e)
	case NativeMove:
		r.onTouchMove(e)
	case NativeEnd:
		r.onTouchEnd(e)
	}
}

// --- Dispatch ---

// fire invokes every snapshot listener for g, target first. It reports
// StopPropagation when a handler stopped the dispatch.
func (r *Recognizer) fire(g Gesture, t *Track, e *Event) Result {
	e.Type = g
	res := Continue
	for _, l := range t.events[g] {
		if l.removed {
			continue
		}
		if r.invoke(l, e) == StopPropagation {
			res = StopPropagation
			break
		}
	}
	r.emitGestureEvent(e)
	return res
}

func (r *Recognizer) emitGestureEvent(e *Event) {
	if r.store == nil {
		return
	}
	var entityID uint32
	if e.Target != nil {
		entityID = e.Target.EntityID
	}
	// Pinch is a multi-contact gesture; emit even without an EntityID.
	if entityID == 0 && e.Type != GesturePinch && e.Type != GesturePinchStart {
		return
	}
	r.store.EmitEvent(GestureEvent{
		Type:       e.Type,
		EntityID:   entityID,
		Time:       e.Time,
		PageX:      e.PageX,
		PageY:      e.PageY,
		DeltaX:     e.DeltaX,
		DeltaY:     e.DeltaY,
		Direction:  e.Direction,
		Distance:   e.Distance,
		Scale:      e.Scale,
		DeltaScale: e.DeltaScale,
	})
}

// newEvent builds the normalized payload for t at (x, y).
func (r *Recognizer) newEvent(t *Track, x, y float64, native *NativeEvent) *Event {
	now := r.sched.Now()
	var touches []Touch
	if native != nil {
		now = native.TimeStamp
		touches = native.Touches
	}
	dx := x - t.StartX
	dy := y - t.StartY
	return &Event{
		Target:         t.Target,
		Time:           now,
		DeltaTime:      now - t.StartTime,
		PageX:          x,
		PageY:          y,
		DeltaX:         dx,
		DeltaY:         dy,
		AbsDeltaX:      math.Abs(dx),
		AbsDeltaY:      math.Abs(dy),
		PreviousDeltaX: x - t.PreviousX,
		PreviousDeltaY: y - t.PreviousY,
		Touches:        touches,
		Native:         native,
	}
}

// --- Touch start ---

func (r *Recognizer) onTouchStart(e *NativeEvent) {
	for _, touch := range e.ChangedTouches {
		if _, ok := r.tracks[touch.Identifier]; ok {
			continue
		}
		t := r.newTrack(touch, e.TimeStamp)
		r.tracks[touch.Identifier] = t
		r.order = append(r.order, t)

		// tapstart is only offered to contacts nobody watches with touchstart.
		vetoed := false
		switch {
		case t.wants(GestureTouchStart):
			vetoed = r.fire(GestureTouchStart, t, r.newEvent(t, t.x, t.y, e)) == StopPropagation
		case t.wants(GestureTapStart):
			vetoed = r.fire(GestureTapStart, t, r.newEvent(t, t.x, t.y, e)) == StopPropagation
		}
		if vetoed {
			t.Ended = true
			r.debugf("touch %d: vetoed at start", t.Identifier)
			continue
		}
		if t.wants(GestureTapHold) {
			r.armTapHold(t)
		}
	}
}

// armTapHold starts the repeating taphold timer. The first repeat makes the
// contact ineligible for tap and doubletap.
func (r *Recognizer) armTapHold(t *Track) {
	t.holdTimer = r.sched.Every(r.cfg.TapHoldInterval, func() {
		if t.Ended {
			t.stopHold()
			return
		}
		t.tapEligible = false
		r.fire(GestureTapHold, t, r.newEvent(t, t.x, t.y, nil))
	})
}

// --- Touch move ---

func (r *Recognizer) onTouchMove(e *NativeEvent) {
	var moved []*Track
	for _, touch := range e.ChangedTouches {
		t := r.tracks[touch.Identifier]
		if t == nil || t.Ended {
			continue
		}
		t.x, t.y = touch.PageX, touch.PageY
		moved = append(moved, t)
	}
	for _, t := range moved {
		// An earlier contact may have ended the whole batch early.
		if r.tracks[t.Identifier] != t {
			continue
		}
		r.moveTrack(t, e)
	}
}

func (r *Recognizer) moveTrack(t *Track, e *NativeEvent) {
	x, y := t.x, t.y
	ev := r.newEvent(t, x, y, e)
	defer func() {
		t.PreviousX, t.PreviousY = x, y
		t.PreviousTime = e.TimeStamp
	}()

	// A contact that has moved can never resolve to a tap or keep holding.
	if ev.AbsDeltaX > r.cfg.TapThreshold || ev.AbsDeltaY > r.cfg.TapThreshold {
		t.stopHold()
		if t.tapEligible {
			t.tapEligible = false
			if t.wants(GestureTapCancel) {
				r.fire(GestureTapCancel, t, r.newEvent(t, x, y, e))
			}
		}
	}

	if !t.MoveEligible {
		return
	}

	if t.wants(GestureTouchMove) && r.fire(GestureTouchMove, t, ev) == StopPropagation {
		// Re-anchor so later thresholds are measured from here.
		t.StartX, t.StartY = x, y
		return
	}

	if r.checkSwipe(t, e) {
		return
	}

	if t.wantsPinch() && len(e.Touches) > 1 {
		r.checkPinch(t, e)
	}

	r.checkScroll(t, e)
}

// checkSwipe evaluates the one-shot swipe decision. It reports true when a
// swipe fired and the contact is done classifying.
func (r *Recognizer) checkSwipe(t *Track, e *NativeEvent) bool {
	if t.Scrolling || t.Pinching || t.swiped || !t.swipeEligible || !t.wants(GestureSwipe) {
		return t.swiped
	}
	ev := r.newEvent(t, t.x, t.y, e)
	ratio := r.cfg.SwipeDriftRatio
	if ev.DeltaTime > r.cfg.SwipeTime ||
		(ev.AbsDeltaY > r.cfg.TapThreshold && ev.AbsDeltaY > ev.AbsDeltaX*ratio) {
		t.swipeEligible = false
		r.debugf("touch %d: swipe dropped (dt=%v dx=%.1f dy=%.1f)", t.Identifier, ev.DeltaTime, ev.AbsDeltaX, ev.AbsDeltaY)
		return false
	}
	if ev.AbsDeltaX <= r.cfg.SwipeThreshold || ev.AbsDeltaY > ev.AbsDeltaX*ratio {
		return false
	}
	t.swiped = true
	t.swipeEligible = false
	t.scrollEligible = false
	t.tapEligible = false
	t.stopHold()
	ev.Direction = SwipeRight
	if ev.DeltaX < 0 {
		ev.Direction = SwipeLeft
	}
	ev.Distance = ev.AbsDeltaX
	r.debugf("touch %d: swipe %s %.1fpx", t.Identifier, ev.Direction, ev.Distance)
	r.fire(GestureSwipe, t, ev)
	return true
}

// checkPinch pairs t with another live contact sharing a pinch listener
// node, then fires pinchstart once and pinch once per native batch.
func (r *Recognizer) checkPinch(t *Track, e *NativeEvent) {
	if t.pair == nil {
		if t.swiped {
			return
		}
		other, node := r.findPinchPartner(t)
		if other == nil {
			return
		}
		p := &pinchPair{a: other, b: t, node: node, previousScale: 1}
		p.initialDistance = p.distance()
		p.previousDistance = p.initialDistance
		p.lastSeq = r.dispatchSeq
		r.pairs = append(r.pairs, p)
		for _, tr := range [...]*Track{other, t} {
			tr.pair = p
			tr.Pinching = true
			tr.swipeEligible = false
			tr.scrollEligible = false
			tr.tapEligible = false
			tr.stopHold()
		}
		r.debugf("pinch: paired %d and %d at %.1fpx", other.Identifier, t.Identifier, p.initialDistance)
		ev := r.pinchEvent(p, e)
		ev.Scale = 1
		ev.PreviousScale = 1
		r.fire(GesturePinchStart, p.a, ev)
		return
	}

	p := t.pair
	if p.lastSeq == r.dispatchSeq {
		return
	}
	p.lastSeq = r.dispatchSeq
	d := p.distance()
	scale := 1.0
	if p.initialDistance > 0 {
		scale = d / p.initialDistance
	}
	ev := r.pinchEvent(p, e)
	ev.Scale = scale
	ev.PreviousScale = p.previousScale
	ev.DeltaScale = scale - p.previousScale
	ev.PinchDistance = d
	ev.PreviousDistance = p.previousDistance
	ev.DeltaDistance = d - p.initialDistance
	p.previousScale = scale
	p.previousDistance = d
	r.fire(GesturePinch, p.a, ev)
}

func (r *Recognizer) pinchEvent(p *pinchPair, e *NativeEvent) *Event {
	cx, cy := p.center()
	ev := r.newEvent(p.a, cx, cy, e)
	ev.PinchDistance = p.distance()
	return ev
}

// findPinchPartner returns the oldest live, unpaired contact that shares a
// pinch listener node with t.
func (r *Recognizer) findPinchPartner(t *Track) (*Track, *Node) {
	nodes := t.pinchNodes()
	for _, other := range r.order {
		if other == t || other.Ended || other.pair != nil || other.swiped {
			continue
		}
		for _, n := range other.pinchNodes() {
			for _, m := range nodes {
				if n == m {
					return other, n
				}
			}
		}
	}
	return nil, nil
}

// checkScroll starts scrolling once the threshold is crossed, then fires
// scroll on every later sample.
func (r *Recognizer) checkScroll(t *Track, e *NativeEvent) {
	if t.Pinching || t.swiped || !t.scrollEligible || !t.wantsScroll() {
		return
	}
	ev := r.newEvent(t, t.x, t.y, e)
	if !t.Scrolling {
		if ev.AbsDeltaX <= r.cfg.ScrollThreshold && ev.AbsDeltaY <= r.cfg.ScrollThreshold {
			return
		}
		t.Scrolling = true
		t.tapEligible = false
		t.stopHold()
		t.restrictScrollAxis(ev.AbsDeltaX >= ev.AbsDeltaY)
		if r.source != nil {
			t.viewW, t.viewH = r.source.ViewportSize()
		}
		r.debugf("touch %d: scrollstart dx=%.1f dy=%.1f", t.Identifier, ev.DeltaX, ev.DeltaY)
		r.fire(GestureScrollStart, t, ev)
	} else {
		r.fire(GestureScroll, t, ev)
	}

	if r.nearTrailingEdge(t, ev) {
		r.debugf("touch %d: near viewport edge, ending early", t.Identifier)
		r.endTracks(e, []*Track{t})
	}
}

// nearTrailingEdge reports whether a scrolling contact is within
// TouchEndThreshold of the viewport edge it is moving towards.
func (r *Recognizer) nearTrailingEdge(t *Track, ev *Event) bool {
	thr := r.cfg.TouchEndThreshold
	if thr <= 0 {
		return false
	}
	if ev.AbsDeltaX >= ev.AbsDeltaY {
		if t.viewW <= 0 {
			return false
		}
		return (ev.DeltaX < 0 && ev.PageX < thr) || (ev.DeltaX > 0 && ev.PageX > t.viewW-thr)
	}
	if t.viewH <= 0 {
		return false
	}
	return (ev.DeltaY < 0 && ev.PageY < thr) || (ev.DeltaY > 0 && ev.PageY > t.viewH-thr)
}

// --- Touch end ---

func (r *Recognizer) onTouchEnd(e *NativeEvent) {
	var ended []*Track
	for _, touch := range e.ChangedTouches {
		t := r.tracks[touch.Identifier]
		if t == nil {
			continue
		}
		t.x, t.y = touch.PageX, touch.PageY
		ended = append(ended, t)
	}
	r.endTracks(e, ended)
}

// endTracks resolves the terminal gestures of the given contacts and then
// clears every track of the batch. Partial release of a multi-touch batch
// is not supported: remaining contacts stop producing gestures.
func (r *Recognizer) endTracks(e *NativeEvent, ended []*Track) {
	for _, t := range ended {
		t.stopHold()
		if t.Ended {
			continue
		}
		t.Ended = true
		ev := r.newEvent(t, t.x, t.y, e)
		if t.wants(GestureTouchEnd) {
			r.fire(GestureTouchEnd, t, ev)
		}
		if t.Scrolling {
			if t.wants(GestureScrollEnd) {
				r.fire(GestureScrollEnd, t, r.newEvent(t, t.x, t.y, e))
			}
			continue
		}
		if !t.tapEligible {
			continue
		}
		if t.wants(GestureTap) {
			r.fire(GestureTap, t, r.newEvent(t, t.x, t.y, e))
		}
		if t.wants(GestureDoubleTap) {
			r.resolveDoubleTap(t, e)
		}
	}
	r.clearTracks()
}

func (r *Recognizer) resolveDoubleTap(t *Track, e *NativeEvent) {
	now := e.TimeStamp
	if r.lastTapValid && r.lastTapTarget == t.Target && now-r.lastTapTime <= r.cfg.DoubleTapWindow {
		r.lastTapValid = false
		r.lastTapTarget = nil
		r.fire(GestureDoubleTap, t, r.newEvent(t, t.x, t.y, e))
		return
	}
	r.lastTapValid = true
	r.lastTapTarget = t.Target
	r.lastTapTime = now
}

func (r *Recognizer) clearTracks() {
	for _, t := range r.order {
		t.stopHold()
		t.Ended = true
		t.pair = nil
	}
	clear(r.tracks)
	r.order = nil
	r.pairs = nil
}
