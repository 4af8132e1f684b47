package flick

import (
	"math"
	"time"
)

// Track is the recognizer's state for one live contact, from its first
// down event until the batch it belongs to is released.
type Track struct {
	Identifier PointerID
	Target     *Node

	StartX, StartY       float64
	PreviousX, PreviousY float64
	StartTime            time.Duration
	PreviousTime         time.Duration

	Scrolling    bool
	Pinching     bool
	Ended        bool
	MoveEligible bool

	// current position, updated for every changed touch before any
	// per-contact processing so pinch distances see both fingers.
	x, y float64

	// events is the ancestor-chain snapshot: listeners per gesture ordered
	// target first, then by registration.
	events [gestureCount][]*listener

	tapEligible    bool
	swipeEligible  bool
	scrollEligible bool
	swiped         bool

	holdTimer *Timer
	pair      *pinchPair

	viewW, viewH float64 // viewport captured at scrollstart
}

// newTrack snapshots every listener on target and its ancestors.
func (r *Recognizer) newTrack(t Touch, now time.Duration) *Track {
	tr := &Track{
		Identifier:     t.Identifier,
		Target:         t.Target,
		StartX:         t.PageX,
		StartY:         t.PageY,
		PreviousX:      t.PageX,
		PreviousY:      t.PageY,
		StartTime:      now,
		PreviousTime:   now,
		x:              t.PageX,
		y:              t.PageY,
		tapEligible:    true,
		swipeEligible:  true,
		scrollEligible: true,
	}
	for n := t.Target; n != nil; n = n.Parent {
		nl := r.listeners[n]
		if nl == nil {
			continue
		}
		for g := range nl.byGesture {
			tr.events[g] = append(tr.events[g], nl.byGesture[g]...)
		}
	}
	tr.MoveEligible = tr.wants(GestureTouchMove) || tr.wants(GestureTapCancel) ||
		tr.wants(GestureSwipe) || tr.wantsScroll() || tr.wantsPinch() ||
		tr.wants(GestureTapHold)
	return tr
}

// wants reports whether any live listener in the snapshot handles g.
func (t *Track) wants(g Gesture) bool {
	for _, l := range t.events[g] {
		if !l.removed {
			return true
		}
	}
	return false
}

func (t *Track) wantsScroll() bool {
	return t.wants(GestureScrollStart) || t.wants(GestureScroll) || t.wants(GestureScrollEnd)
}

func (t *Track) wantsPinch() bool {
	return t.wants(GesturePinchStart) || t.wants(GesturePinch)
}

// pinchNodes returns the distinct nodes in the snapshot listening for pinch.
func (t *Track) pinchNodes() []*Node {
	var nodes []*Node
	add := func(n *Node) {
		for _, m := range nodes {
			if m == n {
				return
			}
		}
		nodes = append(nodes, n)
	}
	for _, g := range [...]Gesture{GesturePinchStart, GesturePinch} {
		for _, l := range t.events[g] {
			if !l.removed {
				add(l.node)
			}
		}
	}
	return nodes
}

// stopHold cancels the taphold repeat timer.
func (t *Track) stopHold() {
	if t.holdTimer != nil {
		t.holdTimer.Stop()
		t.holdTimer = nil
	}
}

// restrictScrollAxis deactivates scroll listeners whose axis preference
// disagrees with the dominant direction.
func (t *Track) restrictScrollAxis(horizontal bool) {
	for _, g := range [...]Gesture{GestureScrollStart, GestureScroll, GestureScrollEnd} {
		var kept []*listener
		for _, l := range t.events[g] {
			if preferred, h := l.opts.axisPreference(); preferred && h != horizontal {
				continue
			}
			kept = append(kept, l)
		}
		t.events[g] = kept
	}
}

// pinchPair is the cross-track state of two contacts pinching under a
// common listener node.
type pinchPair struct {
	a, b *Track
	node *Node

	initialDistance  float64
	previousDistance float64
	previousScale    float64
	lastSeq          uint64
}

func (p *pinchPair) distance() float64 {
	return math.Hypot(p.b.x-p.a.x, p.b.y-p.a.y)
}

func (p *pinchPair) center() (float64, float64) {
	return (p.a.x + p.b.x) / 2, (p.a.y + p.b.y) / 2
}
