package flick

import (
	"errors"
	"time"
)

// Registration errors returned synchronously by AddEventListener.
var (
	ErrNilNode        = errors.New("flick: listener node is nil")
	ErrNilHandler     = errors.New("flick: listener handler is nil")
	ErrUnknownGesture = errors.New("flick: unknown gesture")
	ErrNilSource      = errors.New("flick: input source is nil")
)

// ListenerOptions tune how a handler is invoked. The zero value invokes the
// handler synchronously on every matching gesture.
type ListenerOptions struct {
	// Delay defers each invocation by a one-shot timer.
	Delay time.Duration
	// Buffer debounces invocations: every event restarts the timer and only
	// the last one is delivered.
	Buffer time.Duration
	// Single removes the listener after its first invocation.
	Single bool
	// StopEvent stops the current dispatch after this handler and stops the
	// native event.
	StopEvent bool
	// PreventDefault marks the native event default-prevented.
	PreventDefault bool
	// Horizontal and Vertical declare a scroll axis preference. Setting
	// exactly one of them lets the recognizer deactivate this listener when
	// a scroll turns out to run along the other axis.
	Horizontal bool
	Vertical   bool
	// Delegate restricts the handler to events whose target, or an ancestor
	// of it below the listener node, satisfies the predicate. The matching
	// node becomes Event.Target.
	Delegate func(*Node) bool
}

// axisPreference returns whether the listener prefers one axis, and which.
func (o *ListenerOptions) axisPreference() (preferred, horizontal bool) {
	if o.Horizontal == o.Vertical {
		return false, false
	}
	return true, o.Horizontal
}

type listener struct {
	id      uint64
	node    *Node
	gesture Gesture
	fn      Handler
	opts    ListenerOptions
	removed bool

	buffer  *Timer
	pending []*Timer
}

// nodeListeners holds a node's listeners per gesture, in registration order.
type nodeListeners struct {
	byGesture [gestureCount][]*listener
	count     int
}

// ListenerHandle identifies a registration so it can be removed.
type ListenerHandle struct {
	id      uint64
	node    *Node
	gesture Gesture
	r       *Recognizer
}

// Remove unregisters the listener. Safe to call more than once.
func (h ListenerHandle) Remove() {
	if h.r == nil {
		return
	}
	h.r.RemoveEventListener(h.node, h.gesture, h)
}

// AddEventListener registers handler for gesture on node. Gestures that
// start on node or any of its descendants bubble to it. Registration has no
// effect on contacts already in flight.
func (r *Recognizer) AddEventListener(node *Node, gesture Gesture, handler Handler, opts *ListenerOptions) (ListenerHandle, error) {
	if node == nil {
		return ListenerHandle{}, ErrNilNode
	}
	if handler == nil {
		return ListenerHandle{}, ErrNilHandler
	}
	if !gesture.valid() {
		return ListenerHandle{}, ErrUnknownGesture
	}
	nl := r.listeners[node]
	if nl == nil {
		nl = &nodeListeners{}
		r.listeners[node] = nl
	}
	r.nextListenerID++
	l := &listener{
		id:      r.nextListenerID,
		node:    node,
		gesture: gesture,
		fn:      handler,
	}
	if opts != nil {
		l.opts = *opts
	}
	nl.byGesture[gesture] = append(nl.byGesture[gesture], l)
	nl.count++
	return ListenerHandle{id: l.id, node: node, gesture: gesture, r: r}, nil
}

// On is AddEventListener for callers that register a known-good handler
// and have no use for the error. It panics on registration errors.
func (r *Recognizer) On(node *Node, gesture Gesture, handler Handler) ListenerHandle {
	h, err := r.AddEventListener(node, gesture, handler, nil)
	if err != nil {
		panic(err)
	}
	return h
}

// RemoveEventListener unregisters the listener identified by h. When it
// was the node's last listener the node leaves the index. Pending delayed or
// buffered invocations are cancelled.
func (r *Recognizer) RemoveEventListener(node *Node, gesture Gesture, h ListenerHandle) {
	if node == nil || !gesture.valid() {
		return
	}
	nl := r.listeners[node]
	if nl == nil {
		return
	}
	for _, l := range nl.byGesture[gesture] {
		if l.id == h.id {
			l.cancelPending()
			r.unindex(l)
			return
		}
	}
}

// RemoveAllListeners drops every listener registered on node.
func (r *Recognizer) RemoveAllListeners(node *Node) {
	nl := r.listeners[node]
	if nl == nil {
		return
	}
	for g := range nl.byGesture {
		for _, l := range nl.byGesture[g] {
			l.removed = true
			l.cancelPending()
		}
		nl.byGesture[g] = nil
	}
	delete(r.listeners, node)
}

// HasListeners reports whether node is in the listener index.
func (r *Recognizer) HasListeners(node *Node) bool {
	_, ok := r.listeners[node]
	return ok
}

// unindex removes l from its node's list. Track snapshots still hold the
// pointer and skip it through the removed flag.
func (r *Recognizer) unindex(l *listener) {
	if l.removed {
		return
	}
	l.removed = true
	nl := r.listeners[l.node]
	if nl == nil {
		return
	}
	s := nl.byGesture[l.gesture]
	for i := range s {
		if s[i] == l {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			nl.byGesture[l.gesture] = s[:len(s)-1]
			nl.count--
			break
		}
	}
	if nl.count == 0 {
		delete(r.listeners, l.node)
	}
}

func (l *listener) cancelPending() {
	if l.buffer != nil {
		l.buffer.Stop()
		l.buffer = nil
	}
	for _, t := range l.pending {
		t.Stop()
	}
	l.pending = nil
}

func (l *listener) track(t *Timer) {
	live := l.pending[:0]
	for _, p := range l.pending {
		if p.Active() {
			live = append(live, p)
		}
	}
	l.pending = append(live, t)
}

// delegateMatch walks from target up to, but not including, the listener
// node and returns the first node the predicate accepts.
func delegateMatch(listenerNode, target *Node, pred func(*Node) bool) *Node {
	for n := target; n != nil && n != listenerNode; n = n.Parent {
		if pred(n) {
			return n
		}
	}
	return nil
}

// invoke runs one listener with its options applied and reports whether the
// dispatch should stop.
func (r *Recognizer) invoke(l *listener, e *Event) Result {
	if l.removed {
		return Continue
	}
	ev := e
	if l.opts.Delegate != nil {
		match := delegateMatch(l.node, e.Target, l.opts.Delegate)
		if match == nil {
			return Continue
		}
		ev = e.clone()
		ev.Target = match
	}
	ev.Listener = l.node

	if l.opts.Single {
		r.unindex(l)
	}
	if l.opts.PreventDefault && e.Native != nil {
		e.Native.PreventDefault()
	}

	res := Continue
	switch {
	case l.opts.Buffer > 0:
		cp := ev.clone()
		if l.buffer != nil {
			l.buffer.Stop()
		}
		l.buffer = r.sched.After(l.opts.Buffer, func() {
			l.buffer = nil
			l.fn(cp)
		})
	case l.opts.Delay > 0:
		cp := ev.clone()
		l.track(r.sched.After(l.opts.Delay, func() {
			l.fn(cp)
		}))
	default:
		res = l.fn(ev)
	}

	if l.opts.StopEvent {
		if e.Native != nil {
			e.Native.StopPropagation()
			e.Native.PreventDefault()
		}
		res = StopPropagation
	}
	return res
}
