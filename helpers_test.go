package flick

import (
	"slices"
	"testing"
	"time"
)

// ms converts a millisecond count into a time.Duration.
func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// driver feeds native batches straight into a recognizer with exact
// timestamps, keeping the list of contacts that are down.
type driver struct {
	t    *testing.T
	rec  *Recognizer
	root *Node
	down []Touch
}

func newDriver(t *testing.T, rec *Recognizer, root *Node) *driver {
	t.Helper()
	return &driver{t: t, rec: rec, root: root}
}

func pt(id PointerID, x, y float64) Touch {
	return Touch{Identifier: id, PageX: x, PageY: y}
}

func (d *driver) send(typ NativeType, at time.Duration, changed []Touch) *NativeEvent {
	e := &NativeEvent{
		Type:           typ,
		Touches:        slices.Clone(d.down),
		ChangedTouches: changed,
		TimeStamp:      at,
	}
	d.rec.HandleNative(e)
	return e
}

func (d *driver) start(at time.Duration, ts ...Touch) *NativeEvent {
	for i := range ts {
		if ts[i].Target == nil {
			ts[i].Target = HitTest(d.root, ts[i].PageX, ts[i].PageY)
		}
		d.down = append(d.down, ts[i])
	}
	return d.send(NativeStart, at, ts)
}

func (d *driver) move(at time.Duration, ts ...Touch) *NativeEvent {
	for _, t := range ts {
		for i := range d.down {
			if d.down[i].Identifier == t.Identifier {
				d.down[i].PageX, d.down[i].PageY = t.PageX, t.PageY
			}
		}
	}
	return d.send(NativeMove, at, ts)
}

func (d *driver) end(at time.Duration, ts ...Touch) *NativeEvent {
	d.down = slices.DeleteFunc(d.down, func(t Touch) bool {
		return slices.ContainsFunc(ts, func(e Touch) bool { return e.Identifier == t.Identifier })
	})
	return d.send(NativeEnd, at, ts)
}

// recorder collects "gesture" or "gesture@node" labels in dispatch order.
type recorder struct {
	events []string
	last   map[Gesture]*Event
}

func newRecorder() *recorder {
	return &recorder{last: make(map[Gesture]*Event)}
}

func (r *recorder) handler(withNode bool) Handler {
	return func(e *Event) Result {
		label := e.Type.String()
		if withNode {
			label += "@" + e.Listener.Name
		}
		r.events = append(r.events, label)
		r.last[e.Type] = e
		return Continue
	}
}

// listen registers the recorder on node for each gesture.
func (r *recorder) listen(t *testing.T, rec *Recognizer, node *Node, withNode bool, gestures ...Gesture) {
	t.Helper()
	for _, g := range gestures {
		if _, err := rec.AddEventListener(node, g, r.handler(withNode), nil); err != nil {
			t.Fatalf("AddEventListener(%s): %v", g, err)
		}
	}
}

func (r *recorder) count(label string) int {
	n := 0
	for _, e := range r.events {
		if e == label {
			n++
		}
	}
	return n
}

// allGestures lists every gesture a recorder can listen for.
func allGestures() []Gesture {
	gs := make([]Gesture, 0, gestureCount)
	for g := range gestureCount {
		gs = append(gs, g)
	}
	return gs
}

// stage builds root(320x240) > panel(320x240) > button(100x100 at 10,10).
func stage() (root, panel, button *Node) {
	root = NewNode("root", 320, 240)
	panel = NewNode("panel", 320, 240)
	root.AddChild(panel)
	button = NewNode("button", 100, 100)
	button.X, button.Y = 10, 10
	panel.AddChild(button)
	return root, panel, button
}
