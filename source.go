package flick

import "time"

// contact is one pointer that is down in a polled frame.
type contact struct {
	id   PointerID
	x, y float64
}

// contactTracker turns per-frame polls of the pointers that are down into
// start, move and end batches, the way a browser reports touch events.
// Targets are hit-tested once, when a contact goes down.
type contactTracker struct {
	root   *Node
	listen func(*NativeEvent)

	down  map[PointerID]Touch
	order []PointerID
}

func (c *contactTracker) reset() {
	clear(c.down)
	c.order = c.order[:0]
}

// target returns the topmost interactable node at (x, y), or the root.
func (c *contactTracker) target(x, y float64) *Node {
	if c.root == nil {
		return nil
	}
	if n := HitTest(c.root, x, y); n != nil {
		return n
	}
	return c.root
}

// frame diffs the pointers that are down now against the previous frame
// and delivers up to three batches: moves, then releases, then presses.
func (c *contactTracker) frame(now time.Duration, contacts []contact) {
	if c.down == nil {
		c.down = make(map[PointerID]Touch)
	}

	var moved, started []Touch
	seen := make(map[PointerID]bool, len(contacts))
	for _, p := range contacts {
		seen[p.id] = true
		prev, ok := c.down[p.id]
		if !ok {
			t := Touch{Identifier: p.id, PageX: p.x, PageY: p.y, Target: c.target(p.x, p.y)}
			started = append(started, t)
			continue
		}
		if prev.PageX != p.x || prev.PageY != p.y {
			prev.PageX, prev.PageY = p.x, p.y
			c.down[p.id] = prev
			moved = append(moved, prev)
		}
	}

	var ended []Touch
	live := c.order[:0]
	for _, id := range c.order {
		if seen[id] {
			live = append(live, id)
			continue
		}
		ended = append(ended, c.down[id])
		delete(c.down, id)
	}
	c.order = live

	if len(moved) > 0 {
		c.emit(NativeMove, now, moved)
	}
	if len(ended) > 0 {
		c.emit(NativeEnd, now, ended)
	}
	if len(started) > 0 {
		for _, t := range started {
			c.down[t.Identifier] = t
			c.order = append(c.order, t.Identifier)
		}
		c.emit(NativeStart, now, started)
	}
}

func (c *contactTracker) emit(typ NativeType, now time.Duration, changed []Touch) {
	if c.listen == nil {
		return
	}
	touches := make([]Touch, 0, len(c.order))
	for _, id := range c.order {
		touches = append(touches, c.down[id])
	}
	c.listen(&NativeEvent{
		Type:           typ,
		Touches:        touches,
		ChangedTouches: changed,
		TimeStamp:      now,
	})
}
