package flick

import (
	"container/heap"
	"time"
)

// Timer is a pending callback owned by a Scheduler.
type Timer struct {
	s        *Scheduler
	deadline time.Duration
	interval time.Duration // zero for one-shot timers
	seq      uint64
	index    int // position in the heap, -1 when not queued
	fn       func()
}

// Stop cancels the timer. Safe to call more than once and from inside the
// timer's own callback.
func (t *Timer) Stop() {
	if t == nil || t.s == nil {
		return
	}
	if t.index >= 0 {
		heap.Remove(&t.s.queue, t.index)
	}
	t.interval = 0
	t.s = nil
}

// Active reports whether the timer will still fire.
func (t *Timer) Active() bool {
	return t != nil && t.s != nil
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline != q[j].deadline {
		return q[i].deadline < q[j].deadline
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler is a single-threaded virtual clock. Nothing runs on its own:
// the host loop calls Advance once per frame (and the recognizer advances it
// to each native event's timestamp), and due timers fire synchronously in
// deadline order.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// NewScheduler creates a scheduler whose clock starts at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d after the current time.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	return s.schedule(d, 0, fn)
}

// Every runs fn every interval, starting one interval from now, until the
// returned timer is stopped. Non-positive intervals are treated as 1ms.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Timer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.schedule(interval, interval, fn)
}

func (s *Scheduler) schedule(d, interval time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{
		s:        s,
		deadline: s.now + d,
		interval: interval,
		seq:      s.seq,
		index:    -1,
		fn:       fn,
	}
	heap.Push(&s.queue, t)
	return t
}

// Advance moves the clock to now, firing every timer whose deadline is at
// or before it. Each callback observes Now() equal to its own deadline.
// Moving the clock backwards is ignored.
func (s *Scheduler) Advance(now time.Duration) {
	for len(s.queue) > 0 && s.queue[0].deadline <= now {
		t := heap.Pop(&s.queue).(*Timer)
		if t.deadline > s.now {
			s.now = t.deadline
		}
		if t.interval > 0 {
			s.seq++
			t.seq = s.seq
			t.deadline += t.interval
			heap.Push(&s.queue, t)
		} else {
			t.s = nil
		}
		t.fn()
	}
	if now > s.now {
		s.now = now
	}
}

// AdvanceBy moves the clock forward by d.
func (s *Scheduler) AdvanceBy(d time.Duration) {
	s.Advance(s.now + d)
}

// Pending returns the number of queued timers.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}
