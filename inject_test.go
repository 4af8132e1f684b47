package flick

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// batchLog records every native batch a source delivers.
type batchLog struct {
	batches []*NativeEvent
}

func (l *batchLog) listen(e *NativeEvent) { l.batches = append(l.batches, e) }

func (l *batchLog) types() []NativeType {
	out := make([]NativeType, len(l.batches))
	for i, b := range l.batches {
		out[i] = b.Type
	}
	return out
}

func TestInjectSourceTap(t *testing.T) {
	root, _, button := stage()
	src := NewInjectSource(root, 320, 240)
	var log batchLog
	src.Listen(TouchInput, log.listen)

	src.Tap(50, 50)
	if src.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", src.Pending())
	}

	src.Update()
	if len(log.batches) != 1 || log.batches[0].Type != NativeStart {
		t.Fatalf("after press: %v", log.types())
	}
	start := log.batches[0]
	if start.ChangedTouches[0].Target != button {
		t.Errorf("press target = %v, want button", start.ChangedTouches[0].Target.Name)
	}
	if start.TimeStamp != DefaultInjectFrame || len(start.Touches) != 1 {
		t.Errorf("start = %+v", start)
	}

	src.Update()
	end := log.batches[1]
	if end.Type != NativeEnd || len(end.Touches) != 0 || end.ChangedTouches[0].Identifier != 0 {
		t.Errorf("release batch = %+v", end)
	}
	if src.Update() {
		t.Error("Update() consumed a frame from an empty queue")
	}
	if src.Now() != 3*DefaultInjectFrame {
		t.Errorf("Now() = %v, want %v", src.Now(), 3*DefaultInjectFrame)
	}
}

func TestInjectSourceDragBatches(t *testing.T) {
	root, _, _ := stage()
	src := NewInjectSource(root, 320, 240)
	var log batchLog
	src.Listen(TouchInput, log.listen)

	src.Drag(10, 10, 50, 90, 3)
	for src.Update() {
	}

	want := []NativeType{NativeStart, NativeMove, NativeMove, NativeEnd}
	if diff := cmp.Diff(want, log.types()); diff != "" {
		t.Fatalf("batch types mismatch (-want +got):\n%s", diff)
	}
	mid := log.batches[1].ChangedTouches[0]
	if mid.PageX != 30 || mid.PageY != 50 {
		t.Errorf("first move at (%v, %v), want (30, 50)", mid.PageX, mid.PageY)
	}
	last := log.batches[len(log.batches)-1].ChangedTouches[0]
	if last.PageX != 50 || last.PageY != 90 {
		t.Errorf("release at (%v, %v), want (50, 90)", last.PageX, last.PageY)
	}
}

func TestInjectSourceSimultaneousChanges(t *testing.T) {
	root, panel, _ := stage()
	src := NewInjectSource(root, 320, 240)
	var log batchLog
	src.Listen(TouchInput, log.listen)

	src.Press(0, 200, 200)
	src.Press(1, 220, 200)
	src.Move(0, 150, 200) // id 0 moves while 1 is held
	src.Release(1)
	src.Press(2, 300, 10)
	for src.Update() {
	}

	want := []NativeType{NativeStart, NativeStart, NativeMove, NativeEnd, NativeStart}
	if diff := cmp.Diff(want, log.types()); diff != "" {
		t.Fatalf("batch types mismatch (-want +got):\n%s", diff)
	}
	if n := len(log.batches[1].Touches); n != 2 {
		t.Errorf("second press sees %d touches, want 2", n)
	}
	if got := log.batches[3].Touches; len(got) != 1 || got[0].Identifier != 0 {
		t.Errorf("touches after release = %+v", got)
	}
	if tgt := log.batches[4].ChangedTouches[0].Target; tgt != panel {
		t.Errorf("press on empty panel area targeted %v", tgt.Name)
	}
}

func TestInjectSourceMoveEndStartOrder(t *testing.T) {
	var log batchLog
	tr := contactTracker{root: NewNode("root", 100, 100), listen: log.listen}
	tr.frame(ms(0), []contact{{id: 0, x: 1, y: 1}, {id: 1, x: 5, y: 5}})
	tr.frame(ms(16), []contact{{id: 0, x: 2, y: 2}, {id: 2, x: 9, y: 9}})

	want := []NativeType{NativeStart, NativeMove, NativeEnd, NativeStart}
	if diff := cmp.Diff(want, log.types()); diff != "" {
		t.Fatalf("batch types mismatch (-want +got):\n%s", diff)
	}
	if got := log.batches[3].Touches; len(got) != 2 || got[1].Identifier != 2 {
		t.Errorf("touches after start = %+v", got)
	}
}

func TestInjectSourceMouseMode(t *testing.T) {
	root, _, _ := stage()
	src := NewInjectSource(root, 320, 240)
	var log batchLog
	src.Listen(MouseInput, log.listen)

	src.Pinch(160, 120, 40, 80, 2) // only the first contact survives
	for src.Update() {
	}

	for _, b := range log.batches {
		for _, tch := range b.ChangedTouches {
			if tch.Identifier != MousePointer {
				t.Fatalf("mouse batch carried identifier %d", tch.Identifier)
			}
		}
	}
	want := []NativeType{NativeStart, NativeMove, NativeMove, NativeEnd}
	if diff := cmp.Diff(want, log.types()); diff != "" {
		t.Errorf("batch types mismatch (-want +got):\n%s", diff)
	}
}

func TestInjectSourceWaitFor(t *testing.T) {
	src := NewInjectSource(NewNode("root", 10, 10), 10, 10)
	src.WaitFor(ms(100))
	if src.Pending() != 7 {
		t.Errorf("Pending() = %d, want 7", src.Pending())
	}
}

func TestInjectSourceDrivesRecognizer(t *testing.T) {
	rec, src, root := newInjectRecognizer(t)
	r := newRecorder()
	r.listen(t, rec, root, false, GestureTap, GestureSwipe)

	src.Tap(100, 100)
	src.Run(rec)
	if diff := cmp.Diff([]string{"tap"}, r.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func newInjectRecognizer(t *testing.T) (*Recognizer, *InjectSource, *Node) {
	t.Helper()
	root := NewNode("root", 320, 240)
	rec := NewRecognizer(DefaultGestureConfig())
	src := NewInjectSource(root, 320, 240)
	if err := rec.Init(src); err != nil {
		t.Fatal(err)
	}
	return rec, src, root
}
