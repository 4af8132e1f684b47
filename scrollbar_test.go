package flick

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestScrollbarGeometry(t *testing.T) {
	f := newScrollFixture(t, 600, nil)
	bars := f.s.Scrollbars()
	if len(bars) != 1 || !bars[0].Horizontal() {
		t.Fatalf("Scrollbars() = %d bars, want one horizontal", len(bars))
	}
	sb := bars[0]

	tests := []struct {
		name   string
		offset float64
		want   Rect
	}{
		{"start", 0, Rect{X: 0, Y: 196, Width: 150, Height: 4}},
		{"middle", -150, Rect{X: 75, Y: 196, Width: 150, Height: 4}},
		{"end", -300, Rect{X: 150, Y: 196, Width: 150, Height: 4}},
		{"overscroll start", 30, Rect{X: 0, Y: 196, Width: 120, Height: 4}},
		{"overscroll end", -330, Rect{X: 180, Y: 196, Width: 120, Height: 4}},
		{"far overscroll", 1000, Rect{X: 0, Y: 196, Width: 8, Height: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.s.setOffset(Vec2{X: tt.offset})
			if diff := cmp.Diff(tt.want, sb.Rect()); diff != "" {
				t.Errorf("Rect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScrollbarBothAxes(t *testing.T) {
	viewport := NewNode("viewport", 300, 200)
	content := NewNode("content", 600, 400)
	viewport.AddChild(content)
	s, err := NewScroller(NewRecognizer(DefaultGestureConfig()), viewport, content, DefaultScrollerConfig())
	if err != nil {
		t.Fatal(err)
	}
	bars := s.Scrollbars()
	if len(bars) != 2 || !bars[0].Horizontal() || bars[1].Horizontal() {
		t.Fatalf("Scrollbars() = %v, want horizontal then vertical", bars)
	}
	s.setOffset(Vec2{X: -300, Y: -100})

	want := []Rect{
		{X: 150, Y: 196, Width: 150, Height: 4},
		{X: 296, Y: 50, Width: 4, Height: 100},
	}
	for i, sb := range bars {
		if diff := cmp.Diff(want[i], sb.Rect()); diff != "" {
			t.Errorf("bar %d Rect() mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestScrollbarHiddenWhenContentFits(t *testing.T) {
	f := newScrollFixture(t, 200, nil)
	sb := f.s.Scrollbars()[0]
	f.s.ApplyVelocity(Vec2{})
	if sb.Length != 0 || sb.Visible() {
		t.Errorf("Length = %v, Visible() = %v for content narrower than viewport", sb.Length, sb.Visible())
	}
}

func TestScrollbarDisabled(t *testing.T) {
	f := newScrollFixture(t, 600, func(c *ScrollerConfig) { c.Scrollbars = false })
	if n := len(f.s.Scrollbars()); n != 0 {
		t.Errorf("Scrollbars() = %d, want none", n)
	}
}

func TestScrollbarFade(t *testing.T) {
	f := newScrollFixture(t, 600, nil)
	sb := f.s.Scrollbars()[0]
	sched := f.rec.Scheduler()
	if sb.Visible() {
		t.Fatal("scrollbar visible before any scrolling")
	}

	f.s.ApplyVelocity(Vec2{}) // opens and closes a session at once
	if sb.Alpha != 1 {
		t.Fatalf("Alpha = %v after scrolling, want 1", sb.Alpha)
	}

	sched.Advance(ms(499))
	if sb.Alpha != 1 {
		t.Errorf("Alpha = %v before the fade delay, want 1", sb.Alpha)
	}
	sched.Advance(ms(650))
	if sb.Alpha <= 0 || sb.Alpha >= 1 {
		t.Errorf("Alpha = %v mid-fade, want between 0 and 1", sb.Alpha)
	}
	sched.Advance(ms(900))
	if sb.Alpha != 0 || sb.Visible() {
		t.Errorf("Alpha = %v after fade, want 0", sb.Alpha)
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d after fade, want 0", sched.Pending())
	}
}

func TestScrollbarShowCancelsFade(t *testing.T) {
	f := newScrollFixture(t, 600, nil)
	sb := f.s.Scrollbars()[0]
	sched := f.rec.Scheduler()

	f.s.ApplyVelocity(Vec2{})
	sched.Advance(ms(600))
	if sb.Alpha >= 1 {
		t.Fatalf("Alpha = %v, fade did not start", sb.Alpha)
	}

	f.s.ApplyVelocity(Vec2{X: -20}) // scrolling again restores the bar
	if sb.Alpha != 1 {
		t.Errorf("Alpha = %v after new session, want 1", sb.Alpha)
	}
	sched.Advance(ms(650))
	if sb.Alpha != 1 {
		t.Errorf("Alpha = %v while still decelerating, want 1", sb.Alpha)
	}
}

// fakeDisplay is a drivers.Displayer that records plotted pixels.
type fakeDisplay struct {
	w, h   int16
	pixels map[[2]int16]color.RGBA
}

func newFakeDisplay(w, h int16) *fakeDisplay {
	return &fakeDisplay{w: w, h: h, pixels: make(map[[2]int16]color.RGBA)}
}

func (d *fakeDisplay) Size() (x, y int16) { return d.w, d.h }

func (d *fakeDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.pixels[[2]int16{x, y}] = c
}

func (d *fakeDisplay) Display() error { return nil }

func TestScrollbarDrawDisplay(t *testing.T) {
	f := newScrollFixture(t, 600, nil)
	sb := f.s.Scrollbars()[0]
	white := color.RGBA{R: 200, G: 200, B: 200, A: 255}

	d := newFakeDisplay(300, 200)
	sb.DrawDisplay(d, 0, 0, white)
	if len(d.pixels) != 0 {
		t.Fatalf("hidden bar plotted %d pixels", len(d.pixels))
	}

	f.s.ApplyVelocity(Vec2{})
	sb.DrawDisplay(d, 0, 0, white)
	if len(d.pixels) != 150*4 {
		t.Errorf("plotted %d pixels, want %d", len(d.pixels), 150*4)
	}
	if c := d.pixels[[2]int16{0, 196}]; c != white {
		t.Errorf("pixel (0,196) = %v, want %v", c, white)
	}

	clipped := newFakeDisplay(300, 200)
	sb.DrawDisplay(clipped, 200, 0, white)
	if len(clipped.pixels) != 100*4 {
		t.Errorf("clipped bar plotted %d pixels, want %d", len(clipped.pixels), 100*4)
	}

	sb.Alpha = 0.5
	half := newFakeDisplay(300, 200)
	sb.DrawDisplay(half, 0, 0, white)
	if c := half.pixels[[2]int16{10, 197}]; c.R != 100 || c.A != 255 {
		t.Errorf("half-faded pixel = %v, want R=100 A=255", c)
	}
}

func TestScrollbarTracksScroll(t *testing.T) {
	f := newScrollFixture(t, 600, nil)
	sb := f.s.Scrollbars()[0]
	f.s.ScrollTo(Vec2{X: -150}, 200*time.Millisecond, nil)
	f.settle(time.Second)

	if math.Abs(sb.X-75) > 1e-9 {
		t.Errorf("bar X = %v after ScrollTo(-150), want 75", sb.X)
	}
}
