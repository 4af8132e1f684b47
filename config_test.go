package flick

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigEmptyIsDefault(t *testing.T) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	data := []byte(`
gestures:
  tap_threshold: 12
  swipe_time: 750ms
scroller:
  direction: horizontal
  bounces: vertical
  friction: 0.1
  snap: {x: 64, y: 32}
  scroll_to_easing: linear
  scrollbar_fade_delay: 1s
`)
	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Gestures.TapThreshold = 12
	want.Gestures.SwipeTime = 750 * time.Millisecond
	want.Scroller.Direction = AxisHorizontal
	want.Scroller.Bounces = BounceVertical
	want.Scroller.Friction = 0.1
	want.Scroller.Snap = SnapGrid{X: 64, Y: 32}
	want.Scroller.ScrollToEasing = "linear"
	want.Scroller.ScrollbarFadeDelay = time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigScalarForms(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		bounce BounceMode
		snap   SnapGrid
	}{
		{"bool true", "scroller: {bounces: true, snap: true}", BounceBoth, SnapGrid{Page: true}},
		{"bool false", "scroller: {bounces: false, snap: false}", BounceNone, SnapGrid{}},
		{"uniform grid", "scroller: {bounces: horizontal, snap: 50}", BounceHorizontal, SnapGrid{X: 50, Y: 50}},
		{"none", "scroller: {bounces: none}", BounceNone, SnapGrid{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig([]byte(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Scroller.Bounces != tt.bounce {
				t.Errorf("Bounces = %v, want %v", cfg.Scroller.Bounces, tt.bounce)
			}
			if cfg.Scroller.Snap != tt.snap {
				t.Errorf("Snap = %+v, want %+v", cfg.Scroller.Snap, tt.snap)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "gestures: [", "parse config"},
		{"friction zero", "scroller: {friction: 0}", "friction"},
		{"friction one", "scroller: {friction: 1}", "friction"},
		{"spring tension", "scroller: {spring_tension: -1}", "spring_tension"},
		{"fps", "scroller: {fps: 0}", "fps"},
		{"easing", "scroller: {scroll_to_easing: wobble}", "unknown easing"},
		{"axis", "scroller: {direction: diagonal}", "unknown axis"},
		{"bounce", "scroller: {bounces: sideways}", "unknown bounce mode"},
		{"negative threshold", "gestures: {scroll_threshold: -1}", "must not be negative"},
		{"hold interval", "gestures: {tap_hold_interval: 0s}", "tap_hold_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestEasingByName(t *testing.T) {
	for _, name := range []string{"", "OutCubic", "outcubic", "Linear", "InOutSine"} {
		if _, ok := easingByName(name); !ok {
			t.Errorf("easingByName(%q) not found", name)
		}
	}
	if _, ok := easingByName("nope"); ok {
		t.Error("easingByName(nope) found")
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := DefaultScrollerConfig()
	if got := cfg.frameInterval(); got != time.Second/60 {
		t.Errorf("frameInterval() = %v, want %v", got, time.Second/60)
	}
	cfg.FPS = 0
	if got := cfg.frameInterval(); got != time.Second/60 {
		t.Errorf("frameInterval() with zero fps = %v", got)
	}
	cfg.FPS = 30
	if got := cfg.frameInterval(); got != time.Second/30 {
		t.Errorf("frameInterval() at 30fps = %v", got)
	}
}
