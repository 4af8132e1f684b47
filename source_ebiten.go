package flick

import (
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenSource polls ebiten's touch or mouse state once per tick and
// delivers the changes as native batches. Call Layout from the game's
// Layout and Update from the game's Update.
type EbitenSource struct {
	caps    Capabilities
	kind    InputKind
	tracker contactTracker

	now           time.Duration
	width, height float64

	touchIDs []ebiten.TouchID
	contacts []contact
}

// NewEbitenSource creates a source whose contacts are hit-tested against
// root. Touch input is assumed on mobile platforms.
func NewEbitenSource(root *Node) *EbitenSource {
	return &EbitenSource{
		caps: Capabilities{
			Touch:      runtime.GOOS == "android" || runtime.GOOS == "ios",
			Transforms: true,
		},
		tracker: contactTracker{root: root},
	}
}

// SetTouch overrides touch detection, for example in a mobile browser.
func (s *EbitenSource) SetTouch(enabled bool) {
	s.caps.Touch = enabled
}

// Capabilities implements Source.
func (s *EbitenSource) Capabilities() Capabilities { return s.caps }

// Listen implements Source.
func (s *EbitenSource) Listen(kind InputKind, fn func(*NativeEvent)) {
	s.kind = kind
	s.tracker.listen = fn
	s.tracker.reset()
}

// ViewportSize implements Source.
func (s *EbitenSource) ViewportSize() (w, h float64) { return s.width, s.height }

// Layout records the logical screen size.
func (s *EbitenSource) Layout(width, height int) {
	s.width, s.height = float64(width), float64(height)
}

// Now returns the source's clock: the sum of all tick durations so far.
// Pass it to Recognizer.Update each tick.
func (s *EbitenSource) Now() time.Duration { return s.now }

// Update advances the clock by one tick and polls input.
func (s *EbitenSource) Update() {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	s.now += time.Second / time.Duration(tps)

	s.contacts = s.contacts[:0]
	if s.kind == TouchInput {
		s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
		for _, tid := range s.touchIDs {
			x, y := ebiten.TouchPosition(tid)
			s.contacts = append(s.contacts, contact{id: PointerID(tid), x: float64(x), y: float64(y)})
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		s.contacts = append(s.contacts, contact{id: MousePointer, x: float64(x), y: float64(y)})
	}
	s.tracker.frame(s.now, s.contacts)
}
