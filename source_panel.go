package flick

import (
	"time"

	"tinygo.org/x/drivers/touch"
)

// PanelSource polls a single-contact TinyGo touch panel. A reading with a
// positive pressure (Z) counts as down.
type PanelSource struct {
	ptr     touch.Pointer
	tracker contactTracker

	width, height float64

	// Calibrate maps a raw panel reading to screen pixels. The default
	// passes X and Y through unchanged.
	Calibrate func(p touch.Point) (x, y float64)

	contacts []contact
}

// NewPanelSource creates a source for a width x height screen whose
// contacts are hit-tested against root.
func NewPanelSource(ptr touch.Pointer, root *Node, width, height int16) *PanelSource {
	return &PanelSource{
		ptr:     ptr,
		tracker: contactTracker{root: root},
		width:   float64(width),
		height:  float64(height),
		Calibrate: func(p touch.Point) (float64, float64) {
			return float64(p.X), float64(p.Y)
		},
	}
}

// Capabilities implements Source. Panels report touch; the host redraws
// every frame so offsets can always be animated.
func (p *PanelSource) Capabilities() Capabilities {
	return Capabilities{Touch: true, Transforms: true}
}

// Listen implements Source.
func (p *PanelSource) Listen(_ InputKind, fn func(*NativeEvent)) {
	p.tracker.listen = fn
	p.tracker.reset()
}

// ViewportSize implements Source.
func (p *PanelSource) ViewportSize() (w, h float64) { return p.width, p.height }

// Poll reads the panel once and delivers any change stamped with now.
func (p *PanelSource) Poll(now time.Duration) {
	pt := p.ptr.ReadTouchPoint()
	p.contacts = p.contacts[:0]
	if pt.Z > 0 {
		x, y := p.Calibrate(pt)
		p.contacts = append(p.contacts, contact{id: 0, x: x, y: y})
	}
	p.tracker.frame(now, p.contacts)
}
