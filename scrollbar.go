package flick

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"tinygo.org/x/drivers"
)

// Scrollbar is a passive indicator of a scroller's position along one axis.
// Its geometry is in viewport-local pixels and is recomputed whenever the
// scroller's offset changes.
type Scrollbar struct {
	s          *Scroller
	horizontal bool

	// X, Y, Length and Thickness describe the bar rectangle. Along the axis
	// the bar starts at X (horizontal) or Y (vertical).
	X, Y      float64
	Length    float64
	Thickness float64
	// Alpha is 1 while the scroller is active and fades to 0 when idle.
	Alpha float64

	fadeDelay *Timer
	fadeFrame *Timer
	fade      *fadeTween
}

func newScrollbar(s *Scroller, horizontal bool) *Scrollbar {
	sb := &Scrollbar{s: s, horizontal: horizontal, Thickness: s.cfg.ScrollbarThickness}
	sb.update()
	return sb
}

// Horizontal reports whether the bar tracks the x axis.
func (sb *Scrollbar) Horizontal() bool { return sb.horizontal }

// Visible reports whether the bar has anything to draw.
func (sb *Scrollbar) Visible() bool { return sb.Alpha > 0 && sb.Length > 0 }

// update recomputes the bar rectangle from the scroller's offset. The bar
// shrinks by the current overscroll, down to the configured minimum.
func (sb *Scrollbar) update() {
	s := sb.s
	view, content := s.viewport.Height, s.content.Height
	offset, bound := s.offset.Y, s.bounds.Y
	if sb.horizontal {
		view, content = s.viewport.Width, s.content.Width
		offset, bound = s.offset.X, s.bounds.X
	}
	if content <= view || view <= 0 {
		sb.Length = 0
		return
	}

	length := view * view / content
	switch {
	case offset > 0:
		length -= offset
	case offset < bound:
		length -= bound - offset
	}
	length = math.Max(length, s.cfg.ScrollbarMinLength)
	length = math.Min(length, view)

	track := view - length
	pos := 0.0
	if bound < 0 {
		pos = offset / bound * track
	}
	pos = math.Max(0, math.Min(pos, track))

	sb.Length = length
	if sb.horizontal {
		sb.X = pos
		sb.Y = s.viewport.Height - sb.Thickness
	} else {
		sb.X = s.viewport.Width - sb.Thickness
		sb.Y = pos
	}
}

// Rect returns the bar rectangle in viewport-local pixels.
func (sb *Scrollbar) Rect() Rect {
	if sb.horizontal {
		return Rect{X: sb.X, Y: sb.Y, Width: sb.Length, Height: sb.Thickness}
	}
	return Rect{X: sb.X, Y: sb.Y, Width: sb.Thickness, Height: sb.Length}
}

// show makes the bar fully opaque and cancels any pending fade.
func (sb *Scrollbar) show() {
	sb.stop()
	sb.Alpha = 1
}

// scheduleFade starts the fade-out after the idle delay.
func (sb *Scrollbar) scheduleFade() {
	sb.stop()
	if sb.Alpha == 0 {
		return
	}
	sched := sb.s.sched
	sb.fadeDelay = sched.After(sb.s.cfg.ScrollbarFadeDelay, func() {
		sb.fadeDelay = nil
		sb.fade = newFadeTween(sb.Alpha, 0, sb.s.cfg.ScrollbarFadeTime, ease.Linear)
		dt := sb.s.cfg.frameInterval()
		sb.fadeFrame = sched.Every(dt, func() {
			sb.Alpha = math.Max(0, sb.fade.update(dt))
			if sb.fade.Done {
				sb.Alpha = 0
				sb.stop()
			}
		})
	})
}

// stop cancels the fade timers.
func (sb *Scrollbar) stop() {
	if sb.fadeDelay != nil {
		sb.fadeDelay.Stop()
		sb.fadeDelay = nil
	}
	if sb.fadeFrame != nil {
		sb.fadeFrame.Stop()
		sb.fadeFrame = nil
	}
	sb.fade = nil
}

var scrollbarPixel *ebiten.Image

func ensureScrollbarPixel() *ebiten.Image {
	if scrollbarPixel == nil {
		scrollbarPixel = ebiten.NewImage(1, 1)
		scrollbarPixel.Fill(color.White)
	}
	return scrollbarPixel
}

// DrawEbiten draws the bar onto dst with the viewport's top-left corner at
// (originX, originY).
func (sb *Scrollbar) DrawEbiten(dst *ebiten.Image, originX, originY float64, clr color.Color) {
	if !sb.Visible() {
		return
	}
	r := sb.Rect()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(originX+r.X, originY+r.Y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(sb.Alpha))
	dst.DrawImage(ensureScrollbarPixel(), &op)
}

// DrawDisplay plots the bar onto a TinyGo display with the viewport's
// top-left corner at (originX, originY). Panels cannot blend, so the color
// is darkened by the bar's alpha instead. The caller flushes with Display.
func (sb *Scrollbar) DrawDisplay(d drivers.Displayer, originX, originY int16, c color.RGBA) {
	if !sb.Visible() {
		return
	}
	c.R = uint8(float64(c.R) * sb.Alpha)
	c.G = uint8(float64(c.G) * sb.Alpha)
	c.B = uint8(float64(c.B) * sb.Alpha)

	w, h := d.Size()
	r := sb.Rect()
	x0 := int(originX) + int(math.Round(r.X))
	y0 := int(originY) + int(math.Round(r.Y))
	x1 := x0 + int(math.Round(r.Width))
	y1 := y0 + int(math.Round(r.Height))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, int(w)), min(y1, int(h))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d.SetPixel(int16(x), int16(y), c)
		}
	}
}
