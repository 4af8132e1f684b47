package flick

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// offsetTween animates a scroll offset on both axes at once. It plays the
// role a CSS transition plays in a browser: the scroller hands it a target
// and reads back whatever position it has reached each frame.
type offsetTween struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
	target Vec2
}

// newOffsetTween creates a tween from -> to over d with the easing function.
func newOffsetTween(from, to Vec2, d time.Duration, fn ease.TweenFunc) *offsetTween {
	secs := float32(d.Seconds())
	return &offsetTween{
		tweenX: gween.New(float32(from.X), float32(to.X), secs, fn),
		tweenY: gween.New(float32(from.Y), float32(to.Y), secs, fn),
		doneX:  from.X == to.X,
		doneY:  from.Y == to.Y,
		target: to,
	}
}

// update advances both axes by dt and returns the new position. The final
// position is the exact target rather than the float32 tween value.
func (t *offsetTween) update(dt time.Duration, cur Vec2) (Vec2, bool) {
	secs := float32(dt.Seconds())
	if !t.doneX {
		val, done := t.tweenX.Update(secs)
		cur.X = float64(val)
		t.doneX = done
	}
	if !t.doneY {
		val, done := t.tweenY.Update(secs)
		cur.Y = float64(val)
		t.doneY = done
	}
	if t.doneX && t.doneY {
		return t.target, true
	}
	return cur, false
}

// fadeTween animates a single alpha value.
type fadeTween struct {
	tween *gween.Tween
	Done  bool
}

func newFadeTween(from, to float64, d time.Duration, fn ease.TweenFunc) *fadeTween {
	return &fadeTween{tween: gween.New(float32(from), float32(to), float32(d.Seconds()), fn)}
}

// update advances the tween by dt and returns the current value.
func (f *fadeTween) update(dt time.Duration) float64 {
	val, done := f.tween.Update(float32(dt.Seconds()))
	f.Done = done
	return float64(val)
}
