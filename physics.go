package flick

import "math"

// The scroller's motion is expressed in frames: velocities are pixels per
// frame interval and elapsed time is a (fractional) frame count, so the
// formulas below do not depend on how often the frame loop actually runs.

// decayVelocity returns v0 * (1-friction)^frames.
func decayVelocity(v0, friction, frames float64) float64 {
	return v0 * math.Pow(1-friction, frames)
}

// decayDistance is the closed-form integral of decayVelocity from 0 to
// frames:
//
//	x(t) = v0 * (f^t - 1) / ln f,  f = 1 - friction
func decayDistance(v0, friction, frames float64) float64 {
	f := 1 - friction
	return v0 * (math.Pow(f, frames) - 1) / math.Log(f)
}

// springDisplacement is a critically damped spring returning towards zero
// from displacement d0 with initial velocity v0:
//
//	d(t) = (d0 + (v0 + k*d0)*t) * e^(-k*t)
func springDisplacement(d0, v0, k, frames float64) float64 {
	return (d0 + (v0+k*d0)*frames) * math.Exp(-k*frames)
}

// springVelocity is the time derivative of springDisplacement:
//
//	d'(t) = (v0 - k*(v0 + k*d0)*t) * e^(-k*t)
func springVelocity(d0, v0, k, frames float64) float64 {
	return (v0 - k*(v0+k*d0)*frames) * math.Exp(-k*frames)
}

// rubberBand halves any excursion of raw past [bound, 0].
func rubberBand(raw, bound float64) float64 {
	switch {
	case raw > 0:
		return raw / 2
	case raw < bound:
		return bound + (raw-bound)/2
	}
	return raw
}

// clampAxis clamps v into [bound, 0]. NaN clamps to 0.
func clampAxis(v, bound float64) float64 {
	if math.IsNaN(v) || v > 0 {
		return 0
	}
	if v < bound {
		return bound
	}
	return v
}

// outOfBounds returns the nearest legal edge for v and whether v lies
// outside [bound, 0].
func outOfBounds(v, bound float64) (edge float64, out bool) {
	if v > 0 {
		return 0, true
	}
	if v < bound {
		return bound, true
	}
	return v, false
}
