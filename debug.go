package flick

import (
	"fmt"
	"os"
)

// SetDebugMode enables or disables debug logging. When enabled, gesture
// classification decisions (vetoes, swipe drops, pinch pairing, scroll
// start, early ends) are printed to stderr.
func (r *Recognizer) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// debugf prints one classification line to stderr when debug mode is on.
func (r *Recognizer) debugf(format string, args ...any) {
	if !r.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[flick] "+format+"\n", args...)
}

// debugf prints one scroller state line when the owning recognizer is in
// debug mode.
func (s *Scroller) debugf(format string, args ...any) {
	if s.rec == nil || !s.rec.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[flick] scroller %q: "+format+"\n",
		append([]any{s.viewport.Name}, args...)...)
}
