package flick

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a gesture script.
type scriptStep struct {
	Action string    `json:"action"`
	Label  string    `json:"label,omitempty"`
	ID     PointerID `json:"id,omitempty"`
	X      float64   `json:"x,omitempty"`
	Y      float64   `json:"y,omitempty"`
	FromX  float64   `json:"fromX,omitempty"`
	FromY  float64   `json:"fromY,omitempty"`
	ToX    float64   `json:"toX,omitempty"`
	ToY    float64   `json:"toY,omitempty"`
	From   float64   `json:"from,omitempty"`
	To     float64   `json:"to,omitempty"`
	Frames int       `json:"frames,omitempty"`
}

// gestureScript is the top-level JSON structure for a gesture script.
type gestureScript struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"mark": true, "tap": true, "press": true, "move": true, "release": true,
	"drag": true, "pinch": true, "wait": true,
}

// TestRunner sequences scripted input on an InjectSource across frames, for
// automated gesture tests and demos.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	// OnMark, when set, is called for each "mark" step with its label.
	OnMark func(label string)
}

// LoadTestScript parses a JSON gesture script. Each step has an action
// (tap, press, move, release, drag, pinch, wait or mark) and its arguments.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script gestureScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame, queueing the next step's input on
// src once the previous step's frames have drained. Call it before
// src.Update each frame.
func (r *TestRunner) Step(src *InjectSource) {
	if r.done {
		return
	}
	if src.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "mark":
		if r.OnMark != nil {
			r.OnMark(st.Label)
		}
	case "tap":
		src.Tap(st.X, st.Y)
	case "press":
		src.Press(st.ID, st.X, st.Y)
	case "move":
		src.Move(st.ID, st.X, st.Y)
	case "release":
		src.Release(st.ID)
	case "drag":
		src.Drag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "pinch":
		src.Pinch(st.X, st.Y, st.From, st.To, max(st.Frames, 1))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && src.Pending() == 0 {
		r.done = true
	}
}

// Run drives the whole script through src and rec, one frame at a time.
func (r *TestRunner) Run(src *InjectSource, rec *Recognizer) {
	for !r.Done() {
		r.Step(src)
		src.Update()
		rec.Update(src.Now())
	}
	src.Run(rec)
}
