package evergreen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoSteps is returned when a gesture script has no steps.
var ErrNoSteps = errors.New("evergreen: script has no steps")

// scriptStep is a single action in a gesture script. Optional coordinates
// are pointers so an explicit 0 can be told apart from an omitted field.
type scriptStep struct {
	Action  string   `json:"action"`
	Label   string   `json:"label,omitempty"`
	Fingers string   `json:"fingers,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	ToX     *float64 `json:"toX,omitempty"`
	Pinch   float64  `json:"pinch,omitempty"`
	ToPinch *float64 `json:"toPinch,omitempty"`
	Frames  int      `json:"frames,omitempty"`

	fingers Fingers
}

// scriptCenter is where a pose step places the hand when x or y is omitted.
const scriptCenter = 0.5

// gestureScript is the top-level JSON structure for a gesture script.
type gestureScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptSource replays a JSON gesture script as a LandmarkSource, one sample
// per Interval. It drives demos and end-to-end checks without a camera.
//
// Actions:
//
//	pose        hold a synthetic hand for frames samples; x, y, pinch place it.
//	            x and y default to 0.5, the frame center, which leaves the
//	            scene unrotated. toX and toPinch, when set, sweep linearly
//	            across the frames.
//	lost        report no hand for frames samples
//	wait        emit nothing for frames intervals
//	screenshot  call OnScreenshot with label
type ScriptSource struct {
	// Interval is the spacing between samples. Zero emits as fast as Next is
	// called.
	Interval time.Duration
	// OnScreenshot is called for screenshot steps. It may be nil.
	OnScreenshot func(label string)

	mu     sync.Mutex
	steps  []scriptStep
	cursor int
	frame  int
	stamp  time.Duration
	done   bool
}

// LoadScript parses a JSON gesture script.
func LoadScript(jsonData []byte) (*ScriptSource, error) {
	var script gestureScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("evergreen: failed to parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, ErrNoSteps
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "pose":
			f, ok := FingersByName(st.Fingers)
			if !ok {
				return nil, fmt.Errorf("evergreen: step %d: unknown fingers %q", i, st.Fingers)
			}
			st.fingers = f
		case "lost", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("evergreen: step %d: unknown action %q", i, st.Action)
		}
		if st.Frames <= 0 && st.Action != "screenshot" {
			st.Frames = 1
		}
	}
	return &ScriptSource{Interval: time.Second / 30, steps: script.Steps}, nil
}

// Done reports whether every step has been replayed.
func (s *ScriptSource) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Next implements LandmarkSource. Once the script is exhausted it returns an
// error for which IsSourceDone is true.
func (s *ScriptSource) Next(ctx context.Context) (DetectionResult, error) {
	for {
		if s.Interval > 0 {
			t := time.NewTimer(s.Interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return DetectionResult{}, ctx.Err()
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return DetectionResult{}, err
		}

		res, emit, err := s.step()
		if err != nil || emit {
			return res, err
		}
	}
}

// step advances one interval. emit is false for intervals that produce no
// sample.
func (s *ScriptSource) step() (res DetectionResult, emit bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.cursor >= len(s.steps) {
			s.done = true
			return DetectionResult{}, false, fmt.Errorf("script finished: %w", errSourceDone)
		}
		st := &s.steps[s.cursor]
		if st.Action == "screenshot" {
			s.cursor++
			if s.OnScreenshot != nil {
				s.OnScreenshot(st.Label)
			}
			continue
		}

		f := s.frame
		s.frame++
		if s.frame >= st.Frames {
			s.cursor++
			s.frame = 0
		}

		switch st.Action {
		case "wait":
			return DetectionResult{}, false, nil
		case "lost":
			s.stamp += max(s.Interval, time.Millisecond)
			return DetectionResult{Timestamp: s.stamp}, true, nil
		default:
			s.stamp += max(s.Interval, time.Millisecond)
			return DetectionResult{Timestamp: s.stamp, Hands: []Hand{st.pose(f).Hand()}}, true, nil
		}
	}
}

// pose returns the synthetic pose for frame f of the step.
func (st *scriptStep) pose(f int) Pose {
	t := 0.0
	if st.Frames > 1 {
		t = float64(f) / float64(st.Frames-1)
	}
	x, y, pinch := orCenter(st.X), orCenter(st.Y), st.Pinch
	if st.ToX != nil {
		x = lerp(x, *st.ToX, t)
	}
	if st.ToPinch != nil {
		pinch = lerp(pinch, *st.ToPinch, t)
	}
	return Pose{Fingers: st.fingers, CenterX: x, CenterY: y, Pinch: pinch}
}

func orCenter(v *float64) float64 {
	if v == nil {
		return scriptCenter
	}
	return *v
}
