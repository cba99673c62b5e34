package evergreen

import (
	"math"
	"time"
)

// Hand landmark indices following the MediaPipe hand model.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Landmark is one hand keypoint in normalized image coordinates: origin at
// the top-left, X to the right, Y downward, both in [0, 1] for on-screen
// points. Z is the detector's relative depth.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is the fixed set of landmarks for one detected hand.
type Hand [NumLandmarks]Landmark

// Valid reports whether every coordinate is finite.
func (h *Hand) Valid() bool {
	for i := range h {
		p := h[i]
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return false
		}
	}
	return true
}

// DetectionResult is one output of the landmark detector: zero or more hands
// seen in a single camera frame.
type DetectionResult struct {
	// Timestamp identifies the camera frame. Results with a timestamp equal
	// to the previous one are treated as duplicates.
	Timestamp time.Duration
	Hands     []Hand
}

// FirstHand returns the first hand in the result, or nil when there is none
// or it is invalid. Later hands are ignored even when the first is invalid.
func (r *DetectionResult) FirstHand() *Hand {
	if len(r.Hands) == 0 {
		return nil
	}
	h := &r.Hands[0]
	if !h.Valid() {
		return nil
	}
	return h
}

// HandFromPoints builds a Hand from a slice of points, as decoded from a
// detector wire format. It returns false when the slice does not hold
// exactly NumLandmarks points.
func HandFromPoints(points []Landmark) (Hand, bool) {
	var h Hand
	if len(points) != NumLandmarks {
		return h, false
	}
	copy(h[:], points)
	return h, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
