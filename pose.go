package evergreen

import "strings"

// Pose describes a synthetic hand: which fingers are raised, where the hand
// sits on screen and how far the thumb tip is from the index tip. It is used
// by gesture scripts and the keyboard driver to stand in for a detector.
type Pose struct {
	Fingers Fingers
	// CenterX and CenterY place the hand centroid (midpoint of wrist and
	// middle finger base) in normalized image coordinates.
	CenterX float64
	CenterY float64
	// Pinch is the thumb-tip to index-tip distance.
	Pinch float64
}

// Named finger combinations.
var (
	FingersFist  = Fingers{}
	FingersOne   = Fingers{Index: true}
	FingersTwo   = Fingers{Index: true, Middle: true}
	FingersThree = Fingers{Index: true, Middle: true, Ring: true}
	FingersPalm  = Fingers{Index: true, Middle: true, Ring: true, Pinky: true}
)

var namedFingers = map[string]Fingers{
	"fist":  FingersFist,
	"one":   FingersOne,
	"two":   FingersTwo,
	"three": FingersThree,
	"palm":  FingersPalm,
	"open":  FingersPalm,
}

// FingersByName looks up a named finger combination ("fist", "one", "two",
// "three", "palm"). The lookup is case-insensitive.
func FingersByName(name string) (Fingers, bool) {
	f, ok := namedFingers[strings.ToLower(name)]
	return f, ok
}

const (
	poseHalfSpan   = 0.075 // half the wrist to middle-base distance
	poseFingerGap  = 0.04  // horizontal spacing of finger bases
	poseSegment    = 0.035 // length of one finger segment
	poseCurlOffset = 0.02  // how far a curled tip drops below its joint
)

// Hand builds the 21 landmarks for the pose. The geometry is a simple
// upright hand; only the relations the classifier reads are exact: tip
// versus joint height for each finger, the thumb-index distance and the
// centroid X.
func (p Pose) Hand() Hand {
	var h Hand
	cx, cy := p.CenterX, p.CenterY

	h[Wrist] = Landmark{X: cx, Y: cy + poseHalfSpan}
	h[MiddleMCP] = Landmark{X: cx, Y: cy - poseHalfSpan}

	bases := [4]int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	up := [4]bool{p.Fingers.Index, p.Fingers.Middle, p.Fingers.Ring, p.Fingers.Pinky}
	for f, mcp := range bases {
		x := cx + float64(f-1)*poseFingerGap
		baseY := cy - poseHalfSpan
		h[mcp] = Landmark{X: x, Y: baseY}
		pipY := baseY - poseSegment
		h[mcp+1] = Landmark{X: x, Y: pipY}
		if up[f] {
			h[mcp+2] = Landmark{X: x, Y: pipY - poseSegment}
			h[mcp+3] = Landmark{X: x, Y: pipY - 2*poseSegment}
		} else {
			h[mcp+2] = Landmark{X: x, Y: pipY + poseCurlOffset/2}
			h[mcp+3] = Landmark{X: x, Y: pipY + poseCurlOffset}
		}
	}

	// Thumb hangs off the index side; its tip sits exactly Pinch to the
	// left of the index tip.
	tip := h[IndexTip]
	h[ThumbCMC] = Landmark{X: cx - poseFingerGap, Y: cy + poseHalfSpan/2}
	h[ThumbMCP] = Landmark{X: cx - 1.5*poseFingerGap, Y: cy}
	h[ThumbIP] = Landmark{X: tip.X - p.Pinch/2, Y: (tip.Y + cy) / 2}
	h[ThumbTip] = Landmark{X: tip.X - p.Pinch, Y: tip.Y}
	return h
}
