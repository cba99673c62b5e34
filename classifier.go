package evergreen

import "math"

// DriveState is the gesture-derived control signal every animator reads
// each frame. It is produced only by the Classifier and handed to consumers
// by value.
type DriveState struct {
	// Detected reports whether a hand was present in the latest sample.
	Detected bool
	// RotationSpeed is the signed horizontal hand offset from screen center.
	// Nominally in [-1, 1] but not clamped; consumers must tolerate overshoot.
	RotationSpeed float64
	// Dispersion is the thumb-index openness in [0, 1].
	Dispersion float64
	// Mode is the requested particle shape.
	Mode Mode
}

// fingerJoints pairs each classified finger's tip with its proximal joint.
// The thumb is excluded: its extension depends on hand rotation.
var fingerJoints = [4][2]int{
	{IndexTip, IndexPIP},
	{MiddleTip, MiddlePIP},
	{RingTip, RingPIP},
	{PinkyTip, PinkyPIP},
}

// Fingers records which of index, middle, ring and pinky are extended.
type Fingers struct {
	Index, Middle, Ring, Pinky bool
}

// FingersUp applies the extension test to each finger: a finger is up when
// its tip is higher on screen (smaller Y) than its proximal joint.
func FingersUp(h *Hand) Fingers {
	var up [4]bool
	for i, j := range fingerJoints {
		up[i] = h[j[0]].Y < h[j[1]].Y
	}
	return Fingers{Index: up[0], Middle: up[1], Ring: up[2], Pinky: up[3]}
}

// Mode maps a finger combination to a display mode. Anything that is not
// one, two or three fingers counted from the index falls back to ModeTree,
// so an open palm and a fist both select the tree.
func (f Fingers) Mode() Mode {
	switch {
	case f.Index && !f.Middle && !f.Ring && !f.Pinky:
		return ModeText1
	case f.Index && f.Middle && !f.Ring && !f.Pinky:
		return ModeText2
	case f.Index && f.Middle && f.Ring && !f.Pinky:
		return ModeText3
	default:
		return ModeTree
	}
}

// Classifier turns landmark samples into DriveState updates. It holds only
// configuration: the output is a pure function of the sample and the
// previous state.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a Classifier with the given heuristics.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify derives the next DriveState from prev and the current sample.
// A nil hand means no hand was detected: the mode is forced back to the
// tree and dispersion decays by a fixed step rather than snapping to zero.
// RotationSpeed keeps its last value while the hand is lost.
func (c *Classifier) Classify(prev DriveState, h *Hand) DriveState {
	if h == nil || !h.Valid() {
		return DriveState{
			Detected:      false,
			RotationSpeed: prev.RotationSpeed,
			Dispersion:    math.Max(0, prev.Dispersion-c.cfg.LostDecay),
			Mode:          ModeTree,
		}
	}
	return DriveState{
		Detected:      true,
		RotationSpeed: c.RotationSpeed(h),
		Dispersion:    c.Openness(h),
		Mode:          FingersUp(h).Mode(),
	}
}

// Openness remaps the thumb-tip to index-tip distance from
// [OpenMin, OpenMax] onto [0, 1], clamped. The distance is measured in the
// image plane; landmark Z uses a different scale.
func (c *Classifier) Openness(h *Hand) float64 {
	thumb, index := h[ThumbTip], h[IndexTip]
	d := math.Hypot(thumb.X-index.X, thumb.Y-index.Y)
	return clamp01((d - c.cfg.OpenMin) / (c.cfg.OpenMax - c.cfg.OpenMin))
}

// RotationSpeed is the horizontal offset of the hand centroid (midpoint of
// the wrist and the middle finger base) from CenterX, scaled by
// RotationGain. It is not clamped.
func (c *Classifier) RotationSpeed(h *Hand) float64 {
	cx := (h[Wrist].X + h[MiddleMCP].X) / 2
	return (cx - c.cfg.CenterX) * c.cfg.RotationGain
}
