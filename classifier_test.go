package evergreen

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func testClassifier() *Classifier {
	return NewClassifier(DefaultConfig().Classifier)
}

func handFor(f Fingers, x, pinch float64) *Hand {
	h := Pose{Fingers: f, CenterX: x, CenterY: 0.5, Pinch: pinch}.Hand()
	return &h
}

// --- Mode selection ---

func TestFingersMode(t *testing.T) {
	tests := []struct {
		name    string
		fingers Fingers
		want    Mode
	}{
		{"index only", FingersOne, ModeText1},
		{"index and middle", FingersTwo, ModeText2},
		{"three fingers", FingersThree, ModeText3},
		{"open palm", FingersPalm, ModeTree},
		{"fist", FingersFist, ModeTree},
		{"middle only", Fingers{Middle: true}, ModeTree},
		{"pinky only", Fingers{Pinky: true}, ModeTree},
		{"index and pinky", Fingers{Index: true, Pinky: true}, ModeTree},
	}
	c := testClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Classify(DriveState{}, handFor(tt.fingers, 0.5, 0.1))
			if d.Mode != tt.want {
				t.Errorf("Mode = %v, want %v", d.Mode, tt.want)
			}
			if !d.Detected {
				t.Error("Detected = false, want true")
			}
		})
	}
}

func TestText2IgnoresThumb(t *testing.T) {
	c := testClassifier()
	for _, pinch := range []float64{0, 0.03, 0.1, 0.2, 0.5} {
		h := handFor(FingersTwo, 0.5, pinch)
		// Move the whole thumb around; only the four fingers count.
		for _, dy := range []float64{-0.2, 0, 0.2} {
			hh := *h
			for _, j := range []int{ThumbCMC, ThumbMCP, ThumbIP, ThumbTip} {
				hh[j].Y += dy
			}
			if got := c.Classify(DriveState{}, &hh).Mode; got != ModeText2 {
				t.Errorf("pinch %v, thumb dy %v: Mode = %v, want %v", pinch, dy, got, ModeText2)
			}
		}
	}
}

// --- Dispersion ---

func TestDispersionRemap(t *testing.T) {
	tests := []struct {
		pinch, want float64
	}{
		{0, 0},
		{0.05, 0},
		{0.125, 0.5},
		{0.2, 1},
		{0.35, 1},
	}
	c := testClassifier()
	for _, tt := range tests {
		got := c.Classify(DriveState{}, handFor(FingersPalm, 0.5, tt.pinch)).Dispersion
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("pinch %v: Dispersion = %v, want %v", tt.pinch, got, tt.want)
		}
	}
}

func TestDispersionClampedAndMonotonic(t *testing.T) {
	c := testClassifier()
	prev := -1.0
	for i := 0; i <= 100; i++ {
		pinch := float64(i) * 0.005
		d := c.Classify(DriveState{}, handFor(FingersPalm, 0.5, pinch)).Dispersion
		if d < 0 || d > 1 {
			t.Fatalf("pinch %v: Dispersion = %v, outside [0, 1]", pinch, d)
		}
		if d < prev {
			t.Fatalf("pinch %v: Dispersion = %v decreased from %v", pinch, d, prev)
		}
		prev = d
	}
}

// --- Rotation speed ---

func TestRotationSpeed(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0.5, 0},
		{0, 1},
		{1, -1},
		{0.25, 0.5},
		{-0.5, 2}, // off-screen overshoot is not clamped
	}
	c := testClassifier()
	for _, tt := range tests {
		got := c.Classify(DriveState{}, handFor(FingersPalm, tt.x, 0.1)).RotationSpeed
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("x %v: RotationSpeed = %v, want %v", tt.x, got, tt.want)
		}
	}
}

// --- Hand lost ---

func TestHandLostDecay(t *testing.T) {
	c := testClassifier()
	d := DriveState{Detected: true, Dispersion: 0.2, Mode: ModeText1, RotationSpeed: 0.4}
	want := []float64{0.15, 0.1, 0.05, 0, 0}
	for i, w := range want {
		d = c.Classify(d, nil)
		if math.Abs(d.Dispersion-w) > 1e-9 {
			t.Errorf("step %d: Dispersion = %v, want %v", i, d.Dispersion, w)
		}
		if d.Mode != ModeTree {
			t.Errorf("step %d: Mode = %v, want %v", i, d.Mode, ModeTree)
		}
		if d.Detected {
			t.Errorf("step %d: Detected = true, want false", i)
		}
	}
}

func TestHandLostKeepsRotationSpeed(t *testing.T) {
	c := testClassifier()
	d := DriveState{Detected: true, RotationSpeed: -0.6, Dispersion: 1}
	for i := 0; i < 50; i++ {
		d = c.Classify(d, nil)
	}
	if d.RotationSpeed != -0.6 {
		t.Errorf("RotationSpeed = %v, want -0.6 (no decay on hand loss)", d.RotationSpeed)
	}
}

func TestInvalidHandIsNoHand(t *testing.T) {
	c := testClassifier()
	h := handFor(FingersOne, 0.5, 0.1)
	h[IndexTip].X = math.NaN()
	d := c.Classify(DriveState{Dispersion: 0.5, Mode: ModeText1}, h)
	if d.Detected || d.Mode != ModeTree || !approx(d.Dispersion, 0.45) {
		t.Errorf("drive = %+v, want hand-lost state", d)
	}
}

// --- Purity ---

func TestClassifyIdempotent(t *testing.T) {
	c := testClassifier()
	h := handFor(FingersThree, 0.3, 0.12)
	prev := DriveState{Dispersion: 0.7, RotationSpeed: 1, Mode: ModeTree}
	a := c.Classify(prev, h)
	b := c.Classify(prev, h)
	if a != b {
		t.Errorf("same input gave %+v then %+v", a, b)
	}
	if again := c.Classify(a, h); again != a {
		t.Errorf("re-classifying a detected hand gave %+v, want %+v", again, a)
	}
}

func TestEndToEndSequence(t *testing.T) {
	c := testClassifier()
	samples := []*Hand{nil, nil, handFor(FingersPalm, 0.5, 0.2)}
	d := DriveState{Mode: ModeTree, Dispersion: 0.5}
	var got []DriveState
	for _, h := range samples {
		d = c.Classify(d, h)
		got = append(got, d)
	}
	for i, want := range []float64{0.45, 0.40} {
		if got[i].Detected || got[i].Mode != ModeTree || math.Abs(got[i].Dispersion-want) > 1e-9 {
			t.Errorf("sample %d = %+v, want undetected tree at dispersion %v", i, got[i], want)
		}
	}
	last := got[2]
	if !last.Detected || last.Mode != ModeTree || math.Abs(last.Dispersion-1) > 1e-9 {
		t.Errorf("sample 2 = %+v, want detected tree at full dispersion", last)
	}
}

func TestHandFromPoints(t *testing.T) {
	if _, ok := HandFromPoints(make([]Landmark, 20)); ok {
		t.Error("20 points accepted")
	}
	h, ok := HandFromPoints(make([]Landmark, NumLandmarks))
	if !ok || !h.Valid() {
		t.Error("21 zero points rejected")
	}
	res := DetectionResult{Hands: []Hand{h}}
	if res.FirstHand() == nil {
		t.Error("FirstHand = nil, want the hand")
	}
	if (&DetectionResult{}).FirstHand() != nil {
		t.Error("FirstHand on empty result should be nil")
	}
}

func TestFirstHandIgnoresLaterHands(t *testing.T) {
	bad := *handFor(FingersPalm, 0.5, 0.1)
	bad[Wrist].X = math.NaN()
	good := *handFor(FingersOne, 0.5, 0.1)

	res := DetectionResult{Hands: []Hand{bad, good}}
	if res.FirstHand() != nil {
		t.Error("FirstHand skipped an invalid first hand")
	}
	res = DetectionResult{Hands: []Hand{good, bad}}
	if h := res.FirstHand(); h == nil || FingersUp(h) != FingersOne {
		t.Error("FirstHand did not return hand 0")
	}
}

func TestFingersByName(t *testing.T) {
	for name, want := range map[string]Fingers{"palm": FingersPalm, "TWO": FingersTwo, "fist": FingersFist} {
		got, ok := FingersByName(name)
		if !ok || got != want {
			t.Errorf("FingersByName(%q) = %+v, %v", name, got, ok)
		}
	}
	if _, ok := FingersByName("four"); ok {
		t.Error("unknown name accepted")
	}
}
