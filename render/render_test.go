package render

import (
	"math"
	"math/rand/v2"
	"testing"
	"testing/fstest"

	"github.com/phanxgames/evergreen"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"tree", "tree"},
		{"text 1/joy", "text_1_joy"},
		{"v1.2-final", "v1.2-final"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadDropped(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png":           {Data: []byte{1}},
		"b.JPG":           {Data: []byte{2}},
		"notes.txt":       {Data: []byte{3}},
		"empty.gif":       {Data: nil},
		"album/c.jpeg":    {Data: []byte{4}},
		"album/readme.md": {Data: []byte{5}},
	}
	got := readDropped(fsys)
	names := map[string]bool{}
	for _, f := range got {
		names[f.name] = true
	}
	if len(got) != 3 || !names["a.png"] || !names["b.JPG"] || !names["c.jpeg"] {
		t.Errorf("readDropped names = %v, want a.png b.JPG c.jpeg", names)
	}
}

func TestKeyboardStep(t *testing.T) {
	k := NewKeyboard()

	res := k.Step(KeyState{}, 1.0/60)
	if len(res.Hands) != 0 {
		t.Fatal("hand shown before toggle")
	}

	res = k.Step(KeyState{ToggleHand: true}, 1.0/60)
	if len(res.Hands) != 1 {
		t.Fatal("toggle did not show the hand")
	}
	if got := evergreen.FingersUp(&res.Hands[0]); got != evergreen.FingersPalm {
		t.Errorf("fingers = %+v, want palm", got)
	}

	two := evergreen.FingersTwo
	res = k.Step(KeyState{Fingers: &two}, 1.0/60)
	if got := evergreen.FingersUp(&res.Hands[0]).Mode(); got != evergreen.ModeText2 {
		t.Errorf("mode = %v, want %v", got, evergreen.ModeText2)
	}

	prev := res.Timestamp
	res = k.Step(KeyState{}, 1.0/60)
	if res.Timestamp <= prev {
		t.Errorf("timestamp %v did not advance past %v", res.Timestamp, prev)
	}
}

func TestKeyboardClamps(t *testing.T) {
	k := NewKeyboard()
	for i := 0; i < 600; i++ {
		k.Step(KeyState{Left: true, Open: true}, 1.0/60)
	}
	p, _ := k.Pose()
	if p.CenterX != 0 {
		t.Errorf("CenterX = %v, want 0", p.CenterX)
	}
	if p.Pinch != keyboardMaxPinch {
		t.Errorf("Pinch = %v, want %v", p.Pinch, keyboardMaxPinch)
	}
}

func TestKeyboardDrivesClassifier(t *testing.T) {
	k := NewKeyboard()
	k.Step(KeyState{ToggleHand: true}, 0)
	var res evergreen.DetectionResult
	for i := 0; i < 60; i++ {
		res = k.Step(KeyState{Open: true}, 1.0/60)
	}
	c := evergreen.NewClassifier(evergreen.DefaultConfig().Classifier)
	d := c.Classify(evergreen.DriveState{}, res.FirstHand())
	if !d.Detected || d.Dispersion <= 0 {
		t.Errorf("drive = %+v, want detected with positive dispersion", d)
	}
}

func TestSortBackToFront(t *testing.T) {
	items := []drawItem{{depth: 3}, {depth: 10}, {depth: 1}, {depth: 7}}
	sortBackToFront(items)
	for i := 1; i < len(items); i++ {
		if items[i-1].depth < items[i].depth {
			t.Fatalf("items not sorted back to front: %v", items)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 32, 0, 128, 10, 20, 30, 255}, 2, 1)
	if img.Pix[0] != 127 || img.Pix[1] != 63 || img.Pix[3] != 128 {
		t.Errorf("pixel 0 = %v, want [127 63 0 128]", img.Pix[0:4])
	}
	if img.Pix[4] != 10 || img.Pix[7] != 255 {
		t.Errorf("opaque pixel changed: %v", img.Pix[4:8])
	}
}

func TestDriveLines(t *testing.T) {
	lines := driveLines(evergreen.DriveState{Detected: true, Mode: evergreen.ModeText3, Dispersion: 0.5}, 12, 9)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0] != "mode: TEXT_3 (hand)" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[3] != "photos: 12 (9 loaded)" {
		t.Errorf("line 3 = %q", lines[3])
	}
}

func TestWorldTransformComposes(t *testing.T) {
	cfg := evergreen.DefaultConfig().Decor
	cfg.Gifts, cfg.Baubles = 1, 0
	d := evergreen.LayoutOrnaments(cfg, rand.New(rand.NewPCG(1, 2)))[0]

	group := evergreen.Transform{Rotation: evergreen.YawQuat(math.Pi / 2), Scale: 2}
	wt := worldTransform(group, d)

	want := group.Apply(d.Seed)
	if !wt.Position.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Position = %v, want %v", wt.Position, want)
	}
	if math.Abs(wt.Scale-2*cfg.GiftScale) > 1e-12 {
		t.Errorf("Scale = %v, want %v", wt.Scale, 2*cfg.GiftScale)
	}
}
