package evergreen

import (
	"math"
	"testing"
)

func TestRotationAutoRotate(t *testing.T) {
	r := NewRotationController(DefaultConfig().Rotation)
	for i := 0; i < 60; i++ {
		r.Update(1.0/60, DriveState{Mode: ModeTree})
	}
	if math.Abs(r.Yaw()-0.05) > 1e-9 {
		t.Errorf("Yaw = %v, want 0.05 after one idle second", r.Yaw())
	}

	text := NewRotationController(DefaultConfig().Rotation)
	text.Update(1.0/60, DriveState{Mode: ModeText1})
	if text.Yaw() != 0 {
		t.Errorf("text mode Yaw = %v, want 0", text.Yaw())
	}
}

func TestRotationFollowsHand(t *testing.T) {
	r := NewRotationController(DefaultConfig().Rotation)
	drive := DriveState{Detected: true, Mode: ModeText2, RotationSpeed: 1}
	for i := 0; i < 300; i++ {
		r.Update(1.0/60, drive)
	}
	if math.Abs(r.Rotation()-1) > 1e-3 {
		t.Errorf("Rotation = %v, want ~1", r.Rotation())
	}
	before := r.Yaw()
	r.Update(0.5, drive)
	if got := r.Yaw() - before; math.Abs(got-1) > 1e-2 {
		t.Errorf("yaw step = %v, want ~1 (gain 2 over 0.5s)", got)
	}
}

func TestRotationSmoothing(t *testing.T) {
	r := NewRotationController(DefaultConfig().Rotation)
	r.Update(0.1, DriveState{Dispersion: 1})
	if math.Abs(r.Dispersion()-0.2) > 1e-9 {
		t.Errorf("Dispersion = %v, want 0.2", r.Dispersion())
	}
	// A long frame snaps instead of overshooting.
	r.Update(5, DriveState{Dispersion: 0.3})
	if r.Dispersion() != 0.3 {
		t.Errorf("Dispersion = %v, want 0.3", r.Dispersion())
	}
}

func TestOrnamentGroupSpring(t *testing.T) {
	cfg := DefaultConfig().Rotation
	g := NewOrnamentGroup(cfg, 60)
	for i := 0; i < 600; i++ {
		g.Update(DriveState{Dispersion: 1})
	}
	if math.Abs(g.Scale()-2.5) > 1e-3 {
		t.Errorf("tree Scale = %v, want 2.5", g.Scale())
	}
	if want := -600 * cfg.OrnamentSpin; math.Abs(g.Spin()-want) > 1e-9 {
		t.Errorf("Spin = %v, want %v", g.Spin(), want)
	}

	spin := g.Spin()
	for i := 0; i < 600; i++ {
		g.Update(DriveState{Mode: ModeText1, Dispersion: 1})
	}
	if math.Abs(g.Scale()-1) > 1e-3 {
		t.Errorf("text Scale = %v, want 1", g.Scale())
	}
	if g.Spin() != spin {
		t.Error("group spun outside tree mode")
	}
}
