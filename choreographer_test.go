package evergreen

import (
	"math"
	"testing"
)

func testChoreographer(gifts, baubles int) *Choreographer {
	cfg := DefaultConfig()
	cfg.Decor.Gifts = gifts
	cfg.Decor.Baubles = baubles
	return NewChoreographer(cfg.Decor, cfg.Carousel, testRNG())
}

var testCameraPos = Vec3{0, 0, 24}

func runChoreo(c *Choreographer, frames int, drive DriveState) {
	const dt = 1.0 / 60
	for f := 0; f < frames; f++ {
		c.Update(float64(f)*dt, dt, drive, testCameraPos)
	}
}

// --- Carousel ---

func TestCarouselAngle(t *testing.T) {
	if got := CarouselAngle(2, 5, 0, 0.15); math.Abs(got-0.8*math.Pi) > 1e-12 {
		t.Errorf("CarouselAngle(2, 5, 0) = %v, want %v", got, 0.8*math.Pi)
	}
	if got := CarouselAngle(0, 4, 10, 0.15); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("CarouselAngle(0, 4, 10) = %v, want 1.5", got)
	}
	if got := CarouselAngle(3, 0, 5, 1); got != 0 {
		t.Errorf("CarouselAngle with no photos = %v, want 0", got)
	}
}

func TestPhotosJoinCarousel(t *testing.T) {
	c := testChoreographer(0, 0)
	c.SyncPhotos(NewPhotoSet("a", "b", "c", "d"))
	runChoreo(c, 600, DriveState{Detected: true, Dispersion: 1})

	for _, p := range c.Photos() {
		pos := p.Transform().Position
		if r := math.Hypot(pos.X(), pos.Z()); math.Abs(r-16) > 0.01 {
			t.Errorf("photo %d carousel radius = %v, want 16", p.Index, r)
		}
		if p.CarouselBlend() < 0.99 {
			t.Errorf("photo %d blend = %v, want ~1", p.Index, p.CarouselBlend())
		}
		if s := p.Transform().Scale; s < 2.5-1e-6 || s > 5+1e-6 {
			t.Errorf("photo %d scale = %v, want in [2.5, 5]", p.Index, s)
		}
	}
}

func TestCarouselFocusBoost(t *testing.T) {
	const frames = 900
	cc := DefaultConfig().Carousel
	c := testChoreographer(0, 0)
	c.SyncPhotos(NewPhotoSet("a", "b", "c", "d", "e"))
	runChoreo(c, frames, DriveState{Detected: true, Dispersion: 1})

	last := float64(frames-1) / 60
	photos := c.Photos()
	front, biggest := -1, -1
	bestCos, bestScale := math.Inf(-1), math.Inf(-1)
	for i, p := range photos {
		cos := math.Cos(CarouselAngle(p.Index, len(photos), last, cc.Speed))
		scale := p.Transform().Scale
		if cos > bestCos {
			front, bestCos = i, cos
		}
		if scale > bestScale {
			biggest, bestScale = i, scale
		}
		if cos < cc.FocusLow && math.Abs(scale-cc.BaseScale) > 0.01 {
			t.Errorf("photo %d cos %.3f scale = %v, want %v", p.Index, cos, scale, cc.BaseScale)
		}
	}
	if front != biggest {
		t.Errorf("largest photo = %d, want front photo %d", biggest, front)
	}
	if bestScale <= cc.BaseScale+1 {
		t.Errorf("front photo scale = %v, want boosted above %v", bestScale, cc.BaseScale+1)
	}
}

func TestPhotosRestAtSeed(t *testing.T) {
	c := testChoreographer(0, 0)
	c.SyncPhotos(NewPhotoSet("a", "b", "c"))
	runChoreo(c, 300, DriveState{Detected: true})

	for _, p := range c.Photos() {
		tr := p.Transform()
		if d := tr.Position.Sub(p.Seed).Len(); d > 1e-9 {
			t.Errorf("photo %d is %v from its seed", p.Index, d)
		}
		if math.Abs(tr.Scale-1) > 1e-3 {
			t.Errorf("photo %d scale = %v, want 1", p.Index, tr.Scale)
		}
		if p.CarouselBlend() != 0 {
			t.Errorf("photo %d blend = %v, want 0", p.Index, p.CarouselBlend())
		}
	}
}

func TestPhotoFacesCamera(t *testing.T) {
	c := testChoreographer(0, 0)
	c.SyncPhotos(NewPhotoSet("a"))
	runChoreo(c, 900, DriveState{Detected: true, Dispersion: 1})

	p := c.Photos()[0]
	tr := p.Transform()
	facing := tr.Rotation.Rotate(axisZ)
	toCam := testCameraPos.Sub(tr.Position).Normalize()
	if dot := facing.Dot(toCam); dot < 0.99 {
		t.Errorf("card normal . camera direction = %v, want ~1", dot)
	}
}

// --- Visibility ---

func TestHiddenOutsideTree(t *testing.T) {
	c := testChoreographer(5, 5)
	c.SyncPhotos(NewPhotoSet("a", "b"))
	runChoreo(c, 200, DriveState{Detected: true, Mode: ModeText1})

	for i, o := range c.Ornaments() {
		if o.Visible() {
			t.Errorf("ornament %d visible in text mode, scale %v", i, o.Transform().Scale)
		}
	}
	for _, p := range c.Photos() {
		if p.Visible() {
			t.Errorf("photo %d visible in text mode, scale %v", p.Index, p.Transform().Scale)
		}
	}

	// Returning to the tree grows them back.
	runChoreo(c, 200, DriveState{Detected: true})
	for i, o := range c.Ornaments() {
		if !o.Visible() {
			t.Errorf("ornament %d still hidden in tree mode", i)
		}
	}
}

func TestOrnamentScatter(t *testing.T) {
	c := testChoreographer(3, 3)
	runChoreo(c, 300, DriveState{Detected: true, Dispersion: 1})
	for i, o := range c.Ornaments() {
		dist := o.Transform().Position.Sub(o.Seed).Len()
		switch o.Kind {
		case KindGift:
			// 8 + 20 along the direction, plus a trailing bob.
			if math.Abs(dist-28) > 0.8 {
				t.Errorf("gift %d scattered %v, want ~28", i, dist)
			}
			if want := 0.4 * 0.2; math.Abs(o.Transform().Scale-want) > 1e-3 {
				t.Errorf("gift %d scale = %v, want %v", i, o.Transform().Scale, want)
			}
		case KindBauble:
			if math.Abs(dist-20) > 0.5 {
				t.Errorf("bauble %d scattered %v, want ~20", i, dist)
			}
		}
	}
}

// --- Photo set sync ---

func TestSyncPhotosKeepsState(t *testing.T) {
	set := NewPhotoSet("a", "b")
	c := testChoreographer(0, 0)
	c.SyncPhotos(set)
	runChoreo(c, 60, DriveState{Detected: true, Dispersion: 1})

	first := c.Photos()[0]
	smoothed, delay := first.smoothed, first.Delay
	set.Append("c")
	c.SyncPhotos(set)

	if len(c.Photos()) != 3 {
		t.Fatalf("photos = %d, want 3", len(c.Photos()))
	}
	if c.Photos()[0] != first {
		t.Error("photo 0 was rebuilt on append")
	}
	if first.smoothed != smoothed || first.Delay != delay {
		t.Error("photo 0 lost its animation state")
	}
	seed, _ := PhotoSeed(1, 3)
	if got := c.Photos()[1].Seed; got != seed {
		t.Errorf("photo 1 seed = %v, want relaid %v", got, seed)
	}
	if got := c.Photos()[2].Photo.URL; got != "c" {
		t.Errorf("photo 2 URL = %q, want c", got)
	}

	set.Replace("x")
	c.SyncPhotos(set)
	if len(c.Photos()) != 1 || c.Photos()[0].Photo.URL != "x" {
		t.Errorf("after replace photos = %d", len(c.Photos()))
	}
}

func TestSyncPhotosNoChange(t *testing.T) {
	set := NewPhotoSet("a")
	c := testChoreographer(0, 0)
	c.SyncPhotos(set)
	before := c.Photos()
	c.SyncPhotos(set)
	if &before[0] != &c.Photos()[0] {
		t.Error("unchanged set rebuilt the photo slice")
	}
}

func TestEmptyPhotoSet(t *testing.T) {
	c := testChoreographer(1, 1)
	c.SyncPhotos(NewPhotoSet())
	runChoreo(c, 10, DriveState{Detected: true, Dispersion: 1})
	if len(c.Photos()) != 0 {
		t.Errorf("photos = %d, want 0", len(c.Photos()))
	}
}
