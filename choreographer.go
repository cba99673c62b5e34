package evergreen

import (
	"math"
	"math/rand/v2"
)

// Choreographer animates gifts, baubles and photos from the drive state.
// Each object follows its own continuous rule; the only discrete switch is
// visibility, which is a scale-to-zero outside tree mode rather than
// removal.
type Choreographer struct {
	decor    DecorConfig
	carousel CarouselConfig
	rng      *rand.Rand

	ornaments    []*Decoration
	photos       []*Decoration
	photoVersion uint64
	synced       bool
}

// NewChoreographer lays out the ornaments. Photos are added by SyncPhotos.
func NewChoreographer(decor DecorConfig, carousel CarouselConfig, rng *rand.Rand) *Choreographer {
	return &Choreographer{
		decor:     decor,
		carousel:  carousel,
		rng:       rng,
		ornaments: LayoutOrnaments(decor, rng),
	}
}

// Ornaments returns the gifts and baubles.
func (c *Choreographer) Ornaments() []*Decoration {
	return c.ornaments
}

// Photos returns the photo cards in photo set order.
func (c *Choreographer) Photos() []*Decoration {
	return c.photos
}

// SyncPhotos rebuilds the photo cards when the set has changed. Seeds are
// re-laid out for the new count; cards whose index survives keep their live
// transform and smoothing so a resize never pops.
func (c *Choreographer) SyncPhotos(set *PhotoSet) {
	refs, version := set.Snapshot()
	if c.synced && version == c.photoVersion && len(refs) == len(c.photos) {
		return
	}
	c.synced = true
	c.photoVersion = version

	n := len(refs)
	photos := make([]*Decoration, n)
	for i, ref := range refs {
		seed, rot := PhotoSeed(i, n)
		var d *Decoration
		if i < len(c.photos) {
			d = c.photos[i]
		} else {
			d = &Decoration{
				Kind:      KindPhoto,
				Delay:     c.rng.Float64() * 2 * math.Pi,
				Color:     Color{0.94, 0.94, 0.94},
				transform: Transform{Position: seed, Rotation: rot, Scale: 1},
			}
		}
		d.Seed = seed
		d.SeedRotation = rot
		d.Index = i
		d.Photo = ref
		photos[i] = d
	}
	c.photos = photos
}

// Update advances every decoration one frame. t is elapsed time and dt the
// frame step in seconds; camera is the viewer position in the ornament
// group's local space.
func (c *Choreographer) Update(t, dt float64, drive DriveState, camera Vec3) {
	for _, o := range c.ornaments {
		switch o.Kind {
		case KindGift:
			c.updateGift(o, t, drive)
		case KindBauble:
			c.updateBauble(o, t, drive)
		}
	}
	total := len(c.photos)
	for _, p := range c.photos {
		c.updatePhoto(p, total, t, dt, drive, camera)
	}
}

// scatterTarget displaces the seed along the object's direction.
func scatterTarget(o *Decoration, d, spread float64) Vec3 {
	return o.Seed.Add(o.Direction.Mul(d * spread))
}

func (c *Choreographer) updateGift(o *Decoration, t float64, drive DriveState) {
	tr := &o.transform
	if drive.Mode != ModeTree {
		tr.Scale = approach(tr.Scale, 0, c.decor.Rate)
		return
	}
	d := drive.Dispersion

	spread := c.decor.GiftSpreadBase + d*c.decor.GiftSpreadGain
	target := scatterTarget(o, d, spread)
	target[1] += math.Sin(t*2+o.Delay) * c.decor.GiftBob
	tr.Position = lerpVec(tr.Position, target, c.decor.Rate)

	o.spin += 0.01
	tr.Rotation = EulerQuat(math.Sin(t+o.Delay)*0.5, o.spin, 0)

	tr.Scale = approach(tr.Scale, c.decor.GiftScale*(1-d*c.decor.ShrinkGain), c.decor.Rate)
}

func (c *Choreographer) updateBauble(o *Decoration, t float64, drive DriveState) {
	tr := &o.transform
	if drive.Mode != ModeTree {
		tr.Scale = approach(tr.Scale, 0, c.decor.Rate)
		return
	}
	d := drive.Dispersion

	spread := c.decor.BaubleSpreadBase + d*c.decor.BaubleSpreadGain
	tr.Position = lerpVec(tr.Position, scatterTarget(o, d, spread), c.decor.Rate)
	tr.Position[1] += math.Sin(t*3+o.Delay) * c.decor.BaubleBob

	tr.Scale = approach(tr.Scale, 1-d*c.decor.ShrinkGain, c.decor.Rate)
}

// CarouselAngle is the angular position of photo index of total at elapsed
// time t, revolving at speed radians per second.
func CarouselAngle(index, total int, t, speed float64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(index)/float64(total)*2*math.Pi + t*speed
}

// carouselMixEpsilon is the blend weight above which a photo counts as
// carouseling.
const carouselMixEpsilon = 0.01

func (c *Choreographer) updatePhoto(p *Decoration, total int, t, dt float64, drive DriveState, camera Vec3) {
	cc := &c.carousel
	tr := &p.transform
	if drive.Mode != ModeTree {
		tr.Scale = approach(tr.Scale, 0, frameRate(cc.HideRate, dt))
		return
	}

	p.smoothed = approach(p.smoothed, drive.Dispersion, frameRate(cc.SmoothRate, dt))
	sd := p.smoothed

	theta := CarouselAngle(p.Index, total, t, cc.Speed)
	carousel := Vec3{
		math.Sin(theta) * cc.Radius,
		lerp(p.Seed.Y(), math.Sin(float64(p.Index))*cc.Height, sd),
		math.Cos(theta) * cc.Radius,
	}

	mix := Smoothstep(sd, cc.BlendLow, cc.BlendHigh)
	p.blend = mix
	tr.Position = lerpVec(p.Seed, carousel, mix)

	if mix > carouselMixEpsilon {
		face := FacingQuat(tr.Position, camera)
		tr.Rotation = slerpQuat(tr.Rotation, face, cc.FaceRate*dt*mix)
	} else {
		tr.Rotation = slerpQuat(tr.Rotation, p.SeedRotation, cc.ReturnRate*dt)
	}

	target := 1.0
	if mix > carouselMixEpsilon {
		focus := Smoothstep(math.Cos(theta), cc.FocusLow, 1) * cc.FocusBoost
		target = cc.BaseScale + focus
	}
	tr.Scale = approach(tr.Scale, target, frameRate(cc.ScaleRate, dt))

	p.bob = math.Sin(t/4*cc.FloatSpeed+p.Delay) / 10 * cc.FloatAmount
}
