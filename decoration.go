package evergreen

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind distinguishes the decorative object variants.
type Kind uint8

const (
	KindGift   Kind = iota // ribboned box scattered with the tree
	KindBauble             // small sphere hugging the tree
	KindPhoto              // photo card that joins the carousel
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGift:
		return "gift"
	case KindBauble:
		return "bauble"
	case KindPhoto:
		return "photo"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Decoration is one gift, bauble or photo. The seed fields and random
// constants are fixed at construction; only the live transform changes, and
// only through the Choreographer.
type Decoration struct {
	Kind Kind
	// Seed is the resting position inside the ornament group.
	Seed Vec3
	// SeedRotation is the resting orientation.
	SeedRotation Quat
	// Direction is the unit vector the object scatters along.
	Direction Vec3
	// Delay offsets the object's oscillations.
	Delay float64
	Color Color

	// Index is the photo's position in the photo set (photos only).
	Index int
	// Photo is the image reference shown on the card (photos only).
	Photo PhotoRef

	transform Transform
	spin      float64 // accumulated gift yaw
	smoothed  float64 // photo-local dispersion smoothing
	bob       float64 // photo float offset along local Y
	blend     float64 // photo carousel weight from the last update
}

// Transform returns the live transform relative to the ornament group.
func (d *Decoration) Transform() Transform {
	return d.transform
}

// Visible reports whether the object is large enough to draw.
func (d *Decoration) Visible() bool {
	return d.transform.Scale > 1e-3
}

// FloatOffset returns the photo float bob along the card's local Y axis.
func (d *Decoration) FloatOffset() float64 {
	return d.bob
}

// CarouselBlend returns the photo's current blend weight between its seed
// position (0) and the carousel (1).
func (d *Decoration) CarouselBlend() float64 {
	return d.blend
}

// coneRadius is the tree silhouette radius the layouts follow at height y.
func coneRadius(y float64) float64 {
	return (1 - (y+7)/16) * 5
}

// randomDirection returns a uniformly jittered unit vector.
func randomDirection(rng *rand.Rand) Vec3 {
	for {
		v := Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, rng.Float64() - 0.5}
		if v.Len() > 1e-6 {
			return v.Normalize()
		}
	}
}

// LayoutOrnaments seeds cfg.Gifts gifts followed by cfg.Baubles baubles
// around the tree cone.
func LayoutOrnaments(cfg DecorConfig, rng *rand.Rand) []*Decoration {
	out := make([]*Decoration, 0, cfg.Gifts+cfg.Baubles)
	place := func(kind Kind, radius Range, scale float64) {
		y := cfg.LayoutY.Random(rng)
		r := coneRadius(y) * radius.Random(rng)
		theta := rng.Float64() * 2 * math.Pi
		d := &Decoration{
			Kind:         kind,
			Seed:         Vec3{math.Cos(theta) * r, y, math.Sin(theta) * r},
			SeedRotation: mgl64.QuatIdent(),
			Color:        cfg.Palette[rng.IntN(len(cfg.Palette))],
			Delay:        cfg.Delay.Random(rng),
			Direction:    randomDirection(rng),
		}
		d.transform = Transform{Position: d.Seed, Rotation: d.SeedRotation, Scale: scale}
		out = append(out, d)
	}
	for i := 0; i < cfg.Gifts; i++ {
		place(KindGift, cfg.GiftRadius, cfg.GiftScale)
	}
	for i := 0; i < cfg.Baubles; i++ {
		place(KindBauble, cfg.BaubleRadius, 1)
	}
	return out
}

// PhotoSeed returns the resting position and rotation of photo i of n on a
// spiral wrapped around the tree, bottom to top.
func PhotoSeed(i, n int) (Vec3, Quat) {
	f := float64(i) / float64(n)
	theta := f * math.Pi * 10
	y := f*12 - 6
	r := coneRadius(y) + 1.2
	pos := Vec3{math.Cos(theta) * r, y, math.Sin(theta) * r}
	return pos, EulerQuat(0, -theta+math.Pi/2, 0)
}
