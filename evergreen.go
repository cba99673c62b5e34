package evergreen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the 3D vector used for positions, directions and scales
// throughout the API.
type Vec3 = mgl64.Vec3

// Quat is a rotation quaternion.
type Quat = mgl64.Quat

// Color represents an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// ParseHexColor parses a "#rrggbb" (or "rrggbb") string.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("evergreen: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("evergreen: invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, nil
}

// MustHexColor is like ParseHexColor but panics on malformed input. Intended
// for package-level palette literals.
func MustHexColor(s string) Color {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Lerp linearly interpolates between c and o by t.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: lerp(c.R, o.R, t),
		G: lerp(c.G, o.G, t),
		B: lerp(c.B, o.B, t),
	}
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max) drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Mode selects which target shape the particle cloud morphs toward.
type Mode uint8

const (
	ModeTree  Mode = iota // procedural tree; the rest mode
	ModeText1             // first text silhouette (one finger)
	ModeText2             // second text silhouette (two fingers)
	ModeText3             // third text silhouette (three fingers)
)

// TextModes is the number of text silhouettes.
const TextModes = 3

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTree:
		return "TREE"
	case ModeText1:
		return "TEXT_1"
	case ModeText2:
		return "TEXT_2"
	case ModeText3:
		return "TEXT_3"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// IsText reports whether m is one of the text silhouettes.
func (m Mode) IsText() bool {
	return m >= ModeText1 && m <= ModeText3
}

// textIndex returns the 0-based text slot for a text mode.
func (m Mode) textIndex() int {
	return int(m - ModeText1)
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerp32 linearly interpolates between a and b by t (float32).
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

// clamp01 limits v to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Smoothstep maps x from [edge0, edge1] to [0, 1] with a cubic ease and zero
// slope at both ends. Values outside the range clamp.
func Smoothstep(x, edge0, edge1 float64) float64 {
	if x <= edge0 {
		return 0
	}
	if x >= edge1 {
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	return t * t * (3 - 2*t)
}
