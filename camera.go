package evergreen

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// Camera is a perspective camera orbiting a target point. Its position is
// expressed in spherical coordinates around Target; polar angle and
// distance are clamped to the configured limits.
type Camera struct {
	// Target is the point the camera looks at.
	Target Vec3
	// Azimuth is the angle around +Y, zero on the +Z axis.
	Azimuth float64
	// Polar is the angle from +Y.
	Polar float64
	// Distance from Target.
	Distance float64
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	cfg   CameraConfig
	home  [3]float64
	orbit *TweenGroup
}

// NewCamera places a camera at cfg.Position looking at the origin.
func NewCamera(cfg CameraConfig) *Camera {
	c := &Camera{
		FOV:    cfg.FOV,
		Near:   cfg.Near,
		Far:    cfg.Far,
		Width:  1,
		Height: 1,
		cfg:    cfg,
	}
	c.SetPosition(cfg.Position)
	c.home = [3]float64{c.Azimuth, c.Polar, c.Distance}
	return c
}

// SetPosition moves the camera to p, keeping the current target.
func (c *Camera) SetPosition(p Vec3) {
	off := p.Sub(c.Target)
	r := off.Len()
	if r < 1e-9 {
		r = c.cfg.MinDistance
		off = Vec3{0, 0, r}
	}
	c.Distance = r
	c.Polar = math.Acos(mgl64.Clamp(off.Y()/r, -1, 1))
	c.Azimuth = math.Atan2(off.X(), off.Z())
	c.clamp()
}

// Position returns the camera's world position.
func (c *Camera) Position() Vec3 {
	s := math.Sin(c.Polar)
	return c.Target.Add(Vec3{
		c.Distance * s * math.Sin(c.Azimuth),
		c.Distance * math.Cos(c.Polar),
		c.Distance * s * math.Cos(c.Azimuth),
	})
}

// Orbit rotates by the given azimuth and polar deltas in radians.
func (c *Camera) Orbit(dAzimuth, dPolar float64) {
	c.Azimuth += dAzimuth
	c.Polar += dPolar
	c.clamp()
}

// Zoom multiplies the distance by factor.
func (c *Camera) Zoom(factor float64) {
	c.Distance *= factor
	c.clamp()
}

// OrbitTo animates to the given azimuth, polar angle and distance over
// duration seconds. A running animation is replaced.
func (c *Camera) OrbitTo(azimuth, polar, distance float64, duration float32, fn ease.TweenFunc) {
	polar = mgl64.Clamp(polar, c.cfg.MinPolar, c.cfg.MaxPolar)
	distance = mgl64.Clamp(distance, c.cfg.MinDistance, c.cfg.MaxDistance)
	c.orbit = TweenFields(
		[]*float64{&c.Azimuth, &c.Polar, &c.Distance},
		[]float64{azimuth, polar, distance},
		duration, fn,
	)
}

// Reset animates back to the initial viewpoint.
func (c *Camera) Reset(duration float32) {
	c.OrbitTo(c.home[0], c.home[1], c.home[2], duration, ease.OutCubic)
}

// Animating reports whether an orbit animation is running.
func (c *Camera) Animating() bool {
	return c.orbit != nil && !c.orbit.Done
}

// Update advances a running orbit animation.
func (c *Camera) Update(dt float64) {
	if c.orbit == nil {
		return
	}
	c.orbit.Update(float32(dt))
	c.clamp()
	if c.orbit.Done {
		c.orbit = nil
	}
}

func (c *Camera) clamp() {
	c.Polar = mgl64.Clamp(c.Polar, c.cfg.MinPolar, c.cfg.MaxPolar)
	c.Distance = mgl64.Clamp(c.Distance, c.cfg.MinDistance, c.cfg.MaxDistance)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position(), c.Target, axisY)
}

// Projection returns the perspective matrix for the current viewport.
func (c *Camera) Projection() mgl64.Mat4 {
	aspect := 1.0
	if c.Height > 0 {
		aspect = c.Width / c.Height
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world point to screen pixels with the origin top-left.
// depth is the view-space distance in front of the camera; ok is false for
// points behind the near plane.
func Project(vp mgl64.Mat4, width, height float64, p Vec3) (x, y, depth float64, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-6 {
		return 0, 0, 0, false
	}
	nx, ny := clip.X()/w, clip.Y()/w
	return (nx + 1) * 0.5 * width, (1 - ny) * 0.5 * height, w, true
}

// PixelScale returns how many screen pixels one world unit spans at the
// given view-space depth.
func (c *Camera) PixelScale(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return c.Height / (2 * depth * math.Tan(mgl64.DegToRad(c.FOV)/2))
}
