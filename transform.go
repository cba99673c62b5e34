package evergreen

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	axisX = Vec3{1, 0, 0}
	axisY = Vec3{0, 1, 0}
	axisZ = Vec3{0, 0, 1}
)

// Transform is the live placement of an animated object relative to its
// parent group: translation, rotation and uniform scale.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    float64
}

// IdentityTransform is the transform with no translation or rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent(), Scale: 1}
}

// Mat4 returns the local matrix: Translate * Rotate * Scale.
func (t Transform) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(t.Scale, t.Scale, t.Scale))
}

// Apply maps a point from local space into the parent's space.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Position)
}

// Inverse maps a point from the parent's space into local space. A zero
// scale collapses everything onto the origin.
func (t Transform) Inverse(p Vec3) Vec3 {
	if t.Scale == 0 {
		return Vec3{}
	}
	return t.Rotation.Inverse().Rotate(p.Sub(t.Position)).Mul(1 / t.Scale)
}

// EulerQuat builds a rotation from Euler angles applied in XYZ order
// (the matrix is Rx * Ry * Rz).
func EulerQuat(x, y, z float64) Quat {
	return mgl64.QuatRotate(x, axisX).
		Mul(mgl64.QuatRotate(y, axisY)).
		Mul(mgl64.QuatRotate(z, axisZ)).
		Normalize()
}

// YawQuat is a rotation of angle radians about +Y.
func YawQuat(angle float64) Quat {
	return mgl64.QuatRotate(angle, axisY)
}

// FacingQuat returns the rotation that turns an object at from so its local
// +Z axis points at to, keeping local +Y as close to world up as possible.
func FacingQuat(from, to Vec3) Quat {
	z := to.Sub(from)
	if z.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	z = z.Normalize()
	x := axisY.Cross(z)
	if x.Len() < 1e-9 {
		// Looking straight up or down: any roll is as good as another.
		return mgl64.QuatBetweenVectors(axisZ, z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// slerpQuat interpolates along the shorter arc from a to b. t is clamped to
// [0, 1].
func slerpQuat(a, b Quat, t float64) Quat {
	t = clamp01(t)
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t)
}

// lerpVec linearly interpolates between a and b by t.
func lerpVec(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// approach moves v toward target by the fraction rate (exponential blend).
func approach(v, target, rate float64) float64 {
	return v + (target-v)*rate
}

// frameRate converts a per-second rate into a per-frame blend factor for a
// step of dt seconds, capped at 1 so long frames snap instead of
// overshooting.
func frameRate(perSecond, dt float64) float64 {
	return math.Min(1, perSecond*dt)
}
