package evergreen

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// RotationController turns the drive state into the scene's yaw. It keeps
// its own smoothed copies of dispersion and rotation speed so raw classifier
// jitter never reaches the group rotation.
type RotationController struct {
	cfg RotationConfig

	dispersion float64
	rotation   float64
	yaw        float64
}

// NewRotationController creates a controller at zero yaw.
func NewRotationController(cfg RotationConfig) *RotationController {
	return &RotationController{cfg: cfg}
}

// Update advances the controller by dt seconds.
func (r *RotationController) Update(dt float64, drive DriveState) {
	r.dispersion = approach(r.dispersion, drive.Dispersion, frameRate(r.cfg.DispersionRate, dt))
	r.rotation = approach(r.rotation, drive.RotationSpeed, frameRate(r.cfg.RotationRate, dt))

	if drive.Mode == ModeTree {
		r.yaw += r.cfg.AutoRotate * dt
	}
	r.yaw += r.rotation * r.cfg.GestureGain * dt
}

// Yaw returns the accumulated scene rotation about Y in radians.
func (r *RotationController) Yaw() float64 { return r.yaw }

// Dispersion returns the smoothed dispersion.
func (r *RotationController) Dispersion() float64 { return r.dispersion }

// Rotation returns the smoothed rotation speed.
func (r *RotationController) Rotation() float64 { return r.rotation }

// OrnamentGroup is the parent transform of every decoration. It expands
// with dispersion in tree mode on a damped spring and slowly counter-rotates
// against the scene for parallax.
type OrnamentGroup struct {
	cfg    RotationConfig
	spring harmonica.Spring
	scale  float64
	vel    float64
	spin   float64
}

// NewOrnamentGroup creates a group at unit scale. fps is the nominal frame
// rate the spring is stepped at.
func NewOrnamentGroup(cfg RotationConfig, fps float64) *OrnamentGroup {
	return &OrnamentGroup{
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(int(math.Round(fps))), cfg.OrnamentFrequency, cfg.OrnamentDamping),
		scale:  1,
	}
}

// Update steps the group one frame.
func (g *OrnamentGroup) Update(drive DriveState) {
	target := 1.0
	if drive.Mode == ModeTree {
		target = 1 + drive.Dispersion*g.cfg.OrnamentExpand
		g.spin -= g.cfg.OrnamentSpin
	}
	g.scale, g.vel = g.spring.Update(g.scale, g.vel, target)
}

// Scale returns the current group scale.
func (g *OrnamentGroup) Scale() float64 { return g.scale }

// Spin returns the group's own yaw relative to the scene.
func (g *OrnamentGroup) Spin() float64 { return g.spin }

// Transform returns the group transform relative to the scene root.
func (g *OrnamentGroup) Transform() Transform {
	return Transform{Rotation: YawQuat(g.spin), Scale: g.scale}
}
