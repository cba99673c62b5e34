package evergreen

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// ParticleSet holds the particle cloud's buffers. Every array is a flat run
// of xyz triples with the same length, and index i names the same particle
// in all of them: the live position, its tree target, its three text
// targets and its color.
type ParticleSet struct {
	// Positions is the live buffer the renderer draws. Owned by MorphEngine.
	Positions []float32
	// Tree holds the tree targets, also the starting formation.
	Tree []float32
	// Text holds one target array per text mode.
	Text [TextModes][]float32
	// Colors is static per-particle RGB.
	Colors []float32
}

// NewParticleSet generates the tree and the text silhouettes for cfg.
// Particles start in tree formation.
func NewParticleSet(cfg *Config, rng *rand.Rand) (*ParticleSet, error) {
	r, err := NewGlyphRasterizer(cfg.Text.FontData, cfg.Text.FontSize)
	if err != nil {
		return nil, err
	}
	tree, colors := GenerateTree(cfg.ParticleCount, cfg.Tree, rng)
	set := &ParticleSet{
		Positions: make([]float32, len(tree)),
		Tree:      tree,
		Colors:    colors,
	}
	copy(set.Positions, tree)
	for i, s := range cfg.Text.Strings {
		set.Text[i] = GenerateText(r, s, cfg.ParticleCount, cfg.Text, rng)
	}
	if err := set.check(); err != nil {
		return nil, err
	}
	return set, nil
}

// Count returns the number of particles.
func (p *ParticleSet) Count() int {
	return len(p.Positions) / 3
}

// Targets returns the target array for mode m.
func (p *ParticleSet) Targets(m Mode) []float32 {
	if m.IsText() {
		return p.Text[m.textIndex()]
	}
	return p.Tree
}

// check verifies that all arrays line up index for index.
func (p *ParticleSet) check() error {
	n := len(p.Positions)
	if n%3 != 0 {
		return fmt.Errorf("evergreen: position buffer length %d is not a multiple of 3", n)
	}
	if len(p.Tree) != n || len(p.Colors) != n {
		return fmt.Errorf("evergreen: tree/color buffers do not match %d positions", n/3)
	}
	for i, t := range p.Text {
		if len(t) != n {
			return fmt.Errorf("evergreen: text %d has %d targets, want %d", i+1, len(t)/3, n/3)
		}
	}
	return nil
}

// MorphEngine moves the live particle positions toward the target shape of
// the current mode. It keeps no per-particle state beyond the position
// itself: every target is recomputed each frame from elapsed time and the
// drive state, so a mode switch only changes targets and the exponential
// blend produces the transition.
type MorphEngine struct {
	set *ParticleSet
	cfg MorphConfig
	yaw float64
}

// NewMorphEngine creates an engine animating set.
func NewMorphEngine(set *ParticleSet, cfg MorphConfig) *MorphEngine {
	return &MorphEngine{set: set, cfg: cfg}
}

// Set returns the animated particle set.
func (e *MorphEngine) Set() *ParticleSet {
	return e.set
}

// Yaw returns the particle group's own rotation about Y in radians.
func (e *MorphEngine) Yaw() float64 {
	return e.yaw
}

// Update advances one frame at elapsed time t (seconds). Blend rates are per
// frame, so the visual speed follows the frame rate.
func (e *MorphEngine) Update(t float64, drive DriveState) {
	pos := e.set.Positions
	n := len(pos) / 3

	if drive.Mode.IsText() {
		target := e.set.Targets(drive.Mode)
		rate := float32(e.cfg.TextRate)
		for i := 0; i < n; i++ {
			ix := i * 3
			tx, ty, tz := e.textTarget(target, i, t)
			pos[ix] = lerp32(pos[ix], tx, rate)
			pos[ix+1] = lerp32(pos[ix+1], ty, rate)
			pos[ix+2] = lerp32(pos[ix+2], tz, rate)
		}
		e.yaw += (0 - e.yaw) * e.cfg.YawReturn
		return
	}

	rate := float32(e.cfg.TreeRate)
	for i := 0; i < n; i++ {
		ix := i * 3
		tx, ty, tz := e.treeTarget(i, t, drive.Dispersion)
		pos[ix] = lerp32(pos[ix], tx, rate)
		pos[ix+1] = lerp32(pos[ix+1], ty, rate)
		pos[ix+2] = lerp32(pos[ix+2], tz, rate)
	}
	e.yaw = math.Sin(t*e.cfg.YawFrequency) * e.cfg.YawAmplitude
}

// treeTarget scales the tree target outward with dispersion and displaces it
// with three drifting oscillations. The oscillations are functions of the
// target coordinates, not the index, so neighbours move together.
func (e *MorphEngine) treeTarget(i int, t, d float64) (float32, float32, float32) {
	ix := i * 3
	ox := float64(e.set.Tree[ix])
	oy := float64(e.set.Tree[ix+1])
	oz := float64(e.set.Tree[ix+2])

	spread := 1 + d*e.cfg.SpreadGain
	breath := math.Sin(t*2+ox*0.5) * 0.05 * (1 - d)

	floatY := math.Sin(t+ox*10) * 3 * d
	floatX := math.Cos(t*0.5+oy) * 2 * d
	floatZ := math.Sin(t*0.3+oz) * 2 * d

	return float32(ox*spread + floatX + ox*breath),
		float32(oy + floatY),
		float32(oz*spread + floatZ + oz*breath)
}

// textTarget adds a small shimmer keyed on the particle index, so adjacent
// particles shimmer out of phase.
func (e *MorphEngine) textTarget(target []float32, i int, t float64) (float32, float32, float32) {
	ix := i * 3
	noise := float32(math.Sin(t*3+float64(i)) * e.cfg.TextNoise)
	return target[ix] + noise, target[ix+1] + noise, target[ix+2]
}
