package evergreen

import (
	"math"
	"math/rand/v2"
)

// sparkle holds per-sparkle simulation state. Managed by SparkleField.
type sparkle struct {
	pos     Vec3
	vel     Vec3
	life    float64 // remaining lifetime in seconds
	maxLife float64
	phase   float64
	alpha   float32
}

// SparkleField is a fixed pool of twinkling points drifting inside a cube
// centered on the origin. Dead sparkles are swap-removed and the pool is
// topped up in the same update, so the population stays at Count.
type SparkleField struct {
	config   SparkleConfig
	sparkles []sparkle
	alive    int
	rng      *rand.Rand
	elapsed  float64
}

// NewSparkleField creates a field with a full, pre-aged pool.
func NewSparkleField(cfg SparkleConfig, rng *rand.Rand) *SparkleField {
	f := &SparkleField{
		config:   cfg,
		sparkles: make([]sparkle, max(cfg.Count, 0)),
		rng:      rng,
	}
	for f.alive < len(f.sparkles) {
		f.spawn()
		// Stagger ages so the field does not blink in unison.
		p := &f.sparkles[f.alive-1]
		p.life = rng.Float64() * p.maxLife
	}
	return f
}

// Config returns the field's configuration.
func (f *SparkleField) Config() SparkleConfig {
	return f.config
}

// AliveCount returns the number of live sparkles.
func (f *SparkleField) AliveCount() int {
	return f.alive
}

// Update advances the simulation by dt seconds.
func (f *SparkleField) Update(dt float64) {
	f.elapsed += dt
	half := f.config.Scale / 2

	i := 0
	for i < f.alive {
		p := &f.sparkles[i]
		p.life -= dt
		if p.life <= 0 {
			f.alive--
			f.sparkles[i] = f.sparkles[f.alive]
			continue
		}

		p.pos = p.pos.Add(p.vel.Mul(dt))
		for k := 0; k < 3; k++ {
			if p.pos[k] > half {
				p.pos[k] -= f.config.Scale
			} else if p.pos[k] < -half {
				p.pos[k] += f.config.Scale
			}
		}

		// Fade in and out over the lifetime, with a twinkle on top.
		t := 1 - p.life/p.maxLife
		fade := math.Sin(t * math.Pi)
		twinkle := 0.75 + 0.25*math.Sin(f.elapsed*4+p.phase)
		p.alpha = float32(fade * twinkle * f.config.Opacity)
		i++
	}

	for f.alive < len(f.sparkles) {
		f.spawn()
	}
}

// spawn initializes the sparkle at slot f.alive and increments alive.
func (f *SparkleField) spawn() {
	p := &f.sparkles[f.alive]
	s := f.config.Scale
	p.pos = Vec3{(f.rng.Float64() - 0.5) * s, (f.rng.Float64() - 0.5) * s, (f.rng.Float64() - 0.5) * s}
	p.vel = randomDirection(f.rng).Mul(f.config.Speed * f.rng.Float64())
	p.life = f.config.Lifetime.Random(f.rng)
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life
	p.phase = f.rng.Float64() * 2 * math.Pi
	p.alpha = 0
	f.alive++
}

// Each calls fn for every live sparkle with its position and alpha.
func (f *SparkleField) Each(fn func(pos Vec3, alpha float32)) {
	for i := 0; i < f.alive; i++ {
		fn(f.sparkles[i].pos, f.sparkles[i].alpha)
	}
}
