package evergreen

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Scene is the top-level object that owns the drive state and every
// animator. It is not safe for concurrent use: Update, Apply and the
// accessors belong to the frame goroutine. Landmark input arrives from other
// goroutines only through an attached Sampler.
type Scene struct {
	cfg    Config
	logger *slog.Logger
	sink   EventSink
	debug  bool

	classifier *Classifier
	drive      DriveState

	particles *ParticleSet
	morph     *MorphEngine
	choreo    *Choreographer
	rotation  *RotationController
	ornaments *OrnamentGroup
	camera    *Camera
	sparkles  []*SparkleField
	photos    *PhotoSet

	sampler       *Sampler
	samplerClosed bool

	elapsed float64
	frame   uint64
	stats   FrameStats
}

// NewScene builds the particle cloud, decorations and camera for cfg. A nil
// photos uses the default photo set.
func NewScene(cfg Config, photos *PhotoSet) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if photos == nil {
		photos = NewDefaultPhotoSet()
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	set, err := NewParticleSet(&cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("evergreen: failed to build particles: %w", err)
	}

	s := &Scene{
		cfg:        cfg,
		logger:     cfg.logger(),
		debug:      cfg.Debug,
		classifier: NewClassifier(cfg.Classifier),
		drive:      DriveState{Mode: ModeTree},
		particles:  set,
		morph:      NewMorphEngine(set, cfg.Morph),
		choreo:     NewChoreographer(cfg.Decor, cfg.Carousel, rng),
		rotation:   NewRotationController(cfg.Rotation),
		ornaments:  NewOrnamentGroup(cfg.Rotation, cfg.FrameRate),
		camera:     NewCamera(cfg.Camera),
		photos:     photos,
	}
	for _, sc := range cfg.Sparkles {
		s.sparkles = append(s.sparkles, NewSparkleField(sc, rng))
	}
	s.choreo.SyncPhotos(photos)

	s.logger.Debug("scene created",
		"particles", set.Count(),
		"decorations", len(s.choreo.Ornaments()),
		"photos", photos.Len(),
	)
	return s, nil
}

// SetEventSink attaches a sink receiving drive transitions. Nil detaches.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebug toggles per-frame timing stats.
func (s *Scene) SetDebug(debug bool) {
	s.debug = debug
}

// AttachSampler makes the scene read landmark results from smp each frame.
// Run the sampler on its own goroutine. Once it stops, the scene reports
// "no hand" every frame so the drive state decays back to the tree.
func (s *Scene) AttachSampler(smp *Sampler) {
	s.sampler = smp
	s.samplerClosed = false
}

// Apply classifies res immediately on the calling goroutine. It is the
// synchronous alternative to an attached Sampler.
func (s *Scene) Apply(res DetectionResult) {
	s.classify(res.FirstHand())
}

// Update advances the scene by dt seconds: it classifies every queued
// landmark result, then steps every animator with the resulting drive state.
func (s *Scene) Update(dt float64) {
	var stats FrameStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.pollSampler(&stats)
	s.elapsed += dt
	s.frame++

	if s.debug {
		stats.InputTime = time.Since(t0)
		t0 = time.Now()
	}

	drive := s.drive
	s.morph.Update(s.elapsed, drive)

	if s.debug {
		stats.ParticleTime = time.Since(t0)
		t0 = time.Now()
	}

	s.camera.Update(dt)
	s.rotation.Update(dt, drive)
	s.ornaments.Update(drive)
	s.choreo.SyncPhotos(s.photos)
	s.choreo.Update(s.elapsed, dt, drive, s.cameraInOrnamentSpace())

	if s.debug {
		stats.DecorTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, f := range s.sparkles {
		f.Update(dt)
	}

	if s.debug {
		stats.SparkleTime = time.Since(t0)
		s.stats = stats
		s.debugLog(stats)
		s.debugCheckParticles()
	}
}

// pollSampler classifies every queued result in arrival order, so each
// sample gets its own classification step. Once the sampler has stopped and
// its queue is empty, one "no hand" step runs per frame.
func (s *Scene) pollSampler(stats *FrameStats) {
	if s.sampler == nil {
		return
	}
	for {
		res, ok, closed := s.sampler.Take()
		if ok {
			stats.Samples++
			s.classify(res.FirstHand())
			continue
		}
		if closed && stats.Samples == 0 {
			if !s.samplerClosed {
				s.samplerClosed = true
				s.logger.Info("landmark sampler stopped")
			}
			s.classify(nil)
		}
		return
	}
}

// classify replaces the drive state and reports transitions.
func (s *Scene) classify(h *Hand) {
	prev := s.drive
	s.drive = s.classifier.Classify(prev, h)

	elapsed := time.Duration(s.elapsed * float64(time.Second))
	for _, ev := range driveEvents(prev, s.drive, elapsed) {
		s.logger.Debug("drive "+ev.Type.String(),
			"from", ev.From.String(),
			"to", ev.To.String(),
			"dispersion", ev.Drive.Dispersion,
		)
		if s.sink != nil {
			s.sink.EmitEvent(ev)
		}
	}
}

// cameraInOrnamentSpace maps the camera position into the ornament group's
// local space, where photo orientations live.
func (s *Scene) cameraInOrnamentSpace() Vec3 {
	world := s.camera.Position()
	scene := s.RootTransform().Inverse(world)
	return s.ornaments.Transform().Inverse(scene)
}

// Drive returns the current drive state.
func (s *Scene) Drive() DriveState { return s.drive }

// Photos returns the live photo set. Changes are picked up on the next Update.
func (s *Scene) Photos() *PhotoSet { return s.photos }

// Particles returns the particle buffers.
func (s *Scene) Particles() *ParticleSet { return s.particles }

// Ornaments returns the gifts and baubles.
func (s *Scene) Ornaments() []*Decoration { return s.choreo.Ornaments() }

// PhotoCards returns the photo decorations in photo set order.
func (s *Scene) PhotoCards() []*Decoration { return s.choreo.Photos() }

// Sparkles returns the ambient sparkle fields.
func (s *Scene) Sparkles() []*SparkleField { return s.sparkles }

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Config returns the configuration the scene was built with.
func (s *Scene) Config() Config { return s.cfg }

// Elapsed returns the scene time in seconds.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// Stats returns the timings of the last frame when debug is on.
func (s *Scene) Stats() FrameStats { return s.stats }

// RootTransform is the scene group transform, rotated by the rotation
// controller.
func (s *Scene) RootTransform() Transform {
	return Transform{Rotation: YawQuat(s.rotation.Yaw()), Scale: 1}
}

// ParticleTransform is the particle group transform in world space.
func (s *Scene) ParticleTransform() Transform {
	return Transform{Rotation: YawQuat(s.rotation.Yaw() + s.morph.Yaw()), Scale: 1}
}

// OrnamentTransform is the ornament group transform in world space.
func (s *Scene) OrnamentTransform() Transform {
	g := s.ornaments.Transform()
	return Transform{
		Rotation: YawQuat(s.rotation.Yaw()).Mul(g.Rotation),
		Scale:    g.Scale,
	}
}
