package evergreen

import (
	"log/slog"
	"time"
)

// FrameStats holds per-frame timings. Only populated when debug is enabled.
type FrameStats struct {
	InputTime    time.Duration
	ParticleTime time.Duration
	DecorTime    time.Duration
	SparkleTime  time.Duration
	Samples      int // detection results classified this frame
}

// Total returns the sum of the phase timings.
func (s FrameStats) Total() time.Duration {
	return s.InputTime + s.ParticleTime + s.DecorTime + s.SparkleTime
}

// debugLogInterval is the number of frames between debug stat lines.
const debugLogInterval = 120

// debugLog reports frame stats every debugLogInterval frames.
func (s *Scene) debugLog(stats FrameStats) {
	if !s.debug || s.frame%debugLogInterval != 0 {
		return
	}
	errs, dropped := int64(0), int64(0)
	if s.sampler != nil {
		errs, dropped = s.sampler.Stats()
	}
	s.logger.Debug("frame stats",
		slog.Uint64("frame", s.frame),
		slog.Duration("input", stats.InputTime),
		slog.Duration("particles", stats.ParticleTime),
		slog.Duration("decor", stats.DecorTime),
		slog.Duration("sparkles", stats.SparkleTime),
		slog.Duration("total", stats.Total()),
		slog.Int64("source_errors", errs),
		slog.Int64("dropped", dropped),
	)
}

// debugCheckParticles warns when the particle arrays disagree in length.
func (s *Scene) debugCheckParticles() {
	if err := s.particles.check(); err != nil {
		s.logger.Warn("particle set inconsistent", "err", err)
	}
}
