package evergreen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSamplerRunning is returned by Sampler.Run when the sampler is already
// running.
var ErrSamplerRunning = errors.New("evergreen: sampler already running")

// LandmarkSource produces detection results. Next blocks until a result is
// available or ctx is done. Results whose Timestamp repeats the previous one
// are treated as the same video frame.
type LandmarkSource interface {
	Next(ctx context.Context) (DetectionResult, error)
}

// SamplerQueueSize bounds the results a Sampler holds between two frames.
// When the frame loop falls further behind, the oldest results are dropped.
const SamplerQueueSize = 64

// Sampler pulls results from a LandmarkSource on its own goroutine and
// queues them in arrival order for the frame loop, which classifies every
// queued result. The frame loop never blocks on the source.
type Sampler struct {
	src    LandmarkSource
	logger *slog.Logger

	mu      sync.Mutex
	pending []DetectionResult
	closed  bool

	running atomic.Bool
	last    time.Duration
	hasLast bool

	// errors counts source errors since the sampler started.
	errors atomic.Int64
	// dropped counts results evicted from a full queue.
	dropped atomic.Int64
}

// NewSampler wraps src. A nil logger uses slog.Default().
func NewSampler(src LandmarkSource, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{src: src, logger: logger}
}

// Run pulls from the source until ctx is cancelled, then marks the queue
// closed.
// A source error counts as an empty sample for that call; the next call is
// attempted normally. Run returns ctx.Err() on cancellation.
func (s *Sampler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSamplerRunning
	}
	defer s.running.Store(false)
	defer s.close()

	s.mu.Lock()
	s.closed = false
	s.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, errSourceDone) {
				s.logger.Debug("landmark source finished")
				return nil
			}
			s.errors.Add(1)
			s.logger.Warn("landmark source failed", "err", err)
			s.post(DetectionResult{Timestamp: -1})
			continue
		}
		if s.hasLast && res.Timestamp == s.last {
			continue
		}
		s.last, s.hasLast = res.Timestamp, true
		s.post(res)
	}
}

// post queues res, evicting the oldest result when the queue is full.
func (s *Sampler) post(res DetectionResult) {
	s.mu.Lock()
	if len(s.pending) >= SamplerQueueSize {
		n := copy(s.pending, s.pending[1:])
		s.pending = s.pending[:n]
		s.dropped.Add(1)
	}
	s.pending = append(s.pending, res)
	s.mu.Unlock()
}

func (s *Sampler) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Take removes and returns the oldest queued result. ok is false when the
// queue is empty. closed reports that the sampler has stopped; results
// queued before the stop are still returned.
func (s *Sampler) Take() (res DetectionResult, ok, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) > 0 {
		res, ok = s.pending[0], true
		n := copy(s.pending, s.pending[1:])
		s.pending = s.pending[:n]
	}
	return res, ok, s.closed
}

// Pending returns the number of queued results.
func (s *Sampler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Running reports whether Run is active.
func (s *Sampler) Running() bool {
	return s.running.Load()
}

// Stats returns the error and drop counters.
func (s *Sampler) Stats() (errs, dropped int64) {
	return s.errors.Load(), s.dropped.Load()
}

// errSourceDone is returned by finite sources once exhausted.
var errSourceDone = errors.New("evergreen: source exhausted")

// IsSourceDone reports whether err marks a finite source as exhausted.
func IsSourceDone(err error) bool {
	return errors.Is(err, errSourceDone)
}

// ChannelSource is a LandmarkSource fed by Push. It is the bridge for
// detectors that deliver results by callback.
type ChannelSource struct {
	ch     chan DetectionResult
	once   sync.Once
	closed chan struct{}
}

// NewChannelSource creates a source buffering up to buffer results.
func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{
		ch:     make(chan DetectionResult, max(buffer, 1)),
		closed: make(chan struct{}),
	}
}

// Push delivers res, dropping the oldest buffered result when full. It
// reports false after Close.
func (c *ChannelSource) Push(res DetectionResult) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	for {
		select {
		case c.ch <- res:
			return true
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}

// Close ends the stream. Next returns an exhausted error once the buffer
// drains.
func (c *ChannelSource) Close() {
	c.once.Do(func() { close(c.closed) })
}

// Next implements LandmarkSource.
func (c *ChannelSource) Next(ctx context.Context) (DetectionResult, error) {
	select {
	case res := <-c.ch:
		return res, nil
	default:
	}
	select {
	case res := <-c.ch:
		return res, nil
	case <-c.closed:
		return DetectionResult{}, fmt.Errorf("channel closed: %w", errSourceDone)
	case <-ctx.Done():
		return DetectionResult{}, ctx.Err()
	}
}
