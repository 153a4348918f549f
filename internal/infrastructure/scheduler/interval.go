package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ArticleEnhancer/internal/ports"
)

const defaultInterval = 2 * time.Minute

// IntervalScheduler runs the job once immediately and then on a fixed period.
// Ticks are serialized: if a run is still in flight when the next tick fires,
// that tick is skipped rather than queued.
type IntervalScheduler struct {
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler with the given tick period. A
// non-positive interval would panic time.NewTicker inside the loop
// goroutine, so it falls back to the default period instead.
func NewIntervalScheduler(interval time.Duration, logger *slog.Logger) *IntervalScheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &IntervalScheduler{interval: interval, logger: logger}
}

// Start begins ticking until ctx is done or Stop is called.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.runJob(job, time.Now())
		for {
			select {
			case t := <-ticker.C:
				s.runJob(job, t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}

// runJob serializes ticks and keeps a panicking run from killing the loop.
func (s *IntervalScheduler) runJob(job func(time.Time), trigger time.Time) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn("previous run still in flight, skipping tick", "trigger", trigger)
		}
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil && s.logger != nil {
			s.logger.Error("run panicked", "panic", r)
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	job(trigger)
}
