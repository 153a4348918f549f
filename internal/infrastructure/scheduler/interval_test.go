package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartRunsImmediately(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour, nil)
	ran := make(chan struct{}, 1)

	err := s.Start(context.Background(), func(time.Time) {
		ran <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("first run did not fire immediately")
	}
}

func TestNonPositiveIntervalFallsBackToDefault(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(0, nil)
	if s.interval <= 0 {
		t.Fatalf("non-positive interval accepted: %s", s.interval)
	}

	ran := make(chan struct{}, 1)
	if err := s.Start(context.Background(), func(time.Time) {
		ran <- struct{}{}
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("first run did not fire")
	}
}

func TestTicksRepeat(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(20*time.Millisecond, nil)
	var runs atomic.Int32

	if err := s.Start(context.Background(), func(time.Time) {
		runs.Add(1)
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	if got := runs.Load(); got < 3 {
		t.Fatalf("expected repeated ticks, got %d runs", got)
	}
}

func TestOverlappingTickIsSkipped(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(10*time.Millisecond, nil)
	var runs atomic.Int32
	release := make(chan struct{})

	if err := s.Start(context.Background(), func(time.Time) {
		runs.Add(1)
		<-release
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	// The first run blocks across several tick periods; they must all be
	// skipped, not queued.
	time.Sleep(80 * time.Millisecond)
	_ = s.Stop(context.Background())
	close(release)

	if got := runs.Load(); got > 2 {
		t.Fatalf("ticks were queued instead of skipped: %d runs", got)
	}
}

func TestPanicDoesNotKillScheduler(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(20*time.Millisecond, nil)
	var runs atomic.Int32

	if err := s.Start(context.Background(), func(time.Time) {
		runs.Add(1)
		panic("run bug")
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	_ = s.Stop(context.Background())

	if got := runs.Load(); got < 2 {
		t.Fatalf("scheduler died after a panic, got %d runs", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour, nil)
	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("first Stop error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}
