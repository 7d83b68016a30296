package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerRegister(t *testing.T) {
	r := NewRunner()
	noop := func(ctx context.Context) error { return nil }

	t.Run("registers named jobs", func(t *testing.T) {
		if err := r.Register("alpha", time.Second, noop); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if err := r.Register("beta", time.Second, noop); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		workers := r.Workers()
		if len(workers) != 2 || workers[0] != "alpha" || workers[1] != "beta" {
			t.Errorf("unexpected worker list %v", workers)
		}
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		if err := r.Register("alpha", time.Second, noop); err == nil {
			t.Error("expected error for duplicate name")
		}
	})

	t.Run("rejects non-positive intervals", func(t *testing.T) {
		if err := r.Register("gamma", 0, noop); err == nil {
			t.Error("expected error for zero interval")
		}
	})

	t.Run("idle runner reports no active workers", func(t *testing.T) {
		if n := r.ActiveWorkers(); n != 0 {
			t.Errorf("expected 0 active workers, got %d", n)
		}
	})
}

func TestRunnerTicksOnSchedule(t *testing.T) {
	r := NewRunner()
	var ticks atomic.Int64
	err := r.Register("counter", 10*time.Millisecond, func(ctx context.Context) error {
		ticks.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	r.Start(context.Background())
	if n := r.ActiveWorkers(); n != 1 {
		t.Errorf("expected 1 active worker, got %d", n)
	}

	deadline := time.Now().Add(time.Second)
	for ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.Stop()

	// The loop ticks once immediately, then on the interval
	if got := ticks.Load(); got < 3 {
		t.Errorf("expected at least 3 ticks, got %d", got)
	}

	if n := r.ActiveWorkers(); n != 0 {
		t.Errorf("expected 0 active workers after stop, got %d", n)
	}

	// No ticks land after Stop returns
	settled := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if got := ticks.Load(); got != settled {
		t.Errorf("tick count moved from %d to %d after stop", settled, got)
	}
}

func TestRunnerStopWaitsForInflightTick(t *testing.T) {
	r := NewRunner()
	release := make(chan struct{})
	var finished atomic.Bool
	err := r.Register("slow", 5*time.Millisecond, func(ctx context.Context) error {
		<-release
		finished.Store(true)
		return nil
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	r.Start(context.Background())

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("stop returned while a tick was still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not return after the tick finished")
	}
	if !finished.Load() {
		t.Error("expected the in-flight tick to complete")
	}
}

func TestRunnerCountsFailedTicks(t *testing.T) {
	r := NewRunner()
	var calls atomic.Int64
	err := r.Register("failing", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return fmt.Errorf("boom")
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	r.Start(context.Background())
	deadline := time.Now().Add(time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.Stop()

	// A failing tick is recorded and the loop keeps going
	if got := calls.Load(); got < 2 {
		t.Errorf("expected the loop to survive failures, got %d calls", got)
	}
}
