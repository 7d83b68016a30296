package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"switchyard/internal/metrics"
)

// TickFunc is one scheduled unit of work. Implementations isolate their
// own per-item failures; a returned error marks the whole tick degraded.
type TickFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	tick     TickFunc
}

// Runner drives the background schedulers. Each registered job gets its
// own goroutine that ticks on a fixed interval until Stop.
type Runner struct {
	mu      sync.RWMutex
	jobs    map[string]job
	order   []string
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates an empty runner
func NewRunner() *Runner {
	return &Runner{
		jobs: make(map[string]job),
	}
}

// Register adds a named job. Must be called before Start.
func (r *Runner) Register(name string, interval time.Duration, tick TickFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("runner already started")
	}
	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("worker %s already registered", name)
	}
	if interval <= 0 {
		return fmt.Errorf("worker %s: interval must be positive", name)
	}

	r.jobs[name] = job{name: name, interval: interval, tick: tick}
	r.order = append(r.order, name)
	log.Printf("Registered worker: %s (interval=%s)", name, interval)
	return nil
}

// Start launches one loop per registered job. Each loop ticks once
// immediately, then on its interval.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.running = true

	for _, name := range r.order {
		r.startLoop(r.jobs[name])
	}
}

// Stop requests shutdown and waits for every loop to finish. Cancellation
// is observed between ticks, so a tick already underway completes first.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cancel()
	r.wg.Wait()
	r.running = false
	log.Printf("All workers stopped")
}

// ActiveWorkers returns the number of running scheduler loops
func (r *Runner) ActiveWorkers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.running {
		return 0
	}
	return len(r.jobs)
}

// Workers lists the registered job names in registration order
func (r *Runner) Workers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// startLoop runs a job's schedule until the runner context is canceled
func (r *Runner) startLoop(j job) {
	// Ticks run on a detached context: a stop request must never abort a
	// pass midway, Stop waits for the loop instead
	tickCtx := context.WithoutCancel(r.ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.runTick(tickCtx, j)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				log.Printf("Stopping worker loop for %s", j.name)
				return
			case <-ticker.C:
				r.runTick(tickCtx, j)
			}
		}
	}()

	log.Printf("Started worker loop for %s (interval=%s)", j.name, j.interval)
}

// runTick executes a single tick and records its outcome
func (r *Runner) runTick(ctx context.Context, j job) {
	metrics.SchedulerTicks.WithLabelValues(j.name).Inc()
	if err := j.tick(ctx); err != nil {
		metrics.SchedulerTickErrors.WithLabelValues(j.name).Inc()
		log.Printf("Worker %s tick failed: %v", j.name, err)
	}
}
