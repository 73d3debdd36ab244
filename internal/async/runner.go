// Package async runs detached side effects: work whose failure is
// logged but must never block or fail the request that spawned it.
package async

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultTaskTimeout = 5 * time.Second

type Runner struct {
	log     zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{
		log:     log,
		timeout: defaultTaskTimeout,
	}
}

// Submit schedules fn on its own goroutine with a detached context.
// Errors and panics are logged under the task name and go no further.
// After Close, submissions are dropped.
func (r *Runner) Submit(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Warn().Str("task", name).Msg("runner closed, task dropped")
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error().Interface("panic", rec).Str("task", name).Msg("detached task panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.log.Error().Err(err).Str("task", name).Msg("detached task failed")
		}
	}()
}

// Close waits for in-flight tasks, bounded by ctx.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
