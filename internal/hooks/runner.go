package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/athena-dhcpd/athena-dhclient/internal/lease"
	"github.com/athena-dhcpd/athena-dhclient/internal/metrics"
)

// DefaultTimeout bounds a single hook execution when the config does not say
// otherwise.
const DefaultTimeout = 30 * time.Second

// Runner executes the hooks for a trigger, each in its own goroutine under
// its own deadline. Hooks are third-party code running inside the client's
// control loop: a hung or buggy hook must not block lease renewal or crash
// the process, so every failure mode is converted to a log entry.
type Runner struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates a runner with the given per-hook timeout.
func NewRunner(timeout time.Duration, logger *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{timeout: timeout, logger: logger}
}

// Run starts every hook in slice order and returns once each one has reached
// a terminal outcome: completed, failed, or timed out. It never returns
// early while a hook is still within its deadline, and hook misbehavior
// never propagates to the caller.
func (r *Runner) Run(ctx context.Context, hks []Hook, l *lease.Lease, trigger Trigger) {
	if len(hks) == 0 {
		return
	}
	r.logger.Info("running hooks",
		"trigger", string(trigger),
		"count", len(hks))
	metrics.TriggerDispatches.WithLabelValues(string(trigger)).Inc()

	var wg sync.WaitGroup
	for _, h := range hks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.runOne(ctx, h, l, trigger)
		}()
	}
	wg.Wait()
}

// runOne drives a single hook to its terminal outcome. A hook that ignores
// cancellation is abandoned at the deadline; its goroutine finishes on its
// own and any cleanup is the hook's responsibility.
func (r *Runner) runOne(ctx context.Context, h Hook, l *lease.Lease, trigger Trigger) {
	hctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- runProtected(hctx, h, l)
	}()

	select {
	case err := <-done:
		duration := time.Since(start)
		metrics.HookDuration.WithLabelValues(h.Name).Observe(duration.Seconds())
		if err != nil {
			metrics.HookExecutions.WithLabelValues(h.Name, "error").Inc()
			r.logger.Error("hook failed",
				"hook", h.Name,
				"trigger", string(trigger),
				"error", err)
			return
		}
		metrics.HookExecutions.WithLabelValues(h.Name, "success").Inc()
		r.logger.Debug("hook completed",
			"hook", h.Name,
			"trigger", string(trigger),
			"duration", duration.String())
	case <-hctx.Done():
		if errors.Is(hctx.Err(), context.DeadlineExceeded) {
			metrics.HookExecutions.WithLabelValues(h.Name, "timeout").Inc()
			r.logger.Error("hook timed out",
				"hook", h.Name,
				"trigger", string(trigger),
				"timeout", r.timeout.String())
			return
		}
		metrics.HookExecutions.WithLabelValues(h.Name, "cancelled").Inc()
		r.logger.Warn("hook cancelled",
			"hook", h.Name,
			"trigger", string(trigger))
	}
}

// runProtected invokes the hook body and converts a panic into a plain
// error, so no hook can take the process down.
func runProtected(ctx context.Context, h Hook, l *lease.Lease) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return h.Func(ctx, l)
}
