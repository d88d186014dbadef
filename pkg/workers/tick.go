// Package workers holds background loops that run for the lifetime of
// the server process.
package workers

import (
	"context"
	"time"

	"github.com/fusebox-party/fusebox/pkg/sessions"
)

// DefaultTickInterval is how often active bombs advance their
// countdowns when no interval is configured.
const DefaultTickInterval = time.Second

// TickWorker advances every active session's countdown on a fixed
// interval. It is the authority for time-based state transitions;
// per-session broadcast loops only push what the tick produced.
type TickWorker struct {
	registry *sessions.Registry
	interval time.Duration
}

type NewTickWorkerOptions struct {
	Registry *sessions.Registry
	Interval time.Duration
}

func NewTickWorker(opts NewTickWorkerOptions) *TickWorker {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickWorker{
		registry: opts.Registry,
		interval: interval,
	}
}

// Start runs the tick loop until the context is cancelled.
func (w *TickWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.registry.TickAll(now)
		}
	}
}
