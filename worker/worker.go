package worker

import (
	"context"
	"time"
)

// Worker long running background job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker drives a job on a fixed tick with a slower retry tick after
// failures. Embed it and call StartTick from Run.
type TickWorker struct {
	// Delay tick interval after a successful run; 100ms if unset
	Delay time.Duration
	// ErrDelay tick interval after a failed run; 500ms if unset
	ErrDelay time.Duration
}

func (w *TickWorker) StartTick(ctx context.Context, onWork func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	errDelay := w.ErrDelay
	if errDelay <= 0 {
		errDelay = 500 * time.Millisecond
	}

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := onWork(ctx); err == nil {
				dur = delay
			} else {
				dur = errDelay
			}
		}
	}
}
