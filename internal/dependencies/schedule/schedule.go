package schedule

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Kimen6931/BlockLocker/internal/dependencies/clock"
)

// PeriodicRunner runs tasks repeatedly on a background goroutine, never on
// the main loop
type PeriodicRunner interface {
	// RunPeriodically runs task after delay, then every interval.
	// A run never overlaps the previous one.
	RunPeriodically(delay, interval time.Duration, task func(ctx context.Context))
}

// Ticker is a PeriodicRunner driven by a Clock. Every task gets its own
// goroutine, and all of them stop when the context passed to New is done.
type Ticker struct {
	ctx    context.Context
	clock  clock.Clock
	logger *slog.Logger
	wg     sync.WaitGroup
}

// Ensure Ticker implements PeriodicRunner
var _ PeriodicRunner = (*Ticker)(nil)

// New creates a Ticker bound to ctx
func New(ctx context.Context, clk clock.Clock, logger *slog.Logger) *Ticker {
	return &Ticker{
		ctx:    ctx,
		clock:  clk,
		logger: logger.With(slog.String("component", "scheduler")),
	}
}

// RunPeriodically implements PeriodicRunner
func (t *Ticker) RunPeriodically(delay, interval time.Duration, task func(ctx context.Context)) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		wait := delay
		for {
			select {
			case <-t.ctx.Done():
				return
			case <-t.clock.After(wait):
			}
			t.run(task)
			wait = interval
		}
	}()
}

// Wait blocks until every periodic task has stopped
func (t *Ticker) Wait() {
	t.wg.Wait()
}

func (t *Ticker) run(task func(ctx context.Context)) {
	defer func() {
		if err := recover(); err != nil {
			t.logger.Error("periodic task panicked",
				slog.Any("error", err),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	task(t.ctx)
}
