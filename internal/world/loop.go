// Package world owns the main loop: the single goroutine allowed to read
// and mutate protection state. Other goroutines hand it work through
// RunOnMain or Do, and the loop runs that work strictly in submission order.
package world

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// Task is a unit of work executed on the main loop
type Task func(ctx context.Context)

// Executor defers work to the main loop
type Executor interface {
	// RunOnMain queues task to run once on the main loop. It never blocks on
	// the task itself.
	RunOnMain(task Task)
}

// Loop is the main loop. Create it with NewLoop and start it with Run.
type Loop struct {
	tasks  chan Task
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// Ensure Loop implements Executor
var _ Executor = (*Loop)(nil)

// NewLoop creates a main loop whose queue holds up to queueSize pending tasks
func NewLoop(queueSize int, logger *slog.Logger) *Loop {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Loop{
		tasks:  make(chan Task, queueSize),
		done:   make(chan struct{}),
		logger: logger.With(slog.String("component", "main-loop")),
	}
}

// Run executes queued tasks in FIFO order until ctx is done.
// It must be called exactly once.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("main loop started")
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("main loop stopped", slog.Int("dropped_tasks", len(l.tasks)))
			return nil
		case task := <-l.tasks:
			l.run(ctx, task)
		}
	}
}

// RunOnMain implements Executor. Once the loop has stopped, tasks are dropped.
func (l *Loop) RunOnMain(task Task) {
	if l.stopped() {
		l.logger.Warn("main loop stopped - task dropped")
		return
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		l.logger.Warn("main loop stopped - task dropped")
	}
}

// Do runs task on the main loop and waits for it to finish, returning the
// task's error. It returns ctx.Err() if ctx ends first, and
// model.ErrLoopStopped if the loop is not running.
func (l *Loop) Do(ctx context.Context, task func(ctx context.Context) error) error {
	result := make(chan error, 1)
	wrapped := func(loopCtx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("main loop task panicked: %v", r)
				panic(r)
			}
		}()
		result <- task(loopCtx)
	}

	if l.stopped() {
		return model.ErrLoopStopped
	}
	select {
	case l.tasks <- wrapped:
	case <-l.done:
		return model.ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return model.ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Pending returns the number of queued tasks
func (l *Loop) Pending() int {
	return len(l.tasks)
}

func (l *Loop) run(ctx context.Context, task Task) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("main loop task panicked",
				slog.Any("error", err),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	task(ctx)
}
