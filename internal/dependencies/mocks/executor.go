package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Kimen6931/BlockLocker/internal/dependencies/schedule"
	"github.com/Kimen6931/BlockLocker/internal/world"
)

// ManualExecutor queues main loop tasks until RunPending is called
type ManualExecutor struct {
	mu    sync.Mutex
	tasks []world.Task
}

// Ensure ManualExecutor implements Executor
var _ world.Executor = (*ManualExecutor)(nil)

// NewManualExecutor creates an empty ManualExecutor
func NewManualExecutor() *ManualExecutor {
	return &ManualExecutor{}
}

// RunOnMain queues the task
func (e *ManualExecutor) RunOnMain(task world.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, task)
}

// Pending returns the number of queued tasks
func (e *ManualExecutor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

// RunPending runs every queued task in order on the calling goroutine and
// returns how many ran
func (e *ManualExecutor) RunPending(ctx context.Context) int {
	e.mu.Lock()
	tasks := e.tasks
	e.tasks = nil
	e.mu.Unlock()

	for _, task := range tasks {
		task(ctx)
	}
	return len(tasks)
}

// ManualRunner records periodic tasks instead of scheduling them
type ManualRunner struct {
	mu    sync.Mutex
	tasks []PeriodicTask
}

// PeriodicTask is a task registered with ManualRunner
type PeriodicTask struct {
	Delay    time.Duration
	Interval time.Duration
	Run      func(ctx context.Context)
}

// Ensure ManualRunner implements PeriodicRunner
var _ schedule.PeriodicRunner = (*ManualRunner)(nil)

// RunPeriodically records the task
func (r *ManualRunner) RunPeriodically(delay, interval time.Duration, task func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, PeriodicTask{Delay: delay, Interval: interval, Run: task})
}

// Tasks returns the registered tasks
func (r *ManualRunner) Tasks() []PeriodicTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PeriodicTask(nil), r.tasks...)
}
