package factory

import (
	"context"
	"time"

	"github.com/Kimen6931/BlockLocker/internal/dependencies/mocks"
	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/storage/memory"
	"github.com/Kimen6931/BlockLocker/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockLookup   *mocks.FakeLookup
	MemoryStore  *memory.Storage
	stopLoop     context.CancelFunc
	loopFinished chan struct{}
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The directory knows the given players.
func NewTestApp(players ...model.NameAndID) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	lookup := mocks.NewFakeLookup(players...)

	app := newWithDependencies(store, mockClock, lookup, Config{MainQueueSize: 64}, testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockLookup:  lookup,
		MemoryStore: store,
	}
}

// StartLoop runs the main loop and the event hub on their own goroutines
// until StopLoop
func (t *TestApp) StartLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	t.stopLoop = cancel
	t.loopFinished = make(chan struct{})
	hubFinished := make(chan struct{})
	go func() {
		defer close(hubFinished)
		_ = t.Events.Run(ctx)
	}()
	go func() {
		defer close(t.loopFinished)
		_ = t.Loop.Run(ctx)
		<-hubFinished
	}()
}

// StopLoop stops the main loop and waits for it to exit
func (t *TestApp) StopLoop() {
	if t.stopLoop == nil {
		return
	}
	t.stopLoop()
	<-t.loopFinished
	t.stopLoop = nil
}

// Settle waits until every task queued on the main loop so far has run
func (t *TestApp) Settle(ctx context.Context) error {
	return t.Loop.Do(ctx, func(context.Context) error { return nil })
}
