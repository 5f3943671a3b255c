package world

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/testutil"
)

type LoopSuite struct {
	suite.Suite
	loop    *Loop
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

func TestLoopSuite(t *testing.T) {
	suite.Run(t, new(LoopSuite))
}

func (s *LoopSuite) SetupTest() {
	s.loop = NewLoop(64, testutil.NopLogger())
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.stopped = make(chan struct{})
	go func() {
		defer close(s.stopped)
		_ = s.loop.Run(s.ctx)
	}()
}

func (s *LoopSuite) TearDownTest() {
	s.cancel()
	<-s.stopped
}

func (s *LoopSuite) TestRunOnMainPreservesSubmissionOrder() {
	var mu sync.Mutex
	var order []int
	for i := range 20 {
		s.loop.RunOnMain(func(ctx context.Context) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
		})
	}

	// Do queues behind the tasks above
	err := s.loop.Do(s.ctx, func(ctx context.Context) error { return nil })
	s.Require().NoError(err)

	mu.Lock()
	defer mu.Unlock()
	s.Len(order, 20)
	for i, v := range order {
		s.Equal(i, v)
	}
}

func (s *LoopSuite) TestTasksRunOnOneGoroutine() {
	// Unsynchronised counter: the race detector flags this if tasks ever overlap
	counter := 0
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.loop.Do(s.ctx, func(ctx context.Context) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	var got int
	_ = s.loop.Do(s.ctx, func(ctx context.Context) error {
		got = counter
		return nil
	})
	s.Equal(10, got)
}

func (s *LoopSuite) TestDoReturnsTaskError() {
	boom := errors.New("boom")
	err := s.loop.Do(s.ctx, func(ctx context.Context) error { return boom })
	s.ErrorIs(err, boom)
}

func (s *LoopSuite) TestPanickingTaskDoesNotStopLoop() {
	err := s.loop.Do(s.ctx, func(ctx context.Context) error { panic("boom") })
	s.Require().Error(err)
	s.Contains(err.Error(), "boom")

	err = s.loop.Do(s.ctx, func(ctx context.Context) error { return nil })
	s.NoError(err)
}

func (s *LoopSuite) TestDoAfterStopReturnsErrLoopStopped() {
	s.cancel()
	<-s.stopped

	err := s.loop.Do(context.Background(), func(ctx context.Context) error { return nil })
	s.ErrorIs(err, model.ErrLoopStopped)
}

func TestDoRespectsCallerContext(t *testing.T) {
	// Loop never started, so the task can only be queued
	loop := NewLoop(1, testutil.NopLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := loop.Do(ctx, func(ctx context.Context) error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, loop.Pending())
}
