package mocks

import (
	"sync"
	"time"

	"github.com/Kimen6931/BlockLocker/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Time only moves when Advance or Set is called.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	waiters     []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// After returns a channel that fires once the clock has been advanced by d
func (c *MockClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.currentTime
		return ch
	}
	c.waiters = append(c.waiters, waiter{deadline: c.currentTime.Add(d), ch: ch})
	return ch
}

// Advance moves the clock forward by the given duration, firing any
// After channels whose deadline has passed
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = c.currentTime.Add(d)
	c.fire()
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
	c.fire()
}

// WaiterCount returns the number of pending After channels
func (c *MockClock) WaiterCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// fire must be called with c.mu held
func (c *MockClock) fire() {
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.deadline.After(c.currentTime) {
			w.ch <- c.currentTime
			continue
		}
		remaining = append(remaining, w)
	}
	c.waiters = remaining
}
