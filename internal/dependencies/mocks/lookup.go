package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// FakeLookup is an in-memory player directory
type FakeLookup struct {
	mu      sync.Mutex
	players map[string]model.NameAndID
	err     error
	calls   [][]string
	hold    *lookupHold
}

type lookupHold struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewFakeLookup creates a FakeLookup that knows the given players
func NewFakeLookup(players ...model.NameAndID) *FakeLookup {
	f := &FakeLookup{players: make(map[string]model.NameAndID)}
	for _, p := range players {
		f.players[p.Key()] = p
	}
	return f
}

// FailWith makes every following call fail with err (nil to recover)
func (f *FakeLookup) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Hold makes following calls block until release is called. entered
// receives once for each call as it starts waiting. A held call whose
// context ends first fails with model.ErrLookupFailed, like a real
// directory request would.
func (f *FakeLookup) Hold() (entered <-chan struct{}, release func()) {
	h := &lookupHold{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
	f.mu.Lock()
	f.hold = h
	f.mu.Unlock()
	return h.entered, func() {
		h.once.Do(func() { close(h.release) })
		f.mu.Lock()
		if f.hold == h {
			f.hold = nil
		}
		f.mu.Unlock()
	}
}

// ResolveNames returns the known players among names, keyed by lower-cased name
func (f *FakeLookup) ResolveNames(ctx context.Context, names []string) (map[string]model.NameAndID, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), names...))
	hold := f.hold
	f.mu.Unlock()

	if hold != nil {
		select {
		case hold.entered <- struct{}{}:
		default:
		}
		select {
		case <-hold.release:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", model.ErrLookupFailed, ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	result := make(map[string]model.NameAndID)
	for _, name := range names {
		key := strings.ToLower(name)
		if p, ok := f.players[key]; ok {
			result[key] = p
		}
	}
	return result, nil
}

// Calls returns the names passed to each call so far
func (f *FakeLookup) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}
