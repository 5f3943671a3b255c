package resolver

import (
	"slices"
	"sync"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// PendingResolution is a protection waiting for its name-only profiles to be
// resolved. Two PendingResolutions are the same work item when they refer to
// the same protection ID, whatever their names.
type PendingResolution struct {
	protection   *model.Protection
	missingNames map[string]struct{}
}

// NewPendingResolution snapshots p and collects its missing names
func NewPendingResolution(p *model.Protection) PendingResolution {
	snapshot := &model.Protection{ID: p.ID, Signs: slices.Clone(p.Signs)}
	names := make(map[string]struct{})
	for _, sign := range snapshot.Signs {
		for _, name := range sign.MissingNames() {
			names[name] = struct{}{}
		}
	}
	return PendingResolution{protection: snapshot, missingNames: names}
}

// Key is the dedupe key
func (p PendingResolution) Key() model.ProtectionID {
	return p.protection.ID
}

// Protection returns the snapshot taken at submission
func (p PendingResolution) Protection() *model.Protection {
	return p.protection
}

// MissingNames returns the lower-cased missing names, sorted
func (p PendingResolution) MissingNames() []string {
	names := make([]string, 0, len(p.missingNames))
	for name := range p.missingNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Degenerate reports whether there is nothing to resolve
func (p PendingResolution) Degenerate() bool {
	return len(p.missingNames) == 0
}

// queue is a FIFO of pending resolutions, deduplicated by protection ID.
// Producers push concurrently; a single drainer takes everything at once.
type queue struct {
	mu     sync.Mutex
	items  []PendingResolution
	queued map[model.ProtectionID]struct{}
}

func newQueue() *queue {
	return &queue{queued: make(map[model.ProtectionID]struct{})}
}

// push appends p unless its protection is already queued
func (q *queue) push(p PendingResolution) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.queued[p.Key()]; ok {
		return false
	}
	q.queued[p.Key()] = struct{}{}
	q.items = append(q.items, p)
	return true
}

// drain removes and returns every queued item in FIFO order
func (q *queue) drain() []PendingResolution {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	clear(q.queued)
	return items
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
