package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Kimen6931/BlockLocker/internal/dependencies/clock"
	"github.com/Kimen6931/BlockLocker/internal/dependencies/schedule"
	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/observe"
	"github.com/Kimen6931/BlockLocker/internal/world"
)

// NameLookup resolves player names to identities in one batch call.
// Names the directory does not know are absent from the result; the call
// only fails when the batch as a whole could not be looked up.
type NameLookup interface {
	ResolveNames(ctx context.Context, names []string) (map[string]model.NameAndID, error)
}

// Applier writes resolved identities back onto protections.
// It is only ever called on the main loop.
type Applier interface {
	Apply(ctx context.Context, protections []*model.Protection, resolved map[string]model.NameAndID)
}

// Publisher receives an event for every failed batch
type Publisher interface {
	Publish(event model.Event)
}

// Stats is a point-in-time view of the resolver
type Stats struct {
	Queued        int
	Batches       int64
	FailedBatches int64
	LastDrain     time.Time
}

// BatchResult describes one drained batch
type BatchResult struct {
	Protections int
	Names       int
	Resolved    int
}

// Resolver batches protections with name-only profiles and resolves them off
// the main loop. Submit is safe to call from any goroutine.
type Resolver struct {
	queue   *queue
	lookup  NameLookup
	main    world.Executor
	applier Applier
	clock   clock.Clock
	metrics *observe.Metrics
	logger  *slog.Logger

	publisher Publisher

	// drainMu keeps a single drainer at a time
	drainMu sync.Mutex

	statsMu       sync.Mutex
	batches       int64
	failedBatches int64
	lastDrain     time.Time
}

// New creates a Resolver
func New(
	lookup NameLookup,
	main world.Executor,
	applier Applier,
	clk clock.Clock,
	metrics *observe.Metrics,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		queue:   newQueue(),
		lookup:  lookup,
		main:    main,
		applier: applier,
		clock:   clk,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "name-resolver")),
	}
}

// PublishTo sends a batch-failed event to p whenever a lookup fails
func (r *Resolver) PublishTo(p Publisher) {
	r.publisher = p
}

// Start registers the periodic drain with runner
func (r *Resolver) Start(runner schedule.PeriodicRunner, interval time.Duration) {
	r.logger.Info("name resolver started", slog.Duration("interval", interval))
	runner.RunPeriodically(interval, interval, func(ctx context.Context) {
		// Failures are logged inside ProcessQueue
		_, _ = r.ProcessQueue(ctx)
	})
}

// Submit queues p for resolution. Protections without name-only profiles,
// and protections already waiting in the queue, are ignored. Submit never
// blocks on the lookup.
func (r *Resolver) Submit(ctx context.Context, p *model.Protection) {
	pending := NewPendingResolution(p)
	if pending.Degenerate() {
		r.metrics.RecordSubmission(ctx, observe.OutcomeDegenerate)
		return
	}

	if !r.queue.push(pending) {
		r.metrics.RecordSubmission(ctx, observe.OutcomeDuplicate)
		return
	}

	r.metrics.RecordSubmission(ctx, observe.OutcomeQueued)
	r.logger.Debug("protection queued for name resolution",
		slog.String("protection_id", string(p.ID)),
		slog.Int("missing_names", len(pending.missingNames)),
	)
}

// ProcessQueue drains the queue, looks up every missing name in one batch and
// hands the result to the main loop. It must not be called on the main loop.
// A failed lookup drops the batch; the error is logged and returned.
// The batch belongs to every producer that submitted into it, so ending ctx
// does not cancel the lookup; timeouts are the lookup's own.
func (r *Resolver) ProcessQueue(ctx context.Context) (BatchResult, error) {
	r.drainMu.Lock()
	defer r.drainMu.Unlock()

	batch := r.queue.drain()
	r.statsMu.Lock()
	r.lastDrain = r.clock.Now()
	r.statsMu.Unlock()

	if len(batch) == 0 {
		return BatchResult{}, nil
	}

	protections := make([]*model.Protection, 0, len(batch))
	nameSet := make(map[string]struct{})
	for _, pending := range batch {
		protections = append(protections, pending.protection)
		for name := range pending.missingNames {
			nameSet[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	slices.Sort(names)

	result := BatchResult{Protections: len(protections), Names: len(names)}

	start := r.clock.Now()
	resolved, err := r.lookup.ResolveNames(context.WithoutCancel(ctx), names)
	elapsed := r.clock.Now().Sub(start).Seconds()
	if err != nil {
		r.metrics.RecordBatch(ctx, false, elapsed)
		r.recordBatch(false)
		r.logger.Error("failed to fetch unique ids",
			slog.Int("protections", len(protections)),
			slog.Int("names", len(names)),
			slog.String("error", err.Error()),
		)
		if r.publisher != nil {
			r.publisher.Publish(model.Event{
				Type:      model.EventBatchFailed,
				Timestamp: r.clock.Now(),
				Payload: model.BatchFailedPayload{
					Protections: len(protections),
					Names:       len(names),
					Reason:      err.Error(),
				},
			})
		}
		return result, fmt.Errorf("resolve %d names: %w", len(names), err)
	}

	for _, name := range names {
		if _, ok := resolved[name]; ok {
			result.Resolved++
		}
	}
	r.metrics.RecordBatch(ctx, true, elapsed)
	r.metrics.RecordNames(ctx, result.Resolved, len(names)-result.Resolved)
	r.recordBatch(true)

	r.main.RunOnMain(func(ctx context.Context) {
		r.applier.Apply(ctx, protections, resolved)
	})

	r.logger.Info("name batch resolved",
		slog.Int("protections", result.Protections),
		slog.Int("names", result.Names),
		slog.Int("resolved", result.Resolved),
	)
	return result, nil
}

// Stats returns current resolver statistics
func (r *Resolver) Stats() Stats {
	queued := r.queue.len()
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return Stats{
		Queued:        queued,
		Batches:       r.batches,
		FailedBatches: r.failedBatches,
		LastDrain:     r.lastDrain,
	}
}

func (r *Resolver) recordBatch(ok bool) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	r.batches++
	if !ok {
		r.failedBatches++
	}
}
