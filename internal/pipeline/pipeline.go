package pipeline

import (
	"context"
	"sync"

	"rm-rfp/internal/confirm"
	"rm-rfp/internal/fsops"
	"rm-rfp/internal/stats"
	"rm-rfp/internal/walk"
)

// QueueSize is the default event queue capacity. It exists as backpressure
// against pathological trees, not steady-state throttling; ordinary walks
// never fill it.
const QueueSize = 1_000_000

// Reporter receives the consumer's live output: per-item activity, combined
// progress after every event, and the per-item error stream.
type Reporter interface {
	ItemRemoved(prefix, path string)
	Progress(done stats.Stats, total stats.Stats, walkComplete bool)
	Error(path string, err error)
}

// Recorder persists per-item outcomes to the deletion history.
// Recording failures must never fail the run.
type Recorder interface {
	RecordDeletion(action, path, objectType string, size int64, errMsg string) error
}

// Options configures one deletion run.
type Options struct {
	DryRun        bool
	QueueSize     int
	SortThreshold int
}

// Run drives the two-stage pipeline: one producer goroutine walks each root
// in argument order, one consumer (the calling goroutine) removes in strict
// arrival order. The queue's FIFO ordering plus the walker's post-order
// emission is what makes bottom-up deletion correct even though production
// and consumption are concurrent.
//
// The returned Stats are the consumer's done totals. The returned error is
// the producer's first unrecoverable failure, reported only after the
// consumer has drained everything that was already queued.
func Run(roots []string, engine *confirm.Engine, deleter fsops.Deleter, totals *stats.Totals, reporter Reporter, history Recorder, metrics Metrics, opts Options) (stats.Stats, error) {
	if opts.QueueSize <= 0 {
		opts.QueueSize = QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel() // unblocks the producer if the consumer unwinds

	events := make(chan walk.Event, opts.QueueSize)

	var (
		prodErr   error
		prodPanic any
		wg        sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				prodPanic = r
			}
		}()
		finder := walk.NewFinder(ctx, events, engine, totals, opts.SortThreshold)
		for _, root := range roots {
			if err := finder.Find(root); err != nil {
				prodErr = err
				return
			}
			engine.ResetState()
		}
		totals.MarkDone()
	}()

	consumer := &Consumer{
		Deleter:  deleter,
		Totals:   totals,
		Reporter: reporter,
		History:  history,
		Metrics:  metrics,
		DryRun:   opts.DryRun,
	}
	done := consumer.Run(events)

	wg.Wait()
	if prodPanic != nil {
		panic(prodPanic)
	}
	return done, prodErr
}
