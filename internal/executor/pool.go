package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/podcleaner/internal/util"
)

const (
	// DefaultBatchSize is the number of items per batch when none is configured
	DefaultBatchSize = 50

	// DefaultMaxConcurrency is the worker count when none is configured
	DefaultMaxConcurrency = 5
)

// Batch is a contiguous slice of the dispatched items
type Batch[T any] struct {
	// Index is the batch position in partition order
	Index int

	// Offset is the index of the first item in the original slice
	Offset int

	// Items are the batch members
	Items []T
}

// Handler processes one batch and returns its partial result
type Handler[T, V any] func(ctx context.Context, batch Batch[T]) (map[string]V, error)

// Option configures a Dispatcher
type Option func(*options)

type options struct {
	batchSize      int
	maxConcurrency int
	logger         *slog.Logger
	progressFn     func(completed, total int)
}

// WithBatchSize sets the number of items per batch (values < 1 fall back to the default)
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithMaxConcurrency sets the worker count (values < 1 fall back to the default)
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrency = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProgress registers a callback invoked after each batch completes
func WithProgress(fn func(completed, total int)) Option {
	return func(o *options) {
		o.progressFn = fn
	}
}

// Dispatcher runs a handler over batches of items with bounded concurrency
// and merges the partial results with a fixed merge policy
type Dispatcher[T, V any] struct {
	batchSize      int
	maxConcurrency int
	merge          MergeFunc[V]
	logger         *slog.Logger
	progressFn     func(completed, total int)
}

// NewDispatcher creates a dispatcher that merges colliding keys with merge
func NewDispatcher[T, V any](merge MergeFunc[V], opts ...Option) *Dispatcher[T, V] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.batchSize <= 0 {
		o.batchSize = DefaultBatchSize
	}
	if o.maxConcurrency <= 0 {
		o.maxConcurrency = DefaultMaxConcurrency
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if merge == nil {
		merge = Replace[V]()
	}

	return &Dispatcher[T, V]{
		batchSize:      o.batchSize,
		maxConcurrency: o.maxConcurrency,
		merge:          merge,
		logger:         o.logger,
		progressFn:     o.progressFn,
	}
}

// BatchSize returns the configured batch size
func (d *Dispatcher[T, V]) BatchSize() int {
	return d.batchSize
}

// MaxConcurrency returns the configured worker count
func (d *Dispatcher[T, V]) MaxConcurrency() int {
	return d.maxConcurrency
}

// Partition splits items into batches of the dispatcher's batch size
func (d *Dispatcher[T, V]) Partition(items []T) []Batch[T] {
	return Partition(items, d.batchSize)
}

// Partition splits items into contiguous batches of at most size items.
// Concatenating the batches in order reproduces items; zero items yield zero batches.
func Partition[T any](items []T, size int) []Batch[T] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(items) == 0 {
		return nil
	}

	batches := make([]Batch[T], 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, Batch[T]{
			Index:  len(batches),
			Offset: start,
			Items:  items[start:end:end],
		})
	}
	return batches
}

// Dispatch runs handler over every batch of items and returns the merged result
// together with one Result per batch, indexed by batch position.
// Batches not started before ctx is cancelled are reported as failed.
func (d *Dispatcher[T, V]) Dispatch(ctx context.Context, items []T, handler Handler[T, V]) (map[string]V, []Result) {
	merged := make(map[string]V)

	batches := d.Partition(items)
	total := len(batches)
	if total == 0 {
		d.logger.Debug("no items to dispatch")
		return merged, []Result{}
	}

	workerCount := min(d.maxConcurrency, total)

	d.logger.Info("dispatching batches",
		"items", len(items),
		"batches", total,
		"batch_size", d.batchSize,
		"workers", workerCount)

	startTime := time.Now()

	batchChan := make(chan Batch[T], total)
	for _, b := range batches {
		batchChan <- b
	}
	close(batchChan)

	results := make([]Result, total)
	started := make([]bool, total)

	var (
		mergeMu   sync.Mutex
		wg        sync.WaitGroup
		completed atomic.Int32
	)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for batch := range batchChan {
				if ctx.Err() != nil {
					return
				}
				started[batch.Index] = true

				part, res := d.runBatch(ctx, workerID, batch, handler)

				mergeMu.Lock()
				if res.Error == nil {
					mergeInto(merged, part, d.merge)
				}
				results[batch.Index] = res
				mergeMu.Unlock()

				done := completed.Add(1)
				if d.progressFn != nil {
					d.progressFn(int(done), total)
				}
			}
		}(i)
	}

	wg.Wait()

	for i, b := range batches {
		if !started[i] {
			results[i] = Result{
				Index: b.Index,
				Size:  len(b.Items),
				Error: fmt.Errorf("%w: batch %d not executed: %v", util.ErrCancelled, b.Index, ctx.Err()),
			}
		}
	}

	summary := Summarize(results)
	d.logger.Info("dispatch completed",
		"batches", summary.Batches,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"items_processed", ItemsProcessed(results),
		"slowest", summary.MaxDuration,
		"duration", time.Since(startTime))

	return merged, results
}

// runBatch executes the handler for one batch, converting panics into errors
func (d *Dispatcher[T, V]) runBatch(ctx context.Context, workerID int, batch Batch[T], handler Handler[T, V]) (part map[string]V, res Result) {
	start := time.Now()
	res = Result{Index: batch.Index, Size: len(batch.Items)}

	defer func() {
		if r := recover(); r != nil {
			part = nil
			res.Error = fmt.Errorf("%w: batch %d panicked: %v", util.ErrBatchHandler, batch.Index, r)
			res.Panicked = true
		}
		res.Duration = time.Since(start)

		if res.Error != nil {
			d.logger.Error("batch failed, dropping its result",
				"worker_id", workerID,
				"batch", batch.Index,
				"size", len(batch.Items),
				"error", res.Error)
		} else {
			d.logger.Debug("batch completed",
				"worker_id", workerID,
				"batch", batch.Index,
				"keys", len(part),
				"duration", res.Duration)
		}
	}()

	part, err := handler(ctx, batch)
	if err != nil {
		res.Error = fmt.Errorf("%w: batch %d: %w", util.ErrBatchHandler, batch.Index, err)
		return nil, res
	}

	return part, res
}
