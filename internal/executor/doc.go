// Package executor provides a generic batch dispatcher with bounded concurrency.
//
// A Dispatcher partitions a slice of items into contiguous batches, runs a
// handler on each batch from a fixed-size worker pool, and merges the partial
// result maps the handlers return into one accumulator.
//
// # Merge policies
//
// How two values under the same key combine is declared up front as a
// MergeFunc rather than discovered at runtime:
//
//	counters := executor.NewDispatcher[string](executor.Sum[int]())
//	lists    := executor.NewDispatcher[string](executor.Concat[string]())
//	nested   := executor.NewDispatcher[string](executor.MergeMaps[string](executor.Sum[int]()))
//
// A key seen for the first time is inserted as-is. Merges happen one at a
// time as batches complete, so the order of concatenated sequences follows
// completion order and is not stable across runs.
//
// # Failure isolation
//
// A handler that returns an error or panics has its whole partial result
// dropped; sibling batches are merged normally. Every batch is reported in
// the returned []Result, failed or not.
//
// # Basic usage
//
//	d := executor.NewDispatcher[string](executor.Sum[int](),
//	    executor.WithBatchSize(50),
//	    executor.WithMaxConcurrency(5),
//	)
//
//	totals, results := d.Dispatch(ctx, items, func(ctx context.Context, b executor.Batch[string]) (map[string]int, error) {
//	    return map[string]int{"seen": len(b.Items)}, nil
//	})
//
//	if executor.HasErrors(results) {
//	    log.Printf("%d batches failed", executor.CountFailed(results))
//	}
package executor
