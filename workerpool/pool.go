// Package workerpool implements the two fixed fan-out points the
// simulator core uses for its parallel sections: builder block
// assembly/bidding, and the optional parallel gossip-propagation
// variant.
//
// Usage:
// 1. Partition a slice of owned items across N workers with Run.
// 2. Each worker only ever touches the items in its own partition —
//    callers rely on this to write into per-item state (a builder's
//    mempool, currBlock, currBid) without locking.
//
// Unlike a general task queue, there is no retry and no persistence:
// if Fn returns an error for an item, the worker holding that item
// skips the rest of its partition, and the first error any worker hit
// is returned to the caller once every worker has finished. The
// simulator never retries a slot (see the error handling section of
// the design doc), so a failed item is simply reported, not requeued.
package workerpool

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fn processes a single item. It must not touch any item's state but
// its own — Run relies on that to avoid synchronizing writers.
type Fn[T any] func(ctx context.Context, item T) error

// Workers returns a worker count for n independent units of work,
// capped at GOMAXPROCS so we never oversubscribe the host. Mirrors the
// "partition across hardware_concurrency workers" language in the
// concurrency model.
func Workers(n int) int {
	w := runtime.GOMAXPROCS(0)
	if n < w {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Run partitions items into Workers(len(items)) contiguous slices and
// runs fn over each item concurrently, one goroutine per partition. It
// blocks until every worker has finished (fork-join with a barrier, per
// the concurrency model); when fn fails, the remaining items of that
// worker's partition are not processed.
func Run[T any](ctx context.Context, log *zap.Logger, items []T, fn Fn[T]) error {
	if len(items) == 0 {
		return nil
	}
	workers := Workers(len(items))
	g, ctx := errgroup.WithContext(ctx)

	chunk := (len(items) + workers - 1) / workers
	for start := 0; start < len(items); start += chunk {
		end := start + chunk
		if end > len(items) {
			end = len(items)
		}
		partition := items[start:end]
		g.Go(func() error {
			for _, item := range partition {
				if err := fn(ctx, item); err != nil {
					log.Error("workerpool: item failed", zap.Error(err))
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
