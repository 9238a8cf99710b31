package concurrency

import (
	"context"
	"sync"
)

// Options configures a bounded parallel run.
type Options struct {
	// MaxWorkers caps the number of goroutines processing items.
	MaxWorkers int
}

// DefaultOptions matches the pipeline's download width.
func DefaultOptions() Options {
	return Options{MaxWorkers: 5}
}

// ProcessParallel runs itemFunc over items with at most opts.MaxWorkers
// goroutines. Results come back in input order; errors are collected
// unordered. Items are independent: one failing item never stops the rest,
// only ctx cancellation does.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	type outcome struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int)
	results := make(chan outcome, len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				r, err := itemFunc(ctx, i, items[i])
				results <- outcome{index: i, result: r, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range items {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	resultList := make([]R, len(items))
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
		resultList[res.index] = res.result
	}
	return resultList, errs
}

// ForEach is ProcessParallel for side-effect-only work.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	_, errs := ProcessParallel(ctx, items, opts, func(ctx context.Context, i int, item T) (struct{}, error) {
		return struct{}{}, itemFunc(ctx, i, item)
	})
	return errs
}
