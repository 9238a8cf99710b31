package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxWorkers != 5 {
		t.Errorf("Expected MaxWorkers to be 5, got %d", opts.MaxWorkers)
	}
}

func TestProcessParallel(t *testing.T) {
	ctx := context.Background()

	// Empty input
	results, errs := ProcessParallel(ctx, []int{}, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		return "", nil
	})
	if len(results) != 0 {
		t.Errorf("Expected empty results for empty input, got %d items", len(results))
	}
	if errs != nil {
		t.Errorf("Expected nil errors for empty input, got %v", errs)
	}

	// Results preserve input order regardless of completion order
	input := []int{1, 2, 3, 4, 5}
	results, errs = ProcessParallel(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		return string(rune('a' + item - 1)), nil
	})
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}
	expected := []string{"a", "b", "c", "d", "e"}
	for i, res := range results {
		if res != expected[i] {
			t.Errorf("Expected result at index %d to be %s, got %s", i, expected[i], res)
		}
	}

	// One item failing never stops the rest
	results, errs = ProcessParallel(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		if item%2 == 0 {
			return "", errors.New("even number error")
		}
		return string(rune('a' + item - 1)), nil
	})
	if len(results) != len(input) {
		t.Errorf("Expected %d results, got %d", len(input), len(results))
	}
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errs))
	}
}

func TestProcessParallelBoundsWorkers(t *testing.T) {
	var active, peak int64
	items := make([]int, 50)

	_, errs := ProcessParallel(context.Background(), items, Options{MaxWorkers: 3}, func(ctx context.Context, index int, item int) (struct{}, error) {
		n := atomic.AddInt64(&active, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		atomic.AddInt64(&active, -1)
		return struct{}{}, nil
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if peak > 3 {
		t.Errorf("worker bound exceeded: peak %d concurrent workers", peak)
	}
}

func TestForEach(t *testing.T) {
	var count int64
	items := []int{1, 2, 3, 4}

	errs := ForEach(context.Background(), items, DefaultOptions(), func(ctx context.Context, index int, item int) error {
		atomic.AddInt64(&count, 1)
		if item == 3 {
			return errors.New("boom")
		}
		return nil
	})
	if count != int64(len(items)) {
		t.Errorf("Expected %d invocations, got %d", len(items), count)
	}
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs))
	}
}
