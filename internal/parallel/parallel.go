// Package parallel runs index-addressed work across goroutines.
//
// Callers write results into pre-sized slices at the index they are given,
// so the output never depends on scheduling.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the item count below which ForEach stays on the
// calling goroutine.
const DefaultThreshold = 2048

// ForEach calls fn(i) for every i in [0, n).
//
// When n is below threshold (or threshold is negative) the calls run
// serially in ascending order. Otherwise the range is split into
// contiguous chunks, one per available CPU, each walked in ascending order.
// A chunk stops at its first error. ForEach returns the error with the
// lowest index, so the reported failure is the same as in a serial run.
func ForEach(n, threshold int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if threshold < 0 || n < threshold || workers < 2 {
		return serial(0, n, fn)
	}

	chunks := min(workers, n)
	size := (n + chunks - 1) / chunks
	errs := make([]error, chunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := range chunks {
		lo := c * size
		hi := min(lo+size, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			errs[c] = serial(lo, hi, fn)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Map applies fn to every element of in and returns the results in input
// order. It has the same scheduling and error rules as ForEach.
func Map[T, R any](in []T, threshold int, fn func(T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	err := ForEach(len(in), threshold, func(i int) error {
		r, err := fn(in[i])
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func serial(lo, hi int, fn func(i int) error) error {
	for i := lo; i < hi; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
