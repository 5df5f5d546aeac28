// Package testing provides test utilities for windowz.
package testing

import (
	"testing"
	"time"

	windowz "github.com/zoobzio/windowz"
)

// CollectResultsWithTimeout collects all window results from a channel with
// a timeout. This is a shared utility function for integration tests to
// avoid duplication.
func CollectResultsWithTimeout[A any](t *testing.T, ch <-chan windowz.Result[A], timeout time.Duration) []windowz.Result[A] {
	t.Helper()

	var results []windowz.Result[A]
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case result, ok := <-ch:
			if !ok {
				return results
			}
			results = append(results, result)
		case <-timer.C:
			return results
		}
	}
}

// CollectAggregates collects all finalized aggregates from a Result channel
// with a timeout, keyed by window. Errors are ignored; duplicate emissions
// for the same window fail the test, since every window must be emitted at
// most once.
func CollectAggregates[A any](t *testing.T, ch <-chan windowz.Result[A], timeout time.Duration) map[windowz.Window]windowz.WindowAggregate[A] {
	t.Helper()

	byWindow := make(map[windowz.Window]windowz.WindowAggregate[A])
	for _, r := range CollectResultsWithTimeout(t, ch, timeout) {
		if r.IsError() {
			continue
		}
		agg := r.Value()
		if _, dup := byWindow[agg.Window]; dup {
			t.Errorf("window %s emitted more than once", agg.Window)
		}
		byWindow[agg.Window] = agg
	}
	return byWindow
}

// CollectErrors collects all window errors from a Result channel with a
// timeout. Returns only the errors, ignoring finalized aggregates.
func CollectErrors[A any](t *testing.T, ch <-chan windowz.Result[A], timeout time.Duration) []*windowz.WindowError {
	t.Helper()

	errs := make([]*windowz.WindowError, 0)
	for _, r := range CollectResultsWithTimeout(t, ch, timeout) {
		if r.IsError() {
			errs = append(errs, r.Error())
		}
	}
	return errs
}

// SendEvents sends timestamped values to a channel as events, in slice
// order. Closes the channel after all events are sent.
func SendEvents[T any](t *testing.T, events []windowz.Event[T]) <-chan windowz.Event[T] {
	t.Helper()

	ch := make(chan windowz.Event[T], len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}

// AssertResultCount verifies the expected number of results were received.
func AssertResultCount[A any](t *testing.T, results []windowz.Result[A], expected int) {
	t.Helper()

	if len(results) != expected {
		t.Errorf("expected %d results, got %d", expected, len(results))
	}
}

// AssertAllSuccess verifies all results are finalized aggregates.
func AssertAllSuccess[A any](t *testing.T, results []windowz.Result[A]) {
	t.Helper()

	for i, r := range results {
		if r.IsError() {
			t.Errorf("result %d: expected aggregate, got error: %v", i, r.Error())
		}
	}
}

// AssertAllErrors verifies all results are window errors.
func AssertAllErrors[A any](t *testing.T, results []windowz.Result[A]) {
	t.Helper()

	for i, r := range results {
		if r.IsSuccess() {
			t.Errorf("result %d: expected error, got aggregate: %v", i, r.Value())
		}
	}
}
