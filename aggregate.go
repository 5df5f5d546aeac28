package windowz

import "fmt"

// ReducerFunc folds one event into a window's accumulator. It receives the
// current accumulator and the event, returning the updated accumulator or an
// error. An error terminates that window only: the window transitions to a
// failed terminal state and surfaces a WindowError in the output stream,
// while all other open windows keep accumulating.
//
// The accumulator is threaded explicitly through the per-window worker; the
// reducer must not capture shared mutable state.
type ReducerFunc[T, A any] func(acc A, e Event[T]) (A, error)

// WindowAggregate is the finalized result of one closed window: the window
// interval, the accumulator after folding every on-time event assigned to
// it, and the number of events folded.
type WindowAggregate[A any] struct {
	// Window is the interval this aggregate covers.
	Window Window

	// Value is the final accumulator.
	Value A

	// Count is the number of events folded into Value.
	Count int
}

// String returns a human-readable representation of the aggregate.
func (a WindowAggregate[A]) String() string {
	return fmt.Sprintf("%s: %v (%d events)", a.Window, a.Value, a.Count)
}
