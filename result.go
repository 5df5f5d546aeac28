package windowz

// Result represents either a finalized window aggregate or a per-window
// error. All outcomes flow through a single output channel, so callers get
// unified backpressure and don't juggle dual channels for data and errors.
type Result[A any] struct {
	agg WindowAggregate[A]
	err *WindowError
}

// NewSuccess creates a Result containing a finalized aggregate.
func NewSuccess[A any](agg WindowAggregate[A]) Result[A] {
	return Result[A]{agg: agg}
}

// NewError creates a Result containing a per-window error.
func NewError[A any](err *WindowError) Result[A] {
	return Result[A]{err: err}
}

// IsError returns true if this Result contains an error.
func (r Result[A]) IsError() bool {
	return r.err != nil
}

// IsSuccess returns true if this Result contains a finalized aggregate.
func (r Result[A]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the finalized aggregate.
// Panics if called on a Result containing an error - always check IsSuccess() first.
func (r Result[A]) Value() WindowAggregate[A] {
	if r.err != nil {
		panic("called Value() on Result containing an error")
	}
	return r.agg
}

// Error returns the WindowError.
// Returns nil if this Result contains a finalized aggregate.
func (r Result[A]) Error() *WindowError {
	return r.err
}

// ValueOr returns the finalized aggregate if present, otherwise the fallback.
func (r Result[A]) ValueOr(fallback WindowAggregate[A]) WindowAggregate[A] {
	if r.err != nil {
		return fallback
	}
	return r.agg
}

// Window returns the window this Result concerns, for both outcomes.
func (r Result[A]) Window() Window {
	if r.err != nil {
		return r.err.Window
	}
	return r.agg.Window
}
