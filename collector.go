package windowz

import (
	"context"
	"sync"
)

// DefaultMaxOpenWindows bounds concurrently accumulating windows unless
// overridden with WithMaxOpenWindows.
const DefaultMaxOpenWindows = 1024

// Collector routes window lifecycle commands to independent per-window
// workers and merges their finalized aggregates into a single output stream.
// Each worker owns its accumulator exclusively and runs through the state
// machine unopened -> accumulating -> closed (or failed); workers never
// share mutable state, so no cross-worker coordination exists.
//
// The input must honor the per-window protocol a CommandGenerator produces:
// one open, then adds, then one close per window, with per-window FIFO
// order. Commands for windows the collector has never opened (or has already
// closed) are ignored. Cross-window order is irrelevant.
//
// The merge channel is unbuffered: a slow consumer throttles workers, which
// in turn throttles command routing and upstream event admission.
type Collector[T, A any] struct {
	identity A
	reducer  ReducerFunc[T, A]
	maxOpen  int
	buffer   int
	clock    Clock
	diag     Diagnostics[T]
	name     string
}

// NewCollector creates a collector that folds events into per-window
// accumulators starting from the identity value.
//
// Default configuration:
//   - Max open windows: DefaultMaxOpenWindows
//   - Worker buffer: 0 (unbuffered, full backpressure)
//   - Clock: RealClock
//   - Name: "window-collector"
func NewCollector[T, A any](identity A, reducer ReducerFunc[T, A]) (*Collector[T, A], error) {
	if reducer == nil {
		return nil, ErrNilReducer
	}
	return &Collector[T, A]{
		identity: identity,
		reducer:  reducer,
		maxOpen:  DefaultMaxOpenWindows,
		clock:    RealClock,
		diag:     NopDiagnostics[T]{},
		name:     "window-collector",
	}, nil
}

// WithMaxOpenWindows caps the number of concurrently accumulating windows.
// Opening a window beyond the cap fails the run with ErrTooManyOpenWindows.
func (c *Collector[T, A]) WithMaxOpenWindows(n int) *Collector[T, A] {
	if n < 1 {
		n = 1
	}
	c.maxOpen = n
	return c
}

// WithWorkerBuffer sets the command buffer size of each per-window worker.
// Zero (the default) means fully synchronous routing.
func (c *Collector[T, A]) WithWorkerBuffer(size int) *Collector[T, A] {
	if size < 0 {
		size = 0
	}
	c.buffer = size
	return c
}

// WithClock sets the clock used for error timestamps.
func (c *Collector[T, A]) WithClock(clock Clock) *Collector[T, A] {
	if clock != nil {
		c.clock = clock
	}
	return c
}

// WithDiagnostics sets the sink notified about window lifecycle transitions.
func (c *Collector[T, A]) WithDiagnostics(d Diagnostics[T]) *Collector[T, A] {
	if d != nil {
		c.diag = d
	}
	return c
}

// WithName sets a custom name for this processor instance.
func (c *Collector[T, A]) WithName(name string) *Collector[T, A] {
	c.name = name
	return c
}

// Process consumes commands and emits one Result per window: the finalized
// aggregate on close, or a WindowError if the window's reducer failed. The
// output closes once the input is exhausted and all workers have drained.
//
// Exceeding the open-window cap surfaces ErrTooManyOpenWindows and fails the
// run: remaining commands are discarded, in-flight workers are released
// without emitting, and the output closes. Cancelling the context aborts the
// same way. Aggregates already finalized before either event still reach the
// output ahead of it closing.
func (c *Collector[T, A]) Process(ctx context.Context, in <-chan Command[T]) <-chan Result[A] {
	out := make(chan Result[A])

	go func() {
		defer close(out)

		workers := make(map[Window]chan Command[T])
		var wg sync.WaitGroup

		// Releases every live worker without a close command; workers
		// exit silently, emitting nothing.
		abort := func() {
			for _, ch := range workers {
				close(ch)
			}
			workers = nil
		}

	route:
		for {
			select {
			case <-ctx.Done():
				abort()
				break route

			case cmd, ok := <-in:
				if !ok {
					// Input exhausted. A well-formed command stream has
					// already closed every window it opened.
					abort()
					break route
				}

				switch cmd.Type {
				case OpenWindow:
					if _, exists := workers[cmd.Window]; exists {
						continue
					}
					if len(workers) >= c.maxOpen {
						err := &WindowError{
							Window:        cmd.Window,
							Err:           ErrTooManyOpenWindows,
							ProcessorName: c.name,
							Timestamp:     c.clock.Now(),
						}
						select {
						case out <- NewError[A](err):
						case <-ctx.Done():
						}
						abort()
						c.discard(ctx, in)
						break route
					}
					ch := make(chan Command[T], c.buffer)
					workers[cmd.Window] = ch
					wg.Add(1)
					go c.runWorker(ctx, cmd.Window, ch, out, &wg)
					c.diag.WindowOpened(cmd.Window)

				case AddToWindow, CloseWindow:
					ch, exists := workers[cmd.Window]
					if !exists {
						continue
					}
					select {
					case ch <- cmd:
					case <-ctx.Done():
						abort()
						break route
					}
					if cmd.Type == CloseWindow {
						// Worker finalizes on its own; the identity is
						// free for reuse once the close is in flight,
						// since the generator never reopens a closed
						// window before the watermark allows it.
						close(ch)
						delete(workers, cmd.Window)
					}
				}
			}
		}

		wg.Wait()
	}()

	return out
}

// runWorker is the per-window state machine. It accumulates adds until the
// close command arrives, then emits the finalized aggregate exactly once. A
// reducer error moves the window to a failed terminal state: the error is
// emitted in place of an aggregate and subsequent commands are drained.
func (c *Collector[T, A]) runWorker(ctx context.Context, w Window, in <-chan Command[T], out chan<- Result[A], wg *sync.WaitGroup) {
	defer wg.Done()

	acc := c.identity
	count := 0

	for cmd := range in {
		switch cmd.Type {
		case AddToWindow:
			next, err := c.reducer(acc, cmd.Event)
			if err != nil {
				c.diag.WindowFailed(w, err)
				werr := &WindowError{
					Window:        w,
					Err:           err,
					ProcessorName: c.name,
					Timestamp:     c.clock.Now(),
				}
				select {
				case out <- NewError[A](werr):
				case <-ctx.Done():
				}
				for range in { // failed is terminal; drain until released
				}
				return
			}
			acc = next
			count++

		case CloseWindow:
			c.diag.WindowClosed(w)
			agg := WindowAggregate[A]{Window: w, Value: acc, Count: count}
			select {
			case out <- NewSuccess(agg):
			case <-ctx.Done():
			}
			return
		}
	}
	// Released without a close: run aborted, nothing to emit.
}

// discard consumes the rest of a failed run's input so the upstream
// generator isn't left blocked mid-send.
func (c *Collector[T, A]) discard(ctx context.Context, in <-chan Command[T]) {
	for {
		select {
		case _, ok := <-in:
			if !ok {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Name returns a descriptive name for the processor, useful for debugging.
func (c *Collector[T, A]) Name() string {
	return c.name
}
