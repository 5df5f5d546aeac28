package windowz

import "context"

// Windower is the assembled event-time windowing engine: a CommandGenerator
// feeding a Collector behind a single processor. It consumes timestamped
// events in receipt order, tolerates out-of-order arrival up to the
// configured lateness, and emits each opened window's aggregate exactly
// once, when the watermark proves no further on-time events for it can
// arrive. Cross-window output order is unspecified.
//
// Example:
//
//	// Per-key hit counts over 1-minute windows sliding every 10 seconds.
//	windower, err := windowz.NewWindower[string, map[string]int](
//		windowz.WindowerConfig{
//			Size:     time.Minute,
//			Slide:    10 * time.Second,
//			Lateness: 5 * time.Second,
//		},
//		nil,
//		func(counts map[string]int, e windowz.Event[string]) (map[string]int, error) {
//			if counts == nil {
//				counts = make(map[string]int)
//			}
//			counts[e.Value]++
//			return counts, nil
//		},
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for result := range windower.Process(ctx, events) {
//		if result.IsError() {
//			log.Printf("window failed: %v", result.Error())
//			continue
//		}
//		fmt.Println(result.Value())
//	}
type Windower[T, A any] struct {
	gen  *CommandGenerator[T]
	col  *Collector[T, A]
	name string
}

// NewWindower creates the engine for the given window geometry, identity
// value and reducer. Configuration is validated here and immutable
// afterward; a size that isn't an integer multiple of the slide is rejected
// with ErrSlideNotDivisor rather than truncated.
func NewWindower[T, A any](cfg WindowerConfig, identity A, reducer ReducerFunc[T, A]) (*Windower[T, A], error) {
	gen, err := NewCommandGenerator[T](cfg)
	if err != nil {
		return nil, err
	}
	col, err := NewCollector[T, A](identity, reducer)
	if err != nil {
		return nil, err
	}
	return &Windower[T, A]{
		gen:  gen,
		col:  col,
		name: "windower",
	}, nil
}

// WithMaxOpenWindows caps the number of concurrently accumulating windows.
// Lateness plus window size already bounds how many windows a stream can
// hold open at once; the cap turns an unexpected breach of that bound into
// an ErrTooManyOpenWindows failure instead of unbounded memory growth.
func (w *Windower[T, A]) WithMaxOpenWindows(n int) *Windower[T, A] {
	w.col.WithMaxOpenWindows(n)
	return w
}

// WithWorkerBuffer sets the command buffer size of each per-window worker.
func (w *Windower[T, A]) WithWorkerBuffer(size int) *Windower[T, A] {
	w.col.WithWorkerBuffer(size)
	return w
}

// WithClock sets the clock used for diagnostic timestamps.
func (w *Windower[T, A]) WithClock(clock Clock) *Windower[T, A] {
	w.col.WithClock(clock)
	return w
}

// WithDiagnostics sets the sink notified about late drops and window
// lifecycle transitions. Each transition is reported exactly once: late
// drops by the generator, open/close/failed by the collector.
func (w *Windower[T, A]) WithDiagnostics(d Diagnostics[T]) *Windower[T, A] {
	w.gen.WithDiagnostics(d)
	w.col.WithDiagnostics(d)
	return w
}

// WithName sets a custom name for this processor instance.
func (w *Windower[T, A]) WithName(name string) *Windower[T, A] {
	w.name = name
	w.col.WithName(name)
	return w
}

// Process runs the engine over one event stream. Closing the input flushes
// and emits every still-open window; cancelling the context aborts without
// emitting partial aggregates. The output closes when all windows have
// resolved.
func (w *Windower[T, A]) Process(ctx context.Context, in <-chan Event[T]) <-chan Result[A] {
	return w.col.Process(ctx, w.gen.Process(ctx, in))
}

// Name returns a descriptive name for the processor, useful for debugging.
func (w *Windower[T, A]) Name() string {
	return w.name
}
