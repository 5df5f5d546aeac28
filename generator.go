package windowz

import (
	"context"
	"sort"
	"time"
)

// CommandGenerator tracks progress of event time through a watermark and
// turns a stream of events into window lifecycle commands. It owns the
// watermark and the set of currently open windows; both are read-then-write
// state, so a generator serves exactly one logical input stream and must not
// be shared across concurrent callers. Process provides that serialization
// for channel-driven use; ForEvent is for callers driving the loop
// themselves.
//
// The watermark trails the maximum observed event time by the configured
// lateness and never decreases. An event older than the watermark is late:
// it's dropped, reported to the Diagnostics sink, and produces no commands.
type CommandGenerator[T any] struct {
	size     time.Duration
	slide    time.Duration
	lateness time.Duration

	watermark time.Time
	open      map[Window]struct{}

	diag Diagnostics[T]
	name string
}

// NewCommandGenerator creates a generator for the given window geometry.
// Fails fast on invalid configuration; geometry is immutable afterward.
func NewCommandGenerator[T any](cfg WindowerConfig) (*CommandGenerator[T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &CommandGenerator[T]{
		size:     cfg.Size,
		slide:    cfg.Slide,
		lateness: cfg.Lateness,
		open:     make(map[Window]struct{}),
		diag:     NopDiagnostics[T]{},
		name:     "command-generator",
	}, nil
}

// WithDiagnostics sets the sink notified about dropped late events.
func (g *CommandGenerator[T]) WithDiagnostics(d Diagnostics[T]) *CommandGenerator[T] {
	if d != nil {
		g.diag = d
	}
	return g
}

// WithName sets a custom name for this processor instance.
func (g *CommandGenerator[T]) WithName(name string) *CommandGenerator[T] {
	g.name = name
	return g
}

// Watermark returns the current watermark. The zero time means no event has
// advanced it yet.
func (g *CommandGenerator[T]) Watermark() time.Time {
	return g.watermark
}

// OpenWindows returns the number of windows currently believed to be
// accumulating.
func (g *CommandGenerator[T]) OpenWindows() int {
	return len(g.open)
}

// ForEvent advances the watermark with one event and returns the lifecycle
// commands it triggers, in emission order: opens for the event's windows not
// yet open, then closes for every open window the watermark has passed, then
// one add per window the event belongs to. A late event returns nil.
//
// Closing is decoupled from the event's own window set: any open window
// whose end the watermark has reached is closed, regardless of which windows
// the triggering event falls into.
func (g *CommandGenerator[T]) ForEvent(e Event[T]) []Command[T] {
	if wm := e.Time.Add(-g.lateness); wm.After(g.watermark) {
		g.watermark = wm
	}
	if e.Time.Before(g.watermark) {
		g.diag.LateEvent(e, g.watermark)
		return nil
	}

	eventWindows := WindowsFor(e.Time, g.size, g.slide)
	cmds := make([]Command[T], 0, 2*len(eventWindows))

	for _, w := range eventWindows {
		if _, exists := g.open[w]; !exists {
			g.open[w] = struct{}{}
			cmds = append(cmds, Command[T]{Type: OpenWindow, Window: w})
		}
	}
	cmds = append(cmds, g.closeExpired()...)
	for _, w := range eventWindows {
		cmds = append(cmds, Command[T]{Type: AddToWindow, Window: w, Event: e})
	}
	return cmds
}

// Flush closes every still-open window, regardless of the watermark. Called
// at end of input so that finite streams emit every opened window; callers
// driving ForEvent manually should call it once the stream is exhausted.
func (g *CommandGenerator[T]) Flush() []Command[T] {
	stale := make([]Window, 0, len(g.open))
	for w := range g.open {
		stale = append(stale, w)
	}
	return g.closeWindows(stale)
}

// closeExpired closes every open window that can no longer receive on-time
// events. A window with End == watermark is expired: an on-time event has
// timestamp >= watermark, and any window containing such a timestamp ends
// strictly after it.
func (g *CommandGenerator[T]) closeExpired() []Command[T] {
	var stale []Window
	for w := range g.open {
		if !w.End.After(g.watermark) {
			stale = append(stale, w)
		}
	}
	return g.closeWindows(stale)
}

// closeWindows removes the given windows from the open set and returns their
// close commands, ordered by window start for deterministic output.
func (g *CommandGenerator[T]) closeWindows(windows []Window) []Command[T] {
	if len(windows) == 0 {
		return nil
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	cmds := make([]Command[T], 0, len(windows))
	for _, w := range windows {
		delete(g.open, w)
		cmds = append(cmds, Command[T]{Type: CloseWindow, Window: w})
	}
	return cmds
}

// Process consumes events sequentially and emits their lifecycle commands.
// Generator state is reset at the start of each Process call, so one
// CommandGenerator can process successive streams (but never concurrent
// ones). When the input closes, every still-open window is flushed with a
// close command before the output closes.
func (g *CommandGenerator[T]) Process(ctx context.Context, in <-chan Event[T]) <-chan Command[T] {
	out := make(chan Command[T])

	g.watermark = time.Time{}
	g.open = make(map[Window]struct{})

	go func() {
		defer close(out)

		emit := func(cmds []Command[T]) bool {
			for _, cmd := range cmds {
				select {
				case out <- cmd:
				case <-ctx.Done():
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-in:
				if !ok {
					emit(g.Flush())
					return
				}
				if !emit(g.ForEvent(e)) {
					return
				}
			}
		}
	}()

	return out
}

// Name returns a descriptive name for the processor, useful for debugging.
func (g *CommandGenerator[T]) Name() string {
	return g.name
}
