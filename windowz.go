// Package windowz provides event-time windowing over Go channels: it assigns
// timestamped events to tumbling or sliding windows, tracks progress of event
// time through a watermark with bounded out-of-orderness, and emits one
// aggregate per window exactly once, at the moment the watermark proves no
// further on-time events for that window can arrive.
//
// The engine is built from three composable stages:
//
//   - WindowsFor assigns an event time to the set of windows containing it.
//   - CommandGenerator consumes events one at a time, advances the watermark,
//     drops late events, and emits open/add/close lifecycle commands.
//   - Collector routes commands by window to independent per-window workers,
//     each folding an accumulator until its window closes, then merges the
//     finalized aggregates into a single output stream.
//
// Windower wires all three behind a single processor for the common case.
//
// Basic usage:
//
//	ctx := context.Background()
//	events := make(chan windowz.Event[int])
//
//	// Count events per 10-second tumbling window, tolerating
//	// up to 5 seconds of out-of-order arrival.
//	windower, err := windowz.NewWindower[int, int](
//		windowz.WindowerConfig{
//			Size:     10 * time.Second,
//			Lateness: 5 * time.Second,
//		},
//		0,
//		func(count int, _ windowz.Event[int]) (int, error) {
//			return count + 1, nil
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
//		agg := result.Value()
//		fmt.Printf("[%s - %s): %d\n", agg.Window.Start, agg.Window.End, agg.Value)
//	}
//
// Event time never reads the wall clock: the watermark is derived purely from
// observed event timestamps, so the engine behaves identically on live and
// replayed streams.
package windowz

import (
	"context"
	"time"
)

// Processor is the core interface for stream processing components.
// It transforms an input channel of type In to an output channel of type Out.
// Processors should:
//   - Close the output channel when the input channel is closed
//   - Respect context cancellation
//   - Handle errors gracefully (typically by surfacing them in the output)
//   - Be safe for concurrent use
type Processor[In, Out any] interface {
	// Process transforms the input channel to an output channel.
	// It should close the output channel when processing is complete.
	Process(ctx context.Context, in <-chan In) <-chan Out

	// Name returns a descriptive name for the processor, useful for debugging.
	Name() string
}

// WindowerConfig configures window assignment and watermark behavior.
// All fields are fixed before processing starts and immutable afterward.
type WindowerConfig struct {
	// Size is the duration of each window.
	Size time.Duration

	// Slide is the interval between consecutive window starts.
	// If 0 or equal to Size, windows don't overlap (tumbling windows).
	// If less than Size, windows overlap (sliding windows) and a single
	// event belongs to Size/Slide windows. Size must be an integer
	// multiple of Slide.
	Slide time.Duration

	// Lateness is the maximum out-of-order delay tolerated before an
	// event is classified as late and dropped. The watermark trails the
	// maximum observed event time by this amount.
	Lateness time.Duration
}

// validate reports the first configuration error, normalizing Slide first.
// A zero Slide means tumbling windows (Slide == Size).
func (c *WindowerConfig) validate() error {
	if c.Size <= 0 {
		return ErrInvalidSize
	}
	if c.Slide == 0 {
		c.Slide = c.Size
	}
	if c.Slide < 0 || c.Slide > c.Size {
		return ErrInvalidSlide
	}
	if c.Size%c.Slide != 0 {
		return ErrSlideNotDivisor
	}
	if c.Lateness < 0 {
		return ErrInvalidLateness
	}
	return nil
}
