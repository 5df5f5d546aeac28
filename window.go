package windowz

import (
	"fmt"
	"time"
)

// Window is a half-open event-time interval [Start, End). It's a value type:
// two windows are equal iff both bounds match. Windows are derived
// deterministically from an event time by WindowsFor and are never
// constructed ad hoc.
//
// WindowsFor builds both bounds from millisecond epoch values, so windows
// carry no monotonic clock reading and compare reliably with == (and as map
// keys) regardless of how the event time was obtained.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window's [Start, End) interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// String returns a human-readable representation of the window bounds.
func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339Nano), w.End.Format(time.RFC3339Nano))
}

// WindowsFor assigns an event time to every window containing it, given the
// window size and slide interval. It returns size/slide windows in ascending
// start order; for tumbling windows (slide == size) that's exactly one.
//
// Pure and deterministic: safe to call concurrently, idempotent across
// repeated calls. Size must be a positive integer multiple of slide; callers
// are expected to have validated the pair (every constructor in this package
// does), as the arithmetic silently assumes it.
func WindowsFor(t time.Time, size, slide time.Duration) []Window {
	ts := t.UnixMilli()
	sz := size.Milliseconds()
	sl := slide.Milliseconds()

	first := ts - floorMod(ts, sl) - sz + sl
	n := int(sz / sl)

	windows := make([]Window, 0, n)
	for i := 0; i < n; i++ {
		start := first + int64(i)*sl
		windows = append(windows, Window{
			Start: time.UnixMilli(start),
			End:   time.UnixMilli(start + sz),
		})
	}
	return windows
}

// floorMod is the mathematical modulus: the result has the sign of y.
// Keeps pre-epoch timestamps inside windows that contain them, where the
// truncated % operator would shift them one slide too far right.
func floorMod(x, y int64) int64 {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
