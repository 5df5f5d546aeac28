// Package windowz uses clockz for wall-clock reads (diagnostic timestamps,
// stats intervals), keeping time-dependent behavior deterministic under
// test. Event time itself never reads a clock.
package windowz

import "github.com/zoobzio/clockz"

// Clock provides time operations for deterministic testing.
type Clock = clockz.Clock

// Timer represents a single event timer.
type Timer = clockz.Timer

// Ticker delivers ticks at intervals.
type Ticker = clockz.Ticker

// RealClock is the default Clock using standard time.
var RealClock Clock = clockz.RealClock
