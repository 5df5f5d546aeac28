package windowz

import (
	"context"
	"sync/atomic"
	"time"
)

// WindowStats contains statistics about window results flowing through a
// monitored stream since the previous report.
type WindowStats struct {
	// LastUpdate is the timestamp of this statistics snapshot
	LastUpdate time.Time
	// Emitted is the number of finalized aggregates since the last report
	Emitted int64
	// Failed is the number of window errors since the last report
	Failed int64
	// Rate is the average aggregates per second since the last report
	Rate float64
}

// Monitor observes window results passing through a stream and periodically
// reports statistics. It's a pass-through processor that doesn't modify the
// stream but provides visibility into window throughput and failure rates.
type Monitor[A any] struct {
	onStats  func(WindowStats)
	lastTime atomic.Value
	name     string
	interval time.Duration
	clock    Clock
	emitted  atomic.Int64
	failed   atomic.Int64
}

// NewMonitor creates a pass-through processor that observes a window result
// stream. Statistics are reported through the callback at each interval, on
// input close, and on cancellation, so short-lived streams still get a
// final report.
//
// Example:
//
//	monitor := windowz.NewMonitor[int](time.Second, windowz.RealClock,
//		func(stats windowz.WindowStats) {
//			log.Printf("windows: %.2f/sec (emitted: %d, failed: %d)",
//				stats.Rate, stats.Emitted, stats.Failed)
//		})
//
//	observed := monitor.Process(ctx, windower.Process(ctx, events))
//
// Parameters:
//   - interval: How often to report statistics
//   - clock: Clock interface for time operations
//   - onStats: Callback function invoked with statistics at each interval
func NewMonitor[A any](interval time.Duration, clock Clock, onStats func(WindowStats)) *Monitor[A] {
	if clock == nil {
		clock = RealClock
	}
	m := &Monitor[A]{
		name:     "monitor",
		interval: interval,
		clock:    clock,
		onStats:  onStats,
	}
	m.lastTime.Store(clock.Now())
	return m
}

// WithName sets a custom name for this processor instance.
func (m *Monitor[A]) WithName(name string) *Monitor[A] {
	m.name = name
	return m
}

// Process passes results through unchanged while counting them.
func (m *Monitor[A]) Process(ctx context.Context, in <-chan Result[A]) <-chan Result[A] {
	out := make(chan Result[A])

	go func() {
		defer close(out)

		ticker := m.clock.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				m.reportStats()
				return

			case result, ok := <-in:
				if !ok {
					m.reportStats()
					return
				}

				if result.IsError() {
					m.failed.Add(1)
				} else {
					m.emitted.Add(1)
				}

				select {
				case out <- result:
				case <-ctx.Done():
					m.reportStats()
					return
				}

			case <-ticker.C():
				m.reportStats()
			}
		}
	}()

	return out
}

func (m *Monitor[A]) reportStats() {
	if m.onStats == nil {
		return
	}

	emitted := m.emitted.Swap(0)
	failed := m.failed.Swap(0)
	now := m.clock.Now()

	lastTime, ok := m.lastTime.Load().(time.Time)
	if !ok {
		lastTime = now
	}
	m.lastTime.Store(now)

	rate := 0.0
	if duration := now.Sub(lastTime).Seconds(); duration > 0 {
		rate = float64(emitted) / duration
	}

	m.onStats(WindowStats{
		LastUpdate: now,
		Emitted:    emitted,
		Failed:     failed,
		Rate:       rate,
	})
}

// Name returns a descriptive name for the processor, useful for debugging.
func (m *Monitor[A]) Name() string {
	return m.name
}
