package windowz

import (
	"time"

	"go.uber.org/zap"
)

// Diagnostics receives observational notifications from the engine: one per
// dropped late event, one per window lifecycle transition. It is not part of
// the correctness contract; implementations must be cheap and must not
// block, since hooks are invoked inline from processing goroutines.
//
// LateEvent and the window hooks may be called from different goroutines,
// but never concurrently for the same hook.
type Diagnostics[T any] interface {
	// LateEvent is invoked when an event older than the watermark is dropped.
	LateEvent(e Event[T], watermark time.Time)

	// WindowOpened is invoked when a window starts accumulating.
	WindowOpened(w Window)

	// WindowClosed is invoked when a window is finalized and its aggregate emitted.
	WindowClosed(w Window)

	// WindowFailed is invoked when a window's reducer returns an error.
	WindowFailed(w Window, err error)
}

// NopDiagnostics discards all notifications. It's the default sink.
type NopDiagnostics[T any] struct{}

// LateEvent implements Diagnostics.
func (NopDiagnostics[T]) LateEvent(Event[T], time.Time) {}

// WindowOpened implements Diagnostics.
func (NopDiagnostics[T]) WindowOpened(Window) {}

// WindowClosed implements Diagnostics.
func (NopDiagnostics[T]) WindowClosed(Window) {}

// WindowFailed implements Diagnostics.
func (NopDiagnostics[T]) WindowFailed(Window, error) {}

// ZapDiagnostics logs engine notifications through a zap logger. Lifecycle
// transitions and late drops log at debug level (they're per-event volume on
// busy streams); window failures log at warn.
type ZapDiagnostics[T any] struct {
	logger *zap.Logger
}

// NewZapDiagnostics creates a Diagnostics sink backed by the given logger.
func NewZapDiagnostics[T any](logger *zap.Logger) *ZapDiagnostics[T] {
	return &ZapDiagnostics[T]{logger: logger}
}

// LateEvent implements Diagnostics.
func (d *ZapDiagnostics[T]) LateEvent(e Event[T], watermark time.Time) {
	d.logger.Debug("late event dropped",
		zap.Time("event_time", e.Time),
		zap.Time("watermark", watermark),
		zap.Duration("behind", watermark.Sub(e.Time)),
	)
}

// WindowOpened implements Diagnostics.
func (d *ZapDiagnostics[T]) WindowOpened(w Window) {
	d.logger.Debug("window opened",
		zap.Time("start", w.Start),
		zap.Time("end", w.End),
	)
}

// WindowClosed implements Diagnostics.
func (d *ZapDiagnostics[T]) WindowClosed(w Window) {
	d.logger.Debug("window closed",
		zap.Time("start", w.Start),
		zap.Time("end", w.End),
	)
}

// WindowFailed implements Diagnostics.
func (d *ZapDiagnostics[T]) WindowFailed(w Window, err error) {
	d.logger.Warn("window failed",
		zap.Time("start", w.Start),
		zap.Time("end", w.End),
		zap.Error(err),
	)
}
