package windowz

import (
	"errors"
	"fmt"
	"time"
)

// Configuration errors, reported by constructors before any processing
// starts. A bad window geometry is never silently truncated.
var (
	// ErrInvalidSize indicates a non-positive window size.
	ErrInvalidSize = errors.New("window size must be positive")

	// ErrInvalidSlide indicates a negative slide or a slide larger than
	// the window size.
	ErrInvalidSlide = errors.New("window slide must be positive and no larger than size")

	// ErrSlideNotDivisor indicates a window size that is not an integer
	// multiple of the slide; window assignment is undefined for such a
	// pair, so it's rejected up front.
	ErrSlideNotDivisor = errors.New("window size must be an integer multiple of slide")

	// ErrInvalidLateness indicates a negative allowed lateness.
	ErrInvalidLateness = errors.New("allowed lateness must not be negative")

	// ErrNilReducer indicates a missing combining function.
	ErrNilReducer = errors.New("reducer must not be nil")
)

// ErrTooManyOpenWindows indicates the live-worker cap was exceeded. This is
// an operator error (the cap is undersized for the stream's window churn),
// not a data error: the run fails rather than silently dropping a window,
// which would break the emit-exactly-once contract.
var ErrTooManyOpenWindows = errors.New("too many concurrently open windows")

// WindowError represents a failure scoped to a single window. It captures
// the window it concerns and the underlying error, enabling per-window
// error handling without aborting other concurrently open windows.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type WindowError struct {
	// Window is the window the failure concerns.
	Window Window

	// Err is the underlying error.
	Err error

	// ProcessorName identifies which processor generated the error.
	ProcessorName string

	// Timestamp records when the error occurred (wall clock, not event time).
	Timestamp time.Time
}

// NewWindowError creates a new WindowError with the current wall-clock time.
func NewWindowError(w Window, err error, processorName string) *WindowError {
	return &WindowError{
		Window:        w,
		Err:           err,
		ProcessorName: processorName,
		Timestamp:     time.Now(),
	}
}

// String returns a human-readable representation of the error.
func (we *WindowError) String() string {
	return fmt.Sprintf("WindowError[%s]: %v (window: %s, time: %s)",
		we.ProcessorName, we.Err, we.Window, we.Timestamp.Format(time.RFC3339))
}

// Unwrap returns the underlying error, enabling error wrapping chains.
func (we *WindowError) Unwrap() error {
	return we.Err
}

// Error implements the error interface.
func (we *WindowError) Error() string {
	return we.String()
}
