package windowz

import (
	"fmt"
	"time"
)

// Event is a timestamped value flowing into the windowing engine.
// Time is event time (when the event happened at the source), not arrival
// time; events may arrive out of timestamp order up to the configured
// lateness. Events are immutable once created.
type Event[T any] struct {
	Time  time.Time
	Value T
}

// NewEvent creates an event carrying value at the given event time.
func NewEvent[T any](t time.Time, value T) Event[T] {
	return Event[T]{Time: t, Value: value}
}

// String returns a human-readable representation of the event.
func (e Event[T]) String() string {
	return fmt.Sprintf("Event(%s: %v)", e.Time.Format(time.RFC3339Nano), e.Value)
}
