package windowz

import "fmt"

// CommandType discriminates the window lifecycle commands.
type CommandType int

const (
	// OpenWindow starts accumulation for a window.
	OpenWindow CommandType = iota
	// CloseWindow finalizes a window and emits its aggregate.
	CloseWindow
	// AddToWindow folds one event into a window's accumulator.
	AddToWindow
)

// String returns the command type name.
func (t CommandType) String() string {
	switch t {
	case OpenWindow:
		return "open"
	case CloseWindow:
		return "close"
	case AddToWindow:
		return "add"
	default:
		return fmt.Sprintf("CommandType(%d)", int(t))
	}
}

// Command is a window lifecycle instruction produced by a CommandGenerator
// and consumed by a Collector. Every command targets exactly one window; the
// window is the partition key for routing. Event is populated only for
// AddToWindow.
//
// For any window the generated sequence is exactly one OpenWindow, zero or
// more AddToWindow, then exactly one CloseWindow. Collectors may rely on
// this ordering per window; no ordering holds across different windows.
type Command[T any] struct {
	Type   CommandType
	Window Window
	Event  Event[T]
}

// String returns a human-readable representation of the command.
func (c Command[T]) String() string {
	if c.Type == AddToWindow {
		return fmt.Sprintf("%s %s %s", c.Type, c.Window, c.Event)
	}
	return fmt.Sprintf("%s %s", c.Type, c.Window)
}
