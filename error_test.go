package windowz

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWindowError_Unwrap(t *testing.T) {
	cause := errors.New("reducer exploded")
	w := Window{Start: time.UnixMilli(0), End: time.UnixMilli(10_000)}
	werr := NewWindowError(w, cause, "window-collector")

	if !errors.Is(werr, cause) {
		t.Error("expected errors.Is to find the underlying cause")
	}
	if werr.Unwrap() != cause {
		t.Error("expected Unwrap to return the underlying cause")
	}
}

func TestWindowError_SentinelMatching(t *testing.T) {
	w := Window{Start: time.UnixMilli(0), End: time.UnixMilli(10_000)}
	werr := NewWindowError(w, ErrTooManyOpenWindows, "window-collector")

	if !errors.Is(werr, ErrTooManyOpenWindows) {
		t.Error("expected wrapped sentinel to match with errors.Is")
	}
}

func TestWindowError_String(t *testing.T) {
	w := Window{Start: time.UnixMilli(0), End: time.UnixMilli(10_000)}
	werr := NewWindowError(w, errors.New("boom"), "window-collector")

	msg := werr.Error()
	if !strings.Contains(msg, "window-collector") {
		t.Errorf("expected message to name the processor, got %q", msg)
	}
	if !strings.Contains(msg, "boom") {
		t.Errorf("expected message to contain the cause, got %q", msg)
	}
}
