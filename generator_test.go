package windowz

import (
	"context"
	"errors"
	"testing"
	"time"
)

func eventAt(ms int64) Event[int] {
	return NewEvent(time.UnixMilli(ms), 0)
}

func commandsOfType[T any](cmds []Command[T], ct CommandType) []Command[T] {
	var matched []Command[T]
	for _, cmd := range cmds {
		if cmd.Type == ct {
			matched = append(matched, cmd)
		}
	}
	return matched
}

func TestCommandGenerator_ConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  WindowerConfig
		want error
	}{
		{"zero size", WindowerConfig{}, ErrInvalidSize},
		{"negative size", WindowerConfig{Size: -time.Second}, ErrInvalidSize},
		{"slide exceeds size", WindowerConfig{Size: 10 * time.Second, Slide: 20 * time.Second}, ErrInvalidSlide},
		{"negative slide", WindowerConfig{Size: 10 * time.Second, Slide: -time.Second}, ErrInvalidSlide},
		{"size not multiple of slide", WindowerConfig{Size: 10 * time.Second, Slide: 3 * time.Second}, ErrSlideNotDivisor},
		{"negative lateness", WindowerConfig{Size: 10 * time.Second, Lateness: -time.Second}, ErrInvalidLateness},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCommandGenerator[int](tc.cfg)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCommandGenerator_TumblingLifecycle(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{Size: 10 * time.Second})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	first := Window{Start: time.UnixMilli(0), End: time.UnixMilli(10_000)}

	// First event opens [0s, 10s) and adds to it.
	cmds := gen.ForEvent(eventAt(0))
	if len(cmds) != 2 || cmds[0].Type != OpenWindow || cmds[1].Type != AddToWindow {
		t.Fatalf("expected [open add], got %v", cmds)
	}
	if cmds[0].Window != first {
		t.Errorf("expected open for %s, got %s", first, cmds[0].Window)
	}

	// Subsequent events in the same window only add.
	for sec := int64(1); sec < 10; sec++ {
		cmds = gen.ForEvent(eventAt(sec * 1000))
		if len(cmds) != 1 || cmds[0].Type != AddToWindow || cmds[0].Window != first {
			t.Fatalf("t=%ds: expected single add to %s, got %v", sec, first, cmds)
		}
	}

	// t=10s advances the watermark to the first window's end, so it opens
	// the next window, closes the first and adds to the next. Emission
	// order is opens, closes, adds.
	cmds = gen.ForEvent(eventAt(10_000))
	if len(cmds) != 3 {
		t.Fatalf("expected [open close add], got %v", cmds)
	}
	second := Window{Start: time.UnixMilli(10_000), End: time.UnixMilli(20_000)}
	if cmds[0].Type != OpenWindow || cmds[0].Window != second {
		t.Errorf("expected open %s first, got %v", second, cmds[0])
	}
	if cmds[1].Type != CloseWindow || cmds[1].Window != first {
		t.Errorf("expected close %s second, got %v", first, cmds[1])
	}
	if cmds[2].Type != AddToWindow || cmds[2].Window != second {
		t.Errorf("expected add to %s last, got %v", second, cmds[2])
	}

	if gen.OpenWindows() != 1 {
		t.Errorf("expected 1 open window after close, got %d", gen.OpenWindows())
	}
}

func TestCommandGenerator_WatermarkMonotonic(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{
		Size:     10 * time.Second,
		Lateness: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	// Deliberately out-of-order arrival.
	for _, ms := range []int64{5000, 1000, 20_000, 3000, 15_000, 20_000} {
		before := gen.Watermark()
		gen.ForEvent(eventAt(ms))
		if gen.Watermark().Before(before) {
			t.Fatalf("watermark regressed from %s to %s after event at %dms",
				before, gen.Watermark(), ms)
		}
	}

	want := time.UnixMilli(18_000) // max event time 20s minus 2s lateness
	if !gen.Watermark().Equal(want) {
		t.Errorf("expected watermark %s, got %s", want, gen.Watermark())
	}
}

func TestCommandGenerator_LateEventDropped(t *testing.T) {
	diag := &recordingDiagnostics[int]{}
	gen, err := NewCommandGenerator[int](WindowerConfig{Size: time.Second})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}
	gen.WithDiagnostics(diag)

	if cmds := gen.ForEvent(eventAt(100)); len(cmds) == 0 {
		t.Fatal("on-time event produced no commands")
	}

	// Zero lateness: the watermark jumps straight to each event time.
	gen.ForEvent(eventAt(106))

	// t=101 is now behind the watermark: dropped, zero commands.
	if cmds := gen.ForEvent(eventAt(101)); cmds != nil {
		t.Errorf("late event produced commands: %v", cmds)
	}

	if len(diag.lateEvents()) != 1 {
		t.Fatalf("expected 1 late-event notification, got %d", len(diag.lateEvents()))
	}
	drop := diag.lateEvents()[0]
	if !drop.watermark.Equal(time.UnixMilli(106)) {
		t.Errorf("expected drop reported against watermark 106ms, got %s", drop.watermark)
	}
}

func TestCommandGenerator_SlidingMultiWindowAdd(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{
		Size:     10 * time.Second,
		Slide:    time.Second,
		Lateness: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	ts := time.UnixMilli(12_000)
	cmds := gen.ForEvent(NewEvent(ts, 0))

	opens := commandsOfType(cmds, OpenWindow)
	adds := commandsOfType(cmds, AddToWindow)
	closes := commandsOfType(cmds, CloseWindow)

	if len(opens) != 10 || len(adds) != 10 || len(closes) != 0 {
		t.Fatalf("expected 10 opens, 10 adds, 0 closes; got %d/%d/%d",
			len(opens), len(adds), len(closes))
	}
	for _, add := range adds {
		if !add.Window.Contains(ts) {
			t.Errorf("add targets window %s not containing %s", add.Window, ts)
		}
	}
}

func TestCommandGenerator_CloseDecoupledFromEventWindows(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{Size: 10 * time.Second})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	gen.ForEvent(eventAt(0))

	// The event at t=35s lands in [30s, 40s), yet still closes the stale
	// [0s, 10s): closing is watermark-triggered, not window-set-triggered.
	cmds := gen.ForEvent(eventAt(35_000))
	closes := commandsOfType(cmds, CloseWindow)
	if len(closes) != 1 {
		t.Fatalf("expected 1 close, got %d", len(closes))
	}
	stale := Window{Start: time.UnixMilli(0), End: time.UnixMilli(10_000)}
	if closes[0].Window != stale {
		t.Errorf("expected close of %s, got %s", stale, closes[0].Window)
	}
}

// Feeds a long stream and verifies the per-window protocol: exactly one open
// and one close per window, open before close, and every add between them.
func TestCommandGenerator_ProtocolPerWindow(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{
		Size:  10 * time.Second,
		Slide: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	var stream []Command[int]
	for ms := int64(0); ms <= 60_000; ms += 1000 {
		stream = append(stream, gen.ForEvent(eventAt(ms))...)
	}
	stream = append(stream, gen.Flush()...)

	opens := make(map[Window]int)
	closes := make(map[Window]int)
	live := make(map[Window]bool)

	for i, cmd := range stream {
		switch cmd.Type {
		case OpenWindow:
			opens[cmd.Window]++
			if live[cmd.Window] {
				t.Fatalf("command %d: window %s opened twice", i, cmd.Window)
			}
			live[cmd.Window] = true
		case CloseWindow:
			closes[cmd.Window]++
			if !live[cmd.Window] {
				t.Fatalf("command %d: close for non-open window %s", i, cmd.Window)
			}
			live[cmd.Window] = false
		case AddToWindow:
			if !live[cmd.Window] {
				t.Fatalf("command %d: orphan add for window %s", i, cmd.Window)
			}
		}
	}

	if len(opens) == 0 {
		t.Fatal("stream opened no windows")
	}
	for w, n := range opens {
		if n != 1 {
			t.Errorf("window %s opened %d times", w, n)
		}
		if closes[w] != 1 {
			t.Errorf("window %s closed %d times", w, closes[w])
		}
	}
	for w := range live {
		if live[w] {
			t.Errorf("window %s still open after flush", w)
		}
	}
}

func TestCommandGenerator_ProcessFlushesOnInputClose(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{Size: 10 * time.Second})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	ctx := context.Background()
	in := make(chan Event[int], 5)
	for sec := int64(0); sec < 5; sec++ {
		in <- eventAt(sec * 1000)
	}
	close(in)

	var stream []Command[int]
	for cmd := range gen.Process(ctx, in) {
		stream = append(stream, cmd)
	}

	closes := commandsOfType(stream, CloseWindow)
	if len(closes) != 1 {
		t.Fatalf("expected flush to close the 1 open window, got %d closes", len(closes))
	}
	want := Window{Start: time.UnixMilli(0), End: time.UnixMilli(10_000)}
	if closes[0].Window != want {
		t.Errorf("expected close of %s, got %s", want, closes[0].Window)
	}
	if last := stream[len(stream)-1]; last.Type != CloseWindow {
		t.Errorf("expected stream to end with close, got %v", last)
	}
}

func TestCommandGenerator_ProcessContextCancellation(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{Size: 10 * time.Second})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan Event[int])
	out := gen.Process(ctx, in)

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected output to be closed after cancellation")
		}
	case <-time.After(time.Second):
		t.Error("output didn't close promptly after cancellation")
	}
}

func TestCommandGenerator_Name(t *testing.T) {
	gen, err := NewCommandGenerator[int](WindowerConfig{Size: time.Second})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}
	if gen.Name() != "command-generator" {
		t.Errorf("expected name 'command-generator', got %q", gen.Name())
	}
	gen.WithName("custom")
	if gen.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", gen.Name())
	}
}
