package effects

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBuffer_CollectsAndDrains(t *testing.T) {
	b := NewBuffer()
	ctx := context.Background()

	if err := b.Dispatch(ctx, Celebration("ex-1", "high", "warm")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if err := b.Dispatch(ctx, Feedback("ex-1", "casi"), Points(10)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	got := b.Drain()
	if len(got) != 3 {
		t.Fatalf("Drain() returned %d commands; want 3", len(got))
	}
	if got[0].Kind != KindCelebration || got[1].Kind != KindFeedback || got[2].Kind != KindPoints {
		t.Errorf("command kinds = %v %v %v", got[0].Kind, got[1].Kind, got[2].Kind)
	}

	if rest := b.Drain(); len(rest) != 0 {
		t.Errorf("second Drain() returned %d commands; want 0", len(rest))
	}
}

type failingDispatcher struct {
	calls int
}

func (d *failingDispatcher) Dispatch(context.Context, ...Command) error {
	d.calls++
	return errors.New("broker down")
}

func TestMulti_FansOutAndKeepsFirstError(t *testing.T) {
	failing := &failingDispatcher{}
	buffer := NewBuffer()
	m := NewMulti(failing, buffer)

	err := m.Dispatch(context.Background(), AudioStop())
	if err == nil {
		t.Error("Dispatch() should surface the first error")
	}
	if len(buffer.Drain()) != 1 {
		t.Error("later dispatchers must still receive the commands")
	}
}

func TestResilientDispatcher_RetriesThenDrops(t *testing.T) {
	failing := &failingDispatcher{}
	d := NewResilientDispatcher(failing, ResilientConfig{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
	})

	if err := d.Dispatch(context.Background(), Notice("hola")); err != nil {
		t.Errorf("Dispatch() = %v; failures must degrade to dropped effects", err)
	}
	if failing.calls < 2 {
		t.Errorf("inner dispatcher called %d times; want retries", failing.calls)
	}
}

func TestResilientDispatcher_PassesThroughOnSuccess(t *testing.T) {
	buffer := NewBuffer()
	d := NewResilientDispatcher(buffer, ResilientConfig{})

	if err := d.Dispatch(context.Background(), Points(10)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	got := buffer.Drain()
	if len(got) != 1 || got[0].Points != 10 {
		t.Errorf("buffered commands = %v; want one points command", got)
	}
}

func TestCommandConstructors(t *testing.T) {
	c := Celebration("ex-1", "high", "rainbow")
	if c.Canvas != "overlay" || c.FocusTarget != "ex-1" {
		t.Errorf("Celebration() = %+v", c)
	}

	h := HintFeedback("ex-1", "mira", "s")
	if h.Kind != KindFeedback || h.Suggestion != "s" {
		t.Errorf("HintFeedback() = %+v", h)
	}

	if AudioPlay("a.mp3").Audio != "a.mp3" {
		t.Error("AudioPlay() should carry the source")
	}
	if ListenStop().Kind != KindListenStop {
		t.Error("ListenStop() kind mismatch")
	}
}
