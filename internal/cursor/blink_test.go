package cursor

import (
	"testing"
	"time"
)

func TestBlinkTogglesWithElapsedTime(t *testing.T) {
	c := New().WithBlinkInterval(100 * time.Millisecond)
	c = c.Tick(60 * time.Millisecond)
	if !c.Visible() {
		t.Fatalf("Visible after 60ms = false, want true")
	}
	c = c.Tick(60 * time.Millisecond)
	if c.Visible() {
		t.Fatalf("Visible after 120ms = true, want false")
	}
	c = c.Tick(100 * time.Millisecond)
	if !c.Visible() {
		t.Fatalf("Visible after 220ms = false, want true")
	}
}

func TestBlinkIndependentOfFrameRate(t *testing.T) {
	coarse := New().WithBlinkInterval(100 * time.Millisecond).Tick(150 * time.Millisecond)
	fine := New().WithBlinkInterval(100 * time.Millisecond)
	for i := 0; i < 15; i++ {
		fine = fine.Tick(10 * time.Millisecond)
	}
	if coarse.Visible() != fine.Visible() {
		t.Fatalf("coarse visible = %v, fine visible = %v", coarse.Visible(), fine.Visible())
	}
}

func TestBlinkResetsOnMovementAndFocus(t *testing.T) {
	b := newTestBuffer(t, "abc")
	c := New().WithBlinkInterval(100 * time.Millisecond).Tick(150 * time.Millisecond)
	if c.Visible() {
		t.Fatalf("Visible = true, want false")
	}
	if !c.MoveRight(b, false).Visible() {
		t.Fatalf("Visible after move = false, want true")
	}
	if !c.FocusChanged().Visible() {
		t.Fatalf("Visible after focus change = false, want true")
	}
	if got := c.BlinkInterval(); got != 100*time.Millisecond {
		t.Fatalf("BlinkInterval = %v, want 100ms", got)
	}
}

func TestBlinkIntervalDefault(t *testing.T) {
	if got := New().WithBlinkInterval(0).BlinkInterval(); got != DefaultBlinkInterval {
		t.Fatalf("BlinkInterval = %v, want %v", got, DefaultBlinkInterval)
	}
}
