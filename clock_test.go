package bloom

import (
	"testing"
	"time"
)

func TestClockFirstDeltaIsZero(t *testing.T) {
	sc := NewStepClock(time.Unix(100, 0), 16*time.Millisecond)
	c := NewClockWithSource(sc.Now)
	if d := c.Delta(); d != 0 {
		t.Errorf("first Delta = %v, want 0", d)
	}
}

func TestClockDelta(t *testing.T) {
	sc := NewStepClock(time.Unix(100, 0), 250*time.Millisecond)
	c := NewClockWithSource(sc.Now)
	c.Delta()

	sc.Advance()
	if d := c.Delta(); d != 0.25 {
		t.Errorf("Delta = %v, want 0.25", d)
	}
	// No time passed since the previous read.
	if d := c.Delta(); d != 0 {
		t.Errorf("repeat Delta = %v, want 0", d)
	}
}

func TestClockNeverNegative(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewClockWithSource(func() time.Time { return now })
	c.Delta()
	now = now.Add(-time.Second)
	if d := c.Delta(); d != 0 {
		t.Errorf("Delta after backwards jump = %v, want 0", d)
	}
	now = now.Add(500 * time.Millisecond)
	if d := c.Delta(); d != 0.5 {
		t.Errorf("Delta after recovery = %v, want 0.5", d)
	}
}

func TestClockTickReturnsReadTime(t *testing.T) {
	sc := NewStepClock(time.Unix(5, 0), time.Second)
	c := NewClockWithSource(sc.Now)
	at, d := c.Tick()
	if !at.Equal(time.Unix(5, 0)) || d != 0 {
		t.Errorf("Tick = (%v, %v), want (5s, 0)", at, d)
	}
	sc.Advance()
	at, d = c.Tick()
	if !at.Equal(time.Unix(6, 0)) || d != 1 {
		t.Errorf("Tick = (%v, %v), want (6s, 1)", at, d)
	}
}

func TestClockNilSource(t *testing.T) {
	c := NewClockWithSource(nil)
	if c.Now().IsZero() {
		t.Error("nil source should fall back to time.Now")
	}
}

func TestStepClockOnlyMovesOnAdvance(t *testing.T) {
	sc := NewStepClock(time.Unix(0, 0), 10*time.Millisecond)
	a, b := sc.Now(), sc.Now()
	if !a.Equal(b) {
		t.Errorf("Now moved without Advance: %v -> %v", a, b)
	}
	sc.Advance()
	sc.Advance()
	if got := sc.Now().Sub(a); got != 20*time.Millisecond {
		t.Errorf("after two Advance calls elapsed = %v, want 20ms", got)
	}
}
