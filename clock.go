package bloom

import "time"

// Clock measures the time between successive frames. Each call to Delta
// consumes the interval since the previous call.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

// NewClock returns a clock reading wall time. time.Now carries a monotonic
// reading, so deltas are immune to wall-clock jumps.
func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource returns a clock reading the given time source. A nil
// source means time.Now.
func NewClockWithSource(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns the clock's current time without consuming a delta.
func (c *Clock) Now() time.Time {
	return c.now()
}

// Delta returns the seconds elapsed since the previous call. The first call
// returns 0. The result is never negative.
func (c *Clock) Delta() float64 {
	_, d := c.Tick()
	return d
}

// Tick reads the time once and returns it with the seconds elapsed since
// the previous Tick or Delta.
func (c *Clock) Tick() (time.Time, float64) {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
		return t, 0
	}
	d := t.Sub(c.last).Seconds()
	c.last = t
	if d < 0 {
		return t, 0
	}
	return t, d
}

// StepClock is a manual time source that only moves when Advance is called.
// Headless runs advance it once per frame so timing is reproducible.
type StepClock struct {
	t    time.Time
	Step time.Duration
}

// NewStepClock returns a StepClock starting at start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{t: start, Step: step}
}

// Now returns the current time.
func (s *StepClock) Now() time.Time {
	return s.t
}

// Advance moves the clock forward by Step.
func (s *StepClock) Advance() {
	s.t = s.t.Add(s.Step)
}
