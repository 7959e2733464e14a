package bloom

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned by RunHeadless when the driver was stopped before
// the requested frames were rendered.
var ErrStopped = errors.New("bloom: driver stopped")

// HeadlessOptions controls RunHeadless.
type HeadlessOptions struct {
	// Frames is the number of frames to render. Zero runs until ctx is done,
	// the driver stops or an attached test script finishes.
	Frames int
	// Interval paces frames in wall time. Zero renders as fast as possible.
	Interval time.Duration
	// Clock, if set, is advanced once per frame. Use it as the driver's
	// Config.Now source for deterministic runs.
	Clock *StepClock
	// Script, if set, ends the run once it is done.
	Script *TestRunner
}

// RunHeadless drives d without a window, presenting each frame into target
// (which may be nil). It returns ctx.Err() if the context ends first and
// ErrStopped if the driver is stopped.
func RunHeadless(ctx context.Context, d *Driver, target Presenter, opts HeadlessOptions) error {
	var tick <-chan time.Time
	if opts.Interval > 0 {
		t := time.NewTicker(opts.Interval)
		defer t.Stop()
		tick = t.C
	}

	for n := 0; opts.Frames <= 0 || n < opts.Frames; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
		if opts.Clock != nil {
			opts.Clock.Advance()
		}
		d.Update()
		if d.Stopped() {
			return ErrStopped
		}
		d.Frame(target)
		if opts.Script != nil && opts.Script.Done() {
			return nil
		}
	}
	return nil
}
