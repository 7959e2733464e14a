package bloom

import (
	"errors"
	"math"
	"testing"
	"time"
)

const frameStep = 16 * time.Millisecond

// newTestDriver returns an active CPU driver on a step clock.
func newTestDriver(t *testing.T, w, h int) (*Driver, *StepClock) {
	t.Helper()
	clock := NewStepClock(time.Unix(1000, 0), frameStep)
	d := NewDriver(NewCPUBackend(), w, h, Config{Seed: 7, Now: clock.Now})
	if err := d.Start(DefaultShaderSource()); err != nil {
		t.Fatal(err)
	}
	return d, clock
}

// step advances the clock and renders one frame.
func step(d *Driver, clock *StepClock, c *Canvas) {
	clock.Advance()
	d.Update()
	d.Frame(c)
}

// failingBackend refuses to prepare a program and counts stamp passes.
type failingBackend struct {
	CPUBackend
	stamps int
}

func (b *failingBackend) Setup(ShaderSource) error { return errors.New("no program") }

func (b *failingBackend) Stamp(dst, prev Surface, u *Uniforms) { b.stamps++ }

func TestDriverBrightnessRisesOnlyWhileBlooming(t *testing.T) {
	d, clock := newTestDriver(t, 60, 40)
	var c Canvas
	d.Trigger(30, 20)
	step(d, clock, &c)
	prev := c.Brightness()

	sawBloomEnd := false
	for i := range 200 {
		step(d, clock, &c)
		b := c.Brightness()
		st := d.Uniforms().StopTime
		if st >= BloomDuration {
			sawBloomEnd = true
			if b > prev {
				t.Errorf("frame %d: brightness rose from %v to %v at StopTime %v", i, prev, b, st)
			}
		}
		prev = b
	}
	if !sawBloomEnd {
		t.Error("run ended before the bloom window closed")
	}
}

func TestDriverFirstFrameStampsInitialFlower(t *testing.T) {
	d, clock := newTestDriver(t, 64, 48)
	var c Canvas
	step(d, clock, &c)

	u := d.Uniforms()
	if u.Cursor != InitialPointer {
		t.Errorf("Cursor = %v, want %v", u.Cursor, InitialPointer)
	}
	if d.Stamps() != 1 {
		t.Errorf("Stamps = %d, want 1", d.Stamps())
	}
	if c.Brightness() == 0 {
		t.Error("first frame should paint the initial flower")
	}
}

func TestDriverCentreTrigger(t *testing.T) {
	d, clock := newTestDriver(t, 100, 100)
	var c Canvas
	step(d, clock, &c)

	d.Trigger(50, 50)
	step(d, clock, &c)

	u := d.Uniforms()
	if u.Cursor != (Vec2{0.5, 0.5}) {
		t.Errorf("Cursor = %v, want (0.5, 0.5)", u.Cursor)
	}
	if u.StopTime != 0 {
		t.Errorf("StopTime = %v, want 0 on the trigger frame", u.StopTime)
	}
	if u.FadeFactor != FadeReset {
		t.Errorf("FadeFactor = %v, want %v", u.FadeFactor, FadeReset)
	}
	fresh := PetalCoverage(&u, 100, 100)

	for range 100 {
		step(d, clock, &c)
	}
	u = d.Uniforms()
	want := FadeReset * math.Pow(DecayConstant, 100)
	if math.Abs(u.FadeFactor-want) > 1e-9 {
		t.Errorf("FadeFactor after 100 frames = %v, want %v", u.FadeFactor, want)
	}
	if math.Abs(u.StopTime-1.6) > 1e-9 {
		t.Errorf("StopTime after 100 frames = %v, want 1.6", u.StopTime)
	}
	if aged := PetalCoverage(&u, 100, 100); aged >= fresh {
		t.Errorf("coverage after 100 frames = %v, want < %v", aged, fresh)
	}
}

func TestDriverDoubleTriggerLastWins(t *testing.T) {
	d, clock := newTestDriver(t, 100, 100)
	var c Canvas
	step(d, clock, &c)
	before := d.Stamps()

	d.Trigger(10, 10)
	d.Trigger(90, 20)
	step(d, clock, &c)

	if got := d.Uniforms().Cursor; got != (Vec2{0.9, 0.2}) {
		t.Errorf("Cursor = %v, want (0.9, 0.2)", got)
	}
	if d.Stamps()-before != 1 {
		t.Errorf("stamps consumed = %d, want 1", d.Stamps()-before)
	}
}

func TestDriverResizeClearsBuffers(t *testing.T) {
	d, clock := newTestDriver(t, 80, 60)
	var c Canvas
	step(d, clock, &c)
	step(d, clock, &c)

	d.Resize(40, 30)
	w, h := d.Size()
	if w != 40 || h != 30 {
		t.Fatalf("Size = (%d, %d), want (40, 30)", w, h)
	}
	if r := d.Uniforms().AspectRatio; r != 4.0/3.0 {
		t.Errorf("AspectRatio = %v, want 4/3", r)
	}
	for i, s := range []Surface{d.pair.Previous(), d.pair.Current()} {
		if b := s.(*CPUSurface).Brightness(); b != 0 {
			t.Errorf("surface %d brightness = %v, want 0", i, b)
		}
		sw, sh := s.Size()
		if sw != 40 || sh != 30 {
			t.Errorf("surface %d size = (%d, %d), want (40, 30)", i, sw, sh)
		}
	}

	step(d, clock, &c)
	if c.W != 40 || c.H != 30 {
		t.Errorf("presented frame = %dx%d, want 40x30", c.W, c.H)
	}
	if d.Uniforms().StopTime >= BloomDuration {
		t.Fatalf("StopTime = %v, want the flower still blooming", d.Uniforms().StopTime)
	}
	if m := d.Uniforms().ClearMask; m != 0 {
		t.Errorf("ClearMask after resize = %v, want 0", m)
	}
	if b := c.Brightness(); b != 0 {
		t.Errorf("brightness on the frame after resize = %v, want 0", b)
	}
}

func TestDriverResizeWhileBlooming(t *testing.T) {
	d, clock := newTestDriver(t, 800, 600)
	var c Canvas
	d.Trigger(400, 300)
	step(d, clock, &c)
	step(d, clock, &c)
	if c.Brightness() == 0 {
		t.Fatal("expected a flower before resizing")
	}

	d.Resize(400, 300)
	step(d, clock, &c)
	if b := c.Brightness(); b != 0 {
		t.Errorf("brightness on the frame after resize = %v, want 0", b)
	}
	for i, s := range []Surface{d.pair.Previous(), d.pair.Current()} {
		if b := s.(*CPUSurface).Brightness(); b != 0 {
			t.Errorf("surface %d brightness = %v, want 0", i, b)
		}
	}
}

func TestDriverPresentsCurrentBuffer(t *testing.T) {
	d, clock := newTestDriver(t, 24, 24)
	var c Canvas
	step(d, clock, &c)

	// After the swap, the presented buffer is the one read next frame.
	prev := d.pair.Previous().(*CPUSurface)
	for i := range prev.Pix {
		if prev.Pix[i] != c.Pix[i] {
			t.Fatalf("presented pixel %d differs from the written buffer", i)
		}
	}
}

func TestDriverClear(t *testing.T) {
	d, clock := newTestDriver(t, 50, 50)
	var c Canvas
	step(d, clock, &c)
	if c.Brightness() == 0 {
		t.Fatal("expected content before clearing")
	}

	d.Clear()
	step(d, clock, &c)
	if d.Uniforms().ClearMask != 0 {
		t.Error("clear frame should zero the clear mask")
	}
	if c.Brightness() != 0 {
		t.Errorf("brightness after clear = %v, want 0", c.Brightness())
	}

	for range 5 {
		step(d, clock, &c)
	}
	if d.Uniforms().ClearMask != 1 {
		t.Error("clear mask should return to 1 after the pulse")
	}
}

func TestDriverFadeMonotonicAfterBloom(t *testing.T) {
	clock := NewStepClock(time.Unix(0, 0), 100*time.Millisecond)
	d := NewDriver(NewCPUBackend(), 40, 40, Config{Seed: 3, Now: clock.Now})
	if err := d.Start(DefaultShaderSource()); err != nil {
		t.Fatal(err)
	}
	var c Canvas
	for range 30 {
		step(d, clock, &c)
	}
	if d.Uniforms().StopTime < BloomDuration {
		t.Fatalf("StopTime = %v, want past the bloom window", d.Uniforms().StopTime)
	}
	prev := c.Brightness()
	if prev == 0 {
		t.Fatal("trail should still be visible")
	}
	for i := range 20 {
		step(d, clock, &c)
		b := c.Brightness()
		if b > prev {
			t.Errorf("frame %d: brightness rose from %v to %v", i, prev, b)
		}
		prev = b
	}
}

func TestDriverDeterministic(t *testing.T) {
	run := func() *Canvas {
		d, clock := newTestDriver(t, 32, 32)
		var c Canvas
		step(d, clock, &c)
		d.Trigger(8, 24)
		for range 10 {
			step(d, clock, &c)
		}
		return &c
	}
	a, b := run(), run()
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs between identical runs", i)
		}
	}
}

func TestDriverIdleWhenSetupFails(t *testing.T) {
	fb := &failingBackend{}
	d := NewDriver(fb, 32, 32, Config{Seed: 1})
	if err := d.Start(DefaultShaderSource()); err == nil {
		t.Fatal("expected Start to fail")
	}
	if d.Active() {
		t.Error("driver should stay idle")
	}
	if d.SetupError() == nil {
		t.Error("SetupError should report the failure")
	}

	var c Canvas
	for range 10 {
		d.Update()
		d.Frame(&c)
	}
	if fb.stamps != 0 {
		t.Errorf("idle driver ran %d stamp passes", fb.stamps)
	}
	if d.Frames() != 10 {
		t.Errorf("Frames = %d, want 10", d.Frames())
	}
	if c.Pix != nil {
		t.Error("idle driver should not present")
	}

	// Input is still accepted while idle.
	d.Trigger(16, 16)
	if !d.Pointer().State().Triggered {
		t.Error("trigger should be recorded while idle")
	}
}

func TestDriverStop(t *testing.T) {
	d, clock := newTestDriver(t, 16, 16)
	var c Canvas
	step(d, clock, &c)
	d.Stop()
	d.Stop()

	if !d.Stopped() || d.Active() {
		t.Error("driver should be stopped and inactive")
	}
	if !d.pair.Disposed() {
		t.Error("buffers should be released on stop")
	}
	frames := d.Frames()
	step(d, clock, &c)
	d.Trigger(1, 1)
	d.Resize(8, 8)
	if d.Frames() != frames {
		t.Error("Frame after Stop should be a no-op")
	}
	if w, _ := d.Size(); w != 16 {
		t.Error("Resize after Stop should be a no-op")
	}
}

func TestDriverStartTwice(t *testing.T) {
	d, _ := newTestDriver(t, 8, 8)
	if err := d.Start(DefaultShaderSource()); err != nil {
		t.Errorf("second Start = %v, want nil", err)
	}
}

func TestDriverOnPointerHook(t *testing.T) {
	d, _ := newTestDriver(t, 8, 8)
	var got []float64
	d.onPointer = func(px, py float64) { got = append(got, px, py) }
	d.Trigger(3, 4)
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("hook saw %v, want [3 4]", got)
	}
}

func TestDriverDebugStats(t *testing.T) {
	d, clock := newTestDriver(t, 8, 8)
	d.SetDebugMode(true)
	var c Canvas
	step(d, clock, &c)
	step(d, clock, &c)
	if d.lastStats.frame != 2 {
		t.Errorf("lastStats.frame = %d, want 2", d.lastStats.frame)
	}
	if d.lastStats.fade != d.Uniforms().FadeFactor {
		t.Errorf("lastStats.fade = %v, want %v", d.lastStats.fade, d.Uniforms().FadeFactor)
	}
}
