package bloom

import (
	"math/rand/v2"
	"time"
)

// driverState is the render loop's readiness.
type driverState uint8

const (
	stateIdle   driverState = iota // no program; frames are skipped
	stateActive                    // program ready; frames stamp and present
)

// Config configures a Driver. The zero value is usable.
type Config struct {
	// Seed seeds stop randomizers and color seeds. Zero picks a random seed.
	Seed uint64
	// Now is the clock source. Nil means time.Now.
	Now func() time.Time
	// ScreenshotDir is where Screenshot writes PNG files. Empty means
	// "screenshots".
	ScreenshotDir string
	// ScreenshotScale resizes screenshots, e.g. 0.5 to undo a 2x device
	// scale. Zero or one keeps device pixels.
	ScreenshotScale float64
}

// Driver runs the feedback loop: it owns the pointer state, the uniforms,
// the buffer pair and the clock, and advances them one frame per Frame call.
//
// A Driver starts idle. Start compiles the stamp program and makes it
// active; if that fails it stays idle for good, and Frame keeps returning
// without drawing so the host loop stays responsive. All methods must be
// called from the goroutine that runs the loop.
type Driver struct {
	backend  Backend
	pair     *FeedbackPair
	clock    *Clock
	pointer  *PointerSource
	rng      *rand.Rand
	uniforms Uniforms
	state    driverState
	stopped  bool
	debug    bool
	setupErr error

	width, height int
	frames        uint64
	stamps        uint64
	lastStats     debugStats

	injectQueue     []syntheticPointerEvent
	testRunner      *TestRunner
	updateFunc      func()
	onPointer       func(px, py float64)
	screenshotQueue []string

	// ScreenshotDir is the directory for Screenshot output.
	ScreenshotDir string
	// ScreenshotScale resizes screenshots before they are written.
	ScreenshotScale float64
}

// NewDriver creates an idle driver rendering through backend into a
// w x h buffer pair.
func NewDriver(backend Backend, w, h int, cfg Config) *Driver {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}

	d := &Driver{
		backend:         backend,
		clock:           NewClockWithSource(cfg.Now),
		rng:             rng,
		uniforms:        defaultUniforms(),
		ScreenshotDir:   dir,
		ScreenshotScale: cfg.ScreenshotScale,
	}
	d.pointer = NewPointerSource(rng)
	d.pair = NewFeedbackPair(backend.NewSurface, w, h)
	d.width, d.height = d.pair.Size()
	d.uniforms.AspectRatio = float64(d.width) / float64(d.height)
	return d
}

// Start prepares the stamp program from src and, on success, switches the
// driver to active rendering. On failure the driver stays idle permanently
// and the error is returned for the caller to report.
func (d *Driver) Start(src ShaderSource) error {
	if d.stopped || d.state == stateActive {
		return nil
	}
	if err := d.backend.Setup(src); err != nil {
		d.setupErr = err
		Logger().Warn("stamp program unavailable, staying idle", "err", err)
		return err
	}
	d.state = stateActive
	Logger().Info("feedback renderer active", "width", d.width, "height", d.height)
	return nil
}

// Active reports whether the driver renders frames.
func (d *Driver) Active() bool {
	return d.state == stateActive && !d.stopped
}

// SetupError returns the error that kept the driver idle, if any.
func (d *Driver) SetupError() error {
	return d.setupErr
}

// Pointer returns the driver's pointer source.
func (d *Driver) Pointer() *PointerSource {
	return d.pointer
}

// Uniforms returns the uniforms used by the most recent frame.
func (d *Driver) Uniforms() Uniforms {
	return d.uniforms
}

// Size returns the buffer size in device pixels.
func (d *Driver) Size() (w, h int) {
	return d.width, d.height
}

// Trigger stamps a flower at device pixel (px, py) on the next frame.
func (d *Driver) Trigger(px, py float64) {
	if d.stopped {
		return
	}
	d.pointer.Trigger(px, py, float64(d.width), float64(d.height))
	if d.onPointer != nil {
		d.onPointer(px, py)
	}
}

// Clear starts a clear pulse, erasing the buffer on the next frame.
func (d *Driver) Clear() {
	if d.stopped {
		return
	}
	d.pointer.Clear(d.clock.Now())
}

// Resize reallocates the buffer pair at w x h device pixels, updates the
// aspect ratio and starts a clear pulse, so the petal still blooming is not
// repainted into the new buffers. The accumulated trail is lost.
func (d *Driver) Resize(w, h int) {
	if d.stopped {
		return
	}
	d.pair.Resize(w, h)
	d.width, d.height = d.pair.Size()
	d.uniforms.AspectRatio = float64(d.width) / float64(d.height)
	d.pointer.Clear(d.clock.Now())
	Logger().Info("feedback buffers resized", "width", d.width, "height", d.height)
}

// SetUpdateFunc sets a function called once per Update, after injected
// input. It runs on the loop goroutine, so it may call Trigger and Clear.
func (d *Driver) SetUpdateFunc(fn func()) {
	d.updateFunc = fn
}

// SetTestRunner attaches a script runner. Its step method is called at the
// start of every Update.
func (d *Driver) SetTestRunner(runner *TestRunner) {
	d.testRunner = runner
}

// SetDebugMode enables per-frame timing logs at debug level.
func (d *Driver) SetDebugMode(enabled bool) {
	d.debug = enabled
}

// Update advances input: the test runner, one injected event and the
// update hook. Call it once per tick before Frame.
func (d *Driver) Update() {
	if d.stopped {
		return
	}
	if d.testRunner != nil {
		d.testRunner.step(d)
	}
	d.processInjectedInput()
	if d.updateFunc != nil {
		d.updateFunc()
	}
}

// Frame renders one frame into p: consume the pending trigger, update the
// uniforms, run the stamp pass into the current buffer, present it and swap.
// Idle and stopped drivers return without drawing.
func (d *Driver) Frame(p Presenter) {
	if d.stopped {
		return
	}
	d.frames++
	if d.state != stateActive {
		return
	}

	var stats debugStats
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}

	now, elapsed := d.clock.Tick()
	ps := d.pointer.Take(now)
	if ps.Triggered {
		d.uniforms.restart(
			Vec2{ps.X, ps.Y},
			Vec2{d.rng.Float64(), d.rng.Float64()},
			ps.ColorSeed,
		)
		d.stamps++
		Logger().Debug("stamp spawned", "x", ps.X, "y", ps.Y)
	} else {
		d.uniforms.advance(elapsed)
	}
	if ps.ClearRequested {
		d.uniforms.ClearMask = 0
	} else {
		d.uniforms.ClearMask = 1
	}

	d.backend.Stamp(d.pair.Current(), d.pair.Previous(), &d.uniforms)

	if d.debug {
		stats.stampTime = time.Since(t0)
		t0 = time.Now()
	}

	if p != nil {
		p.Present(d.pair.Current())
	}
	d.flushScreenshots()

	if d.debug {
		stats.presentTime = time.Since(t0)
	}

	d.pair.Swap()

	if d.debug {
		stats.frame = d.frames
		stats.stopTime = d.uniforms.StopTime
		stats.fade = d.uniforms.FadeFactor
		d.lastStats = stats
		d.debugLog(stats)
	}
}

// Stop ends the loop: the buffer pair is released and every later call is
// a no-op. Hosts check Stopped to leave their loop.
func (d *Driver) Stop() {
	if d.stopped {
		return
	}
	d.stopped = true
	d.pair.Dispose()
	Logger().Info("feedback renderer stopped", "frames", d.frames, "stamps", d.stamps)
}

// Stopped reports whether Stop has been called.
func (d *Driver) Stopped() bool {
	return d.stopped
}

// Frames returns the number of Frame calls made while not stopped,
// including idle ones.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Stamps returns the number of triggers consumed.
func (d *Driver) Stamps() uint64 {
	return d.stamps
}
