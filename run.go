package bloom

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures a windowed run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// TPS sets ticks per second. Zero keeps Ebitengine's default of 60.
	TPS int
	// Shader is the stamp program. The zero value uses DefaultShaderSource.
	Shader ShaderSource
	// Driver configures the driver created by Run.
	Driver Config
	// Script, if set, drives the run from a test script.
	Script *TestRunner
	// Debug logs per-frame timings.
	Debug bool
	// HideHint and HideCleanButton turn off overlay elements.
	HideHint        bool
	HideCleanButton bool
	// OnUpdate is called once per tick on the loop goroutine with the driver.
	OnUpdate func(d *Driver)
}

// Game adapts a Driver to ebiten.Game. Layout sizes the feedback buffers to
// the window in device pixels, with the device scale capped at
// MaxDeviceScale.
type Game struct {
	driver    *Driver
	overlay   *overlay
	input     inputPoller
	presenter ScreenPresenter
	fps       *fpsWidget
	onUpdate  func(d *Driver)

	scale         float64
	width, height int
}

// NewGame wraps d for ebiten.RunGame. The driver's backend must be a
// *GPUBackend so its surfaces can be drawn to the screen.
func NewGame(d *Driver, cfg RunConfig) *Game {
	g := &Game{driver: d, onUpdate: cfg.OnUpdate, scale: 1}
	g.width, g.height = d.Size()
	g.overlay = newOverlay(func() bool { return !d.Active() }, !cfg.HideHint, !cfg.HideCleanButton)
	g.overlay.resize(g.width, g.height, 1)
	d.onPointer = func(px, py float64) { g.overlay.onPointer(g.toScreen(px, py)) }
	if cfg.ShowFPS {
		g.fps = newFPSWidget()
	}
	return g
}

// Driver returns the wrapped driver.
func (g *Game) Driver() *Driver {
	return g.driver
}

// toDriver maps screen pixel (x, y) to driver pixels. The two differ after a
// script resize, when the presenter stretches the buffers over the screen.
func (g *Game) toDriver(x, y float64) (float64, float64) {
	dw, dh := g.driver.Size()
	return x * float64(dw) / float64(g.width), y * float64(dh) / float64(g.height)
}

// toScreen is the inverse of toDriver.
func (g *Game) toScreen(px, py float64) (float64, float64) {
	dw, dh := g.driver.Size()
	return px * float64(g.width) / float64(dw), py * float64(g.height) / float64(dh)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.driver.Stopped() {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())

	g.driver.Update()
	g.input.poll(g)
	if g.onUpdate != nil {
		g.onUpdate(g.driver)
	}
	if g.driver.Stopped() {
		return ebiten.Termination
	}

	g.overlay.update(float32(dt))
	if g.fps != nil {
		g.fps.update(dt, g.driver)
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.presenter.Screen = screen
	g.driver.Frame(&g.presenter)
	g.overlay.draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// Layout implements ebiten.Game. It returns the window size in device
// pixels and resizes the buffers when that size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	w, h := g.layout(outsideWidth, outsideHeight, scale)
	return w, h
}

// layout converts logical size to device pixels and reallocates on change.
func (g *Game) layout(outsideWidth, outsideHeight int, scale float64) (int, int) {
	scale = math.Min(math.Max(scale, 1), MaxDeviceScale)
	w := max(int(math.Floor(float64(outsideWidth)*scale)), 1)
	h := max(int(math.Floor(float64(outsideHeight)*scale)), 1)
	if w != g.width || h != g.height || scale != g.scale {
		g.scale = scale
		if w != g.width || h != g.height {
			g.driver.Resize(w, h)
		}
		g.width, g.height = w, h
		g.overlay.resize(w, h, scale)
	}
	return w, h
}

// Run opens a window and runs the feedback loop until the window closes or
// the driver stops. A stamp program that fails to compile is logged and the
// window stays open in idle rendering.
func Run(cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Title == "" {
		cfg.Title = "bloom"
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	src := cfg.Shader
	if len(src.Fragment) == 0 {
		src = DefaultShaderSource()
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	d := NewDriver(NewGPUBackend(), cfg.Width, cfg.Height, cfg.Driver)
	d.SetDebugMode(cfg.Debug)
	if cfg.Script != nil {
		d.SetTestRunner(cfg.Script)
	}
	// Setup failure leaves the driver idle; the overlay's fallback flowers
	// take over.
	_ = d.Start(src)

	g := NewGame(d, cfg)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("bloom: run: %w", err)
	}
	d.Stop()
	return nil
}
