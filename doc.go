// Package bloom renders a flower trail for [Ebitengine]: every click stamps a
// procedurally shaped flower, and everything drawn before it slowly fades.
//
// The trail lives in a pair of offscreen surfaces. Each frame the stamp
// program reads the previous surface, scales it by the fade factor, draws the
// current flower over it into the other surface, and the result is presented
// to the screen. The surfaces then swap roles, so what was written this frame
// is read the next.
//
// # Quick start
//
// [Run] opens a window with input handling, the hint text and a clean button:
//
//	bloom.Run(bloom.RunConfig{Title: "Happy birthday", Width: 800, Height: 600})
//
// For full control, create a [Driver] and call it from your own
// [ebiten.Game]:
//
//	d := bloom.NewDriver(bloom.NewGPUBackend(), w, h, bloom.Config{})
//	d.Start(bloom.DefaultShaderSource())
//
//	func (g *Game) Update() error        { g.d.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.p.Screen = s; g.d.Frame(&g.p) }
//
// # Frames
//
// A frame consumes at most one pending trigger. A trigger restarts the stamp
// at the new cursor with StopTime zero, a fresh randomizer and color seed,
// and the fade factor reset to [FadeReset]. Other frames add the elapsed
// seconds to StopTime and multiply the fade factor by [DecayConstant]. A
// [Driver.Clear] request zeroes the clear mask for [ClearPulse], wiping the
// trail on at least one frame.
//
// Cursor coordinates are normalized to [0, 1] with the origin at the top-left
// of the view, Y increasing downward, matching screen pixels.
//
// # Backends
//
// [GPUBackend] runs the Kage program in stamp.kage on Ebitengine images.
// [CPUBackend] evaluates the same math in Go on float pixels and needs no
// graphics device; [RunHeadless] pairs it with a [StepClock] for
// reproducible output.
//
// If the stamp program fails to compile the driver stays idle: frames are
// skipped and the window overlay draws simple fallback flowers instead.
//
// # Scripts and screenshots
//
// [LoadTestScript] reads a JSON list of steps (click, touch, clear, resize,
// wait, screenshot) that drive a run frame by frame. [Driver.Screenshot]
// writes the current buffer to ScreenshotDir as a PNG.
//
// # Logging
//
// The package logs through [log/slog] and is silent by default. Install a
// logger with [SetLogger].
//
// [Ebitengine]: https://ebitengine.org
package bloom
