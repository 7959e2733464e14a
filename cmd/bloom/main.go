// Command bloom opens a window and paints a flower wherever you click. The
// flowers leave a slowly fading trail. Press C or Backspace, or the clean
// button, to wipe the canvas, and Escape to quit.
//
// With -headless the same loop runs on the CPU backend at a fixed 60 Hz step
// and the final frame is written to -out.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/bloomfx/bloom"
	"github.com/bloomfx/bloom/mic"
)

func main() {
	var (
		width        = flag.Int("width", 800, "window width in logical pixels")
		height       = flag.Int("height", 600, "window height in logical pixels")
		title        = flag.String("title", "bloom", "window title")
		shaderPath   = flag.String("shader", "", "path to a Kage stamp program (default: embedded)")
		showFPS      = flag.Bool("fps", false, "show FPS, TPS and stamp count")
		debug        = flag.Bool("debug", false, "log per-frame timings")
		scriptPath   = flag.String("script", "", "JSON test script to drive input and screenshots")
		headless     = flag.Bool("headless", false, "render on the CPU without a window")
		frames       = flag.Int("frames", 180, "frames to render in headless mode")
		out          = flag.String("out", "bloom.png", "final frame PNG in headless mode")
		seed         = flag.Uint64("seed", 0, "random seed (0 picks one)")
		useMic       = flag.Bool("mic", false, "clear the canvas when someone blows into the microphone")
		micThreshold = flag.Float64("mic-threshold", mic.DefaultThreshold, "mean spectrum level that counts as a blow")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	bloom.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	src := bloom.DefaultShaderSource()
	if *shaderPath != "" {
		var err error
		src, err = bloom.LoadShaderSource(*shaderPath)
		if err != nil {
			fatal(err)
		}
	}

	var script *bloom.TestRunner
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			fatal(err)
		}
		script, err = bloom.LoadTestScript(data)
		if err != nil {
			fatal(err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var blows <-chan mic.Blow
	if *useMic {
		det := mic.NewDetector(mic.Open(mic.DefaultSampleRate))
		det.Threshold = *micThreshold
		blows = det.Run(ctx)
	}
	onUpdate := func(d *bloom.Driver) {
		select {
		case b, ok := <-blows:
			if ok {
				bloom.Logger().Debug("blow", "level", b.Level)
				d.Clear()
			}
		default:
		}
	}

	if *headless {
		if err := runHeadless(ctx, *width, *height, *frames, *seed, *debug, *out, src, script, onUpdate); err != nil {
			fatal(err)
		}
		return
	}

	err := bloom.Run(bloom.RunConfig{
		Title:    *title,
		Width:    *width,
		Height:   *height,
		ShowFPS:  *showFPS,
		Shader:   src,
		Driver:   bloom.Config{Seed: *seed},
		Script:   script,
		Debug:    *debug,
		OnUpdate: onUpdate,
	})
	if err != nil {
		fatal(err)
	}
}

func runHeadless(ctx context.Context, w, h, frames int, seed uint64, debug bool, out string,
	src bloom.ShaderSource, script *bloom.TestRunner, onUpdate func(*bloom.Driver)) error {
	clock := bloom.NewStepClock(time.Unix(0, 0), time.Second/60)
	d := bloom.NewDriver(bloom.NewCPUBackend(), w, h, bloom.Config{Seed: seed, Now: clock.Now})
	d.SetDebugMode(debug)
	if script != nil {
		d.SetTestRunner(script)
	}
	d.SetUpdateFunc(func() { onUpdate(d) })
	if err := d.Start(src); err != nil {
		return err
	}

	var canvas bloom.Canvas
	err := bloom.RunHeadless(ctx, d, &canvas, bloom.HeadlessOptions{
		Frames: frames,
		Clock:  clock,
		Script: script,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := png.Encode(f, canvas.Image()); err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}
	bloom.Logger().Info("wrote frame", "path", out, "frames", d.Frames(), "stamps", d.Stamps())
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "bloom:", err)
	os.Exit(1)
}
