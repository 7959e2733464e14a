// Package mic detects someone blowing into the microphone.
//
// A Detector reads sample frames from a Device, runs each 256-sample window
// through an FFT and converts the spectrum to byte levels the way a browser
// analyser node does (Blackman window, 0.8 temporal smoothing, -100 dB to
// -30 dB mapped onto 0..255). When the mean level over all bins exceeds the
// threshold a Blow is emitted.
package mic

import (
	"context"
	"math"
	"math/cmplx"
	"time"

	"github.com/bloomfx/bloom"
	"github.com/mjibson/go-dsp/fft"
)

const (
	// DefaultFFTSize is the analysis window, giving 128 frequency bins.
	DefaultFFTSize = 256
	// DefaultThreshold is the mean byte level that counts as a blow.
	DefaultThreshold = 50
	// DefaultCooldown is the minimum time between two blows.
	DefaultCooldown = time.Second
	// DefaultSampleRate is the capture rate used by Open in the command.
	DefaultSampleRate = 44100

	smoothingTimeConstant = 0.8
	minDecibels           = -100.0
	maxDecibels           = -30.0
)

// Blow is one detected blow.
type Blow struct {
	Level float64
	At    time.Time
}

// Detector turns microphone frames into Blow events.
type Detector struct {
	// Threshold is the mean byte level above which a window is a blow.
	Threshold float64
	// Cooldown suppresses blows closer together than this.
	Cooldown time.Duration

	dev      Device
	fftSize  int
	window   []float64
	smoothed []float64
	pending  []float64
	now      func() time.Time
	lastBlow time.Time
}

// NewDetector creates a detector with the browser analyser defaults.
func NewDetector(dev Device) *Detector {
	return &Detector{
		Threshold: DefaultThreshold,
		Cooldown:  DefaultCooldown,
		dev:       dev,
		fftSize:   DefaultFFTSize,
		window:    blackmanWindow(DefaultFFTSize),
		smoothed:  make([]float64, DefaultFFTSize/2),
		pending:   make([]float64, 0, DefaultFFTSize),
		now:       time.Now,
	}
}

// Level analyses one window of exactly fftSize samples and returns the mean
// byte level over all bins. Smoothing state carries over between calls.
func (d *Detector) Level(samples []float64) float64 {
	n := d.fftSize
	in := make([]float64, n)
	for i := 0; i < n && i < len(samples); i++ {
		in[i] = samples[i] * d.window[i]
	}
	spectrum := fft.FFTReal(in)

	var sum float64
	for k := range d.smoothed {
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		d.smoothed[k] = smoothingTimeConstant*d.smoothed[k] + (1-smoothingTimeConstant)*mag
		sum += byteLevel(d.smoothed[k])
	}
	return sum / float64(len(d.smoothed))
}

// feed appends samples and analyses every complete window, returning the
// highest level seen, or -1 if no window completed.
func (d *Detector) feed(frame []float32) float64 {
	best := -1.0
	for _, s := range frame {
		d.pending = append(d.pending, float64(s))
		if len(d.pending) == d.fftSize {
			best = math.Max(best, d.Level(d.pending))
			d.pending = d.pending[:0]
		}
	}
	return best
}

// observe reports whether level at t is a blow, honouring the cooldown.
func (d *Detector) observe(level float64, t time.Time) bool {
	if level <= d.Threshold {
		return false
	}
	if !d.lastBlow.IsZero() && t.Sub(d.lastBlow) < d.Cooldown {
		return false
	}
	d.lastBlow = t
	return true
}

// Run starts the device and analyses frames on a new goroutine until ctx is
// done or the device channel closes. Blows are sent without blocking; a
// blow arriving while the previous one is unread is dropped. If the device
// cannot start, Run logs a warning and returns a channel that is closed
// when ctx ends.
func (d *Detector) Run(ctx context.Context) <-chan Blow {
	out := make(chan Blow, 1)
	frames, err := d.dev.Start()
	if err != nil {
		bloom.Logger().Warn("mic: start failed, blow detection off", "err", err)
		go func() {
			<-ctx.Done()
			close(out)
		}()
		return out
	}

	go func() {
		defer close(out)
		defer d.dev.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case frame, ok := <-frames:
				if !ok {
					return
				}
				level := d.feed(frame)
				if level < 0 {
					continue
				}
				t := d.now()
				if !d.observe(level, t) {
					continue
				}
				bloom.Logger().Debug("mic: blow detected", "level", level)
				select {
				case out <- Blow{Level: level, At: t}:
				default:
				}
			}
		}
	}()
	return out
}

// byteLevel maps a linear magnitude onto 0..255 between minDecibels and
// maxDecibels, truncating like a Uint8Array store.
func byteLevel(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return math.Floor(scaled)
}

// blackmanWindow generates a Blackman window of the given size.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	const (
		a0 = 0.42
		a1 = 0.5
		a2 = 0.08
	)
	for i := range window {
		t := float64(i) / float64(size)
		window[i] = a0 - a1*math.Cos(2*math.Pi*t) + a2*math.Cos(4*math.Pi*t)
	}
	return window
}
