package bloom

import (
	"testing"
	"time"
)

// --- Stamp pass benchmarks ---

func benchmarkCPUStamp(b *testing.B, w, h, workers int) {
	backend := &CPUBackend{Workers: workers}
	dst := NewCPUSurface(w, h)
	prev := NewCPUSurface(w, h)
	u := testUniforms()
	u.AspectRatio = float64(w) / float64(h)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		backend.Stamp(dst, prev, &u)
		dst, prev = prev, dst
	}
}

func BenchmarkCPUStamp_320x240_1Worker(b *testing.B) {
	benchmarkCPUStamp(b, 320, 240, 1)
}

func BenchmarkCPUStamp_320x240_AllWorkers(b *testing.B) {
	benchmarkCPUStamp(b, 320, 240, 0)
}

func BenchmarkCPUStamp_1280x720_AllWorkers(b *testing.B) {
	benchmarkCPUStamp(b, 1280, 720, 0)
}

func BenchmarkPetalField(b *testing.B) {
	u := testUniforms()
	u.StopTime = 0.4
	uv := Vec2{0.52, 0.47}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		PetalField(uv, &u)
	}
}

// --- Driver benchmarks ---

func BenchmarkDriverFrame_320x240(b *testing.B) {
	clock := NewStepClock(time.Unix(0, 0), 16*time.Millisecond)
	d := NewDriver(NewCPUBackend(), 320, 240, Config{Seed: 1, Now: clock.Now})
	if err := d.Start(DefaultShaderSource()); err != nil {
		b.Fatal(err)
	}
	var c Canvas
	d.Frame(&c)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		clock.Advance()
		if i%60 == 0 {
			d.Trigger(float64(i%320), float64(i%240))
		}
		d.Frame(&c)
	}
}
