package bloom

import (
	"bytes"
	"fmt"
	"image"
	"runtime"
	"sync"
)

// CPUSurface is a feedback surface held in main memory as premultiplied
// float32 pixels, row-major.
type CPUSurface struct {
	w, h int
	Pix  []Pixel
}

// NewCPUSurface allocates a zero-filled surface.
func NewCPUSurface(w, h int) *CPUSurface {
	return &CPUSurface{w: w, h: h, Pix: make([]Pixel, w*h)}
}

// Size returns the surface dimensions.
func (s *CPUSurface) Size() (int, int) { return s.w, s.h }

// Dispose drops the pixel memory.
func (s *CPUSurface) Dispose() { s.Pix = nil }

// At returns the pixel at (x, y). Out-of-range reads return transparent.
func (s *CPUSurface) At(x, y int) Pixel {
	if x < 0 || y < 0 || x >= s.w || y >= s.h || s.Pix == nil {
		return Pixel{}
	}
	return s.Pix[y*s.w+x]
}

// Brightness returns the summed luminance of every pixel.
func (s *CPUSurface) Brightness() float64 {
	return brightness(s.Pix)
}

func brightness(pix []Pixel) float64 {
	var sum float64
	for _, p := range pix {
		sum += float64(p.Luma())
	}
	return sum
}

// CPUBackend evaluates StampPixel for every pixel on the CPU. The program
// text is not compiled; the stamp math is built in. Rows are split into
// bands and evaluated by up to Workers goroutines, joined before Stamp
// returns.
type CPUBackend struct {
	// Workers caps the goroutines per pass. Zero means GOMAXPROCS.
	Workers int
}

// NewCPUBackend creates a CPU backend using GOMAXPROCS workers.
func NewCPUBackend() *CPUBackend {
	return &CPUBackend{}
}

// Setup has nothing to prepare. The CPU pass always runs the built-in petal
// math, so a custom program is reported and otherwise ignored.
func (b *CPUBackend) Setup(src ShaderSource) error {
	if len(src.Fragment) > 0 && !bytes.Equal(src.Fragment, stampShaderSrc) {
		Logger().Warn("cpu backend ignores custom stamp program", "bytes", len(src.Fragment))
	}
	return nil
}

// NewSurface allocates a CPUSurface.
func (b *CPUBackend) NewSurface(w, h int) Surface {
	return NewCPUSurface(w, h)
}

// Stamp runs the stamp pass into dst.
func (b *CPUBackend) Stamp(dst, prev Surface, u *Uniforms) {
	d, ok := dst.(*CPUSurface)
	if !ok || d.Pix == nil {
		return
	}
	p, ok := prev.(*CPUSurface)
	if !ok || p.Pix == nil || p.w != d.w || p.h != d.h {
		return
	}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, d.h)
	band := (d.h + workers - 1) / workers

	uniforms := *u
	var wg sync.WaitGroup
	for y0 := 0; y0 < d.h; y0 += band {
		y1 := min(y0+band, d.h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			stampRows(d, p, &uniforms, y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

func stampRows(dst, prev *CPUSurface, u *Uniforms, y0, y1 int) {
	fw, fh := float64(dst.w), float64(dst.h)
	for y := y0; y < y1; y++ {
		row := y * dst.w
		v := (float64(y) + 0.5) / fh
		for x := 0; x < dst.w; x++ {
			uv := Vec2{(float64(x) + 0.5) / fw, v}
			dst.Pix[row+x] = StampPixel(uv, prev.Pix[row+x], u)
		}
	}
}

// Read converts the surface to 8-bit straight alpha.
func (b *CPUBackend) Read(s Surface) (*image.NRGBA, error) {
	c, ok := s.(*CPUSurface)
	if !ok || c.Pix == nil {
		return nil, fmt.Errorf("bloom: read surface: not a live CPU surface")
	}
	return pixelsToNRGBA(c.Pix, c.w, c.h), nil
}

func pixelsToNRGBA(pix []Pixel, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, p := range pix {
		o := i * 4
		img.Pix[o] = to8(p.R)
		img.Pix[o+1] = to8(p.G)
		img.Pix[o+2] = to8(p.B)
		img.Pix[o+3] = to8(p.A)
	}
	unpremultiply(img.Pix)
	return img
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Canvas is an in-memory presentation target for headless rendering.
type Canvas struct {
	W, H int
	Pix  []Pixel
}

// Present replaces the canvas content with src, adopting its size.
func (c *Canvas) Present(src Surface) {
	s, ok := src.(*CPUSurface)
	if !ok || s.Pix == nil {
		return
	}
	if c.W != s.w || c.H != s.h || len(c.Pix) != len(s.Pix) {
		c.W, c.H = s.w, s.h
		c.Pix = make([]Pixel, len(s.Pix))
	}
	copy(c.Pix, s.Pix)
}

// Brightness returns the summed luminance of the presented frame.
func (c *Canvas) Brightness() float64 {
	return brightness(c.Pix)
}

// Image returns the presented frame as straight-alpha 8-bit pixels.
func (c *Canvas) Image() *image.NRGBA {
	return pixelsToNRGBA(c.Pix, c.W, c.H)
}
