package bloom

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// GPUSurface is a feedback surface backed by an unmanaged Ebitengine image.
type GPUSurface struct {
	img  *ebiten.Image
	w, h int
}

// Image returns the underlying image. Nil after Dispose.
func (s *GPUSurface) Image() *ebiten.Image { return s.img }

// Size returns the surface dimensions.
func (s *GPUSurface) Size() (int, int) { return s.w, s.h }

// Dispose deallocates the image's GPU memory immediately.
func (s *GPUSurface) Dispose() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
}

// GPUBackend runs the stamp pass as a Kage shader through Ebitengine.
// Like the rest of Ebitengine, it must only be used from the game goroutine.
type GPUBackend struct {
	shader   *ebiten.Shader
	uniforms map[string]any
	bufs     uniformBuffers
	shaderOp ebiten.DrawRectShaderOptions
}

// NewGPUBackend creates a backend with no program. Call Setup before use.
func NewGPUBackend() *GPUBackend {
	return &GPUBackend{uniforms: make(map[string]any, 8)}
}

// Setup compiles the stamp program.
func (b *GPUBackend) Setup(src ShaderSource) error {
	s, err := compileStampShader(src)
	if err != nil {
		return err
	}
	b.shader = s
	return nil
}

// NewSurface allocates an unmanaged image. Unmanaged images skip the
// texture atlas, which suits full-screen targets rewritten every frame.
func (b *GPUBackend) NewSurface(w, h int) Surface {
	img := ebiten.NewImageWithOptions(
		image.Rect(0, 0, w, h),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
	return &GPUSurface{img: img, w: w, h: h}
}

// Stamp draws the stamp shader over the whole of dst. BlendCopy makes the
// pass overwrite dst, which still holds the frame before last.
func (b *GPUBackend) Stamp(dst, prev Surface, u *Uniforms) {
	if b.shader == nil {
		return
	}
	d, ok := dst.(*GPUSurface)
	if !ok || d.img == nil {
		return
	}
	p, ok := prev.(*GPUSurface)
	if !ok || p.img == nil {
		return
	}
	u.fill(b.uniforms, &b.bufs)
	b.shaderOp.Images[0] = p.img
	b.shaderOp.Uniforms = b.uniforms
	b.shaderOp.Blend = ebiten.BlendCopy
	d.img.DrawRectShader(d.w, d.h, b.shader, &b.shaderOp)
}

// Read copies the surface's pixels. Ebitengine only allows this while the
// game loop is running.
func (b *GPUBackend) Read(s Surface) (*image.NRGBA, error) {
	g, ok := s.(*GPUSurface)
	if !ok || g.img == nil {
		return nil, fmt.Errorf("bloom: read surface: not a live GPU surface")
	}
	img := image.NewNRGBA(image.Rect(0, 0, g.w, g.h))
	g.img.ReadPixels(img.Pix)
	unpremultiply(img.Pix)
	return img, nil
}

// ScreenPresenter composites feedback surfaces onto an Ebitengine screen.
type ScreenPresenter struct {
	Screen *ebiten.Image
	op     ebiten.DrawImageOptions
}

// Present copies src over the screen, scaling if the sizes differ.
func (p *ScreenPresenter) Present(src Surface) {
	s, ok := src.(*GPUSurface)
	if !ok || s.img == nil || p.Screen == nil {
		return
	}
	p.op.GeoM.Reset()
	p.op.Blend = ebiten.BlendCopy
	b := p.Screen.Bounds()
	if b.Dx() != s.w || b.Dy() != s.h {
		p.op.GeoM.Scale(float64(b.Dx())/float64(s.w), float64(b.Dy())/float64(s.h))
		p.op.Filter = ebiten.FilterLinear
	} else {
		p.op.Filter = ebiten.FilterNearest
	}
	p.op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	p.Screen.DrawImage(s.img, &p.op)
}
