package bloom

import "image"

// Backend owns the device-facing half of the pipeline: it allocates
// surfaces and runs the stamp pass over them.
type Backend interface {
	// Setup prepares the stamp program. An error leaves the backend unusable
	// and the driver in idle rendering.
	Setup(src ShaderSource) error
	// NewSurface allocates a zero-filled w x h surface.
	NewSurface(w, h int) Surface
	// Stamp renders the stamp pass into dst, sampling prev. dst and prev are
	// always distinct surfaces of the same size.
	Stamp(dst, prev Surface, u *Uniforms)
	// Read copies a surface into straight-alpha 8-bit pixels.
	Read(s Surface) (*image.NRGBA, error)
}

// Presenter is a visible target. Present fully overwrites it with src.
type Presenter interface {
	Present(src Surface)
}

// unpremultiply converts premultiplied 8-bit RGBA in place to straight alpha.
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0 || a == 255 {
			continue
		}
		pix[i] = uint8(min(int(pix[i])*255/int(a), 255))
		pix[i+1] = uint8(min(int(pix[i+1])*255/int(a), 255))
		pix[i+2] = uint8(min(int(pix[i+2])*255/int(a), 255))
	}
}
