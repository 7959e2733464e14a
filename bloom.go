package bloom

import (
	"image/color"
	"time"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// toRGBA converts to a premultiplied color.RGBA for Ebitengine.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Pixel is a premultiplied RGBA value as stored in feedback surfaces.
type Pixel struct {
	R, G, B, A float32
}

// Scale multiplies every component, alpha included, by f.
func (p Pixel) Scale(f float32) Pixel {
	return Pixel{p.R * f, p.G * f, p.B * f, p.A * f}
}

// Luma returns the Rec. 601 luminance of the premultiplied color.
func (p Pixel) Luma() float32 {
	return 0.299*p.R + 0.587*p.G + 0.114*p.B
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3-component vector. Used for color seeds.
type Vec3 struct {
	X, Y, Z float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Effect tuning. Values match the page the effect was written for.
const (
	// DecayConstant multiplies the fade factor on every frame without a trigger.
	DecayConstant = 0.9999
	// FadeReset is the fade factor right after a trigger.
	FadeReset = 0.9999
	// InitialFade is the fade factor before the first trigger is consumed.
	InitialFade = 0.5
	// ClearPulse is how long a clear request keeps the clear mask at zero.
	ClearPulse = 50 * time.Millisecond
	// MaxDeviceScale caps the device pixel ratio used for surfaces.
	MaxDeviceScale = 2.0
	// BloomDuration is the lifetime of one stamp, in seconds. The petal
	// field is zero from then on.
	BloomDuration = 2.5
)

// InitialPointer is where the first flower is stamped.
var InitialPointer = Vec2{X: 0.66, Y: 0.3}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
