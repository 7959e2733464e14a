package bloom

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Petal shape parameters. stamp.kage declares the same values.
const (
	petalBaseRadius   = 0.12
	petalRadiusJitter = 0.06
	petalMinLobes     = 5
	petalLobeJitter   = 4
	petalInnerEdge    = 0.75
	petalLobeDepth    = 0.45
	petalHighlight    = 0.35
)

// bloomEnvelope maps the age of a stamp to its strength: 1 when just
// triggered, easing down to 0 at BloomDuration.
func bloomEnvelope(stopTime float64) float64 {
	t := stopTime
	if t <= 0 {
		return 1
	}
	if t >= BloomDuration {
		return 0
	}
	return float64(ease.OutQuad(float32(t), 1, -1, BloomDuration))
}

// PetalField evaluates the petal at normalized pixel uv. It returns the
// straight (non-premultiplied) petal color and its alpha. The result depends
// only on its inputs.
func PetalField(uv Vec2, u *Uniforms) (r, g, b, alpha float64) {
	env := bloomEnvelope(u.StopTime)
	if env <= 0 {
		return 0, 0, 0, 0
	}

	ratio := u.AspectRatio
	if ratio <= 0 {
		ratio = 1
	}
	dx := (uv.X - u.Cursor.X) * ratio
	dy := uv.Y - u.Cursor.Y
	dist := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	lobes := petalMinLobes + math.Floor(petalLobeJitter*u.StopRandomizer.X)
	spin := 2 * math.Pi * u.StopRandomizer.Y
	shape := 1 - petalLobeDepth + petalLobeDepth*math.Abs(math.Cos(lobes/2*(angle+spin)))
	radius := env * (petalBaseRadius + petalRadiusJitter*u.StopRandomizer.X) * shape
	if radius <= 0 {
		return 0, 0, 0, 0
	}

	q := dist / radius
	coverage := 1 - smoothstep(petalInnerEdge, 1, q)
	if coverage <= 0 {
		return 0, 0, 0, 0
	}

	r, g, b = seedColor(u.ColorSeed)
	light := petalHighlight * (1 - math.Min(q, 1))
	r = mix(r, 1, light)
	g = mix(g, 1, light)
	b = mix(b, 1, light)
	return r, g, b, coverage * env
}

// StampPixel computes one output pixel of the stamp pass: the previous
// buffer value faded by FadeFactor, with the petal composited over it.
// prev and the result are premultiplied.
func StampPixel(uv Vec2, prev Pixel, u *Uniforms) Pixel {
	if u.ClearMask == 0 {
		return Pixel{}
	}
	base := prev.Scale(float32(u.FadeFactor))
	r, g, b, a := PetalField(uv, u)
	if a <= 0 {
		return base
	}
	inv := float32(1 - a)
	return Pixel{
		R: float32(r*a) + base.R*inv,
		G: float32(g*a) + base.G*inv,
		B: float32(b*a) + base.B*inv,
		A: float32(a) + base.A*inv,
	}
}

// PetalCoverage returns the mean petal alpha over a w x h pixel grid. It is
// the fraction of the viewport the current stamp paints.
func PetalCoverage(u *Uniforms, w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			uv := Vec2{(float64(x) + 0.5) / float64(w), (float64(y) + 0.5) / float64(h)}
			_, _, _, a := PetalField(uv, u)
			sum += a
		}
	}
	return sum / float64(w*h)
}

// seedColor maps a color seed to a saturated, bright hue.
func seedColor(seed Vec3) (r, g, b float64) {
	h := seed.X - math.Floor(seed.X)
	s := 0.55 + 0.35*clamp01(seed.Y)
	v := 0.85 + 0.15*clamp01(seed.Z)
	return hsvChannel(h, 0, s, v), hsvChannel(h, 4, s, v), hsvChannel(h, 2, s, v)
}

// hsvChannel is one channel of the branch-free HSV to RGB conversion used
// by the shader.
func hsvChannel(h, offset, s, v float64) float64 {
	k := math.Mod(h*6+offset, 6)
	c := clamp01(math.Abs(k-3) - 1)
	return v * mix(1, c, s)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}
