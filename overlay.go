package bloom

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

// Overlay timings, in seconds.
const (
	hintText        = "Tap anywhere to spawn a flower"
	hintDelay       = 0.2
	hintFadeIn      = 0.6
	hintOpacity     = 0.95
	hintHideAt      = 6.0
	hintFadeOut     = 0.6
	clickDotLife    = 0.42
	fallbackDelay   = 0.05
	fallbackFadeAt  = 0.01
	fallbackLife    = 1.6
	debugGlyphWidth = 6
)

var (
	fallbackPetal  = Color{R: 1, G: 0.72, B: 0.8, A: 1}
	fallbackCenter = Color{R: 1, G: 0.85, B: 0.35, A: 1}
	clickDotColor  = Color{R: 1, G: 1, B: 1, A: 0.6}
	buttonColor    = Color{R: 0, G: 0, B: 0, A: 0.45}
)

// clickDot is the short-lived marker drawn where a click landed.
type clickDot struct {
	x, y  float64
	alpha float64
	fade  *TweenChain
}

// fallbackFlower is drawn at a click when the stamp program is unavailable.
type fallbackFlower struct {
	x, y  float64
	delay float64
	alpha float64
	fade  *TweenChain
}

// overlay draws the UI above the composited feedback buffer: the hint text,
// click markers, fallback flowers and the clean button. Sizes are in logical
// pixels multiplied by scale.
type overlay struct {
	scale      float64
	width      int
	height     int
	idle       func() bool
	showHint   bool
	showButton bool

	hintAlpha float64
	hint      *TweenChain
	hintImg   *ebiten.Image
	buttonImg *ebiten.Image

	dots    []*clickDot
	flowers []*fallbackFlower
}

func newOverlay(idle func() bool, showHint, showButton bool) *overlay {
	o := &overlay{scale: 1, idle: idle, showHint: showHint, showButton: showButton}
	o.hint = NewTweenChain(&o.hintAlpha).
		Hold(hintDelay).
		Then(hintOpacity, hintFadeIn, ease.Linear).
		Hold(hintHideAt-hintDelay-hintFadeIn).
		Then(0, hintFadeOut, ease.Linear)
	return o
}

// resize records the screen size in device pixels and the device scale.
func (o *overlay) resize(w, h int, scale float64) {
	o.width, o.height = w, h
	o.scale = scale
}

// cleanButton returns the clean button's rectangle in device pixels.
func (o *overlay) cleanButton() Rect {
	bw, bh := 64*o.scale, 24*o.scale
	margin := 12 * o.scale
	return Rect{
		X:      float64(o.width) - bw - margin,
		Y:      float64(o.height) - bh - margin,
		Width:  bw,
		Height: bh,
	}
}

// hitsCleanButton reports whether device pixel (x, y) is on the button.
func (o *overlay) hitsCleanButton(x, y float64) bool {
	return o.showButton && o.cleanButton().Contains(x, y)
}

// onPointer records a click for the marker and, while idle, a fallback flower.
func (o *overlay) onPointer(x, y float64) {
	dot := &clickDot{x: x, y: y, alpha: 1}
	dot.fade = NewTweenChain(&dot.alpha).Then(0, clickDotLife, ease.Linear)
	o.dots = append(o.dots, dot)

	if o.idle != nil && o.idle() {
		f := &fallbackFlower{x: x, y: y, delay: fallbackDelay, alpha: 1}
		f.fade = NewTweenChain(&f.alpha).
			Hold(fallbackFadeAt).
			Then(0, fallbackLife-fallbackFadeAt, ease.OutQuad)
		o.flowers = append(o.flowers, f)
	}
}

// update advances every tween by dt seconds and drops finished items.
func (o *overlay) update(dt float32) {
	o.hint.Update(dt)

	dots := o.dots[:0]
	for _, d := range o.dots {
		d.fade.Update(dt)
		if !d.fade.Done {
			dots = append(dots, d)
		}
	}
	o.dots = dots

	flowers := o.flowers[:0]
	for _, f := range o.flowers {
		if f.delay > 0 {
			f.delay -= float64(dt)
			flowers = append(flowers, f)
			continue
		}
		f.fade.Update(dt)
		if !f.fade.Done {
			flowers = append(flowers, f)
		}
	}
	o.flowers = flowers
}

// draw renders the overlay onto screen.
func (o *overlay) draw(screen *ebiten.Image) {
	for _, d := range o.dots {
		c := clickDotColor
		c.A *= d.alpha
		vector.DrawFilledCircle(screen, float32(d.x), float32(d.y), float32(6*o.scale), c.toRGBA(), true)
	}
	for _, f := range o.flowers {
		if f.delay > 0 {
			continue
		}
		drawFallbackFlower(screen, f.x, f.y, 18*o.scale, f.alpha)
	}
	if o.showHint && o.hintAlpha > 0 {
		o.drawHint(screen)
	}
	if o.showButton {
		o.drawButton(screen)
	}
}

// drawFallbackFlower draws five petals and a center, radius r.
func drawFallbackFlower(dst *ebiten.Image, x, y, r, alpha float64) {
	petal := fallbackPetal
	petal.A *= alpha
	center := fallbackCenter
	center.A *= alpha
	pr := r * 0.45
	offsets := [5][2]float64{
		{0, -1}, {0.951, -0.309}, {0.588, 0.809}, {-0.588, 0.809}, {-0.951, -0.309},
	}
	for _, off := range offsets {
		vector.DrawFilledCircle(dst,
			float32(x+off[0]*r*0.55), float32(y+off[1]*r*0.55),
			float32(pr), petal.toRGBA(), true)
	}
	vector.DrawFilledCircle(dst, float32(x), float32(y), float32(r*0.3), center.toRGBA(), true)
}

func (o *overlay) drawHint(screen *ebiten.Image) {
	if o.hintImg == nil {
		o.hintImg = ebiten.NewImage(len(hintText)*debugGlyphWidth+8, 20)
		ebitenutil.DebugPrintAt(o.hintImg, hintText, 4, 2)
	}
	b := o.hintImg.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(o.scale, o.scale)
	op.GeoM.Translate((float64(o.width)-float64(b.Dx())*o.scale)/2, 24*o.scale)
	op.ColorScale.ScaleAlpha(float32(o.hintAlpha))
	screen.DrawImage(o.hintImg, &op)
}

func (o *overlay) drawButton(screen *ebiten.Image) {
	r := o.cleanButton()
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), buttonColor.toRGBA(), true)
	if o.buttonImg == nil {
		o.buttonImg = ebiten.NewImage(64, 24)
		o.buttonImg.Fill(color.Transparent)
		ebitenutil.DebugPrintAt(o.buttonImg, "clean", 17, 4)
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(o.scale, o.scale)
	op.GeoM.Translate(r.X, r.Y)
	screen.DrawImage(o.buttonImg, &op)
}
