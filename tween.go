package bloom

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenChain animates one float64 through a sequence of gween tweens. Each
// segment starts where the previous one ended. Build it with Then and Hold,
// then call Update(dt) each frame.
//
// There is no global animation manager; owners call Update themselves.
type TweenChain struct {
	tweens []*gween.Tween
	index  int
	field  *float64
	last   float64
	Done   bool
}

// NewTweenChain creates an empty chain driving *field from its current value.
func NewTweenChain(field *float64) *TweenChain {
	return &TweenChain{field: field, last: *field}
}

// Then appends a segment easing to `to` over duration seconds.
func (c *TweenChain) Then(to float64, duration float32, fn ease.TweenFunc) *TweenChain {
	c.tweens = append(c.tweens, gween.New(float32(c.last), float32(to), duration, fn))
	c.last = to
	return c
}

// Hold appends a segment that keeps the value for duration seconds.
func (c *TweenChain) Hold(duration float32) *TweenChain {
	return c.Then(c.last, duration, ease.Linear)
}

// Update advances the active segment by dt seconds and writes the value to
// the field. Done is set once the last segment finishes.
func (c *TweenChain) Update(dt float32) {
	if c.Done {
		return
	}
	if c.index >= len(c.tweens) {
		c.Done = true
		return
	}
	val, finished := c.tweens[c.index].Update(dt)
	*c.field = float64(val)
	if finished {
		c.index++
		if c.index >= len(c.tweens) {
			c.Done = true
		}
	}
}
