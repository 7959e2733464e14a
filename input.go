package bloom

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// inputPoller reads Ebitengine input once per tick and forwards it to a
// Driver: a left-button release is a click, a touch starting a gesture is a
// tap, and C, Backspace or the clean button issue a clear. Escape stops the
// driver.
type inputPoller struct {
	justPressed []ebiten.TouchID
	active      []ebiten.TouchID
}

// poll is called from Game.Update after injected input has been applied.
func (in *inputPoller) poll(g *Game) {
	d := g.driver
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		d.Stop()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		d.Clear()
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		in.press(g, float64(mx), float64(my))
	}

	in.justPressed = inpututil.AppendJustPressedTouchIDs(in.justPressed[:0])
	if len(in.justPressed) == 0 {
		return
	}
	// Only the first touch of a gesture counts; fingers added to a touch
	// already in progress are ignored.
	in.active = ebiten.AppendTouchIDs(in.active[:0])
	if len(in.active) > len(in.justPressed) {
		return
	}
	tx, ty := ebiten.TouchPosition(in.justPressed[0])
	in.press(g, float64(tx), float64(ty))
}

// press routes one primary interaction at screen pixel (x, y). A press on
// the clean button only clears; it does not also stamp a flower.
func (in *inputPoller) press(g *Game, x, y float64) {
	if g.overlay.hitsCleanButton(x, y) {
		g.driver.Clear()
		return
	}
	g.driver.Trigger(g.toDriver(x, y))
}
