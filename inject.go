package bloom

// injectKind distinguishes synthetic input events.
type injectKind uint8

const (
	injectClick injectKind = iota // mouse click
	injectTouch                   // touch start
	injectClear                   // clean action
)

// syntheticPointerEvent is a queued input event. Coordinates are device
// pixels on the screen, matching what a screenshot shows.
type syntheticPointerEvent struct {
	kind             injectKind
	screenX, screenY float64
}

// InjectClick queues a mouse click at the given screen coordinates. The
// event is consumed on a later Update, one event per Update.
func (d *Driver) InjectClick(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticPointerEvent{
		kind: injectClick, screenX: x, screenY: y,
	})
}

// InjectTouch queues a touch start at the given screen coordinates.
func (d *Driver) InjectTouch(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticPointerEvent{
		kind: injectTouch, screenX: x, screenY: y,
	})
}

// InjectClear queues a clean action.
func (d *Driver) InjectClear() {
	d.injectQueue = append(d.injectQueue, syntheticPointerEvent{kind: injectClear})
}

// processInjectedInput pops one event from the inject queue and applies it
// the same way real input is applied. Returns true if an event was consumed.
func (d *Driver) processInjectedInput() bool {
	if len(d.injectQueue) == 0 {
		return false
	}
	evt := d.injectQueue[0]
	copy(d.injectQueue, d.injectQueue[1:])
	d.injectQueue = d.injectQueue[:len(d.injectQueue)-1]

	switch evt.kind {
	case injectClick, injectTouch:
		d.Trigger(evt.screenX, evt.screenY)
	case injectClear:
		d.Clear()
	}
	return true
}
