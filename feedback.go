package bloom

// Surface is one offscreen color buffer. Surfaces are allocated by a
// Backend and owned by a FeedbackPair.
type Surface interface {
	// Size returns the surface dimensions in device pixels.
	Size() (w, h int)
	// Dispose releases the surface's memory. The surface must not be used
	// afterwards.
	Dispose()
}

// SurfaceAllocator returns a new zero-filled surface of the given size.
type SurfaceAllocator func(w, h int) Surface

// FeedbackPair holds the two surfaces of the ping-pong feedback buffer.
// Current is the surface written by this frame's stamp pass; Previous holds
// the last frame's output and is only read. Swap relabels them without
// copying.
type FeedbackPair struct {
	alloc      SurfaceAllocator
	surfaces   [2]Surface
	readIndex  int
	writeIndex int
	width      int
	height     int
	disposed   bool
}

// NewFeedbackPair allocates two w x h surfaces. Sizes below 1 are clamped
// to 1. It panics if the allocator hands back the same surface twice, since
// reading and writing one surface in a pass is undefined.
func NewFeedbackPair(alloc SurfaceAllocator, w, h int) *FeedbackPair {
	p := &FeedbackPair{alloc: alloc, readIndex: 0, writeIndex: 1}
	p.allocate(w, h)
	return p
}

func (p *FeedbackPair) allocate(w, h int) {
	w, h = max(w, 1), max(h, 1)
	a := p.alloc(w, h)
	b := p.alloc(w, h)
	if a == b {
		panic("bloom: surface allocator returned the same surface twice")
	}
	p.surfaces = [2]Surface{a, b}
	p.readIndex, p.writeIndex = 0, 1
	p.width, p.height = w, h
	p.disposed = false
}

// Previous returns the surface holding the last frame's output.
func (p *FeedbackPair) Previous() Surface {
	return p.surfaces[p.readIndex]
}

// Current returns the surface this frame renders into.
func (p *FeedbackPair) Current() Surface {
	return p.surfaces[p.writeIndex]
}

// Swap toggles the read and write roles. Called after the frame's output
// has been presented.
func (p *FeedbackPair) Swap() {
	p.readIndex, p.writeIndex = p.writeIndex, p.readIndex
}

// Resize disposes both surfaces and allocates new zero-filled ones at the
// new size. Previous content is lost, even when the size is unchanged.
func (p *FeedbackPair) Resize(w, h int) {
	p.release()
	p.allocate(w, h)
}

// Size returns the declared size of both surfaces.
func (p *FeedbackPair) Size() (w, h int) {
	return p.width, p.height
}

// Dispose releases both surfaces. Safe to call more than once.
func (p *FeedbackPair) Dispose() {
	p.release()
	p.disposed = true
}

// Disposed reports whether Dispose has been called since the last resize.
func (p *FeedbackPair) Disposed() bool {
	return p.disposed
}

func (p *FeedbackPair) release() {
	for i, s := range p.surfaces {
		if s != nil {
			s.Dispose()
			p.surfaces[i] = nil
		}
	}
}
