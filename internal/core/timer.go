package core

// FramePacer gates simulation steps to every Nth rendered frame so an
// interactive view advances slower than the display refresh rate.
type FramePacer struct {
	every int
	frame int
}

// NewFramePacer returns a pacer that fires on the first frame and then every
// `every` frames. Non-positive values fire on every frame.
func NewFramePacer(every int) *FramePacer {
	p := &FramePacer{}
	p.SetEvery(every)
	return p
}

// SetEvery changes the spacing between steps. It is safe to call from the
// main loop.
func (p *FramePacer) SetEvery(every int) {
	if every <= 0 {
		every = 1
	}
	p.every = every
}

// Every reports the current spacing in frames.
func (p *FramePacer) Every() int { return p.every }

// Tick registers a rendered frame and reports whether the simulation should
// advance by one step on this frame.
func (p *FramePacer) Tick() bool {
	fire := p.frame%p.every == 0
	p.frame++
	return fire
}

// Reset restarts the frame counter so the next Tick fires immediately.
func (p *FramePacer) Reset() { p.frame = 0 }
