package core

import "image/color"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Area returns the number of cells in a grid of this size.
func (s Size) Area() int { return s.W * s.H }

// Sim defines the minimal contract a steppable automaton must implement so a
// frame-paced driver (viewer, recorder) can advance and draw it.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Done() bool
	Cells() []uint8
}

// Igniter is implemented by sims that wait for an explicit start event.
type Igniter interface {
	Ignite() bool
}

// PaletteProvider exposes the colors used to draw each cell value.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}
