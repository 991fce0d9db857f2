package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"forestfire/internal/core"
)

// IgnitionAttempts bounds the random draws StartFire makes before falling
// back to picking among the remaining trees directly.
const IgnitionAttempts = 1000

var (
	// ErrInvalidSize is returned for non-positive grid dimensions.
	ErrInvalidSize = errors.New("forest: grid dimensions must be positive")
	// ErrInvalidDensity is returned for densities outside [0, 100].
	ErrInvalidDensity = errors.New("forest: density must be within [0, 100]")
)

// Forest owns a single grid and advances one fire through it. A Forest is
// single-owner: it must not be shared between goroutines.
type Forest struct {
	w, h int
	grid *core.ByteGrid
	rng  *rand.Rand

	grown   bool
	ignited bool

	pending []int
	nbuf    []core.Point
}

// New returns an all-Empty forest of the given dimensions drawing randomness
// from rng.
func New(w, h int, rng *rand.Rand) (*Forest, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, w, h)
	}
	if rng == nil {
		return nil, errors.New("forest: nil random source")
	}
	return &Forest{
		w:    w,
		h:    h,
		grid: core.NewByteGrid(w, h),
		rng:  rng,
		nbuf: make([]core.Point, 0, 8),
	}, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(w, h int, rng *rand.Rand) *Forest {
	f, err := New(w, h, rng)
	if err != nil {
		panic(err)
	}
	return f
}

// Size reports the grid dimensions.
func (f *Forest) Size() core.Size { return core.Size{W: f.w, H: f.h} }

// Cells exposes the backing grid values for renderers. Callers must treat
// the slice as read-only.
func (f *Forest) Cells() []uint8 { return f.grid.Cells() }

// At returns the state of the cell at (x, y).
func (f *Forest) At(x, y int) Cell { return Cell(f.grid.At(x, y)) }

// Snapshot returns a copy of the grid state.
func (f *Forest) Snapshot() []Cell {
	out := make([]Cell, len(f.grid.Cells()))
	for i, c := range f.grid.Cells() {
		out[i] = Cell(c)
	}
	return out
}

// TargetTrees returns the tree count Grow aims for on a w*h grid.
func TargetTrees(w, h int, density float64) int {
	return int(math.Round(float64(w*h) * density / 100))
}

// Grow plants trees on uniformly random empty cells until the forest holds
// TargetTrees(w, h, density) trees. Existing trees count towards the target,
// so Grow only ever adds trees.
func (f *Forest) Grow(density float64) error {
	if math.IsNaN(density) || density < 0 || density > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidDensity, density)
	}
	f.grown = true

	need := TargetTrees(f.w, f.h, density) - f.grid.Count(uint8(Tree))
	// Cells that already burned can never be replanted.
	if free := f.grid.Count(uint8(Empty)); need > free {
		need = free
	}
	cells := f.grid.Cells()
	for need > 0 {
		idx := f.grid.Index(f.rng.IntN(f.w), f.rng.IntN(f.h))
		if Cell(cells[idx]) != Empty {
			continue
		}
		cells[idx] = uint8(Tree)
		need--
	}
	return nil
}

// StartFire sets one uniformly chosen tree alight. It reports false, leaving
// the grid untouched, when there is no tree to ignite.
func (f *Forest) StartFire() bool {
	f.grown = true
	f.ignited = true
	cells := f.grid.Cells()
	for i := 0; i < IgnitionAttempts; i++ {
		idx := f.grid.Index(f.rng.IntN(f.w), f.rng.IntN(f.h))
		if Cell(cells[idx]) == Tree {
			cells[idx] = uint8(Burning)
			return true
		}
	}

	trees := f.grid.Count(uint8(Tree))
	if trees == 0 {
		return false
	}
	pick := f.rng.IntN(trees)
	for idx, c := range cells {
		if Cell(c) != Tree {
			continue
		}
		if pick == 0 {
			cells[idx] = uint8(Burning)
			return true
		}
		pick--
	}
	return false
}

// IgniteAt sets the tree at (x, y) alight. Cells that are not trees, or
// coordinates outside the grid, are left alone.
func (f *Forest) IgniteAt(x, y int) bool {
	f.grown = true
	f.ignited = true
	if !f.grid.InBounds(x, y) || f.At(x, y) != Tree {
		return false
	}
	f.grid.Set(x, y, uint8(Burning))
	return true
}

// SpreadFire advances the fire by exactly one ring. Every burning cell
// burns out and every tree adjacent to it catches fire, with all decisions
// taken against the state at the start of the call.
func (f *Forest) SpreadFire() {
	cells := f.grid.Cells()
	f.pending = f.pending[:0]
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			idx := y*f.w + x
			if Cell(cells[idx]) != Burning {
				continue
			}
			f.nbuf = core.AppendMooreNeighbors(f.nbuf[:0], x, y, f.w, f.h)
			for _, n := range f.nbuf {
				nIdx := n.Y*f.w + n.X
				if Cell(cells[nIdx]) == Tree {
					f.pending = append(f.pending, nIdx)
				}
			}
			cells[idx] = uint8(Burned)
		}
	}
	// Trees stay trees until every burning cell has been visited.
	for _, idx := range f.pending {
		cells[idx] = uint8(Burning)
	}
}

// HasBurningTrees reports whether any cell is still on fire.
func (f *Forest) HasBurningTrees() bool {
	for _, c := range f.grid.Cells() {
		if Cell(c) == Burning {
			return true
		}
	}
	return false
}

// RunToCompletion spreads the fire until nothing burns and returns the
// number of steps taken.
func (f *Forest) RunToCompletion() int {
	steps := 0
	for f.HasBurningTrees() {
		f.SpreadFire()
		steps++
	}
	return steps
}

// Counts tallies the current grid.
func (f *Forest) Counts() Counts {
	var c Counts
	for _, v := range f.grid.Cells() {
		switch Cell(v) {
		case Empty:
			c.Empty++
		case Tree:
			c.Tree++
		case Burning:
			c.Burning++
		case Burned:
			c.Burned++
		}
	}
	return c
}

// BurnedPercentage returns 100*burned/(burned+trees) for the current grid,
// or 0 when no flammable cell exists.
func (f *Forest) BurnedPercentage() float64 {
	c := f.Counts()
	total := c.Flammable()
	if total == 0 {
		return 0
	}
	return float64(c.Burned) / float64(total) * 100
}

// Phase reports the lifecycle stage of the forest.
func (f *Forest) Phase() Phase {
	switch {
	case !f.grown:
		return PhaseGrowing
	case !f.ignited:
		return PhaseIgnitable
	case f.HasBurningTrees():
		return PhaseSpreading
	default:
		return PhaseTerminal
	}
}
