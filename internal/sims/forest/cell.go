package forest

// Cell is the state of a single grid position. Transitions are strictly
// Empty -> Tree -> Burning -> Burned; Empty and Burned never change once
// the fire has started.
type Cell uint8

const (
	Empty Cell = iota
	Tree
	Burning
	Burned
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Tree:
		return "tree"
	case Burning:
		return "burning"
	case Burned:
		return "burned"
	default:
		return "unknown"
	}
}

// Counts tallies the cells of a forest by state.
type Counts struct {
	Empty   int
	Tree    int
	Burning int
	Burned  int
}

// Flammable returns the cells that count towards the burned percentage.
func (c Counts) Flammable() int { return c.Tree + c.Burned }

// Phase is the lifecycle stage of a Forest.
type Phase uint8

const (
	PhaseGrowing Phase = iota
	PhaseIgnitable
	PhaseSpreading
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseGrowing:
		return "growing"
	case PhaseIgnitable:
		return "ignitable"
	case PhaseSpreading:
		return "spreading"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}
