package ui

import (
	"fmt"
	"strings"

	"forestfire/internal/core"
	"forestfire/internal/sims/forest"
)

// Report is the viewer state rendered by the status panel.
type Report struct {
	Phase   forest.Phase
	Density float64
	Counts  forest.Counts
	Steps   int
	Burned  float64
	// Saved names the results log the last run was appended to.
	Saved string
	// Params is the sim's tunables. When empty the density alone is shown.
	Params core.ParameterSnapshot
}

// ParameterLine renders one parameter group as "Name: Label value  ...".
func ParameterLine(g core.ParameterGroup) string {
	var b strings.Builder
	b.WriteString(g.Name)
	b.WriteString(":")
	for i, p := range g.Params {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(" ")
		b.WriteString(p.Label)
		b.WriteString(" ")
		b.WriteString(p.Value)
	}
	return b.String()
}

// StatusLines formats r for display, prompt line first.
func StatusLines(r Report) []string {
	lines := make([]string, 0, 6)
	switch r.Phase {
	case forest.PhaseGrowing, forest.PhaseIgnitable:
		lines = append(lines, "Press ENTER to start the fire")
	case forest.PhaseSpreading:
		lines = append(lines, fmt.Sprintf("Burning... step %d", r.Steps))
	case forest.PhaseTerminal:
		lines = append(lines, fmt.Sprintf("Burned: %.2f%%", r.Burned))
	}
	if len(r.Params.Groups) == 0 {
		lines = append(lines, fmt.Sprintf("Density %.2f%%", r.Density))
	}
	for _, g := range r.Params.Groups {
		lines = append(lines, ParameterLine(g))
	}
	lines = append(lines,
		fmt.Sprintf("Trees %d  Burning %d  Burned %d", r.Counts.Tree, r.Counts.Burning, r.Counts.Burned),
	)
	if r.Phase == forest.PhaseTerminal {
		if r.Saved != "" {
			lines = append(lines, "Saved to "+r.Saved)
		}
		lines = append(lines, "R: regrow  Esc: quit")
	} else if r.Phase != forest.PhaseSpreading {
		lines = append(lines, "Up/Down: density  R: regrow")
	}
	return lines
}
