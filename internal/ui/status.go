//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 8
	lineHeight   = 16
)

// StatusHeight returns the panel height needed for n lines.
func StatusHeight(n int) int { return n*lineHeight + panelPadding*2 }

// Status renders the text panel underneath the forest view.
type Status struct {
	width int
	panel *ebiten.Image
	lines []string
}

// NewStatus constructs a panel of the given pixel width.
func NewStatus(width int) *Status {
	if width < 1 {
		width = 1
	}
	return &Status{width: width}
}

// Update replaces the panel contents.
func (s *Status) Update(r Report) {
	if s == nil {
		return
	}
	s.lines = StatusLines(r)
}

// Draw paints the panel at vertical offset offsetY.
func (s *Status) Draw(screen *ebiten.Image, offsetY int) {
	if s == nil || len(s.lines) == 0 {
		return
	}
	height := StatusHeight(len(s.lines))
	if s.panel == nil || s.panel.Bounds().Dy() != height {
		s.panel = ebiten.NewImage(s.width, height)
	}
	s.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	face := basicfont.Face7x13
	for i, line := range s.lines {
		clr := color.RGBA{R: 200, G: 200, B: 210, A: 255}
		if i == 0 {
			clr = color.RGBA{R: 255, G: 203, B: 0, A: 255}
		}
		text.Draw(s.panel, line, face, panelPadding, panelPadding+(i+1)*lineHeight-4, clr)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(offsetY))
	screen.DrawImage(s.panel, op)
}
