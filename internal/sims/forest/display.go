package forest

import "image/color"

var forestPalette = []color.RGBA{
	Empty:   {R: 0, G: 0, B: 0, A: 255},
	Tree:    {R: 0, G: 228, B: 48, A: 255},
	Burning: {R: 255, G: 161, B: 0, A: 255},
	Burned:  {R: 230, G: 41, B: 55, A: 255},
}

// Palette returns the color used for each Cell value, indexed by Cell.
func Palette() []color.RGBA {
	return forestPalette
}
