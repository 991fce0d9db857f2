package core

// Point addresses a single grid cell.
type Point struct {
	X, Y int
}

// MooreNeighbors returns the 8-connected neighbors of p clipped to the grid
// bounds. The cell itself is never included.
func MooreNeighbors(p Point, size Size) []Point {
	return AppendMooreNeighbors(make([]Point, 0, 8), p.X, p.Y, size.W, size.H)
}

// AppendMooreNeighbors appends the in-bounds Moore neighbors of (x, y) to dst
// and returns the extended slice. Callers reuse dst to avoid allocating per
// cell in hot loops.
func AppendMooreNeighbors(dst []Point, x, y, w, h int) []Point {
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx < 0 || nx >= w {
				continue
			}
			if dx == 0 && dy == 0 {
				continue
			}
			dst = append(dst, Point{X: nx, Y: ny})
		}
	}
	return dst
}
