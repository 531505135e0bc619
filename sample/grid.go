package sample

// IterationGrid holds one escape count per pixel, addressed [x][y] with
// x in [0,Width) and y in [0,Height). Cells of one column are contiguous.
type IterationGrid struct {
	Width, Height int
	Counts        []uint16
}

// NewIterationGrid allocates a zeroed w x h grid.
func NewIterationGrid(w, h int) *IterationGrid {
	return &IterationGrid{Width: w, Height: h, Counts: make([]uint16, w*h)}
}

func (g *IterationGrid) index(x, y int) int {
	return x*g.Height + y
}

// At returns the count at pixel (x, y).
func (g *IterationGrid) At(x, y int) uint16 {
	return g.Counts[g.index(x, y)]
}

// Set stores the count for pixel (x, y).
func (g *IterationGrid) Set(x, y int, v uint16) {
	g.Counts[g.index(x, y)] = v
}

// Max returns the largest count in the grid.
func (g *IterationGrid) Max() uint16 {
	var m uint16
	for _, v := range g.Counts {
		m = max(m, v)
	}
	return m
}
