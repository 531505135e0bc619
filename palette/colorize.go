package palette

import (
	"errors"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/sample"
)

// ColorGrid holds one RGB triple per pixel with the same [x][y] layout as
// sample.IterationGrid.
type ColorGrid struct {
	Width, Height int
	Pix           []uint8
}

// NewColorGrid allocates a black w x h grid.
func NewColorGrid(w, h int) *ColorGrid {
	return &ColorGrid{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
}

func (g *ColorGrid) offset(x, y int) int {
	return (x*g.Height + y) * 3
}

// At returns the colour of pixel (x, y).
func (g *ColorGrid) At(x, y int) [3]uint8 {
	i := g.offset(x, y)
	return [3]uint8{g.Pix[i], g.Pix[i+1], g.Pix[i+2]}
}

// Set stores the colour of pixel (x, y).
func (g *ColorGrid) Set(x, y int, c [3]uint8) {
	i := g.offset(x, y)
	copy(g.Pix[i:i+3], c[:])
}

// Colorize maps every count of grid to a colour of gradient at position
// count/maxIters.
func Colorize(grid *sample.IterationGrid, maxIters uint16, gradient Gradient) (*ColorGrid, error) {
	if maxIters == 0 {
		return nil, mandel.InvalidConfig("palette.colorize", errors.New("max iterations must be at least 1"))
	}
	if gradient.Len() == 0 {
		return nil, mandel.InvalidConfig("palette.colorize", errors.New("gradient needs at least one anchor colour"))
	}

	// One entry per possible count; counts above maxIters clamp to t = 1.
	lut := make([][3]uint8, int(maxIters)+1)
	maxInv := 1 / float64(maxIters)
	for n := range lut {
		lut[n] = gradient.RGB(float64(n) * maxInv)
	}

	out := NewColorGrid(grid.Width, grid.Height)
	for i, n := range grid.Counts {
		c := lut[min(n, maxIters)]
		copy(out.Pix[i*3:i*3+3], c[:])
	}
	return out, nil
}

// ColorizeHex is Colorize with the gradient given as "#RRGGBB" anchors.
func ColorizeHex(grid *sample.IterationGrid, anchors []string, maxIters uint16) (*ColorGrid, error) {
	g, err := Parse(anchors)
	if err != nil {
		return nil, err
	}
	return Colorize(grid, maxIters, g)
}
