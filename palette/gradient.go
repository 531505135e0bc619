package palette

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	mandel "github.com/marben/mandel_zoom"
)

// Gradient is an ordered list of anchor colours spread evenly over [0,1].
// Between two anchors each channel is interpolated linearly.
type Gradient struct {
	anchors []colorful.Color
}

// New builds a gradient from at least one anchor.
func New(anchors ...colorful.Color) (Gradient, error) {
	if len(anchors) == 0 {
		return Gradient{}, mandel.InvalidConfig("palette.new", errors.New("gradient needs at least one anchor colour"))
	}
	return Gradient{anchors: append([]colorful.Color(nil), anchors...)}, nil
}

// Parse decodes a list of "#RRGGBB" anchors.
func Parse(hex []string) (Gradient, error) {
	anchors := make([]colorful.Color, 0, len(hex))
	for i, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return Gradient{}, fmt.Errorf("anchor %d: %w", i, err)
		}
		anchors = append(anchors, c)
	}
	return New(anchors...)
}

// MustParse is Parse for package-level gradients.
func MustParse(hex ...string) Gradient {
	g, err := Parse(hex)
	if err != nil {
		panic(err)
	}
	return g
}

// Len returns the number of anchors.
func (g Gradient) Len() int {
	return len(g.anchors)
}

// Hex returns the anchors in "#rrggbb" form.
func (g Gradient) Hex() []string {
	out := make([]string, len(g.anchors))
	for i, c := range g.anchors {
		out[i] = c.Clamped().Hex()
	}
	return out
}

// At returns the colour at position t. t is clamped to [0,1].
func (g Gradient) At(t float64) colorful.Color {
	n := len(g.anchors)
	switch {
	case n == 0:
		return colorful.Color{}
	case n == 1:
		return g.anchors[0]
	}

	t = min(max(t, 0), 1)
	pos := t * float64(n-1)
	i := int(pos)
	if i >= n-1 {
		return g.anchors[n-1]
	}
	return g.anchors[i].BlendRgb(g.anchors[i+1], pos-float64(i))
}

// RGB returns the 8-bit channels of At(t), rounded to nearest.
func (g Gradient) RGB(t float64) [3]uint8 {
	r, gr, b := g.At(t).Clamped().RGB255()
	return [3]uint8{r, gr, b}
}
