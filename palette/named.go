package palette

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	mandel "github.com/marben/mandel_zoom"
)

var named = map[string]Gradient{
	"grey":  MustParse("#000000", "#ffffff"),
	"fire":  MustParse("#000000", "#5c0a00", "#d43d00", "#ffb000", "#ffffe0"),
	"ocean": MustParse("#00071e", "#0c2c8a", "#3a8fd1", "#d3ecf8", "#ffffff"),
	// Wikipedia style ramp, ends in black for points inside the set.
	"classic": MustParse(
		"#421e0f", "#19071a", "#09012f", "#040449",
		"#000764", "#0c2c8a", "#1852b1", "#397dd1",
		"#86b5e5", "#d3ecf8", "#f1e9bf", "#f8c95f",
		"#ffaa00", "#cc8000", "#995700", "#000000",
	),
	"rainbow": hsvRing(7),
}

// hsvRing spreads n fully saturated hues from red to magenta and ends in
// black.
func hsvRing(n int) Gradient {
	anchors := make([]colorful.Color, 0, n+1)
	for i := range n {
		anchors = append(anchors, colorful.Hsv(300*float64(i)/float64(n-1), 1, 1))
	}
	anchors = append(anchors, colorful.Color{})
	g, _ := New(anchors...)
	return g
}

// Named returns a built-in gradient.
func Named(name string) (Gradient, error) {
	g, ok := named[name]
	if !ok {
		return Gradient{}, &mandel.OpError{Op: "palette.named", Kind: mandel.KindNotFound, Err: fmt.Errorf("%w: gradient %q", mandel.ErrNotFound, name)}
	}
	return g, nil
}

// Names lists the built-in gradients.
func Names() []string {
	out := make([]string, 0, len(named))
	for name := range named {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
