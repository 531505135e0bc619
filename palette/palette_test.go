package palette

import (
	"errors"
	"math"
	"testing"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/sample"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in      string
		want    [3]uint8
		wantErr bool
	}{
		{"#000000", [3]uint8{0, 0, 0}, false},
		{"#FFFFFF", [3]uint8{255, 255, 255}, false},
		{"#ff8000", [3]uint8{255, 128, 0}, false},
		{"12abEF", [3]uint8{0x12, 0xab, 0xef}, false},
		{"#fff", [3]uint8{}, true},
		{"#12345", [3]uint8{}, true},
		{"#1234567", [3]uint8{}, true},
		{"#gg0000", [3]uint8{}, true},
		{"", [3]uint8{}, true},
	}
	for _, c := range cases {
		col, err := ParseHex(c.in)
		if c.wantErr {
			if !errors.Is(err, mandel.ErrInvalidConfig) {
				t.Fatalf("ParseHex(%q): expected invalid config, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", c.in, err)
		}
		r, g, b := col.RGB255()
		if got := [3]uint8{r, g, b}; got != c.want {
			t.Fatalf("ParseHex(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseHexNormalizesTo255(t *testing.T) {
	c, err := ParseHex("#ff0080")
	if err != nil {
		t.Fatal(err)
	}
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !near(c.R, 1) || !near(c.G, 0) || !near(c.B, 128.0/255.0) {
		t.Fatalf("unexpected channels %+v", c)
	}
}

func TestParseRejectsBadAnchor(t *testing.T) {
	_, err := Parse([]string{"#000000", "#zzzzzz"})
	if !mandel.IsKind(err, mandel.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
	if _, err := Parse(nil); !errors.Is(err, mandel.ErrInvalidConfig) {
		t.Fatalf("expected empty gradient to fail, got %v", err)
	}
}

func TestGradientAt(t *testing.T) {
	g := MustParse("#000000", "#ffffff", "#ff0000")
	cases := []struct {
		t    float64
		want [3]uint8
	}{
		{0, [3]uint8{0, 0, 0}},
		{0.25, [3]uint8{128, 128, 128}},
		{0.5, [3]uint8{255, 255, 255}},
		{0.75, [3]uint8{255, 128, 128}},
		{1, [3]uint8{255, 0, 0}},
		{-1, [3]uint8{0, 0, 0}},
		{2, [3]uint8{255, 0, 0}},
	}
	for _, c := range cases {
		if got := g.RGB(c.t); got != c.want {
			t.Fatalf("RGB(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestGradientHexRoundTrip(t *testing.T) {
	in := []string{"#102030", "#a0b0c0"}
	g := MustParse(in...)
	out := g.Hex()
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("Hex()[%d] = %q, want %q", i, out[i], in[i])
		}
	}
}

func TestNamed(t *testing.T) {
	for _, name := range Names() {
		g, err := Named(name)
		if err != nil {
			t.Fatalf("Named(%q): %v", name, err)
		}
		if g.Len() < 2 {
			t.Fatalf("Named(%q) has %d anchors", name, g.Len())
		}
	}
	if _, err := Named("nope"); !mandel.IsKind(err, mandel.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func gridOf(w, h int, counts ...uint16) *sample.IterationGrid {
	g := sample.NewIterationGrid(w, h)
	copy(g.Counts, counts)
	return g
}

func TestColorizeSingleAnchorIsConstant(t *testing.T) {
	grid := gridOf(3, 2, 0, 1, 5, 9, 10, 3)
	cg, err := ColorizeHex(grid, []string{"#336699"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := [3]uint8{0x33, 0x66, 0x99}
	for x := range 3 {
		for y := range 2 {
			if got := cg.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestColorizeKeepsLayout(t *testing.T) {
	grid := sample.NewIterationGrid(2, 3)
	grid.Set(1, 2, 100)
	grid.Set(0, 1, 50)

	cg, err := Colorize(grid, 100, MustParse("#000000", "#ffffff"))
	if err != nil {
		t.Fatal(err)
	}
	if cg.Width != 2 || cg.Height != 3 {
		t.Fatalf("shape %dx%d", cg.Width, cg.Height)
	}
	if got := cg.At(1, 2); got != [3]uint8{255, 255, 255} {
		t.Fatalf("max count colour = %v", got)
	}
	if got := cg.At(0, 1); got != [3]uint8{128, 128, 128} {
		t.Fatalf("half count colour = %v", got)
	}
	if got := cg.At(0, 0); got != [3]uint8{0, 0, 0} {
		t.Fatalf("zero count colour = %v", got)
	}
}

func TestColorizeClampsOutOfRangeCounts(t *testing.T) {
	cg, err := Colorize(gridOf(1, 1, 500), 10, MustParse("#000000", "#ffffff"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cg.At(0, 0); got != [3]uint8{255, 255, 255} {
		t.Fatalf("got %v", got)
	}
}

func TestColorizeErrors(t *testing.T) {
	grid := gridOf(1, 1, 0)
	if _, err := Colorize(grid, 0, MustParse("#000000")); !errors.Is(err, mandel.ErrInvalidConfig) {
		t.Fatalf("zero max iterations: %v", err)
	}
	if _, err := Colorize(grid, 10, Gradient{}); !errors.Is(err, mandel.ErrInvalidConfig) {
		t.Fatalf("empty gradient: %v", err)
	}
	if _, err := ColorizeHex(grid, []string{"#00000"}, 10); !errors.Is(err, mandel.ErrInvalidConfig) {
		t.Fatalf("malformed hex: %v", err)
	}
}
