package mandel

import (
	"fmt"
	"math"
	"sort"
)

// Point is a coordinate in the complex plane.
type Point struct {
	Re, Im float64
}

// Region within the Mandelbrot set, given by its center, the width of the
// sampled area in the complex plane and the output resolution in pixels.
// The vertical extent follows from the aspect ratio of the resolution.
type Region struct {
	Center        Point
	Scale         float64
	Width, Height int
}

// AspectRatio is Width/Height of the output resolution.
func (r Region) AspectRatio() float64 {
	return float64(r.Width) / float64(r.Height)
}

// Extent returns the real and imaginary size of the sampled area.
func (r Region) Extent() (re, im float64) {
	return r.Scale, r.Scale / r.AspectRatio()
}

// WithScale returns a copy of r with a different scale.
func (r Region) WithScale(scale float64) Region {
	r.Scale = scale
	return r
}

// MaxDimension bounds Width and Height of a region, keeping Width*Height
// well inside int on every platform.
const MaxDimension = 1 << 15

// Validate reports zero or negative scale and empty or oversized
// resolutions.
func (r Region) Validate() error {
	switch {
	case math.IsNaN(r.Scale) || math.IsInf(r.Scale, 0) || r.Scale <= 0:
		return invalidConfig("region.validate", fmt.Errorf("scale must be positive and finite, got %v", r.Scale))
	case math.IsNaN(r.Center.Re) || math.IsInf(r.Center.Re, 0) || math.IsNaN(r.Center.Im) || math.IsInf(r.Center.Im, 0):
		return invalidConfig("region.validate", fmt.Errorf("center must be finite, got %v", r.Center))
	case r.Width < 1 || r.Height < 1:
		return invalidConfig("region.validate", fmt.Errorf("resolution must be at least 1x1, got %dx%d", r.Width, r.Height))
	case r.Width > MaxDimension || r.Height > MaxDimension:
		return invalidConfig("region.validate", fmt.Errorf("resolution %dx%d exceeds %d pixels per side", r.Width, r.Height, MaxDimension))
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("center=(%g,%g) scale=%g %dx%d", r.Center.Re, r.Center.Im, r.Scale, r.Width, r.Height)
}

// Landmark is a named, well known place in the Mandelbrot set.
// Landmarks carry no resolution; use At to obtain a renderable Region.
type Landmark struct {
	Name        string
	Description string
	Center      Point
	Scale       float64
}

// At returns a Region of the landmark rendered at w x h pixels.
func (l Landmark) At(w, h int) Region {
	return Region{Center: l.Center, Scale: l.Scale, Width: w, Height: h}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Whole set, the usual starting view
	FullSet = Landmark{
		Name:        "full",
		Description: "the whole set",
		Center:      Point{Re: -0.5, Im: 0},
		Scale:       3.0,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Landmark{
		Name:        "seahorse",
		Description: "dense filaments and repeating seahorse curls",
		Center:      Point{Re: -0.75, Im: 0.10},
		Scale:       0.1,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Landmark{
		Name:        "elephant",
		Description: "large bulb with trunk-like tendrils",
		Center:      Point{Re: -1.80, Im: -0.06},
		Scale:       0.1,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Landmark{
		Name:        "spiral-minibrot",
		Description: "small Mandelbrot copy with tight spiral arms",
		Center:      Point{Re: -0.74275, Im: 0.13175},
		Scale:       0.0015,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Landmark{
		Name:        "triple-spiral",
		Description: "threefold symmetric spiral structure",
		Center:      Point{Re: -0.7465, Im: 0.0965},
		Scale:       0.003,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Landmark{
		Name:        "dragon",
		Description: "deep, highly detailed spiral filaments",
		Center:      Point{Re: -0.7375, Im: 0.1825},
		Scale:       0.005,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Landmark{
		Name:        "mini-spiral",
		Description: "self-similar Mandelbrot copy inside a spiral arm",
		Center:      Point{Re: -1.73825, Im: -0.02275},
		Scale:       0.0015,
	}
)

var landmarks = map[string]Landmark{}

func init() {
	for _, l := range []Landmark{FullSet, SeahorseValley, ElephantValley, SpiralMinibrot, TripleSpiral, ValleyOfTheDragon, MinibrotInMiniSpiral} {
		landmarks[l.Name] = l
	}
}

// LookupLandmark finds a landmark by name.
func LookupLandmark(name string) (Landmark, error) {
	l, ok := landmarks[name]
	if !ok {
		return Landmark{}, &OpError{Op: "landmark.lookup", Kind: KindNotFound, Err: fmt.Errorf("%w: landmark %q", ErrNotFound, name)}
	}
	return l, nil
}

// Landmarks returns all known landmarks sorted by name.
func Landmarks() []Landmark {
	out := make([]Landmark, 0, len(landmarks))
	for _, l := range landmarks {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
