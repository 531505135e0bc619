package render

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/raster"
)

// Frame is one rendered step of a zoom.
type Frame struct {
	Index  int
	Label  string // Index zero-padded to the width of the last index
	Region mandel.Region
	Buffer *raster.PixelBuffer
}

// Sequence renders Frames frames starting at Region, multiplying the scale
// by Decay after every frame. Decay below 1 zooms in.
type Sequence struct {
	Renderer *Renderer
	Region   mandel.Region
	Frames   int
	Decay    float64
}

// Validate checks the sequence parameters, the start region and the renderer.
func (s *Sequence) Validate() error {
	if s.Renderer == nil {
		return mandel.InvalidConfig("sequence.validate", errors.New("no renderer"))
	}
	if s.Frames < 1 {
		return mandel.InvalidConfig("sequence.validate", fmt.Errorf("frame count must be at least 1, got %d", s.Frames))
	}
	if math.IsNaN(s.Decay) || math.IsInf(s.Decay, 0) || s.Decay <= 0 {
		return mandel.InvalidConfig("sequence.validate", fmt.Errorf("decay rate must be positive and finite, got %v", s.Decay))
	}
	if err := s.Region.Validate(); err != nil {
		return err
	}
	return s.Renderer.Validate()
}

// Padding is the number of digits of the last frame index, at least 1.
func Padding(frames int) int {
	return len(strconv.Itoa(max(frames-1, 0)))
}

// Label zero-pads index to padding digits.
func Label(index, padding int) string {
	return fmt.Sprintf("%0*d", padding, index)
}

// Scales lists the scale of every frame without rendering anything.
func (s *Sequence) Scales() []float64 {
	out := make([]float64, 0, max(s.Frames, 0))
	scale := s.Region.Scale
	for range s.Frames {
		out = append(out, scale)
		scale *= s.Decay
	}
	return out
}

// All yields the frames in index order, rendering each one only when it is
// requested. The first error ends the sequence. Breaking out of the loop
// stops rendering.
func (s *Sequence) All(ctx context.Context) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		if err := s.Validate(); err != nil {
			yield(Frame{}, err)
			return
		}

		padding := Padding(s.Frames)
		scale := s.Region.Scale
		for n := range s.Frames {
			if err := ctx.Err(); err != nil {
				yield(Frame{}, &mandel.OpError{Op: "sequence.frame", Kind: mandel.KindCanceled, Err: err})
				return
			}

			region := s.Region.WithScale(scale)
			if err := region.Validate(); err != nil {
				yield(Frame{}, fmt.Errorf("frame %d: %w", n, err))
				return
			}

			buf, err := s.Renderer.Render(ctx, region)
			if err != nil {
				yield(Frame{}, fmt.Errorf("frame %d: %w", n, err))
				return
			}

			frame := Frame{Index: n, Label: Label(n, padding), Region: region, Buffer: buf}
			if !yield(frame, nil) {
				return
			}
			scale *= s.Decay
		}
	}
}
