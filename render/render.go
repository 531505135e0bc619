// Package render runs the sampling and colouring pipeline for single
// regions and for zoom sequences.
package render

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/palette"
	"github.com/marben/mandel_zoom/raster"
	"github.com/marben/mandel_zoom/sample"
)

// Renderer samples, colours and assembles one region at a time.
type Renderer struct {
	MaxIters     uint16
	Subdivisions uint8
	Gradient     palette.Gradient
	Offset       sample.Offset

	// Workers is the number of sampling goroutines; 0 or 1 scans sequentially.
	Workers int
	// OnProgress, if set, receives finished/total pixels of the current frame.
	OnProgress func(done, total int)
	Logger     *slog.Logger
}

var _ mandel.Renderer = (*Renderer)(nil)

func (r *Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Validate checks everything but the region.
func (r *Renderer) Validate() error {
	if err := sample.ValidateParams(r.MaxIters, r.Subdivisions); err != nil {
		return err
	}
	if r.Gradient.Len() == 0 {
		return mandel.InvalidConfig("render.validate", errors.New("gradient needs at least one anchor colour"))
	}
	return nil
}

// Render produces the pixel buffer of region.
func (r *Renderer) Render(ctx context.Context, region mandel.Region) (*raster.PixelBuffer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	opts := []sample.Option{
		sample.WithOffset(r.Offset),
		sample.WithLogger(r.Logger),
	}
	if r.Workers > 1 {
		opts = append(opts, sample.WithWorkers(r.Workers))
	}
	if r.OnProgress != nil {
		opts = append(opts, sample.WithProgress(r.OnProgress))
	}

	grid, err := sample.Area(ctx, region, r.MaxIters, r.Subdivisions, opts...)
	if err != nil {
		return nil, err
	}
	sampled := time.Since(start)

	colors, err := palette.Colorize(grid, r.MaxIters, r.Gradient)
	if err != nil {
		return nil, err
	}
	buf := raster.Assemble(colors)

	r.logger().Debug("region rendered",
		"region", region.String(),
		"sample", sampled,
		"total", time.Since(start),
	)
	return buf, nil
}

// RenderRegion implements mandel.Renderer.
func (r *Renderer) RenderRegion(ctx context.Context, region mandel.Region) (image.Image, error) {
	buf, err := r.Render(ctx, region)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
