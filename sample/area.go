package sample

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandel_zoom"
)

// DefaultTileSize is the edge length of the square tiles handed to workers.
const DefaultTileSize = 64

type options struct {
	workers  int
	tileW    int
	tileH    int
	offset   Offset
	progress func(done, total int)
	logger   *slog.Logger
}

// Option configures Area.
type Option func(*options)

// WithWorkers sets the number of goroutines sampling tiles. Values below 2
// select the sequential scan. Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithTileSize sets the tile dimensions used by the parallel sampler.
func WithTileSize(w, h int) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.tileW, o.tileH = w, h
		}
	}
}

// WithOffset selects the supersample offset convention.
func WithOffset(off Offset) Option {
	return func(o *options) { o.offset = off }
}

// WithProgress installs a callback receiving the number of finished
// pixels. Calls are serialized.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) { o.progress = fn }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func defaultOptions() options {
	return options{
		workers: 1,
		tileW:   DefaultTileSize,
		tileH:   DefaultTileSize,
		offset:  OffsetCorner,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// plane maps pixel indices to points of the complex plane.
type plane struct {
	realStart, imagStart float64
	delta                float64
}

func newPlane(r mandel.Region) plane {
	re, im := r.Extent()
	return plane{
		realStart: r.Center.Re - re*0.5,
		imagStart: r.Center.Im - im*0.5,
		delta:     r.Scale / float64(max(r.Width-1, 1)),
	}
}

func (p plane) point(x, y int) mandel.Point {
	return mandel.Point{
		Re: p.realStart + p.delta*float64(x),
		Im: p.imagStart + p.delta*float64(y),
	}
}

// ValidateParams checks the sampling parameters that are not part of the
// region itself.
func ValidateParams(maxIters uint16, subdivisions uint8) error {
	if maxIters == 0 {
		return mandel.InvalidConfig("sample.validate", errors.New("max iterations must be at least 1"))
	}
	if subdivisions == 0 {
		return mandel.InvalidConfig("sample.validate", errors.New("supersampling power must be at least 1"))
	}
	return nil
}

// Area samples every pixel of region and returns the grid of escape counts.
// Adjacent pixels are delta = Scale/max(Width-1, 1) apart on both axes and
// the sampled area is centered on region.Center. The result does not
// depend on the number of workers.
func Area(ctx context.Context, region mandel.Region, maxIters uint16, subdivisions uint8, opts ...Option) (*IterationGrid, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateParams(maxIters, subdivisions); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	grid := NewIterationGrid(region.Width, region.Height)
	p := newPlane(region)

	var err error
	if o.workers < 2 {
		err = sampleSequential(ctx, grid, p, maxIters, subdivisions, o)
	} else {
		err = sampleTiled(ctx, grid, p, maxIters, subdivisions, o)
	}
	if err != nil {
		return nil, &mandel.OpError{Op: "sample.area", Kind: mandel.KindCanceled, Err: err}
	}
	return grid, nil
}

// AreaAt is Area for a bare center, scale and [width, height] resolution,
// sampled sequentially.
func AreaAt(re, im, scale float64, res [2]int, maxIters uint16, subdivisions uint8) (*IterationGrid, error) {
	r := mandel.Region{Center: mandel.Point{Re: re, Im: im}, Scale: scale, Width: res[0], Height: res[1]}
	return Area(context.Background(), r, maxIters, subdivisions)
}

// sampleSequential scans pixels in row-major order, x varying fastest.
func sampleSequential(ctx context.Context, grid *IterationGrid, p plane, maxIters uint16, subdivisions uint8, o options) error {
	w, h := grid.Width, grid.Height
	total := w * h
	for n := range total {
		xi := n % w
		yi := n / w

		if xi == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		grid.Set(xi, yi, Supersample(p.point(xi, yi), maxIters, p.delta, subdivisions, o.offset))

		if xi == w-1 && o.progress != nil {
			o.progress(n+1, total)
		}
	}
	return nil
}

// sampleTiled distributes tiles over o.workers goroutines. Every tile
// covers disjoint cells of grid, so workers write without locking.
func sampleTiled(ctx context.Context, grid *IterationGrid, p plane, maxIters uint16, subdivisions uint8, o options) error {
	bounds := image.Rect(0, 0, grid.Width, grid.Height)
	scheduler := newTileScheduler(bounds, o.tileW, o.tileH, o.progress)

	g, gctx := errgroup.WithContext(ctx)
	for w := range o.workers {
		g.Go(func() error {
			tiles := 0
			defer func() { o.logger.Debug("sample worker done", "worker", w, "tiles", tiles) }()

			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				tile, found := scheduler.popTile()
				if !found {
					return nil
				}
				sampleTile(grid, p, tile, maxIters, subdivisions, o.offset)
				scheduler.tileFinished(tile)
				tiles++
			}
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sampled %.0f%%: %w", scheduler.finished()*100, err)
	}
	return nil
}

func sampleTile(grid *IterationGrid, p plane, tile image.Rectangle, maxIters uint16, subdivisions uint8, offset Offset) {
	for yi := tile.Min.Y; yi < tile.Max.Y; yi++ {
		for xi := tile.Min.X; xi < tile.Max.X; xi++ {
			grid.Set(xi, yi, Supersample(p.point(xi, yi), maxIters, p.delta, subdivisions, offset))
		}
	}
}
