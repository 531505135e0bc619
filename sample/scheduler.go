package sample

import (
	"image"
	"sync"
)

// tileScheduler hands out tiles of one image to concurrently running
// workers and keeps track of how many pixels are finished.
type tileScheduler struct {
	totalPixels    int
	finishedPixels int

	unstarted []image.Rectangle
	inProcess map[image.Rectangle]struct{}
	onFinish  func(done, total int)
	m         sync.Mutex
}

func newTileScheduler(bounds image.Rectangle, tileW, tileH int, onFinish func(done, total int)) *tileScheduler {
	return &tileScheduler{
		totalPixels: bounds.Dx() * bounds.Dy(),
		unstarted:   splitRectNoClip(bounds, tileW, tileH),
		inProcess:   make(map[image.Rectangle]struct{}),
		onFinish:    onFinish,
	}
}

// popTile takes the next unstarted tile, in scan order.
func (ts *tileScheduler) popTile() (tile image.Rectangle, found bool) {
	ts.m.Lock()
	defer ts.m.Unlock()

	if len(ts.unstarted) == 0 {
		return image.Rectangle{}, false
	}
	tile = ts.unstarted[0]
	ts.unstarted = ts.unstarted[1:]

	// Move popped tile to currently processed tiles
	ts.inProcess[tile] = struct{}{}
	return tile, true
}

// tileFinished marks a popped tile as done. The progress callback runs
// under the scheduler lock, so reported counts never go backwards.
func (ts *tileScheduler) tileFinished(tile image.Rectangle) {
	ts.m.Lock()
	defer ts.m.Unlock()

	if _, found := ts.inProcess[tile]; !found {
		return
	}
	delete(ts.inProcess, tile)
	ts.finishedPixels += tile.Dx() * tile.Dy()

	if ts.onFinish != nil {
		ts.onFinish(ts.finishedPixels, ts.totalPixels)
	}
}

func (ts *tileScheduler) finished() float32 {
	ts.m.Lock()
	defer ts.m.Unlock()
	if ts.totalPixels == 0 {
		return 1
	}
	return float32(ts.finishedPixels) / float32(ts.totalPixels)
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := min(tileH, h-oy)

		for ox := 0; ox < w; ox += tileW {
			tw := min(tileW, w-ox)

			tiles = append(tiles, image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			))
		}
	}

	return tiles
}
