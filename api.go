package mandel

import (
	"context"
	"image"
)

// Renderer turns a region into a finished image.
type Renderer interface {
	RenderRegion(ctx context.Context, r Region) (image.Image, error)
}

// FrameProvider hands out encoded frames of a running zoom, in order.
// Next returns io.EOF once the last frame was delivered.
type FrameProvider interface {
	Next(ctx context.Context) (index int, label string, encoded []byte, err error)
}
