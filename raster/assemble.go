// Package raster turns colour grids into row-major pixel buffers and
// encodes them as image files.
package raster

import (
	"image"
	"image/color"

	"github.com/marben/mandel_zoom/palette"
)

// PixelBuffer is an RGB image of shape (Rows, Cols, 3) stored row-major.
// It implements image.Image.
type PixelBuffer struct {
	Rows, Cols int
	Pix        []uint8
}

var _ image.Image = (*PixelBuffer)(nil)

// NewPixelBuffer allocates a black buffer.
func NewPixelBuffer(rows, cols int) *PixelBuffer {
	return &PixelBuffer{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols*3)}
}

// Assemble transposes a [x][y] colour grid into a [row][col] buffer with
// row = y and col = x. Encoders expect this layout; skipping the transpose
// yields a mirrored, rotated image.
func Assemble(colors *palette.ColorGrid) *PixelBuffer {
	w, h := colors.Width, colors.Height
	buf := NewPixelBuffer(h, w)

	for n := range w * h {
		xi := n % w
		yi := n / w
		src := (xi*h + yi) * 3
		dst := (yi*w + xi) * 3
		copy(buf.Pix[dst:dst+3], colors.Pix[src:src+3])
	}
	return buf
}

// Pixel returns the channels at row, col.
func (b *PixelBuffer) Pixel(row, col int) [3]uint8 {
	i := (row*b.Cols + col) * 3
	return [3]uint8{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

func (b *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }

func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Cols, b.Rows) }

func (b *PixelBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(b.Bounds())) {
		return color.RGBA{}
	}
	p := b.Pixel(y, x)
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
}

// RGBA copies the buffer into an opaque *image.RGBA.
func (b *PixelBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	for i := range b.Rows * b.Cols {
		copy(img.Pix[i*4:i*4+3], b.Pix[i*3:i*3+3])
		img.Pix[i*4+3] = 255
	}
	return img
}
