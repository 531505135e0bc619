package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	mandel "github.com/marben/mandel_zoom"
)

// Format is a lossless image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ParseFormat accepts "png", "bmp" or "tiff" ("tif"), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatBMP, FormatTIFF:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	case "":
		return FormatPNG, nil
	}
	return "", mandel.InvalidConfig("raster.parse_format", fmt.Errorf("unsupported image format %q", s))
}

// Ext is the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	if b, ok := img.(*PixelBuffer); ok {
		img = b.RGBA()
	}

	switch f {
	case FormatPNG, "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("png.Encode: %w", err)
		}
	case FormatBMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("bmp.Encode: %w", err)
		}
	case FormatTIFF:
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("tiff.Encode: %w", err)
		}
	default:
		return mandel.InvalidConfig("raster.encode", fmt.Errorf("unsupported image format %q", f))
	}
	return nil
}

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio. Images that already fit are copied unscaled.
func Thumbnail(img image.Image, maxWidth int) *image.RGBA {
	src := img.Bounds()
	if maxWidth <= 0 || src.Dx() <= maxWidth {
		dst := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
		xdraw.Copy(dst, image.Point{}, img, src, xdraw.Src, nil)
		return dst
	}

	h := max(src.Dy()*maxWidth/src.Dx(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst
}
