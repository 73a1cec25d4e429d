// Package encode turns raster images into files.
package encode

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"mathart/raster"
)

type Format string

const (
	PNG    Format = "png"
	BMP    Format = "bmp"
	TIFF   Format = "tiff"
	GIF    Format = "gif"
	JPEG   Format = "jpeg"
	Raw    Format = "raw"
	RawZst Format = "raw.zst"
)

// Formats lists every supported output format.
var Formats = []Format{PNG, BMP, TIFF, GIF, JPEG, Raw, RawZst}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

type Options struct {
	// PNGCompression is used for PNG output.
	PNGCompression png.CompressionLevel
	// JPEGQuality is 1..100, 0 means 100.
	JPEGQuality int
	// Overwrite allows Save to replace existing files.
	Overwrite bool
}

// FileName returns the file name for an image of the given size. Raw
// buffers have no header, so their names carry the dimensions.
func FileName(base string, f Format, width, height int) string {
	switch f {
	case Raw:
		return fmt.Sprintf("%s.%dx%d.rgba", base, width, height)
	case RawZst:
		return fmt.Sprintf("%s.%dx%d.rgba.zst", base, width, height)
	default:
		return fmt.Sprintf("%s.%s", base, f)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img *raster.Image, f Format, opts Options) error {
	src := img.NRGBA()
	switch f {
	case PNG:
		enc := png.Encoder{
			CompressionLevel: opts.PNGCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, src); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case BMP:
		if err := bmp.Encode(w, src); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case TIFF:
		if err := tiff.Encode(w, src, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	case GIF:
		if err := gif.Encode(w, paletted(src), nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case JPEG:
		q := opts.JPEGQuality
		if q <= 0 {
			q = 100
		}
		if err := jpeg.Encode(w, src, &jpeg.Options{Quality: q}); err != nil {
			return fmt.Errorf("could not encode JPEG: %w", err)
		}
	case Raw:
		if err := writeRaw(w, img.Pix()); err != nil {
			return fmt.Errorf("could not write raw buffer: %w", err)
		}
	case RawZst:
		if err := writeRawZstd(w, img.Pix()); err != nil {
			return fmt.Errorf("could not write compressed raw buffer: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
	return nil
}

// paletted converts src to an exact palette when it has at most 256 colors,
// which is always the case for checkerboards. Otherwise it dithers to the
// Plan 9 palette.
func paletted(src *image.NRGBA) *image.Paletted {
	r := src.Bounds()
	pal, ok := exactPalette(src)
	if !ok {
		dst := image.NewPaletted(r, palette.Plan9)
		draw.FloydSteinberg.Draw(dst, r, src, r.Min)
		return dst
	}

	dst := image.NewPaletted(r, pal)
	draw.Draw(dst, r, src, r.Min, draw.Src)
	return dst
}

func exactPalette(src *image.NRGBA) (color.Palette, bool) {
	r := src.Bounds()
	var pal color.Palette
	seen := make(map[color.NRGBA]struct{})
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == 256 {
				return nil, false
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal, true
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
