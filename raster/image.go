package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"iter"
	"math"
	"runtime"
	"sync"

	"mathart/rgba"
)

var (
	// ErrBounds is returned when a pixel lies outside [0,width)×[0,height).
	ErrBounds = errors.New("pixel out of bounds")
	// ErrConfig is returned for non-positive dimensions.
	ErrConfig = errors.New("invalid configuration")
)

// bytes per pixel: r, g, b, a
const bpp = 4

// ColorFunc computes the color of a pixel. It must be pure: NewParallel calls
// it from several goroutines.
type ColorFunc func(Pixel) rgba.Color

// Image is a row-major RGBA buffer. The pixel at (x, y) starts at
// Pix[(y*Width + x)*4].
type Image struct {
	width  int
	height int
	pix    []uint8
}

var _ image.Image = (*Image)(nil)

func alloc(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrConfig, width, height)
	}
	if width > math.MaxInt/bpp/height {
		return nil, fmt.Errorf("%w: image size %dx%d overflows", ErrConfig, width, height)
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*bpp),
	}, nil
}

// New allocates a width×height image and stores fn(p) for every pixel in
// row-major order.
func New(width, height int, fn ColorFunc) (*Image, error) {
	img, err := alloc(width, height)
	if err != nil {
		return nil, err
	}
	img.Fill(fn)
	return img, nil
}

// NewBlank returns a white image.
func NewBlank(width, height int) (*Image, error) {
	return New(width, height, func(Pixel) rgba.Color { return rgba.White })
}

// NewParallel is New with rows distributed over workers goroutines. Each
// pixel slot is written exactly once so no locking is needed.
func NewParallel(width, height int, fn ColorFunc, workers int) (*Image, error) {
	img, err := alloc(width, height)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, height)

	rows := make(chan int, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for y := range rows {
				for p := range img.Row(y) {
					img.put(p, fn(p))
				}
			}
		})
	}
	for y := range height {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return img, nil
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Fill stores fn(p) for every pixel in row-major order.
func (img *Image) Fill(fn ColorFunc) {
	for p := range img.All() {
		img.put(p, fn(p))
	}
}

// All yields every pixel in row-major order, from (0, 0) to
// (Width-1, Height-1). Each call starts over; colors may be changed while
// iterating.
func (img *Image) All() iter.Seq[Pixel] {
	width, height := img.width, img.height
	return func(yield func(Pixel) bool) {
		for y := range height {
			for x := range width {
				if !yield(Pt(x, y)) {
					return
				}
			}
		}
	}
}

// Row yields the pixels of row y from left to right. It yields nothing when
// y is out of range.
func (img *Image) Row(y int) iter.Seq[Pixel] {
	width, height := img.width, img.height
	return func(yield func(Pixel) bool) {
		if y < 0 || y >= height {
			return
		}
		for x := range width {
			if !yield(Pt(x, y)) {
				return
			}
		}
	}
}

// offset returns the index of p in pix, or ErrBounds.
func (img *Image) offset(p Pixel) (int, error) {
	// NaN fails every comparison.
	if !(p.X >= 0 && p.X < float64(img.width) && p.Y >= 0 && p.Y < float64(img.height)) {
		return 0, fmt.Errorf("%w: %v not in %dx%d", ErrBounds, p, img.width, img.height)
	}
	x, y := p.Floor()
	return (y*img.width + x) * bpp, nil
}

// put writes c at p, which the caller guarantees to be in bounds.
func (img *Image) put(p Pixel, c rgba.Color) {
	i := (int(p.Y)*img.width + int(p.X)) * bpp
	s := img.pix[i : i+bpp : i+bpp]
	s[0], s[1], s[2], s[3] = c.R(), c.G(), c.B(), c.A()
}

// Get returns the color at p.
func (img *Image) Get(p Pixel) (rgba.Color, error) {
	i, err := img.offset(p)
	if err != nil {
		return rgba.Color{}, err
	}
	s := img.pix[i : i+bpp : i+bpp]
	return rgba.New(int(s[0]), int(s[1]), int(s[2]), int(s[3])), nil
}

// Set stores c at p.
func (img *Image) Set(p Pixel, c rgba.Color) error {
	i, err := img.offset(p)
	if err != nil {
		return err
	}
	s := img.pix[i : i+bpp : i+bpp]
	s[0], s[1], s[2], s[3] = c.R(), c.G(), c.B(), c.A()
	return nil
}

// Pix returns the underlying buffer: Width*Height*4 bytes, R, G, B, A per
// pixel, rows top to bottom, no padding. The slice is shared with the image.
func (img *Image) Pix() []uint8 {
	return img.pix
}

// NRGBA returns a view of the image sharing its buffer.
func (img *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.pix,
		Stride: img.width * bpp,
		Rect:   image.Rect(0, 0, img.width, img.height),
	}
}

// ColorModel implements image.Image.
func (img *Image) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.width, img.height) }

// At implements image.Image. Out of range coordinates are transparent.
func (img *Image) At(x, y int) color.Color {
	c, err := img.Get(Pt(x, y))
	if err != nil {
		return color.NRGBA{}
	}
	return c.NRGBA()
}
