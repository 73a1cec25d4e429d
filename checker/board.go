// Package checker colors pixels with a checkerboard pattern, optionally
// warped by a circle inversion centred on the board.
package checker

import (
	"fmt"
	"math"

	"mathart/palette"
	"mathart/raster"
	"mathart/rgba"
)

// Epsilon keeps the inversion finite at the exact centre of the board.
const Epsilon = 1e-12

// Board holds the geometry of a checkerboard. It has no mutable state.
type Board struct {
	width    int
	height   int
	cellSize float64
	radius   float64
}

// New returns a board of width×height pixels with square cells of cellSize
// pixels. radius is the circle inversion radius; 0 maps every pixel to the
// centre.
func New(width, height int, cellSize, radius float64) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: board size %dx%d", raster.ErrConfig, width, height)
	}
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		return nil, fmt.Errorf("%w: cell size %v", raster.ErrConfig, cellSize)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: inversion radius %v", raster.ErrConfig, radius)
	}
	return &Board{
		width:    width,
		height:   height,
		cellSize: cellSize,
		radius:   radius,
	}, nil
}

func (b *Board) Width() int        { return b.width }
func (b *Board) Height() int       { return b.height }
func (b *Board) CellSize() float64 { return b.cellSize }
func (b *Board) Radius() float64   { return b.radius }

// Center is the point subtracted from a pixel before inversion.
func (b *Board) Center() raster.Pixel {
	return raster.Pixel{
		X: float64(b.width)/2 - 0.5,
		Y: float64(b.height)/2 - 0.5,
	}
}

// CellColor returns the checkerboard rule: the primary color when
// floor(x/cellSize)+floor(y/cellSize) is even, the secondary when odd.
// Floored division keeps the pattern periodic across negative coordinates.
func (b *Board) CellColor(pair palette.Pair) raster.ColorFunc {
	return func(p raster.Pixel) rgba.Color {
		c := p.Transform(func(t float64) float64 { return math.Floor(t / b.cellSize) })
		if math.Mod(c.X+c.Y, 2) == 0 {
			return pair.Primary
		}
		return pair.Secondary
	}
}

// Invert recentres p on the board and applies circle inversion of the
// board's radius. The result is in centred coordinates.
func (b *Board) Invert(p raster.Pixel) raster.Pixel {
	centred := p.Sub(b.Center())
	factor := b.radius * b.radius / (centred.X*centred.X + centred.Y*centred.Y + Epsilon)
	return centred.Transform(func(t float64) float64 { return t * factor })
}

// InvertedCellColor colors each pixel by the cell its inverted position
// falls in.
func (b *Board) InvertedCellColor(pair palette.Pair) raster.ColorFunc {
	cell := b.CellColor(pair)
	return func(p raster.Pixel) rgba.Color {
		return cell(b.Invert(p))
	}
}

// Render draws the plain checkerboard.
func (b *Board) Render(pair palette.Pair, workers int) (*raster.Image, error) {
	return raster.NewParallel(b.width, b.height, b.CellColor(pair), workers)
}

// RenderInverted draws the inverted checkerboard.
func (b *Board) RenderInverted(pair palette.Pair, workers int) (*raster.Image, error) {
	return raster.NewParallel(b.width, b.height, b.InvertedCellColor(pair), workers)
}
