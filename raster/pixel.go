package raster

import (
	"fmt"
	"math"
)

// Pixel is a 2D coordinate. Buffer addresses are whole numbers; transforms
// may produce fractional or out of range values, which are floored when the
// pixel is used for a lookup.
type Pixel struct {
	X, Y float64
}

// Pt is a convenience constructor for integer coordinates.
func Pt(x, y int) Pixel { return Pixel{float64(x), float64(y)} }

// Transform applies f to both coordinates.
func (p Pixel) Transform(f func(float64) float64) Pixel {
	return Pixel{f(p.X), f(p.Y)}
}

// TransformXY applies fx to X and fy to Y.
func (p Pixel) TransformXY(fx, fy func(float64) float64) Pixel {
	return Pixel{fx(p.X), fy(p.Y)}
}

// Add returns the component-wise sum.
func (p Pixel) Add(o Pixel) Pixel { return Pixel{p.X + o.X, p.Y + o.Y} }

// Sub returns the component-wise difference.
func (p Pixel) Sub(o Pixel) Pixel { return Pixel{p.X - o.X, p.Y - o.Y} }

// Floor truncates both coordinates towards negative infinity.
func (p Pixel) Floor() (x, y int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
