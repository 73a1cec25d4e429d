package render

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mathart/palette"
	"mathart/raster"
)

// labelShare is the fraction of the image width a label may span.
const labelShare = 4

// drawLabel writes text in the bottom left corner of img, primary on
// secondary. The text is set in a bitmap font and scaled up with nearest
// neighbour sampling so that it stays crisp.
func drawLabel(img *raster.Image, text string, pair palette.Pair) {
	face := basicfont.Face7x13
	m := face.Metrics()
	const pad = 2

	w := font.MeasureString(face, text).Ceil() + 2*pad
	h := m.Height.Ceil() + 2*pad
	small := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.NewUniform(pair.Secondary), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(pair.Primary),
		Face: face,
		Dot:  fixed.P(pad, pad+m.Ascent.Ceil()),
	}
	d.DrawString(text)

	scale := max(1, img.Width()/(labelShare*w))
	dst := img.NRGBA()
	b := dst.Bounds()
	margin := scale * pad
	r := image.Rect(b.Min.X+margin, b.Max.Y-margin-h*scale, b.Min.X+margin+w*scale, b.Max.Y-margin)
	draw.NearestNeighbor.Scale(dst, r, small, small.Bounds(), draw.Src, nil)
}
