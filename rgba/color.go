package rgba

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrFormat is returned for malformed hexadecimal strings and non-finite
// channel values.
var ErrFormat = errors.New("invalid color format")

// Color is an immutable 8-bit RGBA value. Channels are not premultiplied.
type Color struct {
	r, g, b, a uint8
}

var _ color.Color = Color{}

// New returns a color whose channels are the inputs wrapped modulo 256.
func New(r, g, b, a int) Color {
	return Color{wrap(r), wrap(g), wrap(b), wrap(a)}
}

// Opaque returns a color with full alpha.
func Opaque(r, g, b int) Color {
	return New(r, g, b, 0xFF)
}

// FromFloat floors each channel and wraps it modulo 256. NaN and infinite
// inputs are rejected.
func FromFloat(r, g, b, a float64) (Color, error) {
	var ch [4]int
	for i, v := range [4]float64{r, g, b, a} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Color{}, fmt.Errorf("%w: channel %d is not finite: %v", ErrFormat, i, v)
		}
		ch[i] = int(math.Mod(math.Floor(v), 256))
	}
	return New(ch[0], ch[1], ch[2], ch[3]), nil
}

func wrap(v int) uint8 {
	v %= 256
	if v < 0 {
		v += 256
	}
	return uint8(v)
}

// FromHex parses "RGB", "RRGGBB" or "RRGGBBAA", with or without a leading
// '#'. Omitted alpha is 0xFF.
func FromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		var sb strings.Builder
		for i := range len(hex) {
			sb.WriteByte(hex[i])
			sb.WriteByte(hex[i])
		}
		hex = sb.String() + "FF"
	case 6:
		hex += "FF"
	case 8:
	default:
		return Color{}, fmt.Errorf("%w: %q should be #RGB, #RRGGBB or #RRGGBBAA", ErrFormat, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrFormat, s, err)
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// MustHex is like FromHex but panics on error. It is meant for static data.
func MustHex(s string) Color {
	c, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) R() uint8 { return c.r }
func (c Color) G() uint8 { return c.g }
func (c Color) B() uint8 { return c.b }
func (c Color) A() uint8 { return c.a }

// NRGBA returns the color as a standard library value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.r, G: c.g, B: c.b, A: c.a}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", c.r, c.g, c.b, c.a)
}

// Hex formats the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.r, c.g, c.b, c.a)
}

// HexNoAlpha formats the color as #RRGGBB.
func (c Color) HexNoAlpha() string {
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}
