package tiff

import (
	"image/color"

	"github.com/ajroetker/go-highway/hwy"
)

// Color is a normalized, non-premultiplied color. Components are in [0, 1].
// Decode strategies produce Colors; sinks convert them to their storage
// representation.
type Color struct {
	R, G, B, A float32
}

// PixelFormat is implemented by the concrete pixel types a Buffer can hold.
// FromColor is called on the zero value and must not depend on the receiver.
type PixelFormat[P any] interface {
	color.Color
	FromColor(c Color) P
}

// FromColor returns c unchanged, so Buffer[Color] stores floats.
func (Color) FromColor(c Color) Color {
	return c
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA64{R: unit16(c.R), G: unit16(c.G), B: unit16(c.B), A: unit16(c.A)}.RGBA()
}

// colorOf converts any color.Color to a non-premultiplied Color.
func colorOf(c color.Color) Color {
	if n, ok := c.(Color); ok {
		return n
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	fa := float32(a)
	return Color{R: float32(r) / fa, G: float32(g) / fa, B: float32(b) / fa, A: fa / 0xffff}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unit8(v float32) uint8 {
	return uint8(clamp01(v)*0xff + 0.5)
}

func unit16(v float32) uint16 {
	return uint16(clamp01(v)*0xffff + 0.5)
}

// luma returns the Rec. 601 luminance, matching color.GrayModel.
func luma(c Color) float32 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// RGBA32 is 8 bits per channel, non-premultiplied.
type RGBA32 struct {
	R, G, B, A uint8
}

func (RGBA32) FromColor(c Color) RGBA32 {
	return RGBA32{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func (p RGBA32) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}.RGBA()
}

// RGBA64 is 16 bits per channel, non-premultiplied.
type RGBA64 struct {
	R, G, B, A uint16
}

func (RGBA64) FromColor(c Color) RGBA64 {
	return RGBA64{R: unit16(c.R), G: unit16(c.G), B: unit16(c.B), A: unit16(c.A)}
}

func (p RGBA64) RGBA() (r, g, b, a uint32) {
	return color.NRGBA64{R: p.R, G: p.G, B: p.B, A: p.A}.RGBA()
}

// L8 is 8-bit luminance. Alpha is dropped.
type L8 struct {
	Y uint8
}

func (L8) FromColor(c Color) L8 {
	return L8{Y: unit8(luma(c))}
}

func (p L8) RGBA() (r, g, b, a uint32) {
	return color.Gray{Y: p.Y}.RGBA()
}

// L16 is 16-bit luminance. Alpha is dropped.
type L16 struct {
	Y uint16
}

func (L16) FromColor(c Color) L16 {
	return L16{Y: unit16(luma(c))}
}

func (p L16) RGBA() (r, g, b, a uint32) {
	return color.Gray16{Y: p.Y}.RGBA()
}

// RGBAHalf stores each channel as an IEEE 754 half-precision float.
type RGBAHalf struct {
	R, G, B, A hwy.Float16
}

func (RGBAHalf) FromColor(c Color) RGBAHalf {
	return RGBAHalf{
		R: hwy.Float32ToFloat16(c.R),
		G: hwy.Float32ToFloat16(c.G),
		B: hwy.Float32ToFloat16(c.B),
		A: hwy.Float32ToFloat16(c.A),
	}
}

// Color widens the pixel back to float32.
func (p RGBAHalf) Color() Color {
	return Color{R: p.R.Float32(), G: p.G.Float32(), B: p.B.Float32(), A: p.A.Float32()}
}

func (p RGBAHalf) RGBA() (r, g, b, a uint32) {
	return p.Color().RGBA()
}
