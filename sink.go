package tiff

import (
	"image"
	"image/color"

	hwyimage "github.com/ajroetker/go-highway/hwy/contrib/image"
)

// Sink receives decoded pixels at absolute destination coordinates.
//
// Decode functions are generic over the sink type, so SetColor is resolved
// at compile time. Concurrent block decodes may share a sink as long as the
// blocks cover disjoint regions; none of the sinks in this package lock.
type Sink interface {
	SetColor(x, y int, c Color)
}

// Buffer is a 2-D pixel buffer of any PixelFormat. It implements Sink and
// image.Image.
type Buffer[P PixelFormat[P]] struct {
	// Pix holds the pixels in row-major order.
	Pix []P
	// Stride is the number of pixels between vertically adjacent pixels.
	Stride int
	// Rect is the buffer's bounds.
	Rect image.Rectangle
}

// NewBuffer allocates a buffer covering r.
func NewBuffer[P PixelFormat[P]](r image.Rectangle) *Buffer[P] {
	return &Buffer[P]{
		Pix:    make([]P, r.Dx()*r.Dy()),
		Stride: r.Dx(),
		Rect:   r,
	}
}

// PixOffset returns the index in Pix of the pixel at (x, y).
func (b *Buffer[P]) PixOffset(x, y int) int {
	return (y-b.Rect.Min.Y)*b.Stride + (x - b.Rect.Min.X)
}

// SetColor implements Sink.
func (b *Buffer[P]) SetColor(x, y int, c Color) {
	var p P
	b.Pix[b.PixOffset(x, y)] = p.FromColor(c)
}

// PixelAt returns the stored pixel at (x, y), or the zero pixel outside
// the bounds.
func (b *Buffer[P]) PixelAt(x, y int) P {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		var zero P
		return zero
	}
	return b.Pix[b.PixOffset(x, y)]
}

func (b *Buffer[P]) At(x, y int) color.Color {
	return b.PixelAt(x, y)
}

func (b *Buffer[P]) Bounds() image.Rectangle {
	return b.Rect
}

func (b *Buffer[P]) ColorModel() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		var p P
		return p.FromColor(colorOf(c))
	})
}

// RGBASink writes into a premultiplied *image.RGBA.
type RGBASink struct {
	*image.RGBA
}

func (s RGBASink) SetColor(x, y int, c Color) {
	i := s.PixOffset(x, y)
	a := clamp01(c.A)
	p := s.Pix[i : i+4 : i+4]
	p[0] = unit8(c.R * a)
	p[1] = unit8(c.G * a)
	p[2] = unit8(c.B * a)
	p[3] = unit8(a)
}

// NRGBA64Sink writes into a non-premultiplied *image.NRGBA64.
type NRGBA64Sink struct {
	*image.NRGBA64
}

func (s NRGBA64Sink) SetColor(x, y int, c Color) {
	i := s.PixOffset(x, y)
	p := s.Pix[i : i+8 : i+8]
	r, g, b, a := unit16(c.R), unit16(c.G), unit16(c.B), unit16(c.A)
	p[0], p[1] = uint8(r>>8), uint8(r)
	p[2], p[3] = uint8(g>>8), uint8(g)
	p[4], p[5] = uint8(b>>8), uint8(b)
	p[6], p[7] = uint8(a>>8), uint8(a)
}

// GraySink writes luminance into an *image.Gray.
type GraySink struct {
	*image.Gray
}

func (s GraySink) SetColor(x, y int, c Color) {
	s.Pix[s.PixOffset(x, y)] = unit8(luma(c))
}

// PlanarSink stores each channel in its own SIMD-aligned float32 plane,
// ready for vectorized post-processing.
type PlanarSink struct {
	R, G, B, A *hwyimage.Image[float32]
	// Min is the destination coordinate of plane element (0, 0).
	Min image.Point
}

// NewPlanarSink allocates planes covering r.
func NewPlanarSink(r image.Rectangle) *PlanarSink {
	w, h := r.Dx(), r.Dy()
	return &PlanarSink{
		R:   hwyimage.NewImage[float32](w, h),
		G:   hwyimage.NewImage[float32](w, h),
		B:   hwyimage.NewImage[float32](w, h),
		A:   hwyimage.NewImage[float32](w, h),
		Min: r.Min,
	}
}

func (s *PlanarSink) SetColor(x, y int, c Color) {
	x -= s.Min.X
	y -= s.Min.Y
	s.R.Set(x, y, c.R)
	s.G.Set(x, y, c.G)
	s.B.Set(x, y, c.B)
	s.A.Set(x, y, c.A)
}

// ColorAt reads the pixel at destination coordinate (x, y).
func (s *PlanarSink) ColorAt(x, y int) Color {
	x -= s.Min.X
	y -= s.Min.Y
	return Color{R: s.R.At(x, y), G: s.G.At(x, y), B: s.B.At(x, y), A: s.A.At(x, y)}
}

func (s *PlanarSink) Bounds() image.Rectangle {
	return image.Rectangle{Min: s.Min, Max: s.Min.Add(image.Pt(s.R.Width(), s.R.Height()))}
}
