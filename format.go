package tiff

import (
	"fmt"
	"image"
)

// Format describes how the samples of an image are laid out and how they
// map to color. It carries the values of the relevant TIFF tags as decoded
// by the container parser. Zero values select the TIFF defaults.
type Format struct {
	Photometric Photometric
	// Planar is the PlanarConfiguration; zero means PlanarConfigContig.
	Planar PlanarConfig
	// BitsPerSample has one entry per sample, SamplesPerPixel in total.
	BitsPerSample []uint16
	// ExtraSamples describes the samples beyond those required by the
	// photometric interpretation. Missing entries are unspecified.
	ExtraSamples []ExtraSample

	// ColorMap is the TIFF ColorMap tag for PhotometricPalette.
	ColorMap []uint16
	// Palette overrides ColorMap with pre-expanded colors, avoiding a
	// palette build per block.
	Palette []Color

	// YCbCrCoefficients are LumaRed, LumaGreen, LumaBlue; zero means
	// the Rec. 601 values 0.299, 0.587, 0.114.
	YCbCrCoefficients [3]float32
	// YCbCrSubsampling is horizontal, vertical; zero means 2, 2 as in
	// the TIFF default. Only PlanarConfigContig may be subsampled.
	YCbCrSubsampling [2]int
	// ReferenceBlackWhite has six values: black and white reference for
	// Y, Cb and Cr. Nil selects the full-range default.
	ReferenceBlackWhite []float32

	// WhitePoint is the reference white of CIELab data; zero means D65.
	WhitePoint Chromaticity
}

func (f *Format) planar() PlanarConfig {
	if f.Planar == 0 {
		return PlanarConfigContig
	}
	return f.Planar
}

func (f *Format) subsampling() (h, v int) {
	h, v = f.YCbCrSubsampling[0], f.YCbCrSubsampling[1]
	if h == 0 {
		h = 2
	}
	if v == 0 {
		v = 2
	}
	return h, v
}

func (f *Format) whitePoint() Chromaticity {
	if f.WhitePoint == (Chromaticity{}) {
		return D65
	}
	return f.WhitePoint
}

// alphaChannel finds the first alpha among the extra samples.
func (f *Format) alphaChannel() alphaChannel {
	base := f.Photometric.baseSamples()
	for i, e := range f.ExtraSamples {
		idx := base + i
		if idx >= len(f.BitsPerSample) {
			break
		}
		switch e {
		case ExtraSampleAssociatedAlpha, ExtraSampleUnassocAlpha:
			return alphaChannel{
				index:      idx,
				associated: e == ExtraSampleAssociatedAlpha,
				max:        sampleMax(f.BitsPerSample[idx]),
			}
		}
	}
	return opaque
}

// palette returns the palette colors, expanding ColorMap if needed.
func (f *Format) palette() ([]Color, error) {
	if f.Palette != nil {
		return f.Palette, nil
	}
	return NewPalette(f.ColorMap, f.BitsPerSample[0])
}

// rowBytes returns the byte length of a row of width samples of bits each,
// padded to a byte boundary.
func rowBytes(width, bits int) int {
	return (width*bits + 7) / 8
}

// BlockBytes returns the number of bytes channel buffer ch must hold for a
// block of the given size. For PlanarConfigContig there is one buffer and
// ch must be 0.
func (f *Format) BlockBytes(ch int, width, height int) int {
	if f.planar() == PlanarConfigSeparate {
		return rowBytes(width, int(f.BitsPerSample[ch])) * height
	}

	if f.Photometric == PhotometricYCbCr {
		if h, v := f.subsampling(); h != 1 || v != 1 {
			bps := f.BitsPerSample
			unitBits := h*v*int(bps[0]) + int(bps[1]) + int(bps[2])
			unitsX := (width + h - 1) / h
			unitsY := (height + v - 1) / v
			return rowBytes(unitsX, unitBits) * unitsY
		}
	}

	pixelBits := 0
	for _, b := range f.BitsPerSample {
		pixelBits += int(b)
	}
	return rowBytes(width, pixelBits) * height
}

// Validate checks that data can be decoded into block with this format.
// Decoding itself does no checking, so callers that skip Validate must
// guarantee the same conditions.
func (f *Format) Validate(data [][]byte, block image.Rectangle) error {
	if block.Dx() < 0 || block.Dy() < 0 {
		return fmt.Errorf("block %v: %w", block, ErrInvalidBlock)
	}

	base := f.Photometric.baseSamples()
	if base == 0 {
		return fmt.Errorf("%v: %w", f.Photometric, ErrUnsupportedPhotometric)
	}

	n := len(f.BitsPerSample)
	if n < base || n > maxSamples {
		return fmt.Errorf("%v with %d samples per pixel: %w", f.Photometric, n, ErrInvalidSampleCount)
	}
	for i, b := range f.BitsPerSample {
		if b == 0 || b > 32 {
			return fmt.Errorf("sample %d has %d bits: %w", i, b, ErrInvalidBitDepth)
		}
	}

	if err := f.validatePhotometric(); err != nil {
		return err
	}

	switch f.planar() {
	case PlanarConfigContig:
		if len(data) != 1 {
			return fmt.Errorf("contiguous layout with %d buffers: %w", len(data), ErrChannelMismatch)
		}
	case PlanarConfigSeparate:
		if len(data) != n {
			return fmt.Errorf("planar layout with %d buffers for %d samples: %w", len(data), n, ErrChannelMismatch)
		}
	default:
		return fmt.Errorf("%v: %w", f.Planar, ErrUnsupportedFormat)
	}

	for ch, buf := range data {
		need := f.BlockBytes(ch, block.Dx(), block.Dy())
		if len(buf) < need {
			return fmt.Errorf("channel %d needs %d bytes, has %d: %w", ch, need, len(buf), ErrBufferTooSmall)
		}
	}
	return nil
}

func (f *Format) validatePhotometric() error {
	bps := f.BitsPerSample
	switch f.Photometric {
	case PhotometricPalette:
		if bps[0] > 16 {
			return fmt.Errorf("palette index of %d bits: %w", bps[0], ErrInvalidBitDepth)
		}
		if f.Palette != nil {
			if len(f.Palette) < 1<<bps[0] {
				return fmt.Errorf("palette has %d colors for %d-bit indices: %w", len(f.Palette), bps[0], ErrInvalidColorMap)
			}
			return nil
		}
		if want := 3 << bps[0]; len(f.ColorMap) != want {
			return fmt.Errorf("color map has %d entries, want %d: %w", len(f.ColorMap), want, ErrInvalidColorMap)
		}

	case PhotometricYCbCr:
		if len(bps) != 3 {
			return fmt.Errorf("YCbCr with %d samples per pixel: %w", len(bps), ErrInvalidSampleCount)
		}
		if bps[1] < 2 || bps[2] < 2 {
			return fmt.Errorf("YCbCr chroma of %d/%d bits: %w", bps[1], bps[2], ErrInvalidBitDepth)
		}
		h, v := f.subsampling()
		if !validSubsampling(h) || !validSubsampling(v) {
			return fmt.Errorf("YCbCr subsampling %dx%d: %w", h, v, ErrUnsupportedFormat)
		}
		if f.planar() == PlanarConfigSeparate && (h != 1 || v != 1) {
			return fmt.Errorf("subsampled planar YCbCr: %w", ErrUnsupportedFormat)
		}
		if f.ReferenceBlackWhite != nil && len(f.ReferenceBlackWhite) != 6 {
			return fmt.Errorf("ReferenceBlackWhite has %d values, want 6: %w", len(f.ReferenceBlackWhite), ErrUnsupportedFormat)
		}

	case PhotometricCIELab:
		if bps[0] != bps[1] || bps[1] != bps[2] || (bps[0] != 8 && bps[0] != 16) {
			return fmt.Errorf("CIELab with %v bits: %w", bps[:3], ErrInvalidBitDepth)
		}
	}
	return nil
}

func validSubsampling(s int) bool {
	return s == 1 || s == 2 || s == 4
}
