package tiff

import (
	"fmt"
	"image"
)

// DecodeBlock decodes the samples of one strip or tile into pixels.
//
// data holds one buffer per sample for PlanarConfigSeparate, or a single
// interleaved buffer for PlanarConfigContig. Each row of each buffer starts
// on a byte boundary. block is the destination region; samples are consumed
// row by row, left to right.
//
// The format and buffers are validated once, then the strategy for the
// photometric interpretation runs without further checks. When pixels
// reports its bounds, block must lie inside them.
func DecodeBlock[S Sink](f *Format, data [][]byte, pixels S, block image.Rectangle) error {
	if err := f.Validate(data, block); err != nil {
		return err
	}
	if err := checkBounds(pixels, block); err != nil {
		return err
	}
	if block.Empty() {
		return nil
	}
	return decodeBlock(f, data, pixels, block)
}

func checkBounds[S Sink](pixels S, block image.Rectangle) error {
	b, ok := any(pixels).(interface{ Bounds() image.Rectangle })
	if !ok || block.In(b.Bounds()) {
		return nil
	}
	return fmt.Errorf("block %v, destination %v: %w", block, b.Bounds(), ErrBlockOutOfBounds)
}

// decodeBlock selects the strategy once for the block. Its only failure is
// a malformed palette, which Validate has already ruled out.
func decodeBlock[S Sink](f *Format, data [][]byte, pixels S, block image.Rectangle) error {
	left, top, width, height := block.Min.X, block.Min.Y, block.Dx(), block.Dy()
	bps := f.BitsPerSample
	alpha := f.alphaChannel()

	switch f.Photometric {
	case PhotometricWhiteIsZero, PhotometricBlackIsZero:
		m := newGrayModel(bps[0], f.Photometric == PhotometricWhiteIsZero, alpha)
		runModel(f, m, data, pixels, left, top, width, height)
	case PhotometricRGB:
		runModel(f, newRGBModel(bps, alpha), data, pixels, left, top, width, height)
	case PhotometricPalette:
		colors, err := f.palette()
		if err != nil {
			return err
		}
		runModel(f, paletteModel{colors: colors, alpha: alpha}, data, pixels, left, top, width, height)
	case PhotometricSeparated:
		runModel(f, newCMYKModel(bps, alpha), data, pixels, left, top, width, height)
	case PhotometricYCbCr:
		decodeYCbCr(f, data, pixels, left, top, width, height)
	case PhotometricCIELab:
		runModel(f, newLabModel(bps, f.whitePoint(), alpha), data, pixels, left, top, width, height)
	default:
		return fmt.Errorf("%v: %w", f.Photometric, ErrUnsupportedPhotometric)
	}
	return nil
}

func runModel[S Sink, M colorModel](f *Format, m M, data [][]byte, pixels S, left, top, width, height int) {
	if f.planar() == PlanarConfigSeparate {
		decodePlanar(m, data, f.BitsPerSample, pixels, left, top, width, height)
		return
	}
	decodeChunky(m, data[0], f.BitsPerSample, pixels, left, top, width, height)
}

// DecodeRGBPlanar decodes planar RGB: data holds the red, green and blue
// planes, each with its own bit depth. Samples beyond the third are read
// and ignored.
//
// Like every Decode* strategy it does not validate its input; buffers too
// short for the block geometry cause a panic.
func DecodeRGBPlanar[S Sink](data [][]byte, bitsPerSample []uint16, pixels S, left, top, width, height int) {
	decodePlanar(newRGBModel(bitsPerSample, opaque), data, bitsPerSample, pixels, left, top, width, height)
}

// DecodeRGB decodes interleaved RGB samples from a single buffer.
func DecodeRGB[S Sink](data []byte, bitsPerSample []uint16, pixels S, left, top, width, height int) {
	decodeChunky(newRGBModel(bitsPerSample, opaque), data, bitsPerSample, pixels, left, top, width, height)
}

// DecodeBlackIsZero decodes grayscale where 0 is black.
func DecodeBlackIsZero[S Sink](data []byte, bitsPerSample uint16, pixels S, left, top, width, height int) {
	bps := []uint16{bitsPerSample}
	decodeChunky(newGrayModel(bitsPerSample, false, opaque), data, bps, pixels, left, top, width, height)
}

// DecodeWhiteIsZero decodes grayscale where 0 is white, as used by
// bi-level fax images.
func DecodeWhiteIsZero[S Sink](data []byte, bitsPerSample uint16, pixels S, left, top, width, height int) {
	bps := []uint16{bitsPerSample}
	decodeChunky(newGrayModel(bitsPerSample, true, opaque), data, bps, pixels, left, top, width, height)
}

// DecodePalette decodes palette indices of bitsPerSample bits. palette
// must hold at least 2^bitsPerSample colors.
func DecodePalette[S Sink](data []byte, bitsPerSample uint16, palette []Color, pixels S, left, top, width, height int) {
	bps := []uint16{bitsPerSample}
	decodeChunky(paletteModel{colors: palette, alpha: opaque}, data, bps, pixels, left, top, width, height)
}

// NewPalette expands a TIFF ColorMap into colors. The map holds 2^bits
// red values, then as many green values, then blue, each 16 bits.
func NewPalette(colorMap []uint16, bitsPerSample uint16) ([]Color, error) {
	if bitsPerSample == 0 || bitsPerSample > 16 {
		return nil, fmt.Errorf("palette index of %d bits: %w", bitsPerSample, ErrInvalidBitDepth)
	}
	n := 1 << bitsPerSample
	if len(colorMap) != 3*n {
		return nil, fmt.Errorf("color map has %d entries, want %d: %w", len(colorMap), 3*n, ErrInvalidColorMap)
	}

	colors := make([]Color, n)
	for i := range colors {
		colors[i] = Color{
			R: float32(colorMap[i]) / 0xffff,
			G: float32(colorMap[n+i]) / 0xffff,
			B: float32(colorMap[2*n+i]) / 0xffff,
			A: 1,
		}
	}
	return colors, nil
}
