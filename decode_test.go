package tiff

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colorNear(a, b Color, tol float32) bool {
	near := func(x, y float32) bool { return math.Abs(float64(x-y)) <= float64(tol) }
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
}

func TestDecodeRGBPlanar(t *testing.T) {
	data := [][]byte{
		{0xFF, 0x00},
		{0x00, 0xFF},
		{0x80, 0x00},
	}
	buf := NewBuffer[Color](image.Rect(0, 0, 2, 1))
	DecodeRGBPlanar(data, []uint16{8, 8, 8}, buf, 0, 0, 2, 1)

	want := []Color{
		{R: 1, G: 0, B: 0.502, A: 1},
		{R: 0, G: 1, B: 0, A: 1},
	}
	for x, w := range want {
		assertColor(t, w, buf.PixelAt(x, 0), 0.001)
	}
}

func TestDecodeRGBPlanarOneBit(t *testing.T) {
	data := [][]byte{{0b10110010}, {0x00}, {0xFF}}
	buf := NewBuffer[Color](image.Rect(0, 0, 8, 1))
	DecodeRGBPlanar(data, []uint16{1, 1, 1}, buf, 0, 0, 8, 1)

	wantRed := []float32{1, 0, 1, 1, 0, 0, 1, 0}
	for x, r := range wantRed {
		assert.Equal(t, Color{R: r, G: 0, B: 1, A: 1}, buf.PixelAt(x, 0), "pixel %d", x)
	}
}

func TestDecodeRGBChunky(t *testing.T) {
	// 5-6-5 packing; row of 3 pixels is 48 bits, no padding.
	var w samplePacker
	w.WriteBits(31, 5)
	w.WriteBits(0, 6)
	w.WriteBits(0, 5)
	w.WriteBits(0, 5)
	w.WriteBits(63, 6)
	w.WriteBits(0, 5)
	w.WriteBits(0, 5)
	w.WriteBits(0, 6)
	w.WriteBits(31, 5)

	buf := NewBuffer[Color](image.Rect(0, 0, 3, 1))
	DecodeRGB(w.Bytes(), []uint16{5, 6, 5}, buf, 0, 0, 3, 1)

	assert.Equal(t, []Color{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}}, buf.Pix)
}

func TestNormalizationBounds(t *testing.T) {
	for _, bits := range []uint16{1, 2, 3, 4, 5, 7, 8, 10, 12, 15, 16, 24, 32} {
		t.Run(fmt.Sprintf("%dbit", bits), func(t *testing.T) {
			var w samplePacker
			w.WriteBits(0, int(bits))
			w.WriteBits(uint32(1<<bits-1), int(bits))
			w.WriteBits(uint32(1<<(bits-1)), int(bits))

			buf := NewBuffer[Color](image.Rect(0, 0, 3, 1))
			DecodeBlackIsZero(w.Bytes(), bits, buf, 0, 0, 3, 1)

			assert.Equal(t, float32(0), buf.PixelAt(0, 0).R, "zero sample")
			assert.Equal(t, float32(1), buf.PixelAt(1, 0).R, "max sample")
			mid := buf.PixelAt(2, 0).R
			assert.GreaterOrEqual(t, mid, float32(0), "mid sample")
			assert.LessOrEqual(t, mid, float32(1), "mid sample")
		})
	}
}

func TestDecodeWhiteIsZero(t *testing.T) {
	buf := NewBuffer[Color](image.Rect(0, 0, 3, 2))
	// 3 one-bit pixels per row, each row padded to a byte.
	data := []byte{0b10100000, 0b01000000}
	DecodeWhiteIsZero(data, 1, buf, 0, 0, 3, 2)

	want := [2][3]float32{{0, 1, 0}, {1, 0, 1}}
	for y := range 2 {
		for x := range 3 {
			assert.Equal(t, want[y][x], buf.PixelAt(x, y).G, "(%d,%d)", x, y)
		}
	}
}

func TestDecodeRowPadding(t *testing.T) {
	// Three 3-bit samples use 9 bits; each row occupies 2 bytes.
	img := rawImage{w: 3, h: 2, px: [][]uint32{{1}, {7}, {3}, {6}, {0}, {5}}}
	bps := []uint16{3}
	data := packChunky(img, bps)
	require.Len(t, data, 4)

	buf := NewBuffer[Color](image.Rect(0, 0, 3, 2))
	DecodeBlackIsZero(data, 3, buf, 0, 0, 3, 2)
	for i, px := range img.px {
		assert.Equal(t, float32(px[0])/7, buf.PixelAt(i%3, i/3).R, "pixel %d", i)
	}
}

func TestDecodePlanarChunkyEquivalence(t *testing.T) {
	tests := []struct {
		photometric Photometric
		bps         []uint16
		extra       []ExtraSample
	}{
		{PhotometricRGB, []uint16{8, 8, 8}, nil},
		{PhotometricRGB, []uint16{5, 6, 5}, nil},
		{PhotometricRGB, []uint16{16, 16, 16}, nil},
		{PhotometricRGB, []uint16{1, 2, 3}, nil},
		{PhotometricRGB, []uint16{12, 12, 12, 12}, []ExtraSample{ExtraSampleUnassocAlpha}},
		{PhotometricRGB, []uint16{8, 8, 8, 8}, []ExtraSample{ExtraSampleAssociatedAlpha}},
		{PhotometricBlackIsZero, []uint16{4, 4}, []ExtraSample{ExtraSampleUnassocAlpha}},
		{PhotometricSeparated, []uint16{8, 8, 8, 8}, nil},
		{PhotometricCIELab, []uint16{8, 8, 8}, nil},
		{PhotometricYCbCr, []uint16{8, 8, 8}, nil},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v%v", tt.photometric, tt.bps), func(t *testing.T) {
			const w, h = 13, 5
			img := randomRawImage(rng, w, h, tt.bps)
			block := image.Rect(0, 0, w, h)

			chunky := &Format{
				Photometric:      tt.photometric,
				Planar:           PlanarConfigContig,
				BitsPerSample:    tt.bps,
				ExtraSamples:     tt.extra,
				YCbCrSubsampling: [2]int{1, 1},
			}
			planar := *chunky
			planar.Planar = PlanarConfigSeparate

			a := NewBuffer[Color](block)
			b := NewBuffer[Color](block)
			require.NoError(t, DecodeBlock(chunky, [][]byte{packChunky(img, tt.bps)}, a, block), "chunky")
			require.NoError(t, DecodeBlock(&planar, packPlanar(img, tt.bps), b, block), "planar")
			assert.Equal(t, a.Pix, b.Pix)
		})
	}
}

func TestDecodeBlockOffset(t *testing.T) {
	dst := NewBuffer[RGBA32](image.Rect(0, 0, 6, 6))
	f := &Format{Photometric: PhotometricBlackIsZero, BitsPerSample: []uint16{8}}
	block := image.Rect(2, 3, 4, 5)
	data := [][]byte{{10, 20, 30, 40}}

	require.NoError(t, DecodeBlock(f, data, dst, block))
	for y := range 6 {
		for x := range 6 {
			got := dst.PixelAt(x, y)
			if !image.Pt(x, y).In(block) {
				assert.Equal(t, RGBA32{}, got, "(%d,%d) written outside block", x, y)
				continue
			}
			v := data[0][(y-3)*2+(x-2)]
			assert.Equal(t, RGBA32{v, v, v, 0xff}, got, "(%d,%d)", x, y)
		}
	}
}

func TestDecodePalette(t *testing.T) {
	colorMap := []uint16{
		0xffff, 0, 0, 0x8000, // red
		0, 0xffff, 0, 0x8000, // green
		0, 0, 0xffff, 0x8000, // blue
	}
	palette, err := NewPalette(colorMap, 2)
	require.NoError(t, err)

	// Indices 0, 1, 2, 3 packed 2 bits each.
	data := []byte{0b00011011}
	buf := NewBuffer[Color](image.Rect(0, 0, 4, 1))
	DecodePalette(data, 2, palette, buf, 0, 0, 4, 1)

	half := float32(0x8000) / 0xffff
	assert.Equal(t, []Color{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}, {half, half, half, 1}}, buf.Pix)

	// The same through DecodeBlock and the ColorMap tag.
	f := &Format{Photometric: PhotometricPalette, BitsPerSample: []uint16{2}, ColorMap: colorMap}
	viaBlock := NewBuffer[Color](image.Rect(0, 0, 4, 1))
	require.NoError(t, DecodeBlock(f, [][]byte{data}, viaBlock, viaBlock.Rect))
	assert.Equal(t, buf.Pix, viaBlock.Pix)
}

func TestNewPaletteErrors(t *testing.T) {
	tests := []struct {
		name     string
		colorMap []uint16
		bits     uint16
		want     error
	}{
		{"zero bits", nil, 0, ErrInvalidBitDepth},
		{"too many bits", nil, 17, ErrInvalidBitDepth},
		{"short map", make([]uint16, 5), 1, ErrInvalidColorMap},
		{"long map", make([]uint16, 7), 1, ErrInvalidColorMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPalette(tt.colorMap, tt.bits)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeCMYK(t *testing.T) {
	f := &Format{Photometric: PhotometricSeparated, BitsPerSample: []uint16{8, 8, 8, 8}}
	data := []byte{
		0xff, 0, 0, 0, // cyan
		0, 0xff, 0, 0, // magenta
		0, 0, 0xff, 0, // yellow
		0, 0, 0, 0xff, // black
		0, 0, 0, 0, // paper
	}
	buf := NewBuffer[Color](image.Rect(0, 0, 5, 1))
	require.NoError(t, DecodeBlock(f, [][]byte{data}, buf, buf.Rect))

	want := []Color{{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 0, 1}, {0, 0, 0, 1}, {1, 1, 1, 1}}
	assert.Equal(t, want, buf.Pix)
}

func TestDecodeAlpha(t *testing.T) {
	half := float32(0x80) / 0xff
	tests := []struct {
		name  string
		extra ExtraSample
		px    []byte
		want  Color
	}{
		{"unassociated", ExtraSampleUnassocAlpha, []byte{0x80, 0, 0xff, 0x80}, Color{half, 0, 1, half}},
		{"associated", ExtraSampleAssociatedAlpha, []byte{0x80, 0, 0x40, 0x80}, Color{1, 0, float32(0x40) / 0x80, half}},
		{"associated clamps", ExtraSampleAssociatedAlpha, []byte{0xff, 0, 0, 0x80}, Color{1, 0, 0, half}},
		{"associated transparent", ExtraSampleAssociatedAlpha, []byte{0x20, 0x20, 0x20, 0}, Color{}},
		{"unspecified is ignored", ExtraSampleUnspecified, []byte{0, 0xff, 0, 0x10}, Color{0, 1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Format{
				Photometric:   PhotometricRGB,
				BitsPerSample: []uint16{8, 8, 8, 8},
				ExtraSamples:  []ExtraSample{tt.extra},
			}
			buf := NewBuffer[Color](image.Rect(0, 0, 1, 1))
			require.NoError(t, DecodeBlock(f, [][]byte{tt.px}, buf, buf.Rect))
			assertColor(t, tt.want, buf.PixelAt(0, 0), 1e-6)
		})
	}
}

func TestDecodeBlockErrors(t *testing.T) {
	rgb := &Format{Photometric: PhotometricRGB, BitsPerSample: []uint16{8, 8, 8}}
	dst := NewBuffer[RGBA32](image.Rect(0, 0, 4, 4))

	tests := []struct {
		name  string
		f     *Format
		data  [][]byte
		block image.Rectangle
		want  error
	}{
		{"mask", &Format{Photometric: PhotometricMask, BitsPerSample: []uint16{1}}, [][]byte{{0}}, image.Rect(0, 0, 1, 1), ErrUnsupportedPhotometric},
		{"outside destination", rgb, [][]byte{make([]byte, 3*4)}, image.Rect(3, 3, 5, 5), ErrBlockOutOfBounds},
		{"short buffer", rgb, [][]byte{make([]byte, 5)}, image.Rect(0, 0, 2, 1), ErrBufferTooSmall},
		{"planar buffer count", &Format{Photometric: PhotometricRGB, Planar: PlanarConfigSeparate, BitsPerSample: []uint16{8, 8, 8}}, [][]byte{{0}, {0}}, image.Rect(0, 0, 1, 1), ErrChannelMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, DecodeBlock(tt.f, tt.data, dst, tt.block), tt.want)
		})
	}
}

func TestDecodeBlockEmpty(t *testing.T) {
	f := &Format{Photometric: PhotometricRGB, BitsPerSample: []uint16{8, 8, 8}}
	dst := NewBuffer[RGBA32](image.Rect(0, 0, 2, 2))
	assert.NoError(t, DecodeBlock(f, [][]byte{nil}, dst, image.Rect(1, 1, 1, 2)))
}

func TestDecodeStrategyPanicsOnShortData(t *testing.T) {
	buf := NewBuffer[Color](image.Rect(0, 0, 4, 1))
	assert.Panics(t, func() {
		DecodeRGB([]byte{1, 2, 3}, []uint16{8, 8, 8}, buf, 0, 0, 4, 1)
	}, "reading past the buffer")
}

// TestDecodeBlockAllocs checks that decoding a block allocates nothing once
// the format is prepared and the YCbCr plane pool is warm.
func TestDecodeBlockAllocs(t *testing.T) {
	const w, h = 16, 16
	palette, err := NewPalette(make([]uint16, 3*16), 4)
	require.NoError(t, err)
	rec709 := [3]float32{0.2126, 0.7152, 0.0722}

	tests := []struct {
		name string
		f    Format
	}{
		{"rgb planar 565", Format{Photometric: PhotometricRGB, Planar: PlanarConfigSeparate, BitsPerSample: []uint16{5, 6, 5}}},
		{"rgb planar 888", Format{Photometric: PhotometricRGB, Planar: PlanarConfigSeparate, BitsPerSample: []uint16{8, 8, 8}}},
		{"rgb chunky", Format{Photometric: PhotometricRGB, BitsPerSample: []uint16{8, 8, 8}}},
		{"rgba associated", Format{Photometric: PhotometricRGB, BitsPerSample: []uint16{8, 8, 8, 8}, ExtraSamples: []ExtraSample{ExtraSampleAssociatedAlpha}}},
		{"gray", Format{Photometric: PhotometricBlackIsZero, BitsPerSample: []uint16{4}}},
		{"bilevel", Format{Photometric: PhotometricWhiteIsZero, BitsPerSample: []uint16{1}}},
		{"palette", Format{Photometric: PhotometricPalette, BitsPerSample: []uint16{4}, Palette: palette}},
		{"cmyk", Format{Photometric: PhotometricSeparated, BitsPerSample: []uint16{8, 8, 8, 8}}},
		{"ycbcr default", Format{Photometric: PhotometricYCbCr, BitsPerSample: []uint16{8, 8, 8}, YCbCrSubsampling: [2]int{1, 1}}},
		{"ycbcr custom", Format{Photometric: PhotometricYCbCr, BitsPerSample: []uint16{8, 8, 8}, YCbCrSubsampling: [2]int{1, 1}, YCbCrCoefficients: rec709}},
		{"ycbcr subsampled", Format{Photometric: PhotometricYCbCr, BitsPerSample: []uint16{8, 8, 8}}},
		{"lab", Format{Photometric: PhotometricCIELab, BitsPerSample: []uint16{8, 8, 8}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &tt.f
			data := make([][]byte, 1)
			if f.planar() == PlanarConfigSeparate {
				data = make([][]byte, len(f.BitsPerSample))
			}
			for i := range data {
				data[i] = make([]byte, f.BlockBytes(i, w, h))
			}
			dst := NewBuffer[RGBA32](image.Rect(0, 0, w, h))

			// Fills the plane pool before measuring.
			require.NoError(t, DecodeBlock(f, data, dst, dst.Rect))
			allocs := testing.AllocsPerRun(50, func() {
				_ = DecodeBlock(f, data, dst, dst.Rect)
			})
			assert.Zero(t, allocs, "allocations per block")
		})
	}
}

func TestDecodeStrategyAllocs(t *testing.T) {
	const w, h = 16, 16
	rgb := []uint16{5, 6, 5}
	planes := [][]byte{make([]byte, 2*w*h), make([]byte, w*h), make([]byte, w*h)}
	chunky := make([]byte, 2*w*h)
	palette := make([]Color, 256)
	dst := NewBuffer[RGBA32](image.Rect(0, 0, w, h))

	tests := map[string]func(){
		"planar rgb": func() { DecodeRGBPlanar(planes, rgb, dst, 0, 0, w, h) },
		"chunky rgb": func() { DecodeRGB(chunky, rgb, dst, 0, 0, w, h) },
		"gray":       func() { DecodeBlackIsZero(chunky, 8, dst, 0, 0, w, h) },
		"bilevel":    func() { DecodeWhiteIsZero(chunky, 1, dst, 0, 0, w, h) },
		"palette":    func() { DecodePalette(chunky, 8, palette, dst, 0, 0, w, h) },
	}
	for name, decode := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Zero(t, testing.AllocsPerRun(50, decode), "allocations per block")
		})
	}
}
