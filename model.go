package tiff

// maxSamples bounds SamplesPerPixel so per-pixel scratch space lives on the
// stack.
const maxSamples = 8

// colorModel turns the raw samples of one pixel into a Color. Each
// photometric interpretation has its own small value type; the decode loops
// are generic over it so the call is resolved at compile time.
//
// raw is passed by value: a pointer handed through the generic call would
// move the loop's scratch array to the heap.
type colorModel interface {
	toColor(raw [maxSamples]uint32) Color
}

// sampleMax returns the largest value representable in bits, 2^bits - 1.
func sampleMax(bits uint16) float32 {
	return float32(uint64(1)<<bits - 1)
}

// signExtend interprets the low bits of v as a two's complement integer.
func signExtend(v uint32, bits uint16) int32 {
	shift := 32 - uint(bits)
	return int32(v<<shift) >> shift
}

// alphaChannel locates the alpha sample among the extra samples.
type alphaChannel struct {
	index      int // sample index, -1 when the pixel is opaque
	associated bool
	max        float32
}

var opaque = alphaChannel{index: -1}

func (a alphaChannel) apply(raw *[maxSamples]uint32, c Color) Color {
	if a.index < 0 {
		return c
	}
	c.A = float32(raw[a.index]) / a.max
	if a.associated {
		if c.A == 0 {
			return Color{}
		}
		c.R = clamp01(c.R / c.A)
		c.G = clamp01(c.G / c.A)
		c.B = clamp01(c.B / c.A)
	}
	return c
}

type grayModel struct {
	max    float32
	invert bool // WhiteIsZero
	alpha  alphaChannel
}

func newGrayModel(bits uint16, invert bool, alpha alphaChannel) grayModel {
	return grayModel{max: sampleMax(bits), invert: invert, alpha: alpha}
}

func (m grayModel) toColor(raw [maxSamples]uint32) Color {
	v := float32(raw[0]) / m.max
	if m.invert {
		v = 1 - v
	}
	return m.alpha.apply(&raw, Color{R: v, G: v, B: v, A: 1})
}

type rgbModel struct {
	max   [3]float32
	alpha alphaChannel
}

func newRGBModel(bitsPerSample []uint16, alpha alphaChannel) rgbModel {
	return rgbModel{
		max: [3]float32{
			sampleMax(bitsPerSample[0]),
			sampleMax(bitsPerSample[1]),
			sampleMax(bitsPerSample[2]),
		},
		alpha: alpha,
	}
}

func (m rgbModel) toColor(raw [maxSamples]uint32) Color {
	c := Color{
		R: float32(raw[0]) / m.max[0],
		G: float32(raw[1]) / m.max[1],
		B: float32(raw[2]) / m.max[2],
		A: 1,
	}
	return m.alpha.apply(&raw, c)
}

type paletteModel struct {
	colors []Color
	alpha  alphaChannel
}

func (m paletteModel) toColor(raw [maxSamples]uint32) Color {
	return m.alpha.apply(&raw, m.colors[raw[0]])
}

// cmykModel implements Separated with the CMYK ink set. Ink amounts are
// subtractive: full ink is black.
type cmykModel struct {
	max   [4]float32
	alpha alphaChannel
}

func newCMYKModel(bitsPerSample []uint16, alpha alphaChannel) cmykModel {
	var m cmykModel
	for i := range m.max {
		m.max[i] = sampleMax(bitsPerSample[i])
	}
	m.alpha = alpha
	return m
}

func (m cmykModel) toColor(raw [maxSamples]uint32) Color {
	k := 1 - float32(raw[3])/m.max[3]
	c := Color{
		R: (1 - float32(raw[0])/m.max[0]) * k,
		G: (1 - float32(raw[1])/m.max[1]) * k,
		B: (1 - float32(raw[2])/m.max[2]) * k,
		A: 1,
	}
	return m.alpha.apply(&raw, c)
}

// decodeChunky decodes a block whose samples are interleaved in one buffer.
// Rows are byte aligned, so the reader advances once per row.
func decodeChunky[S Sink, M colorModel](m M, data []byte, bitsPerSample []uint16, pixels S, left, top, width, height int) {
	var raw [maxSamples]uint32
	n := len(bitsPerSample)
	r := NewBitReader(data)

	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			for c := range n {
				raw[c] = r.ReadBits(uint(bitsPerSample[c]))
			}
			pixels.SetColor(x, y, m.toColor(raw))
		}
		r.NextRow()
	}
}

// decodePlanar decodes a block with one buffer per sample. Each plane has
// its own row alignment, so every reader advances after each row.
func decodePlanar[S Sink, M colorModel](m M, data [][]byte, bitsPerSample []uint16, pixels S, left, top, width, height int) {
	var raw [maxSamples]uint32
	var readers [maxSamples]BitReader
	n := len(bitsPerSample)
	for c := range n {
		readers[c].Reset(data[c])
	}

	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			for c := range n {
				raw[c] = readers[c].ReadBits(uint(bitsPerSample[c]))
			}
			pixels.SetColor(x, y, m.toColor(raw))
		}
		for c := range n {
			readers[c].NextRow()
		}
	}
}
