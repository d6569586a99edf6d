package tiff

import "math/rand/v2"

// samplePacker writes samples MSB-first, the inverse of BitReader.
// Rows are padded to a byte boundary with ByteAlign.
type samplePacker struct {
	buf     []byte
	curByte byte
	bitPos  uint // bits written in curByte (0-7)
}

func (w *samplePacker) WriteBit(bit int) {
	if bit != 0 {
		w.curByte |= 1 << (7 - w.bitPos)
	}
	w.bitPos++
	if w.bitPos == 8 {
		w.flushByte()
	}
}

func (w *samplePacker) flushByte() {
	w.buf = append(w.buf, w.curByte)
	w.curByte = 0
	w.bitPos = 0
}

// WriteBits writes the low n bits of val, MSB first.
func (w *samplePacker) WriteBits(val uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(int((val >> uint(i)) & 1))
	}
}

// ByteAlign pads with zero bits to the next byte boundary.
func (w *samplePacker) ByteAlign() {
	for w.bitPos != 0 {
		w.WriteBit(0)
	}
}

// Bytes pads the trailing partial byte and returns the packed data.
func (w *samplePacker) Bytes() []byte {
	w.ByteAlign()
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

// rawImage holds raw samples, px[y*w+x][channel].
type rawImage struct {
	w, h int
	px   [][]uint32
}

func randomRawImage(rng *rand.Rand, w, h int, bitsPerSample []uint16) rawImage {
	img := rawImage{w: w, h: h, px: make([][]uint32, w*h)}
	for i := range img.px {
		img.px[i] = make([]uint32, len(bitsPerSample))
		for c, bits := range bitsPerSample {
			img.px[i][c] = uint32(rng.Uint64() & (1<<bits - 1))
		}
	}
	return img
}

func packChunky(img rawImage, bitsPerSample []uint16) []byte {
	var w samplePacker
	for y := range img.h {
		for x := range img.w {
			for c, bits := range bitsPerSample {
				w.WriteBits(img.px[y*img.w+x][c], int(bits))
			}
		}
		w.ByteAlign()
	}
	return w.Bytes()
}

func packPlanar(img rawImage, bitsPerSample []uint16) [][]byte {
	planes := make([][]byte, len(bitsPerSample))
	for c, bits := range bitsPerSample {
		var w samplePacker
		for y := range img.h {
			for x := range img.w {
				w.WriteBits(img.px[y*img.w+x][c], int(bits))
			}
			w.ByteAlign()
		}
		planes[c] = w.Bytes()
	}
	return planes
}
