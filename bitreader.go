package tiff

// BitReader reads unsigned samples of arbitrary bit width from a row-padded
// sample buffer. Bits are read in MSB-first order (most significant bit
// first), which is how TIFF packs samples narrower than a byte.
//
// Each row starts on a byte boundary; NextRow skips the pad bits at the end
// of the current row. The reader borrows data and never copies it.
//
// Reads are unchecked beyond the Go bounds check: callers size the buffer
// for the block geometry up front (see Format.Validate), and reading past
// the end panics.
type BitReader struct {
	data     []byte
	rowStart int // byte offset of the current row
	bitPos   int // bits consumed in the current row
}

// NewBitReader creates a reader positioned at the first bit of data.
func NewBitReader(data []byte) BitReader {
	return BitReader{data: data}
}

// Reset repositions the reader at the start of data.
func (r *BitReader) Reset(data []byte) {
	r.data = data
	r.rowStart = 0
	r.bitPos = 0
}

// ReadBits reads the next n bits (0 < n <= 32), MSB first, and returns them
// right-aligned. The result is in [0, 2^n-1].
func (r *BitReader) ReadBits(n uint) uint32 {
	// Fast path: whole byte at a byte boundary covers 8-bit samples.
	if n == 8 && r.bitPos&7 == 0 {
		v := uint32(r.data[r.rowStart+r.bitPos>>3])
		r.bitPos += 8
		return v
	}

	var result uint32
	for n > 0 {
		b := r.data[r.rowStart+r.bitPos>>3]
		used := uint(r.bitPos & 7)
		avail := 8 - used
		take := min(avail, n)

		bits := (uint32(b) >> (avail - take)) & (1<<take - 1)
		result = result<<take | bits

		r.bitPos += int(take)
		n -= take
	}
	return result
}

// NextRow moves to the first bit of the next row, discarding any pad bits
// left in the current byte.
func (r *BitReader) NextRow() {
	r.rowStart += (r.bitPos + 7) >> 3
	r.bitPos = 0
}

// Offset returns the byte offset of the byte holding the next bit.
func (r *BitReader) Offset() int {
	return r.rowStart + r.bitPos>>3
}

// BitOffset returns the number of bits consumed in the current row.
func (r *BitReader) BitOffset() int {
	return r.bitPos
}
