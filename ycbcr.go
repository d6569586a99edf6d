package tiff

import (
	hwyimage "github.com/ajroetker/go-highway/hwy/contrib/image"
)

// Rec. 601 luma coefficients, the TIFF default for YCbCrCoefficients.
// They are the coefficients of the JPEG 2000 irreversible color transform.
const (
	lumaRed601   = hwyimage.ICT_RtoY
	lumaGreen601 = hwyimage.ICT_GtoY
	lumaBlue601  = hwyimage.ICT_BtoY
)

// ycbcrParams converts YCbCr samples per TIFF 6.0 section 21. Samples are
// first mapped through ReferenceBlackWhite into luma units normalized to
// [0, 1] (chroma centered on 0), then:
//
//	R = Y + (2 - 2*LumaRed) * Cr
//	B = Y + (2 - 2*LumaBlue) * Cb
//	G = (Y - LumaBlue*B - LumaRed*R) / LumaGreen
type ycbcrParams struct {
	offset [3]float32
	scale  [3]float32

	lumaRed, lumaGreen, lumaBlue float32
	crToR, cbToB                 float32
}

func newYCbCrParams(f *Format) ycbcrParams {
	var p ycbcrParams

	coef := f.YCbCrCoefficients
	if coef == ([3]float32{}) {
		coef = [3]float32{lumaRed601, lumaGreen601, lumaBlue601}
	}
	p.lumaRed, p.lumaGreen, p.lumaBlue = coef[0], coef[1], coef[2]
	p.crToR = 2 - 2*p.lumaRed
	p.cbToB = 2 - 2*p.lumaBlue

	bps := f.BitsPerSample
	yMax := sampleMax(bps[0])
	for c := range 3 {
		black, white := defaultReference(c, bps[c])
		if f.ReferenceBlackWhite != nil {
			black, white = f.ReferenceBlackWhite[2*c], f.ReferenceBlackWhite[2*c+1]
		}
		codeRange := yMax
		if c > 0 {
			codeRange = float32(uint32(1)<<(bps[c]-1) - 1)
		}
		span := white - black
		if span == 0 {
			span = 1
		}
		p.offset[c] = black
		p.scale[c] = codeRange / span / yMax
	}
	return p
}

// defaultReference returns the full-range reference black and white for
// channel c: [0, max] for luma and [2^(bits-1), max] for chroma.
func defaultReference(c int, bits uint16) (black, white float32) {
	white = sampleMax(bits)
	if c == 0 {
		return 0, white
	}
	return float32(uint32(1) << (bits - 1)), white
}

func (p *ycbcrParams) sample(c int, raw uint32) float32 {
	return (float32(raw) - p.offset[c]) * p.scale[c]
}

func (p *ycbcrParams) toColor(y, cb, cr float32) Color {
	r := y + p.crToR*cr
	b := y + p.cbToB*cb
	g := (y - p.lumaBlue*b - p.lumaRed*r) / p.lumaGreen
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: 1}
}

// decodeYCbCr decodes a YCbCr block. Samples are gathered into pooled
// float planes at full resolution, which replicates subsampled chroma, then
// converted per pixel.
//
// The conversion is scalar for every set of coefficients.
// TODO: switch Rec. 601 blocks to hwyimage.InverseICT once its generic
// fallback stops allocating per vector.
func decodeYCbCr[S Sink](f *Format, data [][]byte, pixels S, left, top, width, height int) {
	p := newYCbCrParams(f)
	buf := getPlanes(width, height)
	defer putPlanes(buf)
	yp, cbp, crp := buf.imgs[0], buf.imgs[1], buf.imgs[2]

	h, v := f.subsampling()
	switch {
	case f.planar() == PlanarConfigSeparate:
		readYCbCrPlanar(&p, data, f.BitsPerSample, yp, cbp, crp)
	case h == 1 && v == 1:
		readYCbCrChunky(&p, data[0], f.BitsPerSample, yp, cbp, crp)
	default:
		readYCbCrSubsampled(&p, data[0], f.BitsPerSample, h, v, yp, cbp, crp)
	}

	for row := range height {
		yRow, cbRow, crRow := yp.Row(row), cbp.Row(row), crp.Row(row)
		for col := range width {
			pixels.SetColor(left+col, top+row, p.toColor(yRow[col], cbRow[col], crRow[col]))
		}
	}
}

func readYCbCrChunky(p *ycbcrParams, data []byte, bps []uint16, yp, cbp, crp *hwyimage.Image[float32]) {
	r := NewBitReader(data)
	for row := range yp.Height() {
		yRow, cbRow, crRow := yp.Row(row), cbp.Row(row), crp.Row(row)
		for col := range yp.Width() {
			yRow[col] = p.sample(0, r.ReadBits(uint(bps[0])))
			cbRow[col] = p.sample(1, r.ReadBits(uint(bps[1])))
			crRow[col] = p.sample(2, r.ReadBits(uint(bps[2])))
		}
		r.NextRow()
	}
}

func readYCbCrPlanar(p *ycbcrParams, data [][]byte, bps []uint16, yp, cbp, crp *hwyimage.Image[float32]) {
	planes := [3]*hwyimage.Image[float32]{yp, cbp, crp}
	for c, img := range planes {
		r := NewBitReader(data[c])
		bits := uint(bps[c])
		for row := range img.Height() {
			dst := img.Row(row)
			for col := range img.Width() {
				dst[col] = p.sample(c, r.ReadBits(bits))
			}
			r.NextRow()
		}
	}
}

// readYCbCrSubsampled reads data units of h*v luma samples followed by one
// Cb and one Cr sample, covering an h x v pixel area. Units on the right
// and bottom edges may extend past the block; those samples are discarded.
// Chroma is replicated over the unit.
func readYCbCrSubsampled(p *ycbcrParams, data []byte, bps []uint16, h, v int, yp, cbp, crp *hwyimage.Image[float32]) {
	width, height := yp.Width(), yp.Height()
	r := NewBitReader(data)
	for uy := 0; uy < height; uy += v {
		for ux := 0; ux < width; ux += h {
			for j := range v {
				yRow := yp.Row(uy + j)
				for i := range h {
					s := p.sample(0, r.ReadBits(uint(bps[0])))
					if yRow != nil && ux+i < width {
						yRow[ux+i] = s
					}
				}
			}
			cb := p.sample(1, r.ReadBits(uint(bps[1])))
			cr := p.sample(2, r.ReadBits(uint(bps[2])))
			for j := range min(v, height-uy) {
				cbRow, crRow := cbp.Row(uy+j), crp.Row(uy+j)
				for i := range min(h, width-ux) {
					cbRow[ux+i] = cb
					crRow[ux+i] = cr
				}
			}
		}
		r.NextRow()
	}
}
