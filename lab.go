package tiff

import "math"

type mat3 [3][3]float64

func (m *mat3) mul(o *mat3) mat3 {
	var r mat3
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

func (m *mat3) apply(x, y, z float64) (float64, float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}

var (
	bradford = mat3{
		{0.8951, 0.2664, -0.1614},
		{-0.7502, 1.7135, 0.0367},
		{0.0389, -0.0685, 1.0296},
	}
	bradfordInv = mat3{
		{0.9869929, -0.1470543, 0.1599627},
		{0.4323053, 0.5183603, 0.0492912},
		{-0.0085287, 0.0400428, 0.9684867},
	}
	// xyzToLinearSRGB maps D65-relative XYZ to linear sRGB.
	xyzToLinearSRGB = mat3{
		{3.2404542, -1.5371385, -0.4985314},
		{-0.9692660, 1.8760108, 0.0415560},
		{0.0556434, -0.2040259, 1.0572252},
	}
)

// adaptBradford returns the Bradford chromatic adaptation from white point
// src to dst.
func adaptBradford(src, dst Chromaticity) mat3 {
	sx, sy, sz := src.XYZ(1)
	dx, dy, dz := dst.XYZ(1)
	sr, sg, sb := bradford.apply(sx, sy, sz)
	dr, dg, db := bradford.apply(dx, dy, dz)
	scale := mat3{
		{dr / sr, 0, 0},
		{0, dg / sg, 0},
		{0, 0, db / sb},
	}
	m := scale.mul(&bradford)
	return bradfordInv.mul(&m)
}

// labModel decodes CIELab. L* is unsigned with 0..max mapping to 0..100;
// a* and b* are two's complement. 16-bit a* and b* carry 8 fractional bits.
type labModel struct {
	lScale  float64
	abScale float64
	abBits  uint16
	white   [3]float64
	toRGB   mat3
	alpha   alphaChannel
}

func newLabModel(bitsPerSample []uint16, whitePoint Chromaticity, alpha alphaChannel) labModel {
	m := labModel{
		lScale:  100 / float64(sampleMax(bitsPerSample[0])),
		abScale: 1,
		abBits:  bitsPerSample[1],
		alpha:   alpha,
	}
	if bitsPerSample[1] == 16 {
		m.abScale = 1.0 / 256
	}
	m.white[0], m.white[1], m.white[2] = whitePoint.XYZ(1)
	adapt := adaptBradford(whitePoint, D65)
	m.toRGB = xyzToLinearSRGB.mul(&adapt)
	return m
}

func labInv(t float64) float64 {
	const delta = 6.0 / 29
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29)
}

// srgbCompand applies the sRGB transfer function to a linear value.
func srgbCompand(v float64) float32 {
	if v <= 0.0031308 {
		return clamp01(float32(12.92 * v))
	}
	return clamp01(float32(1.055*math.Pow(v, 1/2.4) - 0.055))
}

func (m labModel) toColor(raw [maxSamples]uint32) Color {
	l := float64(raw[0]) * m.lScale
	a := float64(signExtend(raw[1], m.abBits)) * m.abScale
	b := float64(signExtend(raw[2], m.abBits)) * m.abScale

	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	x := m.white[0] * labInv(fx)
	y := m.white[1] * labInv(fy)
	z := m.white[2] * labInv(fz)

	r, g, bl := m.toRGB.apply(x, y, z)
	return m.alpha.apply(&raw, Color{R: srgbCompand(r), G: srgbCompand(g), B: srgbCompand(bl), A: 1})
}
