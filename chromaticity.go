package tiff

import (
	"fmt"
	"math"
)

// Chromaticity is a point (x, y) in the CIE 1931 chromaticity diagram.
// It describes white points and primaries from the WhitePoint (318) and
// PrimaryChromaticities (319) tags.
//
// Chromaticity is a plain value: two coordinates with the same bit patterns
// are the same coordinate.
type Chromaticity struct {
	X float32
	Y float32
}

// Standard illuminants, CIE 1931 2° observer.
var (
	D50 = Chromaticity{X: 0.3457, Y: 0.3585}
	D65 = Chromaticity{X: 0.3127, Y: 0.3290}
)

// NewChromaticity returns the coordinate (x, y). Values are nominally in
// [0, 1] but are not clamped.
func NewChromaticity(x, y float32) Chromaticity {
	return Chromaticity{X: x, Y: y}
}

// Equal reports whether c and o have bit-identical coordinates.
// Unlike ==, it distinguishes 0 from -0 and treats identical NaNs as equal,
// which keeps it consistent with Hash.
func (c Chromaticity) Equal(o Chromaticity) bool {
	return math.Float32bits(c.X) == math.Float32bits(o.X) &&
		math.Float32bits(c.Y) == math.Float32bits(o.Y)
}

// Hash returns a hash of the coordinate. Coordinates that are Equal hash
// equal; distinct coordinates never collide.
func (c Chromaticity) Hash() uint64 {
	return uint64(math.Float32bits(c.X))<<32 | uint64(math.Float32bits(c.Y))
}

func (c Chromaticity) String() string {
	return fmt.Sprintf("Chromaticity(x=%g, y=%g)", c.X, c.Y)
}

// XYZ converts the chromaticity at the given luminance Y to CIE XYZ.
// A zero y coordinate yields black.
func (c Chromaticity) XYZ(luminance float64) (x, y, z float64) {
	if c.Y == 0 {
		return 0, 0, 0
	}
	cx, cy := float64(c.X), float64(c.Y)
	return cx * luminance / cy, luminance, (1 - cx - cy) * luminance / cy
}

// Primaries holds the chromaticities of the red, green and blue primaries.
type Primaries struct {
	Red, Green, Blue Chromaticity
}

// SRGBPrimaries are the ITU-R BT.709 primaries used by sRGB.
var SRGBPrimaries = Primaries{
	Red:   Chromaticity{X: 0.64, Y: 0.33},
	Green: Chromaticity{X: 0.30, Y: 0.60},
	Blue:  Chromaticity{X: 0.15, Y: 0.06},
}

// WhitePointFromTag builds a white point from the two decoded RATIONAL
// values of the WhitePoint tag.
func WhitePointFromTag(values []float32) (Chromaticity, error) {
	if len(values) != 2 {
		return Chromaticity{}, fmt.Errorf("white point has %d values, want 2: %w",
			len(values), ErrInvalidChromaticity)
	}
	return NewChromaticity(values[0], values[1]), nil
}

// PrimariesFromTag builds primaries from the six decoded RATIONAL values of
// the PrimaryChromaticities tag (red x, red y, green x, green y, blue x,
// blue y).
func PrimariesFromTag(values []float32) (Primaries, error) {
	if len(values) != 6 {
		return Primaries{}, fmt.Errorf("primary chromaticities have %d values, want 6: %w",
			len(values), ErrInvalidChromaticity)
	}
	return Primaries{
		Red:   NewChromaticity(values[0], values[1]),
		Green: NewChromaticity(values[2], values[3]),
		Blue:  NewChromaticity(values[4], values[5]),
	}, nil
}
