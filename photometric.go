package tiff

import "fmt"

// Photometric is the value of the PhotometricInterpretation tag (262).
type Photometric uint16

const (
	PhotometricWhiteIsZero Photometric = 0
	PhotometricBlackIsZero Photometric = 1
	PhotometricRGB         Photometric = 2
	PhotometricPalette     Photometric = 3
	PhotometricMask        Photometric = 4
	PhotometricSeparated   Photometric = 5 // CMYK with the default InkSet
	PhotometricYCbCr       Photometric = 6
	PhotometricCIELab      Photometric = 8
)

func (p Photometric) String() string {
	switch p {
	case PhotometricWhiteIsZero:
		return "WhiteIsZero"
	case PhotometricBlackIsZero:
		return "BlackIsZero"
	case PhotometricRGB:
		return "RGB"
	case PhotometricPalette:
		return "Palette"
	case PhotometricMask:
		return "TransparencyMask"
	case PhotometricSeparated:
		return "Separated"
	case PhotometricYCbCr:
		return "YCbCr"
	case PhotometricCIELab:
		return "CIELab"
	}
	return fmt.Sprintf("Photometric(%d)", uint16(p))
}

// baseSamples is the number of color samples per pixel, before extra
// samples, that the interpretation needs.
func (p Photometric) baseSamples() int {
	switch p {
	case PhotometricWhiteIsZero, PhotometricBlackIsZero, PhotometricPalette:
		return 1
	case PhotometricRGB, PhotometricYCbCr, PhotometricCIELab:
		return 3
	case PhotometricSeparated:
		return 4
	}
	return 0
}

// PlanarConfig is the value of the PlanarConfiguration tag (284).
type PlanarConfig uint16

const (
	// PlanarConfigContig stores the samples of a pixel together (chunky).
	PlanarConfigContig PlanarConfig = 1
	// PlanarConfigSeparate stores each sample in its own plane.
	PlanarConfigSeparate PlanarConfig = 2
)

func (c PlanarConfig) String() string {
	switch c {
	case PlanarConfigContig:
		return "Contig"
	case PlanarConfigSeparate:
		return "Separate"
	}
	return fmt.Sprintf("PlanarConfig(%d)", uint16(c))
}

// ExtraSample is a value of the ExtraSamples tag (338).
type ExtraSample uint16

const (
	ExtraSampleUnspecified     ExtraSample = 0
	ExtraSampleAssociatedAlpha ExtraSample = 1 // premultiplied
	ExtraSampleUnassocAlpha    ExtraSample = 2
)

func (e ExtraSample) String() string {
	switch e {
	case ExtraSampleUnspecified:
		return "Unspecified"
	case ExtraSampleAssociatedAlpha:
		return "AssociatedAlpha"
	case ExtraSampleUnassocAlpha:
		return "UnassociatedAlpha"
	}
	return fmt.Sprintf("ExtraSample(%d)", uint16(e))
}
