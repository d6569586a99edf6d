// Package tiff implements the pixel reconstruction core of a TIFF decoder.
//
// It turns the raw, bit-packed samples of one strip or tile into pixels,
// one strategy per photometric interpretation (RGB, grayscale, palette,
// CMYK, YCbCr, CIELab), and provides CIE xy chromaticity coordinates for
// the colorimetry tags. Tag parsing and decompression happen upstream; the
// caller hands over decompressed channel buffers together with a Format.
//
// Decoding one block:
//
//	f := &tiff.Format{
//	    Photometric:   tiff.PhotometricRGB,
//	    Planar:        tiff.PlanarConfigSeparate,
//	    BitsPerSample: []uint16{8, 8, 8},
//	}
//	dst := tiff.NewBuffer[tiff.RGBA32](image.Rect(0, 0, w, h))
//	err := tiff.DecodeBlock(f, [][]byte{red, green, blue}, dst, image.Rect(0, 0, w, rows))
//
// Independent blocks may be decoded concurrently with DecodeBlocks as long
// as their destination regions do not overlap.
package tiff
