package tiff

import "errors"

var (
	ErrUnsupportedPhotometric = errors.New("tiff: unsupported photometric interpretation")
	ErrUnsupportedFormat      = errors.New("tiff: unsupported sample format")
	ErrInvalidBitDepth        = errors.New("tiff: invalid bits per sample")
	ErrInvalidSampleCount     = errors.New("tiff: invalid samples per pixel")
	ErrChannelMismatch        = errors.New("tiff: channel buffer count does not match samples")
	ErrBufferTooSmall         = errors.New("tiff: sample buffer too small for block")
	ErrInvalidBlock           = errors.New("tiff: invalid block geometry")
	ErrBlockOutOfBounds       = errors.New("tiff: block outside destination bounds")
	ErrOverlappingBlocks      = errors.New("tiff: blocks overlap")
	ErrInvalidColorMap        = errors.New("tiff: invalid color map")
	ErrInvalidChromaticity    = errors.New("tiff: invalid chromaticity tag")
)
