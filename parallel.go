package tiff

import (
	"cmp"
	"fmt"
	"image"
	"slices"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// DecodeOptions controls concurrent block decoding.
type DecodeOptions struct {
	// Workers is the number of goroutines used when Pool is nil.
	// 0 means GOMAXPROCS.
	Workers int

	// Pool, when set, runs the blocks instead of a pool created for the
	// call. Reusing one pool across images avoids spawning workers per
	// image.
	Pool *workerpool.Pool
}

// BlockData is one strip or tile: its destination region and its
// decompressed channel buffers.
type BlockData struct {
	Bounds image.Rectangle
	Data   [][]byte
}

// DecodeBlocks decodes independent blocks concurrently into pixels.
//
// All blocks are validated, and checked to cover disjoint regions, before
// any pixel is written; on error nothing is decoded. pixels must tolerate
// concurrent SetColor calls on distinct coordinates, which holds for every
// sink in this package.
func DecodeBlocks[S Sink](f *Format, blocks []BlockData, pixels S, opts DecodeOptions) error {
	for i, b := range blocks {
		if err := f.Validate(b.Data, b.Bounds); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if err := checkBounds(pixels, b.Bounds); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	if err := checkDisjoint(blocks); err != nil {
		return err
	}
	// A malformed palette is the only error left; surface it once here
	// instead of from every worker.
	if f.Photometric == PhotometricPalette && f.Palette == nil && len(blocks) > 0 {
		colors, err := f.palette()
		if err != nil {
			return err
		}
		pf := *f
		pf.Palette = colors
		f = &pf
	}

	pool := opts.Pool
	if pool == nil {
		pool = workerpool.New(opts.Workers)
		defer pool.Close()
	}

	pool.ParallelForAtomic(len(blocks), func(i int) {
		b := blocks[i]
		if b.Bounds.Empty() {
			return
		}
		// Validated above; decodeBlock cannot fail here.
		_ = decodeBlock(f, b.Data, pixels, b.Bounds)
	})
	return nil
}

// checkDisjoint reports the first pair of blocks whose regions overlap.
func checkDisjoint(blocks []BlockData) error {
	idx := make([]int, 0, len(blocks))
	for i, b := range blocks {
		if !b.Bounds.Empty() {
			idx = append(idx, i)
		}
	}
	slices.SortFunc(idx, func(a, b int) int {
		return cmp.Compare(blocks[a].Bounds.Min.Y, blocks[b].Bounds.Min.Y)
	})

	for n, i := range idx {
		ri := blocks[i].Bounds
		for _, j := range idx[n+1:] {
			rj := blocks[j].Bounds
			if rj.Min.Y >= ri.Max.Y {
				break
			}
			if ri.Overlaps(rj) {
				return fmt.Errorf("blocks %d %v and %d %v: %w", i, ri, j, rj, ErrOverlappingBlocks)
			}
		}
	}
	return nil
}
