// Copyright 2025 go-tiff Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tiff

import (
	"sync"

	"github.com/ajroetker/go-highway/hwy/contrib/image"
)

// planeBuf holds 3 pooled SIMD-aligned float32 planes, one per YCbCr
// component of a block.
type planeBuf struct {
	imgs [3]*image.Image[float32]
	w, h int
}

var planePool = sync.Pool{New: func() any { return new(planeBuf) }}

// getPlanes returns planes of exactly w x h. A pooled buffer is reused when
// its size matches, so decoding equally sized tiles does not allocate.
func getPlanes(w, h int) *planeBuf {
	buf := planePool.Get().(*planeBuf)
	if buf.w != w || buf.h != h {
		for i := range buf.imgs {
			buf.imgs[i] = image.NewImage[float32](w, h)
		}
		buf.w = w
		buf.h = h
	}
	return buf
}

func putPlanes(buf *planeBuf) {
	planePool.Put(buf)
}
