// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package array

import (
	"fmt"

	"github.com/HelloBroBro/arrow"
	"github.com/HelloBroBro/arrow/bitutil"
	"github.com/HelloBroBro/arrow/memory"
)

// TransferPair moves or copies the contents of a source builder into a
// fresh target builder of the same element type.
//
// Transfer moves buffer ownership without copying and leaves the source
// empty. SplitAndTransfer copies a contiguous range into newly allocated
// target buffers and leaves the source untouched. CopyValueSafe copies a
// single slot, growing the target as needed.
type TransferPair[T arrow.FixedWidthType] struct {
	src *NumericBuilder[T]
	dst *NumericBuilder[T]
}

// NewTransferPair creates a pair from src to a new empty builder allocated
// from mem. The target is owned by the pair's caller and must be released.
func NewTransferPair[T arrow.FixedWidthType](mem memory.Allocator, src *NumericBuilder[T]) *TransferPair[T] {
	return &TransferPair[T]{
		src: src,
		dst: NewNumericBuilder[T](mem, src.Type()),
	}
}

// MakeTransferPair creates a pair between two existing builders of the
// same element type. The pair borrows both builders, it does not take
// ownership of either.
func MakeTransferPair[T arrow.FixedWidthType](src, dst *NumericBuilder[T]) *TransferPair[T] {
	if !arrow.TypeEqual(src.Type(), dst.Type()) {
		panic(fmt.Errorf("%w: transfer pair type mismatch", arrow.ErrType))
	}
	return &TransferPair[T]{src: src, dst: dst}
}

// Target returns the builder that receives the transferred values.
func (p *TransferPair[T]) Target() *NumericBuilder[T] { return p.dst }

// Transfer moves the source buffers into the target without copying and
// resets the source to an empty builder. The target's previous contents
// are released.
func (p *TransferPair[T]) Transfer() {
	if p.dst.nullBitmap != nil {
		p.dst.nullBitmap.Release()
	}
	if p.dst.data != nil {
		p.dst.data.Release()
	}

	p.dst.nullBitmap = p.src.nullBitmap
	p.dst.data = p.src.data
	p.dst.rawData = p.src.rawData
	p.dst.length = p.src.length
	p.dst.capacity = p.src.capacity
	p.dst.nulls = p.src.nulls

	p.src.nullBitmap = nil
	p.src.data = nil
	p.src.rawData = nil
	p.src.length = 0
	p.src.capacity = 0
	p.src.nulls = 0
}

// SplitAndTransfer copies the range [start, start+length) of the source
// into freshly allocated target buffers, value bytes and validity bits
// both. The source is not modified.
func (p *TransferPair[T]) SplitAndTransfer(start, length int) {
	if start < 0 || length < 0 || start+length > p.src.length {
		panic(fmt.Errorf("%w: split range [%d, %d) out of bounds", arrow.ErrIndex, start, start+length))
	}

	p.dst.Resize(length)
	p.dst.length = length

	if length == 0 {
		return
	}

	copy(p.dst.rawData[:length], p.src.rawData[start:start+length])
	bitutil.CopyBitmap(p.src.nullBitmap.Bytes(), start, length, p.dst.nullBitmap.Bytes(), 0)
	p.dst.nulls = length - bitutil.CountSetBits(p.dst.nullBitmap.Bytes(), 0, length)
}

// CopyValueSafe copies the slot srcIdx of the source, validity included,
// into slot dstIdx of the target, growing the target when dstIdx is not
// yet addressable.
func (p *TransferPair[T]) CopyValueSafe(srcIdx, dstIdx int) {
	if srcIdx < 0 || srcIdx >= p.src.length {
		panic(fmt.Errorf("%w: index %d out of range", arrow.ErrIndex, srcIdx))
	}
	if p.src.IsValid(srcIdx) {
		p.dst.SetSafe(dstIdx, p.src.Value(srcIdx))
	} else {
		p.dst.SetNullSafe(dstIdx)
	}
}
