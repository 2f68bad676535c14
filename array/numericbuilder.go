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
	"sync/atomic"

	"github.com/HelloBroBro/arrow"
	"github.com/HelloBroBro/arrow/bitutil"
	"github.com/HelloBroBro/arrow/internal/debug"
	"github.com/HelloBroBro/arrow/memory"
	"github.com/JohnCGriffin/overflow"
)

// NumericBuilder builds an array of fixed-width numeric values of type T.
//
// Beyond appending, values may be written at arbitrary indices: SetSafe
// grows the builder so the index becomes addressable, leaving every byte
// written before the growth intact.
type NumericBuilder[T arrow.FixedWidthType] struct {
	builder

	dtype   arrow.DataType
	data    *memory.Buffer
	rawData []T
}

func NewNumericBuilder[T arrow.FixedWidthType](mem memory.Allocator, dtype arrow.DataType) *NumericBuilder[T] {
	debug.Assert(dtype.(arrow.FixedWidthDataType).Bytes() == int(arrow.SizeOf[T]()), "builder element width mismatch")
	return &NumericBuilder[T]{builder: builder{refCount: 1, mem: mem}, dtype: dtype}
}

func (b *NumericBuilder[T]) Type() arrow.DataType { return b.dtype }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
func (b *NumericBuilder[T]) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		if b.nullBitmap != nil {
			b.nullBitmap.Release()
			b.nullBitmap = nil
		}
		if b.data != nil {
			b.data.Release()
			b.data = nil
			b.rawData = nil
		}
	}
}

func (b *NumericBuilder[T]) Append(v T) {
	b.Reserve(1)
	b.UnsafeAppend(v)
}

func (b *NumericBuilder[T]) UnsafeAppend(v T) {
	bitutil.SetBit(b.nullBitmap.Bytes(), b.length)
	b.rawData[b.length] = v
	b.length++
}

func (b *NumericBuilder[T]) AppendNull() {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(false)
}

func (b *NumericBuilder[T]) AppendNulls(n int) {
	for i := 0; i < n; i++ {
		b.AppendNull()
	}
}

func (b *NumericBuilder[T]) AppendEmptyValue() {
	b.Append(T(0))
}

func (b *NumericBuilder[T]) UnsafeAppendBoolToBitmap(isValid bool) {
	if isValid {
		bitutil.SetBit(b.nullBitmap.Bytes(), b.length)
	} else {
		b.nulls++
	}
	b.length++
}

// AppendValues will append the values in the v slice. The valid slice determines which values
// in v are valid (not null). The valid slice must either be empty or be equal in length to v. If empty,
// all values in v are appended and considered valid.
func (b *NumericBuilder[T]) AppendValues(v []T, valid []bool) {
	if len(v) != len(valid) && len(valid) != 0 {
		panic("len(v) != len(valid) && len(valid) != 0")
	}

	if len(v) == 0 {
		return
	}

	b.Reserve(len(v))
	copy(b.rawData[b.length:b.length+len(v)], v)
	b.builder.unsafeAppendBoolsToBitmap(valid, len(v))
}

// Value returns the value written at index i.
func (b *NumericBuilder[T]) Value(i int) T { return b.rawData[i] }

// IsValid reports whether index i holds a non-null value.
func (b *NumericBuilder[T]) IsValid(i int) bool {
	return bitutil.BitIsSet(b.nullBitmap.Bytes(), i)
}

// Set writes v at index i, which must be addressable, and marks it valid.
func (b *NumericBuilder[T]) Set(i int, v T) {
	if i < 0 || i >= b.length {
		panic(fmt.Errorf("%w: index %d out of range", arrow.ErrIndex, i))
	}
	if !bitutil.BitIsSet(b.nullBitmap.Bytes(), i) {
		bitutil.SetBit(b.nullBitmap.Bytes(), i)
		b.nulls--
	}
	b.rawData[i] = v
}

// SetNull marks index i, which must be addressable, as null.
func (b *NumericBuilder[T]) SetNull(i int) {
	if i < 0 || i >= b.length {
		panic(fmt.Errorf("%w: index %d out of range", arrow.ErrIndex, i))
	}
	if bitutil.BitIsSet(b.nullBitmap.Bytes(), i) {
		bitutil.ClearBit(b.nullBitmap.Bytes(), i)
		b.nulls++
	}
}

// SetSafe writes v at index i, growing the builder first when i is not yet
// addressable. Growth never disturbs previously written bytes. Slots between
// the old length and i read as null.
func (b *NumericBuilder[T]) SetSafe(i int, v T) {
	b.reserveIndex(i)
	b.Set(i, v)
}

// SetNullSafe marks index i as null, growing the builder first when i is
// not yet addressable.
func (b *NumericBuilder[T]) SetNullSafe(i int) {
	b.reserveIndex(i)
	b.SetNull(i)
}

// reserveIndex grows the builder so index i is addressable, extending the
// capacity to the smallest power of two that fits it.
func (b *NumericBuilder[T]) reserveIndex(i int) {
	if i < 0 {
		panic(fmt.Errorf("%w: index %d out of range", arrow.ErrIndex, i))
	}
	if i >= b.length {
		if i >= b.capacity {
			b.Resize(bitutil.NextPowerOf2(i))
		}
		b.nulls += i + 1 - b.length
		b.length = i + 1
	}
}

func (b *NumericBuilder[T]) init(capacity int) {
	b.builder.init(capacity)

	b.data = memory.NewResizableBuffer(b.mem)
	bytesN, ok := overflow.Mul(capacity, int(arrow.SizeOf[T]()))
	if !ok {
		panic(fmt.Errorf("%w: buffer size overflow", arrow.ErrOutOfMemory))
	}
	b.data.Resize(bytesN)
	b.rawData = arrow.GetData[T](b.data.Bytes())
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *NumericBuilder[T]) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than b.Cap(),
// additional memory will be allocated. If n is smaller, the allocated memory may reduced.
func (b *NumericBuilder[T]) Resize(n int) {
	nBuilder := n
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}

	if b.capacity == 0 {
		b.init(n)
	} else {
		b.builder.resize(nBuilder, b.init)
		bytesN, ok := overflow.Mul(n, int(arrow.SizeOf[T]()))
		if !ok {
			panic(fmt.Errorf("%w: buffer size overflow", arrow.ErrOutOfMemory))
		}
		b.data.Resize(bytesN)
		b.rawData = arrow.GetData[T](b.data.Bytes())
	}
}

// NewArray creates an array from the memory buffers used by the builder and resets the builder
// so it can be used to build a new array.
func (b *NumericBuilder[T]) NewArray() arrow.Array {
	return b.NewNumericArray()
}

// NewNumericArray creates an array from the memory buffers used by the builder and resets the builder
// so it can be used to build a new array.
func (b *NumericBuilder[T]) NewNumericArray() *Numeric[T] {
	data := b.newData()
	a := NewNumericData[T](data)
	data.Release()
	return a
}

func (b *NumericBuilder[T]) newData() (data *Data) {
	bytesRequired := b.length * int(arrow.SizeOf[T]())
	if bytesRequired > 0 && bytesRequired < b.data.Len() {
		// trim buffers
		b.data.Resize(bytesRequired)
	}
	data = NewData(b.dtype, b.length, []*memory.Buffer{b.nullBitmap, b.data}, nil, b.nulls, 0)
	b.reset()

	if b.data != nil {
		b.data.Release()
		b.data = nil
		b.rawData = nil
	}

	return
}

var (
	_ Builder = (*NumericBuilder[int64])(nil)
	_ Builder = (*NumericBuilder[float32])(nil)
)
