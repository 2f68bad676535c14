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
	"github.com/HelloBroBro/arrow/internal/debug"
	"github.com/HelloBroBro/arrow/internal/hashing"
	"github.com/HelloBroBro/arrow/memory"
)

// Dictionary represents the type for dictionary-encoded data with a data
// dependent dictionary.
//
// A dictionary array contains an array of non-negative integers (the "dictionary
// indices") along with a data type containing a "dictionary" corresponding to
// the distinct values represented in the data.
//
// For example, the array:
//
//	["foo", "bar", "foo", "bar", "foo", "bar"]
//
// with dictionary ["bar", "foo"], would have the representation of:
//
//	indices: [1, 0, 1, 0, 1, 0]
//	dictionary: ["bar", "foo"]
type Dictionary struct {
	array

	dictType *arrow.DictionaryType
	indices  arrow.Array
	dict     arrow.Array
}

// NewDictionaryData creates a strongly typed Dictionary array from
// an ArrayData object with a datatype of arrow.Dictionary and a dictionary
func NewDictionaryData(data arrow.ArrayData) *Dictionary {
	a := &Dictionary{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

func (d *Dictionary) Retain() {
	atomic.AddInt64(&d.refCount, 1)
}

func (d *Dictionary) Release() {
	debug.Assert(atomic.LoadInt64(&d.refCount) > 0, "too many releases")

	if atomic.AddInt64(&d.refCount, -1) == 0 {
		d.data.Release()
		d.data, d.nullBitmapBytes = nil, nil
		d.indices.Release()
		d.indices = nil
		if d.dict != nil {
			d.dict.Release()
			d.dict = nil
		}
	}
}

func (d *Dictionary) setData(data *Data) {
	d.array.setData(data)

	dictType, ok := data.dtype.(*arrow.DictionaryType)
	if !ok {
		panic("arrow/array: invalid datatype for dictionary array")
	}
	d.dictType = dictType

	if data.dictionary == nil {
		if data.length > 0 {
			panic("arrow/array: dictionary set improperly")
		}
	} else {
		d.dict = MakeFromData(data.dictionary)
	}

	indexData := NewData(dictType.IndexType, data.length, data.buffers, data.childData, data.nulls, data.offset)
	defer indexData.Release()
	d.indices = MakeFromData(indexData)
}

// Dictionary returns the values array that makes up the dictionary for this
// array.
func (d *Dictionary) Dictionary() arrow.Array { return d.dict }

// Indices returns the underlying array of indices as its own array.
func (d *Dictionary) Indices() arrow.Array { return d.indices }

// GetValueIndex returns the dictionary index for the value at logical
// position i.
func (d *Dictionary) GetValueIndex(i int) int {
	indiceData := d.data.buffers[1].Bytes()
	// we know the value is non-negative per the dictionary index contract
	switch d.indices.DataType().ID() {
	case arrow.UINT8:
		return int(uint8(indiceData[d.data.offset+i]))
	case arrow.INT8:
		return int(int8(indiceData[d.data.offset+i]))
	case arrow.UINT16:
		return int(arrow.GetData[uint16](indiceData)[d.data.offset+i])
	case arrow.INT16:
		return int(arrow.GetData[int16](indiceData)[d.data.offset+i])
	case arrow.UINT32:
		return int(arrow.GetData[uint32](indiceData)[d.data.offset+i])
	case arrow.INT32:
		return int(arrow.GetData[int32](indiceData)[d.data.offset+i])
	case arrow.UINT64:
		return int(arrow.GetData[uint64](indiceData)[d.data.offset+i])
	case arrow.INT64:
		return int(arrow.GetData[int64](indiceData)[d.data.offset+i])
	}
	debug.Assert(false, "unsupported dictionary index type")
	return -1
}

func (d *Dictionary) ValueStr(i int) string {
	if d.IsNull(i) {
		return NullValueStr
	}
	return valueString(d.dict, d.GetValueIndex(i))
}

func (d *Dictionary) String() string {
	return fmt.Sprintf("{ dictionary: %v indices: %v }", d.Dictionary(), d.Indices())
}

var _ arrow.Array = (*Dictionary)(nil)

// DictionaryBuilder is an interface for building dictionary arrays,
// memoizing the distinct values as they are appended.
type DictionaryBuilder interface {
	Builder
	NewDictionaryArray() *Dictionary
	DictionarySize() int
}

// NewDictionaryBuilder returns a dictionary builder appropriate for the
// value type of dt.
func NewDictionaryBuilder(mem memory.Allocator, dt *arrow.DictionaryType) DictionaryBuilder {
	switch dt.ValueType.ID() {
	case arrow.UINT8:
		return NewNumericDictionaryBuilder[uint8](mem, dt)
	case arrow.INT8:
		return NewNumericDictionaryBuilder[int8](mem, dt)
	case arrow.UINT16:
		return NewNumericDictionaryBuilder[uint16](mem, dt)
	case arrow.INT16:
		return NewNumericDictionaryBuilder[int16](mem, dt)
	case arrow.UINT32:
		return NewNumericDictionaryBuilder[uint32](mem, dt)
	case arrow.INT32:
		return NewNumericDictionaryBuilder[int32](mem, dt)
	case arrow.UINT64:
		return NewNumericDictionaryBuilder[uint64](mem, dt)
	case arrow.INT64:
		return NewNumericDictionaryBuilder[int64](mem, dt)
	case arrow.FLOAT32:
		return NewNumericDictionaryBuilder[float32](mem, dt)
	case arrow.FLOAT64:
		return NewNumericDictionaryBuilder[float64](mem, dt)
	}
	panic("arrow/array: unsupported dictionary value type " + dt.ValueType.Name())
}

// indexAppender adapts the numeric builders so dictionary indices can be
// appended without knowing the concrete index width.
type indexAppender interface {
	Builder
	appendIndex(int)
}

func (b *NumericBuilder[T]) appendIndex(i int) { b.Append(T(i)) }

func newIndexBuilder(mem memory.Allocator, dt arrow.DataType) indexAppender {
	switch dt.ID() {
	case arrow.UINT8:
		return NewNumericBuilder[uint8](mem, dt)
	case arrow.INT8:
		return NewNumericBuilder[int8](mem, dt)
	case arrow.UINT16:
		return NewNumericBuilder[uint16](mem, dt)
	case arrow.INT16:
		return NewNumericBuilder[int16](mem, dt)
	case arrow.UINT32:
		return NewNumericBuilder[uint32](mem, dt)
	case arrow.INT32:
		return NewNumericBuilder[int32](mem, dt)
	case arrow.UINT64:
		return NewNumericBuilder[uint64](mem, dt)
	case arrow.INT64:
		return NewNumericBuilder[int64](mem, dt)
	}
	panic("arrow/array: unsupported dictionary index type " + dt.Name())
}

// NumericDictionaryBuilder builds dictionary arrays of fixed-width numeric
// values, interning each distinct value in a memo table.
type NumericDictionaryBuilder[T arrow.FixedWidthType] struct {
	builder

	dt         *arrow.DictionaryType
	memo       *hashing.MemoTable[T]
	idxBuilder indexAppender
}

func NewNumericDictionaryBuilder[T arrow.FixedWidthType](mem memory.Allocator, dt *arrow.DictionaryType) *NumericDictionaryBuilder[T] {
	if !arrow.TypeEqual(dt.ValueType, arrow.TypeOf[T]()) {
		panic("arrow/array: mismatched dictionary value type")
	}
	return &NumericDictionaryBuilder[T]{
		builder:    builder{refCount: 1, mem: mem},
		dt:         dt,
		memo:       hashing.NewMemoTable[T](0),
		idxBuilder: newIndexBuilder(mem, dt.IndexType),
	}
}

func (b *NumericDictionaryBuilder[T]) Type() arrow.DataType { return b.dt }

func (b *NumericDictionaryBuilder[T]) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		b.idxBuilder.Release()
		b.memo = nil
	}
}

// Append appends the value v, interning it in the dictionary if it has not
// been seen before.
func (b *NumericDictionaryBuilder[T]) Append(v T) {
	idx, _ := b.memo.GetOrInsert(v)
	b.idxBuilder.appendIndex(idx)
}

func (b *NumericDictionaryBuilder[T]) AppendNull() {
	b.idxBuilder.AppendNull()
}

func (b *NumericDictionaryBuilder[T]) AppendNulls(n int) {
	for i := 0; i < n; i++ {
		b.AppendNull()
	}
}

// AppendEmptyValue appends the zero value, interning it like any other so
// the stored index always refers to a live dictionary slot.
func (b *NumericDictionaryBuilder[T]) AppendEmptyValue() {
	var v T
	b.Append(v)
}

func (b *NumericDictionaryBuilder[T]) Len() int   { return b.idxBuilder.Len() }
func (b *NumericDictionaryBuilder[T]) Cap() int   { return b.idxBuilder.Cap() }
func (b *NumericDictionaryBuilder[T]) NullN() int { return b.idxBuilder.NullN() }

func (b *NumericDictionaryBuilder[T]) Reserve(n int) { b.idxBuilder.Reserve(n) }
func (b *NumericDictionaryBuilder[T]) Resize(n int)  { b.idxBuilder.Resize(n) }

func (b *NumericDictionaryBuilder[T]) init(capacity int) {}

func (b *NumericDictionaryBuilder[T]) resize(newBits int, i func(int)) {}

// DictionarySize returns the number of distinct values interned so far.
func (b *NumericDictionaryBuilder[T]) DictionarySize() int { return b.memo.Size() }

// NewArray creates a Dictionary array from the builder and resets it so it
// can be reused.
func (b *NumericDictionaryBuilder[T]) NewArray() arrow.Array {
	return b.NewDictionaryArray()
}

// NewDictionaryArray creates a Dictionary array from the builder and resets
// it so it can be reused.
func (b *NumericDictionaryBuilder[T]) NewDictionaryArray() *Dictionary {
	idxArr := b.idxBuilder.NewArray()
	defer idxArr.Release()

	dictBuilder := NewNumericBuilder[T](b.mem, b.dt.ValueType)
	defer dictBuilder.Release()
	dictBuilder.AppendValues(b.memo.Values(), nil)
	dictArr := dictBuilder.NewArray()
	defer dictArr.Release()

	b.memo.Reset()

	idxData := idxArr.Data()
	data := NewDataWithDictionary(b.dt, idxData.Len(),
		[]*memory.Buffer{idxData.Buffers()[0], idxData.Buffers()[1]},
		idxData.NullN(), idxData.Offset(), dictArr.Data().(*Data))
	defer data.Release()
	return NewDictionaryData(data)
}

var _ DictionaryBuilder = (*NumericDictionaryBuilder[int64])(nil)
