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

package array_test

import (
	"testing"

	"github.com/HelloBroBro/arrow"
	"github.com/HelloBroBro/arrow/array"
	"github.com/HelloBroBro/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericDictionaryBuilder(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.PrimitiveTypes.Int64}
	bldr := array.NewNumericDictionaryBuilder[int64](mem, dt)
	defer bldr.Release()

	bldr.Append(42)
	bldr.Append(13)
	bldr.Append(42)
	bldr.AppendNull()
	bldr.Append(7)

	assert.Equal(t, 5, bldr.Len())
	assert.Equal(t, 1, bldr.NullN())
	// repeated values are interned once
	assert.Equal(t, 3, bldr.DictionarySize())

	arr := bldr.NewDictionaryArray()
	defer arr.Release()

	assert.Equal(t, 5, arr.Len())
	assert.Equal(t, 1, arr.NullN())
	assert.True(t, arr.IsNull(3))
	assert.True(t, arrow.TypeEqual(dt, arr.DataType()))

	assert.Equal(t, 0, arr.GetValueIndex(0))
	assert.Equal(t, 1, arr.GetValueIndex(1))
	assert.Equal(t, 0, arr.GetValueIndex(2))
	assert.Equal(t, 2, arr.GetValueIndex(4))

	dict, ok := arr.Dictionary().(*array.Int64)
	require.True(t, ok)
	assert.Equal(t, []int64{42, 13, 7}, dict.Values())

	indices, ok := arr.Indices().(*array.Int32)
	require.True(t, ok)
	assert.Equal(t, 5, indices.Len())
	assert.Equal(t, int32(0), indices.Value(0))

	assert.Equal(t, "42", arr.ValueStr(0))
	assert.Equal(t, array.NullValueStr, arr.ValueStr(3))
}

func TestDictionaryBuilderAppendEmptyValue(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.PrimitiveTypes.Int64}
	bldr := array.NewNumericDictionaryBuilder[int64](mem, dt)
	defer bldr.Release()

	bldr.Append(7)
	bldr.AppendEmptyValue()
	bldr.AppendEmptyValue()

	// the zero value is interned once, every stored index refers to a live
	// dictionary slot
	assert.Equal(t, 2, bldr.DictionarySize())

	arr := bldr.NewDictionaryArray()
	defer arr.Release()

	assert.Equal(t, 3, arr.Len())
	assert.Zero(t, arr.NullN())
	assert.Equal(t, 1, arr.GetValueIndex(1))
	assert.Equal(t, 1, arr.GetValueIndex(2))
	assert.Equal(t, "0", arr.ValueStr(1))
	assert.Equal(t, []int64{7, 0}, arr.Dictionary().(*array.Int64).Values())
}

func TestDictionaryBuilderReuse(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int8, ValueType: arrow.PrimitiveTypes.Float64}
	bldr := array.NewNumericDictionaryBuilder[float64](mem, dt)
	defer bldr.Release()

	bldr.Append(0.5)
	bldr.Append(0.5)

	first := bldr.NewDictionaryArray()
	defer first.Release()
	assert.Equal(t, 2, first.Len())
	assert.Equal(t, 1, first.Dictionary().Len())

	// the memo table starts over after NewDictionaryArray
	bldr.Append(2.5)
	assert.Equal(t, 1, bldr.DictionarySize())

	second := bldr.NewDictionaryArray()
	defer second.Release()
	assert.Equal(t, []float64{2.5}, second.Dictionary().(*array.Float64).Values())
}

func TestNewDictionaryBuilderDispatch(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Uint16, ValueType: arrow.PrimitiveTypes.Float32}
	bldr := array.NewDictionaryBuilder(mem, dt)
	defer bldr.Release()
	assert.True(t, arrow.TypeEqual(dt, bldr.Type()))

	assert.Panics(t, func() {
		array.NewDictionaryBuilder(mem, &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.Null,
		})
	})

	assert.Panics(t, func() {
		array.NewNumericDictionaryBuilder[int64](mem, &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.PrimitiveTypes.Float64,
		})
	})
}

func TestDictionarySlice(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.PrimitiveTypes.Int64}
	bldr := array.NewNumericDictionaryBuilder[int64](mem, dt)
	defer bldr.Release()

	bldr.Append(10)
	bldr.Append(20)
	bldr.Append(30)
	bldr.Append(20)

	arr := bldr.NewDictionaryArray()
	defer arr.Release()

	sliced := array.NewSlice(arr, 1, 3)
	defer sliced.Release()

	dictSlice, ok := sliced.(*array.Dictionary)
	require.True(t, ok)
	assert.Equal(t, 2, dictSlice.Len())
	assert.Equal(t, 1, dictSlice.GetValueIndex(0))
	assert.Equal(t, 2, dictSlice.GetValueIndex(1))
	// the dictionary itself is shared by the slice
	assert.Equal(t, []int64{10, 20, 30}, dictSlice.Dictionary().(*array.Int64).Values())
}
