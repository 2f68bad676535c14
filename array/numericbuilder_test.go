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
)

func TestNumericBuilder(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ab := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer ab.Release()

	ab.Append(1)
	ab.Append(2)
	ab.AppendNull()
	ab.AppendValues([]int64{4, 5}, nil)

	assert.Equal(t, 5, ab.Len())
	assert.Equal(t, 1, ab.NullN())

	a := ab.NewNumericArray()
	defer a.Release()

	assert.Equal(t, []int64{1, 2, 0, 4, 5}, a.Values())
	assert.Equal(t, 1, a.NullN())
	assert.True(t, a.IsNull(2))
	assert.True(t, a.IsValid(3))
	assert.Equal(t, "[1 2 (null) 4 5]", a.String())

	// the builder is reusable after NewArray
	assert.Zero(t, ab.Len())
	assert.Zero(t, ab.NullN())
	ab.Append(42)
	b := ab.NewNumericArray()
	defer b.Release()
	assert.Equal(t, []int64{42}, b.Values())
}

func TestNumericBuilderAppendValuesWithValidity(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ab := array.NewNumericBuilder[float32](mem, arrow.PrimitiveTypes.Float32)
	defer ab.Release()

	ab.AppendValues([]float32{1, 0, 3}, []bool{true, false, true})
	assert.Panics(t, func() {
		ab.AppendValues([]float32{1, 2}, []bool{true})
	})

	a := ab.NewNumericArray()
	defer a.Release()
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 1, a.NullN())
	assert.Equal(t, float32(3), a.Value(2))
}

func TestNumericBuilderSet(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ab := array.NewNumericBuilder[int32](mem, arrow.PrimitiveTypes.Int32)
	defer ab.Release()

	ab.AppendValues([]int32{1, 2, 3}, nil)

	ab.Set(1, 21)
	assert.Equal(t, int32(21), ab.Value(1))
	assert.Zero(t, ab.NullN())

	ab.SetNull(0)
	assert.Equal(t, 1, ab.NullN())
	ab.SetNull(0) // no double counting
	assert.Equal(t, 1, ab.NullN())

	// writing a value resurrects a null slot
	ab.Set(0, 11)
	assert.Zero(t, ab.NullN())

	assert.Panics(t, func() { ab.Set(3, 0) })
	assert.Panics(t, func() { ab.SetNull(-1) })

	a := ab.NewNumericArray()
	defer a.Release()
	assert.Equal(t, []int32{11, 21, 3}, a.Values())
}

func TestNumericBuilderSetSafeGrows(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ab := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer ab.Release()

	ab.AppendValues([]int64{1, 2, 3, 4, 5, 6, 7, 8}, nil)
	ab.SetSafe(10, 99)

	// growth must leave previously written values intact and report the
	// gap between the old length and the target index as null
	assert.Equal(t, 11, ab.Len())
	for i := 0; i < 8; i++ {
		assert.True(t, ab.IsValid(i), "slot %d should be valid", i)
		assert.Equal(t, int64(i+1), ab.Value(i))
	}
	assert.False(t, ab.IsValid(8))
	assert.False(t, ab.IsValid(9))
	assert.Equal(t, int64(99), ab.Value(10))
	assert.True(t, ab.IsValid(10))
	assert.Equal(t, 2, ab.NullN())

	ab.SetNullSafe(12)
	assert.Equal(t, 13, ab.Len())
	assert.Equal(t, 4, ab.NullN())

	assert.Panics(t, func() { ab.SetSafe(-1, 0) })

	a := ab.NewNumericArray()
	defer a.Release()
	assert.Equal(t, 13, a.Len())
	assert.Equal(t, 4, a.NullN())
	assert.Equal(t, int64(99), a.Value(10))
}

func TestNumericValueOrErr(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ab := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer ab.Release()
	ab.AppendValues([]int64{1, 0, 3}, []bool{true, false, true})

	a := ab.NewNumericArray()
	defer a.Release()

	v, err := a.ValueOrErr(0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = a.ValueOrErr(1)
	assert.ErrorIs(t, err, arrow.ErrNullValue)

	v, err = a.ValueOrErr(2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestNumericBuilderLargeResize(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ab := array.NewNumericBuilder[int16](mem, arrow.PrimitiveTypes.Int16)
	defer ab.Release()

	ab.Reserve(1000)
	assert.GreaterOrEqual(t, ab.Cap(), 1000)
	for i := 0; i < 1000; i++ {
		ab.UnsafeAppend(int16(i))
	}

	a := ab.NewNumericArray()
	defer a.Release()
	assert.Equal(t, 1000, a.Len())
	assert.Equal(t, int16(999), a.Value(999))
}

func TestBooleanBuilder(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := array.NewBooleanBuilder(mem)
	defer b.Release()

	b.Append(true)
	b.Append(false)
	b.AppendNull()
	b.AppendValues([]bool{true, true}, []bool{true, false})

	a := b.NewBooleanArray()
	defer a.Release()

	assert.Equal(t, 5, a.Len())
	assert.Equal(t, 2, a.NullN())
	assert.True(t, a.Value(0))
	assert.False(t, a.Value(1))
	assert.True(t, a.IsNull(2))
	assert.Equal(t, "true", a.ValueStr(0))
	assert.Equal(t, array.NullValueStr, a.ValueStr(2))
	assert.Equal(t, "[true false (null) true (null)]", a.String())
}

func TestNewBuilderDispatch(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	types := []arrow.DataType{
		arrow.Null,
		arrow.FixedWidthTypes.Boolean,
		arrow.PrimitiveTypes.Int8,
		arrow.PrimitiveTypes.Uint32,
		arrow.PrimitiveTypes.Int64,
		arrow.PrimitiveTypes.Float64,
		arrow.SparseUnionOf([]arrow.Field{{Name: "i", Type: arrow.PrimitiveTypes.Int64, Nullable: true}}, []arrow.UnionTypeCode{0}),
		arrow.DenseUnionOf([]arrow.Field{{Name: "i", Type: arrow.PrimitiveTypes.Int64, Nullable: true}}, []arrow.UnionTypeCode{0}),
		&arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.PrimitiveTypes.Int64},
	}

	for _, dt := range types {
		b := array.NewBuilder(mem, dt)
		assert.True(t, arrow.TypeEqual(dt, b.Type()), "builder type mismatch for %s", dt)
		b.AppendNull()
		b.AppendEmptyValue()
		arr := b.NewArray()
		assert.Equal(t, 2, arr.Len(), "length mismatch for %s", dt)
		assert.NotZero(t, arr.NullN(), "null count for %s", dt)
		arr.Release()
		b.Release()
	}
}
