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

func sparseUnionTestType() *arrow.SparseUnionType {
	return arrow.SparseUnionOf([]arrow.Field{
		{Name: "i", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "f", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, []arrow.UnionTypeCode{2, 5})
}

func TestSparseUnionBuilder(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := sparseUnionTestType()
	bldr := array.NewSparseUnionBuilder(mem, dt)
	defer bldr.Release()

	i64Bldr := bldr.Child(0).(*array.NumericBuilder[int64])
	f64Bldr := bldr.Child(1).(*array.NumericBuilder[float64])

	bldr.Append(2)
	i64Bldr.Append(11)
	f64Bldr.AppendEmptyValue()

	bldr.Append(5)
	f64Bldr.Append(1.5)
	i64Bldr.AppendEmptyValue()

	bldr.AppendNull()

	arr := bldr.NewSparseUnionArray()
	defer arr.Release()

	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, arrow.SparseMode, arr.Mode())
	assert.Equal(t, 2, arr.NumFields())

	assert.Equal(t, arrow.UnionTypeCode(2), arr.TypeCode(0))
	assert.Equal(t, arrow.UnionTypeCode(5), arr.TypeCode(1))
	assert.Equal(t, arrow.UnionTypeCode(2), arr.TypeCode(2))
	assert.Equal(t, 0, arr.ChildID(0))
	assert.Equal(t, 1, arr.ChildID(1))

	// every child has the same length as the union itself
	assert.Equal(t, arr.Len(), arr.Field(0).Len())
	assert.Equal(t, arr.Len(), arr.Field(1).Len())

	assert.Equal(t, int64(11), arr.Field(0).(*array.Int64).Value(0))
	assert.Equal(t, 1.5, arr.Field(1).(*array.Float64).Value(1))

	assert.Equal(t, 1, arr.NullN())
	assert.True(t, arr.IsValid(0))
	assert.True(t, arr.IsValid(1))
	assert.True(t, arr.IsNull(2))

	assert.Equal(t, "[{i=11} {f=1.5} {i=(null)}]", arr.String())
}

func TestSparseUnionFromArrays(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	idsBldr := array.NewNumericBuilder[int8](mem, arrow.PrimitiveTypes.Int8)
	defer idsBldr.Release()
	idsBldr.AppendValues([]int8{0, 1, 0}, nil)
	ids := idsBldr.NewNumericArray()
	defer ids.Release()

	i64Bldr := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer i64Bldr.Release()
	i64Bldr.AppendValues([]int64{1, 2, 3}, nil)
	i64s := i64Bldr.NewNumericArray()
	defer i64s.Release()

	f64Bldr := array.NewNumericBuilder[float64](mem, arrow.PrimitiveTypes.Float64)
	defer f64Bldr.Release()
	f64Bldr.AppendValues([]float64{0.5, 1.5, 2.5}, nil)
	f64s := f64Bldr.NewNumericArray()
	defer f64s.Release()

	arr, err := array.NewSparseUnionFromArrays(ids, []arrow.UnionTypeCode{0, 1}, i64s, f64s)
	require.NoError(t, err)
	defer arr.Release()

	assert.Equal(t, 3, arr.Len())
	assert.Zero(t, arr.NullN())
	assert.Equal(t, int64(1), arr.Field(0).(*array.Int64).Value(0))
	assert.Equal(t, 1.5, arr.Field(1).(*array.Float64).Value(1))

	// type ids must be int8 with no nulls
	_, err = array.NewSparseUnionFromArrays(i64s, []arrow.UnionTypeCode{0, 1}, i64s, f64s)
	assert.ErrorIs(t, err, arrow.ErrInvalid)

	// child lengths must match the union length
	shortBldr := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer shortBldr.Release()
	shortBldr.Append(9)
	short := shortBldr.NewNumericArray()
	defer short.Release()

	_, err = array.NewSparseUnionFromArrays(ids, []arrow.UnionTypeCode{0, 1}, short, f64s)
	assert.ErrorIs(t, err, arrow.ErrInvalid)
}

func TestSparseUnionNullCountFromChildren(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	idsBldr := array.NewNumericBuilder[int8](mem, arrow.PrimitiveTypes.Int8)
	defer idsBldr.Release()
	idsBldr.AppendValues([]int8{0, 1, 0, 1}, nil)
	ids := idsBldr.NewNumericArray()
	defer ids.Release()

	i64Bldr := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer i64Bldr.Release()
	i64Bldr.AppendValues([]int64{1, 2, 0, 4}, []bool{true, true, false, true})
	i64s := i64Bldr.NewNumericArray()
	defer i64s.Release()

	f64Bldr := array.NewNumericBuilder[float64](mem, arrow.PrimitiveTypes.Float64)
	defer f64Bldr.Release()
	f64Bldr.AppendValues([]float64{0.5, 0, 2.5, 3.5}, []bool{true, false, true, true})
	f64s := f64Bldr.NewNumericArray()
	defer f64s.Release()

	arr, err := array.NewSparseUnionFromArrays(ids, []arrow.UnionTypeCode{0, 1}, i64s, f64s)
	require.NoError(t, err)
	defer arr.Release()

	// slot 1 selects the float child (null there) and slot 2 the int child
	// (null there), the other two slots land on valid child slots
	assert.Equal(t, 2, arr.NullN())
	assert.True(t, arr.IsValid(0))
	assert.True(t, arr.IsNull(1))
	assert.True(t, arr.IsNull(2))
	assert.True(t, arr.IsValid(3))
}

func TestDenseUnionBuilder(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := arrow.DenseUnionOf([]arrow.Field{
		{Name: "i", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "f", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, []arrow.UnionTypeCode{0, 1})

	bldr := array.NewDenseUnionBuilder(mem, dt)
	defer bldr.Release()

	i64Bldr := bldr.Child(0).(*array.NumericBuilder[int64])
	f64Bldr := bldr.Child(1).(*array.NumericBuilder[float64])

	bldr.Append(0)
	i64Bldr.Append(10)

	bldr.Append(1)
	f64Bldr.Append(0.25)

	bldr.Append(0)
	i64Bldr.Append(20)

	bldr.AppendNull()

	arr := bldr.NewDenseUnionArray()
	defer arr.Release()

	assert.Equal(t, 4, arr.Len())
	assert.Equal(t, arrow.DenseMode, arr.Mode())
	assert.Equal(t, []int32{0, 0, 1, 2}, arr.RawValueOffsets())

	// only referenced values are stored in the children
	assert.Equal(t, 3, arr.Field(0).Len())
	assert.Equal(t, 1, arr.Field(1).Len())

	assert.Equal(t, int64(10), arr.Field(0).(*array.Int64).Value(0))
	assert.Equal(t, 0.25, arr.Field(1).(*array.Float64).Value(0))
	assert.Equal(t, int64(20), arr.Field(0).(*array.Int64).Value(int(arr.ValueOffset(2))))

	assert.Equal(t, 1, arr.NullN())
	assert.True(t, arr.IsNull(3))
	assert.True(t, arr.IsValid(1))
}

func TestDenseUnionBuilderSharedNulls(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := arrow.DenseUnionOf([]arrow.Field{
		{Name: "i", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	}, []arrow.UnionTypeCode{0})

	bldr := array.NewDenseUnionBuilder(mem, dt)
	defer bldr.Release()

	bldr.AppendNulls(3)

	arr := bldr.NewDenseUnionArray()
	defer arr.Release()

	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, 3, arr.NullN())
	// all three logical nulls share a single physical child slot
	assert.Equal(t, 1, arr.Field(0).Len())
	assert.Equal(t, []int32{0, 0, 0}, arr.RawValueOffsets())
}
