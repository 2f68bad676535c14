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

func TestTransferPairTransfer(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	src := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer src.Release()
	src.AppendValues([]int64{10, 20, 30, 40}, []bool{true, true, false, true})

	pair := array.NewTransferPair(mem, src)
	dst := pair.Target()
	defer dst.Release()

	pair.Transfer()

	// the buffers moved, the source is empty and reusable
	assert.Zero(t, src.Len())
	assert.Zero(t, src.NullN())

	assert.Equal(t, 4, dst.Len())
	assert.Equal(t, 1, dst.NullN())
	assert.Equal(t, int64(20), dst.Value(1))
	assert.False(t, dst.IsValid(2))

	src.Append(5)
	assert.Equal(t, 1, src.Len())
	srcArr := src.NewNumericArray()
	defer srcArr.Release()
	assert.Equal(t, []int64{5}, srcArr.Values())

	arr := dst.NewNumericArray()
	defer arr.Release()
	assert.Equal(t, []int64{10, 20, 0, 40}, arr.Values())
	assert.Equal(t, 1, arr.NullN())
}

func TestTransferPairSplitAndTransfer(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	src := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer src.Release()
	src.AppendValues([]int64{10, 20, 30, 40}, nil)

	pair := array.NewTransferPair(mem, src)
	dst := pair.Target()
	defer dst.Release()

	pair.SplitAndTransfer(1, 2)

	assert.Equal(t, 2, dst.Len())
	assert.Equal(t, int64(20), dst.Value(0))
	assert.Equal(t, int64(30), dst.Value(1))
	assert.Zero(t, dst.NullN())

	// the window is a copy, mutating the source afterwards does not show
	// through in the target
	src.Set(1, -1)
	src.Set(2, -1)
	assert.Equal(t, int64(20), dst.Value(0))
	assert.Equal(t, int64(30), dst.Value(1))

	assert.Equal(t, 4, src.Len())
	assert.Equal(t, int64(40), src.Value(3))

	assert.Panics(t, func() { pair.SplitAndTransfer(3, 5) })
	assert.Panics(t, func() { pair.SplitAndTransfer(-1, 2) })
}

func TestTransferPairSplitAndTransferValidity(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	src := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer src.Release()
	src.AppendValues([]int64{10, 20, 30, 40}, []bool{true, true, false, true})

	dst := array.NewNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
	defer dst.Release()

	pair := array.MakeTransferPair(src, dst)
	pair.SplitAndTransfer(1, 2)

	// the copied window carries validity bit-accurately even though the
	// range does not start on a byte boundary
	assert.Equal(t, 2, dst.Len())
	assert.Equal(t, int64(20), dst.Value(0))
	assert.False(t, dst.IsValid(1))
	assert.Equal(t, 1, dst.NullN())

	assert.Equal(t, 4, src.Len())
	assert.Equal(t, 1, src.NullN())
}

func TestTransferPairCopyValueSafe(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	src := array.NewNumericBuilder[int32](mem, arrow.PrimitiveTypes.Int32)
	defer src.Release()
	src.AppendValues([]int32{10, 0, 30}, []bool{true, false, true})

	pair := array.NewTransferPair(mem, src)
	dst := pair.Target()
	defer dst.Release()

	// copying beyond the target length grows it, the gap reads as null
	pair.CopyValueSafe(0, 4)
	assert.Equal(t, 5, dst.Len())
	assert.Equal(t, int32(10), dst.Value(4))
	assert.True(t, dst.IsValid(4))
	assert.Equal(t, 4, dst.NullN())

	// a null source slot copies as a null
	pair.CopyValueSafe(1, 0)
	assert.False(t, dst.IsValid(0))
	assert.Equal(t, 4, dst.NullN())

	pair.CopyValueSafe(2, 0)
	assert.Equal(t, int32(30), dst.Value(0))
	assert.Equal(t, 3, dst.NullN())

	assert.Panics(t, func() { pair.CopyValueSafe(7, 0) })
}
