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

package bitutil_test

import (
	"testing"

	"github.com/HelloBroBro/arrow/bitutil"
	"github.com/stretchr/testify/assert"
)

func TestBitmapReader(t *testing.T) {
	assertReaderVals := func(t *testing.T, reader *bitutil.BitmapReader, vals []bool) {
		for _, v := range vals {
			if v {
				assert.True(t, reader.Set())
				assert.False(t, reader.NotSet())
			} else {
				assert.False(t, reader.Set())
				assert.True(t, reader.NotSet())
			}
			reader.Next()
		}
	}

	buf := []byte{0b10101010, 0b00000101}
	assertReaderVals(t, bitutil.NewBitmapReader(buf, 0, 10),
		[]bool{false, true, false, true, false, true, false, true, true, false})
	assertReaderVals(t, bitutil.NewBitmapReader(buf, 3, 7),
		[]bool{true, false, true, false, true, true, false})
}

func TestBitmapWriter(t *testing.T) {
	buf := make([]byte, 2)
	wrt := bitutil.NewBitmapWriter(buf, 3, 10)
	pattern := []bool{true, false, true, true, false, false, true, true, true, false}
	for _, v := range pattern {
		if v {
			wrt.Set()
		} else {
			wrt.Clear()
		}
		wrt.Next()
	}
	wrt.Finish()

	for i, v := range pattern {
		assert.Equal(t, v, bitutil.BitIsSet(buf, 3+i), "bit %d", i)
	}
	// bits outside the written window stay zero
	assert.False(t, bitutil.BitIsSet(buf, 0))
	assert.False(t, bitutil.BitIsSet(buf, 1))
	assert.False(t, bitutil.BitIsSet(buf, 2))
	assert.False(t, bitutil.BitIsSet(buf, 13))
}

func TestCopyBitmapAligned(t *testing.T) {
	src := []byte{0b11001010, 0b01110001}
	dst := []byte{0xff, 0xff}
	bitutil.CopyBitmap(src, 0, 12, dst, 0)

	for i := 0; i < 12; i++ {
		assert.Equal(t, bitutil.BitIsSet(src, i), bitutil.BitIsSet(dst, i), "bit %d", i)
	}
	// bits beyond the copied range are preserved
	for i := 12; i < 16; i++ {
		assert.True(t, bitutil.BitIsSet(dst, i), "bit %d", i)
	}
}

func TestCopyBitmapUnaligned(t *testing.T) {
	src := make([]byte, 4)
	for i := 0; i < 32; i += 3 {
		bitutil.SetBit(src, i)
	}

	for _, srcOffset := range []int{0, 1, 5, 9} {
		for _, dstOffset := range []int{0, 2, 7} {
			length := 16
			dst := make([]byte, 4)
			bitutil.CopyBitmap(src, srcOffset, length, dst, dstOffset)
			for i := 0; i < length; i++ {
				assert.Equal(t, bitutil.BitIsSet(src, srcOffset+i), bitutil.BitIsSet(dst, dstOffset+i),
					"srcOffset=%d dstOffset=%d bit=%d", srcOffset, dstOffset, i)
			}
		}
	}
}
