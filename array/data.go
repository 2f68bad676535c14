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
)

// Data represents the memory and metadata of an Arrow array.
type Data struct {
	refCount   int64
	dtype      arrow.DataType
	nulls      int
	offset     int
	length     int
	buffers    []*memory.Buffer
	childData  []arrow.ArrayData
	dictionary *Data // only populated for dictionary arrays
}

// NewData creates a new Data.
func NewData(dtype arrow.DataType, length int, buffers []*memory.Buffer, childData []arrow.ArrayData, nulls, offset int) *Data {
	for _, b := range buffers {
		if b != nil {
			b.Retain()
		}
	}

	for _, child := range childData {
		if child != nil {
			child.Retain()
		}
	}

	return &Data{
		refCount:  1,
		dtype:     dtype,
		nulls:     nulls,
		length:    length,
		offset:    offset,
		buffers:   buffers,
		childData: childData,
	}
}

// NewDataWithDictionary creates a new data object, but also sets the provided dictionary into the data if it's not nil
func NewDataWithDictionary(dtype arrow.DataType, length int, buffers []*memory.Buffer, nulls, offset int, dict *Data) *Data {
	data := NewData(dtype, length, buffers, nil, nulls, offset)
	if dict != nil {
		dict.Retain()
	}
	data.dictionary = dict
	return data
}

func (d *Data) Copy() *Data {
	// don't pass the slices directly, otherwise it retains the connection
	// we need to make new slices and populate them with the same pointers
	bufs := make([]*memory.Buffer, len(d.buffers))
	copy(bufs, d.buffers)
	children := make([]arrow.ArrayData, len(d.childData))
	copy(children, d.childData)

	data := NewData(d.dtype, d.length, bufs, children, d.nulls, d.offset)
	data.SetDictionary(d.dictionary)
	return data
}

// Reset sets the Data for re-use.
func (d *Data) Reset(dtype arrow.DataType, length int, buffers []*memory.Buffer, childData []arrow.ArrayData, nulls, offset int) {
	// Retain new buffers before releasing existing buffers in-case they're the same ones to prevent accidental premature
	// release.
	for _, b := range buffers {
		if b != nil {
			b.Retain()
		}
	}
	for _, b := range d.buffers {
		if b != nil {
			b.Release()
		}
	}
	d.buffers = buffers

	// Retain new children data before releasing existing children data in-case they're the same ones to prevent accidental
	// premature release.
	for _, d := range childData {
		if d != nil {
			d.Retain()
		}
	}
	for _, d := range d.childData {
		if d != nil {
			d.Release()
		}
	}
	d.childData = childData

	d.dtype = dtype
	d.length = length
	d.nulls = nulls
	d.offset = offset
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (d *Data) Retain() {
	atomic.AddInt64(&d.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
// Release may be called simultaneously from multiple goroutines.
func (d *Data) Release() {
	debug.Assert(atomic.LoadInt64(&d.refCount) > 0, "too many releases")

	if atomic.AddInt64(&d.refCount, -1) == 0 {
		for _, b := range d.buffers {
			if b != nil {
				b.Release()
			}
		}

		for _, b := range d.childData {
			b.Release()
		}

		if d.dictionary != nil {
			d.dictionary.Release()
		}
		d.dictionary, d.buffers, d.childData = nil, nil, nil
	}
}

// DataType returns the DataType of the data.
func (d *Data) DataType() arrow.DataType { return d.dtype }

func (d *Data) SetNullN(n int) { d.nulls = n }

// NullN returns the number of nulls, computing and caching it from the
// validity bitmap if it is not yet known.
func (d *Data) NullN() int {
	if d.nulls == arrow.UnknownNullCount {
		d.nulls = d.computeNullN()
	}
	return d.nulls
}

// Len returns the length.
func (d *Data) Len() int { return d.length }

// Offset returns the offset.
func (d *Data) Offset() int { return d.offset }

// Buffers returns the buffers.
func (d *Data) Buffers() []*memory.Buffer { return d.buffers }

func (d *Data) Children() []arrow.ArrayData { return d.childData }

// Dictionary returns the ArrayData object for the dictionary if this is a
// dictionary array, otherwise it will be nil.
func (d *Data) Dictionary() arrow.ArrayData {
	if d.dictionary == nil {
		// this is to avoid the issue of d.dictionary being a typed nil
		return nil
	}
	return d.dictionary
}

// SetDictionary allows replacing the dictionary for this particular Data object
func (d *Data) SetDictionary(dict arrow.ArrayData) {
	if d.dictionary != nil {
		d.dictionary.Release()
		d.dictionary = nil
	}
	if dict != nil && dict.(*Data) != nil {
		dict.Retain()
		d.dictionary = dict.(*Data)
	}
}

// IsValid reports whether the logical slot i holds a non-null value. Union
// data has no validity bitmap of its own and delegates to the child the slot
// selects.
func (d *Data) IsValid(i int) bool {
	debug.Assert(i >= 0 && i < d.length, "index out of range")
	switch dt := d.dtype.(type) {
	case *arrow.NullType:
		return false
	case arrow.UnionType:
		return d.unionSlotIsValid(dt, i)
	}
	if len(d.buffers) == 0 || d.buffers[0] == nil {
		return true
	}
	return bitutil.BitIsSet(d.buffers[0].Bytes(), d.offset+i)
}

func (d *Data) unionSlotIsValid(dt arrow.UnionType, i int) bool {
	typeIDs := arrow.GetData[arrow.UnionTypeCode](d.buffers[1].Bytes())
	code := typeIDs[d.offset+i]
	childID := dt.ChildIDs()[code]
	debug.Assert(childID != arrow.InvalidUnionChildID, "invalid union type code")
	child := d.childData[childID]
	if dt.Mode() == arrow.SparseMode {
		return child.IsValid(d.offset + i)
	}
	offsets := arrow.GetData[int32](d.buffers[2].Bytes())
	return child.IsValid(int(offsets[d.offset+i]))
}

// computeNullN performs the O(n) count. Primitive data pops the validity
// bitmap, union data asks each slot's selected child. Counting on data whose
// buffer count disagrees with the type's layout is a programmer error.
func (d *Data) computeNullN() int {
	if d.length == 0 {
		return 0
	}
	if want := len(d.dtype.Layout().Buffers); len(d.buffers) != want {
		panic(fmt.Errorf("%w: %s data has %d buffers, layout mandates %d",
			arrow.ErrInvalid, d.dtype.Name(), len(d.buffers), want))
	}
	switch d.dtype.(type) {
	case *arrow.NullType:
		return d.length
	case arrow.UnionType:
		nulls := 0
		for i := 0; i < d.length; i++ {
			if !d.IsValid(i) {
				nulls++
			}
		}
		return nulls
	}
	if len(d.buffers) == 0 || d.buffers[0] == nil {
		return 0
	}
	return d.length - bitutil.CountSetBits(d.buffers[0].Bytes(), d.offset, d.length)
}

// SizeInBytes returns the size of the Data and any children and/or dictionary in bytes by
// recursively examining the nested structures of children and/or dictionary.
// The value returned is an upper-bound since offset is not taken into account.
func (d *Data) SizeInBytes() uint64 {
	var size uint64

	if d == nil {
		return 0
	}

	for _, b := range d.Buffers() {
		if b != nil {
			size += uint64(b.Len())
		}
	}
	for _, c := range d.Children() {
		size += c.(*Data).SizeInBytes()
	}
	if d.dictionary != nil {
		size += d.dictionary.SizeInBytes()
	}

	return size
}

// NewSliceData returns a new slice that shares backing data with the input.
// The returned Data slice starts at i and extends j-i elements, such as:
//
//	Data{0, 1, 2, 3, 4, 5, 6}
//	Slice(2, 5) => Data{2, 3, 4}
//
// NewSliceData panics if the slice is outside the valid range of the input Data.
// NewSliceData panics if j < i.
func NewSliceData(data arrow.ArrayData, i, j int64) arrow.ArrayData {
	if j > int64(data.Len()) || i > j || data.Offset()+int(i) > data.Offset()+data.Len() {
		panic(fmt.Errorf("%w: index out of range", arrow.ErrInvalid))
	}

	for _, b := range data.Buffers() {
		if b != nil {
			b.Retain()
		}
	}

	for _, child := range data.Children() {
		if child != nil {
			child.Retain()
		}
	}

	if data.(*Data).dictionary != nil {
		data.(*Data).dictionary.Retain()
	}

	o := &Data{
		refCount:   1,
		dtype:      data.DataType(),
		nulls:      arrow.UnknownNullCount,
		length:     int(j - i),
		offset:     data.Offset() + int(i),
		buffers:    data.Buffers(),
		childData:  data.Children(),
		dictionary: data.(*Data).dictionary,
	}

	if data.NullN() == 0 {
		o.nulls = 0
	}

	return o
}
