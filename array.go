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

package arrow

import (
	"fmt"

	"github.com/HelloBroBro/arrow/memory"
)

// UnknownNullCount specifies the NullN should be calculated from the null bitmap buffer.
const UnknownNullCount = -1

// ArrayData is the underlying memory and metadata of an Arrow array.
//
// The various array types in the array package are all constructed from
// ArrayData and a slice of the same data can be shared between multiple
// arrays: once shared, the data is treated as immutable.
type ArrayData interface {
	// Retain increases the reference count by 1, it is safe to call
	// in multiple goroutines simultaneously.
	Retain()
	// Release decreases the reference count by 1, it is safe to call
	// in multiple goroutines simultaneously. Data is removed when reference
	// count is 0.
	Release()
	// DataType returns the current datatype stored in the object.
	DataType() DataType
	// NullN returns the number of nulls, computing and caching it if it
	// was not yet known.
	NullN() int
	// Len returns the length of this data
	Len() int
	// Offset returns the logical start of this data into the buffers
	Offset() int
	// Buffers returns the slice of buffers for this data
	Buffers() []*memory.Buffer
	// Children returns the children of this data, shared between parents
	Children() []ArrayData
	// Dictionary returns the dictionary for dictionary-encoded data,
	// nil otherwise
	Dictionary() ArrayData
	// IsValid returns whether the logical slot i holds a non-null value
	IsValid(i int) bool
}

// Array represents an immutable sequence of values using the Arrow in-memory format.
type Array interface {
	fmt.Stringer

	// DataType returns the type metadata for this instance.
	DataType() DataType

	// NullN returns the number of null values in the array.
	NullN() int

	// NullBitmapBytes returns a byte slice of the validity bitmap.
	NullBitmapBytes() []byte

	// IsNull returns true if value at index is null.
	// NOTE: IsNull will panic if NullBitmapBytes is not empty and 0 > i ≥ NullN.
	IsNull(i int) bool

	// IsValid returns true if value at index is not null.
	// NOTE: IsValid will panic if NullBitmapBytes is not empty and 0 > i ≥ NullN.
	IsValid(i int) bool

	Data() ArrayData

	// Len returns the number of elements in the array.
	Len() int

	// Retain increases the reference count by 1.
	// Retain may be called simultaneously from multiple goroutines.
	Retain()

	// Release decreases the reference count by 1.
	// Release may be called simultaneously from multiple goroutines.
	// When the reference count goes to zero, the memory is freed.
	Release()
}
