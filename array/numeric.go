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
	"strings"

	"github.com/HelloBroBro/arrow"
	json "github.com/goccy/go-json"
)

// Numeric is an immutable sequence of fixed-width numeric values.
type Numeric[T arrow.FixedWidthType] struct {
	array
	values []T
}

// NewNumericData constructs a numeric array of element type T from data.
func NewNumericData[T arrow.FixedWidthType](data arrow.ArrayData) *Numeric[T] {
	a := &Numeric[T]{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

func (a *Numeric[T]) Value(i int) T { return a.values[i] }

// ValueOrErr returns the value at index i, or ErrNullValue when the slot is
// null. Use it where a zero read through a null slot must not pass silently.
func (a *Numeric[T]) ValueOrErr(i int) (T, error) {
	if a.IsNull(i) {
		var zero T
		return zero, fmt.Errorf("%w: index %d", arrow.ErrNullValue, i)
	}
	return a.values[i], nil
}

// Values returns the logical window of values, already adjusted for the
// array offset.
func (a *Numeric[T]) Values() []T { return a.values }

func (a *Numeric[T]) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			fmt.Fprintf(o, " ")
		}
		switch {
		case a.IsNull(i):
			o.WriteString(NullValueStr)
		default:
			fmt.Fprintf(o, "%v", a.values[i])
		}
	}
	o.WriteString("]")
	return o.String()
}

func (a *Numeric[T]) ValueStr(i int) string {
	if a.IsNull(i) {
		return NullValueStr
	}
	return fmt.Sprintf("%v", a.values[i])
}

func (a *Numeric[T]) setData(data *Data) {
	a.array.setData(data)
	vals := data.buffers[1]
	if vals != nil {
		a.values = arrow.GetData[T](vals.Bytes())
		beg := a.data.offset
		end := beg + a.data.length
		a.values = a.values[beg:end]
	}
}

func (a *Numeric[T]) MarshalJSON() ([]byte, error) {
	vals := make([]interface{}, a.Len())
	for i := range vals {
		if a.IsValid(i) {
			vals[i] = a.values[i]
		} else {
			vals[i] = nil
		}
	}
	return json.Marshal(vals)
}

// Convenience aliases mirroring the logical type names.
type (
	Int8    = Numeric[int8]
	Uint8   = Numeric[uint8]
	Int16   = Numeric[int16]
	Uint16  = Numeric[uint16]
	Int32   = Numeric[int32]
	Uint32  = Numeric[uint32]
	Int64   = Numeric[int64]
	Uint64  = Numeric[uint64]
	Float32 = Numeric[float32]
	Float64 = Numeric[float64]
)
