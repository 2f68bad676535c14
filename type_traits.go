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
	"unsafe"

	"golang.org/x/exp/constraints"
)

const (
	Int8SizeBytes  = int(unsafe.Sizeof(int8(0)))
	Int32SizeBytes = int(unsafe.Sizeof(int32(0)))
	Int64SizeBytes = int(unsafe.Sizeof(int64(0)))
)

// FixedWidthType is the type constraint for raw values that are represented
// by a fixed-width primitive layout.
type FixedWidthType interface {
	constraints.Integer | constraints.Float
}

// GetBytes returns a byte slice view of the passed in data respecting its
// native width, without copying.
func GetBytes[T FixedWidthType](in []T) []byte {
	if len(in) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(in))), len(in)*int(unsafe.Sizeof(z)))
}

// GetData returns a slice of T by reinterpreting the bytes of in, without
// copying. The length of in must be a multiple of the size of T.
func GetData[T FixedWidthType](in []byte) []T {
	if len(in) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(in))), len(in)/int(unsafe.Sizeof(z)))
}

// SizeOf returns the number of bytes a single value of type T occupies.
func SizeOf[T FixedWidthType]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// TypeOf maps a Go fixed-width primitive to its DataType.
func TypeOf[T FixedWidthType]() DataType {
	var z T
	switch any(z).(type) {
	case int8:
		return PrimitiveTypes.Int8
	case uint8:
		return PrimitiveTypes.Uint8
	case int16:
		return PrimitiveTypes.Int16
	case uint16:
		return PrimitiveTypes.Uint16
	case int32:
		return PrimitiveTypes.Int32
	case uint32:
		return PrimitiveTypes.Uint32
	case int64:
		return PrimitiveTypes.Int64
	case uint64:
		return PrimitiveTypes.Uint64
	case float32:
		return PrimitiveTypes.Float32
	case float64:
		return PrimitiveTypes.Float64
	default:
		panic(ErrType)
	}
}
