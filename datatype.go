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

import "strconv"

// Type is a logical type. They can be expressed as
// either a primitive physical type (bytes or bits of some fixed size), a
// nested type consisting of other data types, or another data type (e.g. a
// dictionary-encoded array of some value type)
type Type int

const (
	// NULL type having no physical storage
	NULL Type = iota

	// BOOL is a 1 bit, LSB bit-packed ordering
	BOOL

	// UINT8 is an Unsigned 8-bit little-endian integer
	UINT8

	// INT8 is a Signed 8-bit little-endian integer
	INT8

	// UINT16 is an Unsigned 16-bit little-endian integer
	UINT16

	// INT16 is a Signed 16-bit little-endian integer
	INT16

	// UINT32 is an Unsigned 32-bit little-endian integer
	UINT32

	// INT32 is a Signed 32-bit little-endian integer
	INT32

	// UINT64 is an Unsigned 64-bit little-endian integer
	UINT64

	// INT64 is a Signed 64-bit little-endian integer
	INT64

	// FLOAT32 is a 4-byte floating point value
	FLOAT32

	// FLOAT64 is an 8-byte floating point value
	FLOAT64

	// SPARSE_UNION of logical types: every child has the parent's length,
	// the active child is selected per slot by a type-id buffer
	SPARSE_UNION

	// DENSE_UNION of logical types: adds an offsets buffer so children only
	// store entries for slots where they are active
	DENSE_UNION

	// DICTIONARY aka Category type
	DICTIONARY
)

var typeNames = [...]string{
	NULL:         "NULL",
	BOOL:         "BOOL",
	UINT8:        "UINT8",
	INT8:         "INT8",
	UINT16:       "UINT16",
	INT16:        "INT16",
	UINT32:       "UINT32",
	INT32:        "INT32",
	UINT64:       "UINT64",
	INT64:        "INT64",
	FLOAT32:      "FLOAT32",
	FLOAT64:      "FLOAT64",
	SPARSE_UNION: "SPARSE_UNION",
	DENSE_UNION:  "DENSE_UNION",
	DICTIONARY:   "DICTIONARY",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// BufferKind describes the purpose of a buffer in a layout.
type BufferKind int8

const (
	KindAlwaysNull BufferKind = iota
	KindBitmap
	KindFixedWidth
)

// BufferSpec provides a specification for the buffers of a particular type.
type BufferSpec struct {
	Kind      BufferKind
	ByteWidth int // for KindFixedWidth
}

func (b BufferSpec) Equals(other BufferSpec) bool {
	return b.Kind == other.Kind && (b.Kind != KindFixedWidth || b.ByteWidth == other.ByteWidth)
}

// DataTypeLayout represents the buffers that a type uses. The buffer count
// and widths are fixed by the type; operations that find a mismatch between
// a layout and the buffers actually present must fail fast.
type DataTypeLayout struct {
	Buffers []BufferSpec
	HasDict bool
}

func SpecAlwaysNull() BufferSpec      { return BufferSpec{Kind: KindAlwaysNull} }
func SpecBitmap() BufferSpec          { return BufferSpec{Kind: KindBitmap} }
func SpecFixedWidth(w int) BufferSpec { return BufferSpec{Kind: KindFixedWidth, ByteWidth: w} }

// DataType is the representation of a logical type.
type DataType interface {
	ID() Type
	// Name is name of the data type.
	Name() string
	Fingerprint() string
	// Layout returns the buffer layout this type mandates.
	Layout() DataTypeLayout
}

// FixedWidthDataType is the representation of a type that
// requires a fixed number of bits in memory for each element.
type FixedWidthDataType interface {
	DataType
	// BitWidth returns the number of bits required to store a single element of this data type in memory.
	BitWidth() int
	// Bytes returns the number of bytes required to store a single element of this data type in memory.
	Bytes() int
}

// NestedType is a type that has children.
type NestedType interface {
	DataType

	// Fields returns the child fields of this type.
	Fields() []Field

	// NumFields returns the number of children of this type.
	NumFields() int
}

func typeIDFingerprint(id Type) string {
	c := string(rune(int(id) + int('A')))
	return "@" + c
}

func typeFingerprint(typ DataType) string { return typeIDFingerprint(typ.ID()) }
