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

// Package cdata implements the Arrow C Data Interface handshake for
// sharing schemas and arrays across an ABI boundary without copying.
package cdata

import (
	"unsafe"

	"github.com/HelloBroBro/arrow"
	"github.com/HelloBroBro/arrow/array"
)

// SchemaFromPtr is a simple helper function to cast a uintptr to a *CArrowSchema
func SchemaFromPtr(ptr uintptr) *CArrowSchema { return (*CArrowSchema)(unsafe.Pointer(ptr)) }

// ArrayFromPtr is a simple helper function to cast a uintptr to a *CArrowArray
func ArrayFromPtr(ptr uintptr) *CArrowArray { return (*CArrowArray)(unsafe.Pointer(ptr)) }

// SchemaPtr exposes the address of a schema descriptor so it can be handed
// to a consumer in another runtime.
func SchemaPtr(schema *CArrowSchema) uintptr { return uintptr(unsafe.Pointer(schema)) }

// ArrayPtr exposes the address of an array descriptor so it can be handed
// to a consumer in another runtime.
func ArrayPtr(arr *CArrowArray) uintptr { return uintptr(unsafe.Pointer(arr)) }

// ImportCArrowField takes in an ArrowSchema from the C Data Interface, it
// will copy the metadata and type definitions rather than keep direct
// references to them. The release callback of the passed in schema is
// invoked regardless of whether or not there is an error returned.
func ImportCArrowField(out *CArrowSchema) (arrow.Field, error) {
	return importSchema(out)
}

// ImportCArrayWithType takes a pointer to a C Data ArrowArray and interprets
// the values as an array with the given datatype.
//
// The underlying buffers will not be copied, but will instead be referenced
// directly by the resulting array interface object. The passed in ArrowArray
// has its ownership transferred to the resulting arrow.Array via a move:
// the source descriptor is left released and the release callback fires when
// the last reference to the imported memory drops. On error nothing is
// borrowed and the moved descriptor has already been released.
func ImportCArrayWithType(arr *CArrowArray, dt arrow.DataType) (arrow.Array, error) {
	imp, err := importCArrayAsType(arr, dt)
	if err != nil {
		return nil, err
	}
	defer imp.data.Release()
	return array.MakeFromData(imp.data), nil
}

// ImportCArray takes a pointer to both a C Data ArrowArray and C Data
// ArrowSchema in order to import them into usable Go objects. The schema
// is always released; the array follows the ownership rules of
// ImportCArrayWithType.
func ImportCArray(arr *CArrowArray, schema *CArrowSchema) (arrow.Field, arrow.Array, error) {
	field, err := importSchema(schema)
	if err != nil {
		return field, nil, err
	}

	ret, err := ImportCArrayWithType(arr, field.Type)
	return field, ret, err
}

// ExportArrowField populates the passed in CArrowSchema with the type and
// metadata of the given field so that it can be passed to some consumer of
// the C Data Interface. The release callback tied to the descriptor frees
// everything that was allocated while populating it.
func ExportArrowField(field arrow.Field, out *CArrowSchema) {
	exportField(field, out)
}

// ExportArrowArray populates the CArrowArray that is passed in with the
// pointers to the memory being used by the arrow.Array passed in, in order
// to share with zero-copy across the C Data Interface. The array's data is
// retained, and the release callback on the populated descriptor drops that
// reference. The descriptor must be released exactly once, or the data is
// leaked.
func ExportArrowArray(arr arrow.Array, out *CArrowArray, outSchema *CArrowSchema) {
	exportArray(arr, out, outSchema)
}

// MoveCArrowSchema transfers ownership of the descriptor from src to dst,
// leaving src in the released state. Releasing src afterwards is a no-op.
func MoveCArrowSchema(src, dst *CArrowSchema) { moveSchema(src, dst) }

// MoveCArrowArray transfers ownership of the descriptor from src to dst,
// leaving src in the released state. Releasing src afterwards is a no-op.
func MoveCArrowArray(src, dst *CArrowArray) { moveArray(src, dst) }

// ReleaseCArrowSchema invokes the release callback on the schema descriptor
// if it has not been released yet. Safe to call multiple times.
func ReleaseCArrowSchema(schema *CArrowSchema) { releaseSchema(schema) }

// ReleaseCArrowArray invokes the release callback on the array descriptor
// if it has not been released yet. Safe to call multiple times.
func ReleaseCArrowArray(arr *CArrowArray) { releaseArray(arr) }
