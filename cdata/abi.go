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

package cdata

import "unsafe"

const (
	// FlagNullable indicates that the field may contain null values.
	FlagNullable int64 = 1 << 0
	// FlagDictionaryOrdered indicates that the dictionary is ordered.
	FlagDictionaryOrdered int64 = 1 << 1
	// FlagMapKeysSorted indicates that the keys of a map are sorted.
	FlagMapKeysSorted int64 = 1 << 2
)

// CArrowSchema describes a type (and optionally a field name and metadata)
// for consumption across an ABI boundary. The fields mirror the C struct
// ArrowSchema in declaration order; strings cross as Go strings and the
// release callback crosses as a function value paired with the opaque
// PrivateData pointer.
//
// Ownership follows the release protocol: whoever holds a descriptor whose
// Release is non-nil owns it and must arrange for Release to be invoked
// exactly once. A nil Release marks the descriptor as already released and
// every release helper treats it as a no-op.
type CArrowSchema struct {
	Format      string
	Name        string
	Metadata    []byte
	Flags       int64
	NChildren   int64
	Children    []*CArrowSchema
	Dictionary  *CArrowSchema
	Release     func(*CArrowSchema)
	PrivateData any
}

// CArrowArray describes the memory of an array for consumption across an
// ABI boundary. The buffer pointers are raw addresses: their sizes are not
// carried and must be derived from the type described by the companion
// CArrowSchema.
type CArrowArray struct {
	Length      int64
	NullCount   int64
	Offset      int64
	NBuffers    int64
	NChildren   int64
	Buffers     []unsafe.Pointer
	Children    []*CArrowArray
	Dictionary  *CArrowArray
	Release     func(*CArrowArray)
	PrivateData any
}

func schemaIsReleased(s *CArrowSchema) bool { return s.Release == nil }

func markSchemaReleased(s *CArrowSchema) {
	s.Release = nil
	s.PrivateData = nil
}

// releaseSchema invokes the release callback if the descriptor has not been
// released yet. Safe to call any number of times.
func releaseSchema(s *CArrowSchema) {
	if s != nil && s.Release != nil {
		s.Release(s)
	}
}

// moveSchema transfers ownership of src into dst. src is left in the
// released state so only dst may trigger the release callback.
func moveSchema(src, dst *CArrowSchema) {
	*dst = *src
	markSchemaReleased(src)
}

func arrayIsReleased(a *CArrowArray) bool { return a.Release == nil }

func markArrayReleased(a *CArrowArray) {
	a.Release = nil
	a.PrivateData = nil
}

// releaseArray invokes the release callback if the descriptor has not been
// released yet. Safe to call any number of times.
func releaseArray(a *CArrowArray) {
	if a != nil && a.Release != nil {
		a.Release(a)
	}
}

// moveArray transfers ownership of src into dst. src is left in the
// released state so only dst may trigger the release callback.
func moveArray(src, dst *CArrowArray) {
	*dst = *src
	markArrayReleased(src)
}
