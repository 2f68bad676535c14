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
	"strings"
)

// UnionTypeCode is an alias to int8 which is the type of the ids
// used for union arrays.
type UnionTypeCode = int8

const (
	// MaxUnionTypeCode is the maximum allowed type id for unions
	MaxUnionTypeCode UnionTypeCode = 127
	// InvalidUnionChildID is the id returned from the ChildIDs mapping for
	// type codes that do not select any child
	InvalidUnionChildID = -1
)

// UnionMode is either SparseMode or DenseMode
type UnionMode int8

const (
	SparseMode UnionMode = iota
	DenseMode
)

func (m UnionMode) String() string {
	switch m {
	case SparseMode:
		return "sparse"
	case DenseMode:
		return "dense"
	}
	return "invalid"
}

// UnionType is an interface to encompass both Dense and Sparse Union types.
//
// A union is a nested type where each logical value is taken from a single
// child. A buffer of 8-bit type ids (typed as UnionTypeCode) indicates which
// child a given logical value is to be taken from. This is represented as
// the ChildIDs func, which returns a mapping from the type codes to the
// child index in the Fields slice.
type UnionType interface {
	NestedType
	Mode() UnionMode
	// TypeCodes returns the type id for each child, in child order
	TypeCodes() []UnionTypeCode
	// ChildIDs returns a slice indexable by type code, mapping it to the
	// child index or InvalidUnionChildID
	ChildIDs() []int
	// MaxTypeCode returns the largest type id among the children
	MaxTypeCode() UnionTypeCode
}

type unionType struct {
	children  []Field
	typeCodes []UnionTypeCode
	childIDs  [int(MaxUnionTypeCode) + 1]int
}

func (t *unionType) init(fields []Field, typeCodes []UnionTypeCode) {
	// initialize all child ids as invalid
	for i := range t.childIDs {
		t.childIDs[i] = InvalidUnionChildID
	}

	if len(typeCodes) == 0 {
		typeCodes = make([]UnionTypeCode, len(fields))
		for i := range fields {
			typeCodes[i] = UnionTypeCode(i)
		}
	}

	t.children = fields
	t.typeCodes = typeCodes

	for i, tc := range t.typeCodes {
		if tc < 0 {
			panic("arrow: union type codes must be non-negative")
		}
		t.childIDs[tc] = i
	}
}

func (t *unionType) Fields() []Field            { return t.children }
func (t *unionType) NumFields() int             { return len(t.children) }
func (t *unionType) TypeCodes() []UnionTypeCode { return t.typeCodes }
func (t *unionType) ChildIDs() []int            { return t.childIDs[:] }

func (t *unionType) MaxTypeCode() (max UnionTypeCode) {
	if len(t.typeCodes) == 0 {
		return
	}

	max = t.typeCodes[0]
	for _, c := range t.typeCodes[1:] {
		if c > max {
			max = c
		}
	}
	return
}

func (t *unionType) string(mode UnionMode) string {
	var b strings.Builder
	switch mode {
	case SparseMode:
		b.WriteString("sparse_union<")
	case DenseMode:
		b.WriteString("dense_union<")
	}
	for i, f := range t.children {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s=%d", f.Name, f.Type, t.typeCodes[i])
	}
	b.WriteByte('>')
	return b.String()
}

func (t *unionType) fingerprint(mode UnionMode) string {
	var b strings.Builder
	b.WriteString("@u")
	if mode == SparseMode {
		b.WriteByte('s')
	} else {
		b.WriteByte('d')
	}
	for _, c := range t.typeCodes {
		fmt.Fprintf(&b, ":%d", c)
	}
	b.WriteByte('{')
	for _, f := range t.children {
		b.WriteString(f.Type.Fingerprint())
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}

// SparseUnionType is the concrete type for sparse union data.
//
// A sparse union is a nested type where each logical value is taken
// from a single child. A buffer of 8-bit type ids indicates which child
// a given logical value is to be taken from.
//
// In a sparse union, each child array will have the same length as the
// union array itself, regardless of the actual number of union values which
// refer to it.
type SparseUnionType struct {
	unionType
}

// SparseUnionOf is equivalent to UnionOf(arrow.SparseMode, fields, typeCodes),
// constructing a SparseUnionType from a list of fields and type codes.
//
// If len(typeCodes) == 0, the type codes are assumed to be monotonically
// increasing from 0.
func SparseUnionOf(fields []Field, typeCodes []UnionTypeCode) *SparseUnionType {
	ret := &SparseUnionType{}
	ret.init(fields, typeCodes)
	return ret
}

func (t *SparseUnionType) ID() Type            { return SPARSE_UNION }
func (t *SparseUnionType) Name() string        { return "sparse_union" }
func (t *SparseUnionType) Mode() UnionMode     { return SparseMode }
func (t *SparseUnionType) String() string      { return t.string(SparseMode) }
func (t *SparseUnionType) Fingerprint() string { return t.fingerprint(SparseMode) }

func (t *SparseUnionType) Layout() DataTypeLayout {
	return DataTypeLayout{Buffers: []BufferSpec{SpecAlwaysNull(), SpecFixedWidth(1)}}
}

// DenseUnionType is the concrete type for dense union data.
//
// A dense union is a nested type where each logical value is taken from a
// single child, at a specific offset. A buffer of 8-bit type ids indicates
// which child a given logical value is to be taken from, and a buffer of
// 32-bit offsets indicates at which physical position in the given child
// array the logical value is to be taken from.
//
// Unlike a sparse union, a dense union allows encoding only the child values
// which are actually referred to by the union array. This is counterbalanced
// by the additional footprint of the offsets buffer, and the additional
// indirection cost when looking up values.
type DenseUnionType struct {
	unionType
}

// DenseUnionOf is equivalent to UnionOf(arrow.DenseMode, fields, typeCodes),
// constructing a DenseUnionType from a list of fields and type codes.
//
// If len(typeCodes) == 0, the type codes are assumed to be monotonically
// increasing from 0.
func DenseUnionOf(fields []Field, typeCodes []UnionTypeCode) *DenseUnionType {
	ret := &DenseUnionType{}
	ret.init(fields, typeCodes)
	return ret
}

func (t *DenseUnionType) ID() Type            { return DENSE_UNION }
func (t *DenseUnionType) Name() string        { return "dense_union" }
func (t *DenseUnionType) Mode() UnionMode     { return DenseMode }
func (t *DenseUnionType) String() string      { return t.string(DenseMode) }
func (t *DenseUnionType) Fingerprint() string { return t.fingerprint(DenseMode) }

func (t *DenseUnionType) Layout() DataTypeLayout {
	return DataTypeLayout{Buffers: []BufferSpec{SpecAlwaysNull(), SpecFixedWidth(1), SpecFixedWidth(4)}}
}

// UnionOf returns an appropriate union type for the given Mode (Sparse or Dense),
// fields, and type codes.
func UnionOf(mode UnionMode, fields []Field, typeCodes []UnionTypeCode) UnionType {
	switch mode {
	case SparseMode:
		return SparseUnionOf(fields, typeCodes)
	case DenseMode:
		return DenseUnionOf(fields, typeCodes)
	default:
		panic("arrow: invalid union mode")
	}
}

var (
	_ UnionType = (*SparseUnionType)(nil)
	_ UnionType = (*DenseUnionType)(nil)
)
