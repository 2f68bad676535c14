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
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/HelloBroBro/arrow"
	"github.com/HelloBroBro/arrow/internal/debug"
	"github.com/HelloBroBro/arrow/memory"
)

// Union is a convenience interface to encompass both Sparse and Dense
// union array types.
type Union interface {
	arrow.Array
	// NumFields returns the number of child fields in this union.
	NumFields() int
	// TypeCodes returns the type id buffer for the union.
	TypeCodes() *memory.Buffer
	// RawTypeCodes returns the slice of type codes per element, adjusted
	// for the array offset.
	RawTypeCodes() []arrow.UnionTypeCode
	// TypeCode returns the logical type code of the value at the requested index
	TypeCode(i int) arrow.UnionTypeCode
	// ChildID returns the index of the child array the value at the
	// requested index belongs to
	ChildID(i int) int
	// UnionType is a convenience accessor for the union type instance
	UnionType() arrow.UnionType
	// Mode returns the union mode of the underlying data type
	Mode() arrow.UnionMode
	// Field returns the requested child array for this union. Multiple
	// calls for the same index should return the same object.
	Field(pos int) arrow.Array
}

type union struct {
	array

	unionType arrow.UnionType
	typecodes []arrow.UnionTypeCode

	children []arrow.Array
}

func (a *union) Mode() arrow.UnionMode { return a.unionType.Mode() }

func (a *union) UnionType() arrow.UnionType { return a.unionType }

func (a *union) NumFields() int { return a.unionType.NumFields() }

func (a *union) TypeCodes() *memory.Buffer { return a.data.buffers[1] }

func (a *union) RawTypeCodes() []arrow.UnionTypeCode {
	if a.data.length > 0 {
		return a.typecodes[a.data.offset:]
	}
	return []arrow.UnionTypeCode{}
}

func (a *union) TypeCode(i int) arrow.UnionTypeCode { return a.RawTypeCodes()[i] }

func (a *union) ChildID(i int) int {
	return a.unionType.ChildIDs()[a.RawTypeCodes()[i]]
}

// NullN delegates to the child arrays: a union has no validity bitmap
// of its own.
func (a *union) NullN() int { return a.data.NullN() }

func (a *union) IsValid(i int) bool { return a.data.IsValid(i) }
func (a *union) IsNull(i int) bool  { return !a.data.IsValid(i) }

func (a *union) setData(data *Data) {
	a.array.setData(data)
	a.unionType = data.dtype.(arrow.UnionType)
	debug.Assert(len(data.buffers) >= 2, "arrow/array: invalid number of union array buffers")

	if data.length > 0 {
		a.typecodes = arrow.GetData[arrow.UnionTypeCode](data.buffers[1].Bytes())
	} else {
		a.typecodes = []arrow.UnionTypeCode{}
	}

	a.children = make([]arrow.Array, len(data.childData))
	for i, child := range data.childData {
		if a.Mode() == arrow.SparseMode && (data.offset != 0 || child.Len() != data.length) {
			child = NewSliceData(child, int64(data.offset), int64(data.offset+data.length))
			defer child.Release()
		}
		a.children[i] = MakeFromData(child)
	}
}

func (a *union) Field(pos int) (result arrow.Array) {
	if pos < 0 || pos >= len(a.children) {
		return nil
	}
	return a.children[pos]
}

func (a *union) Retain() {
	a.array.Retain()
	for _, c := range a.children {
		c.Retain()
	}
}

func (a *union) Release() {
	a.array.Release()
	for _, c := range a.children {
		c.Release()
	}
}

// SparseUnion represents an array where each logical value is taken from
// a single child. A buffer of 8-bit type ids indicates which child a given
// logical value is to be taken from. Each child has the same length as
// the union itself.
type SparseUnion struct {
	union
}

// NewSparseUnionData constructs a SparseUnion array from the given ArrayData object.
func NewSparseUnionData(data arrow.ArrayData) *SparseUnion {
	a := &SparseUnion{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// NewSparseUnionFromArrays constructs a new SparseUnion array with the provided
// values.
//
// typeIDs *must* be an INT8 array with no nulls
func NewSparseUnionFromArrays(typeIDs arrow.Array, codes []arrow.UnionTypeCode, children ...arrow.Array) (*SparseUnion, error) {
	if typeIDs.DataType().ID() != arrow.INT8 {
		return nil, fmt.Errorf("%w: union array type ids must be signed int8", arrow.ErrInvalid)
	}

	if typeIDs.NullN() != 0 {
		return nil, fmt.Errorf("%w: union type ids may not have nulls", arrow.ErrInvalid)
	}

	fields := make([]arrow.Field, len(children))
	for i, c := range children {
		if c.Len() != typeIDs.Len() {
			return nil, fmt.Errorf("%w: sparse union child arrays must be equal in length to the union array", arrow.ErrInvalid)
		}
		fields[i].Name = strconv.Itoa(i)
		fields[i].Type = c.DataType()
		fields[i].Nullable = true
	}

	ty := arrow.SparseUnionOf(fields, codes)
	buffers := []*memory.Buffer{nil, typeIDs.Data().Buffers()[1]}
	childData := make([]arrow.ArrayData, len(children))
	for i, c := range children {
		childData[i] = c.Data()
	}
	data := NewData(ty, typeIDs.Len(), buffers, childData, arrow.UnknownNullCount, typeIDs.Data().Offset())
	defer data.Release()
	return NewSparseUnionData(data), nil
}

func (a *SparseUnion) setData(data *Data) {
	a.union.setData(data)
	debug.Assert(a.data.dtype.ID() == arrow.SPARSE_UNION, "arrow/array: invalid data type for SparseUnion")
	debug.Assert(len(a.data.buffers) == 2, "arrow/array: sparse unions should have exactly 2 buffers")
	debug.Assert(a.data.buffers[0] == nil, "arrow/array: sparse unions should not have a validity bitmap")
}

func (a *SparseUnion) String() string {
	var b strings.Builder
	b.WriteByte('[')
	fieldList := a.unionType.Fields()
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		field := fieldList[a.ChildID(i)]
		f := a.Field(a.ChildID(i))
		fmt.Fprintf(&b, "{%s=%v}", field.Name, valueString(f, i))
	}
	b.WriteByte(']')
	return b.String()
}

// DenseUnion represents an array where each logical value is taken from
// a single child, at a specific offset. A buffer of 8-bit type ids
// indicates which child a given logical value is to be taken from and
// a buffer of 32-bit offsets indicates which physical position in the
// given child array has the logical value.
type DenseUnion struct {
	union
	offsets []int32
}

// NewDenseUnionData constructs a DenseUnion array from the given ArrayData object.
func NewDenseUnionData(data arrow.ArrayData) *DenseUnion {
	a := &DenseUnion{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// NewDenseUnionFromArrays constructs a new DenseUnion array with the provided
// values.
//
// typeIDs *must* be an INT8 array with no nulls, and offsets *must* be an
// INT32 array with no nulls.
func NewDenseUnionFromArrays(typeIDs, offsets arrow.Array, codes []arrow.UnionTypeCode, children ...arrow.Array) (*DenseUnion, error) {
	if typeIDs.DataType().ID() != arrow.INT8 {
		return nil, fmt.Errorf("%w: union array type ids must be signed int8", arrow.ErrInvalid)
	}
	if offsets.DataType().ID() != arrow.INT32 {
		return nil, fmt.Errorf("%w: union value offsets must be signed int32", arrow.ErrInvalid)
	}
	if typeIDs.NullN() != 0 {
		return nil, fmt.Errorf("%w: union type ids may not have nulls", arrow.ErrInvalid)
	}
	if offsets.NullN() != 0 {
		return nil, fmt.Errorf("%w: union value offsets may not have nulls", arrow.ErrInvalid)
	}
	if offsets.Len() != typeIDs.Len() {
		return nil, fmt.Errorf("%w: union value offsets must be equal in length to the type ids", arrow.ErrInvalid)
	}

	fields := make([]arrow.Field, len(children))
	for i, c := range children {
		fields[i].Name = strconv.Itoa(i)
		fields[i].Type = c.DataType()
		fields[i].Nullable = true
	}

	ty := arrow.DenseUnionOf(fields, codes)
	buffers := []*memory.Buffer{nil, typeIDs.Data().Buffers()[1], offsets.Data().Buffers()[1]}
	childData := make([]arrow.ArrayData, len(children))
	for i, c := range children {
		childData[i] = c.Data()
	}
	data := NewData(ty, typeIDs.Len(), buffers, childData, arrow.UnknownNullCount, typeIDs.Data().Offset())
	defer data.Release()
	return NewDenseUnionData(data), nil
}

func (a *DenseUnion) setData(data *Data) {
	a.union.setData(data)
	debug.Assert(a.data.dtype.ID() == arrow.DENSE_UNION, "arrow/array: invalid data type for DenseUnion")
	debug.Assert(len(a.data.buffers) == 3, "arrow/array: dense unions should have exactly 3 buffers")
	debug.Assert(a.data.buffers[0] == nil, "arrow/array: dense unions should not have a validity bitmap")

	if data.length > 0 {
		a.offsets = arrow.GetData[int32](data.buffers[2].Bytes())
	} else {
		a.offsets = []int32{}
	}
}

// ValueOffsets returns the buffer holding the offsets into the children.
func (a *DenseUnion) ValueOffsets() *memory.Buffer { return a.data.buffers[2] }

// ValueOffset returns the offset into the child that holds the value at
// index i.
func (a *DenseUnion) ValueOffset(i int) int32 { return a.offsets[a.data.offset+i] }

// RawValueOffsets returns the slice of offsets, adjusted for the array offset.
func (a *DenseUnion) RawValueOffsets() []int32 { return a.offsets[a.data.offset:] }

func (a *DenseUnion) String() string {
	var b strings.Builder
	b.WriteByte('[')
	fieldList := a.unionType.Fields()
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		field := fieldList[a.ChildID(i)]
		f := a.Field(a.ChildID(i))
		fmt.Fprintf(&b, "{%s=%v}", field.Name, valueString(f, int(a.ValueOffset(i))))
	}
	b.WriteByte(']')
	return b.String()
}

func valueString(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return NullValueStr
	}
	type valueStringer interface {
		ValueStr(int) string
	}
	if vs, ok := arr.(valueStringer); ok {
		return vs.ValueStr(i)
	}
	return fmt.Sprintf("%v", arr)
}

type unionBuilder struct {
	builder

	childFields []arrow.Field
	codes       []arrow.UnionTypeCode
	mode        arrow.UnionMode

	children        []Builder
	typeIDtoBuilder []Builder
	typeIDtoChildID []int

	typesBuilder *NumericBuilder[int8]
}

func newUnionBuilder(mem memory.Allocator, children []Builder, typ arrow.UnionType) unionBuilder {
	if children == nil {
		children = make([]Builder, 0)
	}
	b := unionBuilder{
		builder:         builder{refCount: 1, mem: mem},
		mode:            typ.Mode(),
		codes:           typ.TypeCodes(),
		children:        children,
		typeIDtoChildID: make([]int, int(typ.MaxTypeCode())+1),
		typeIDtoBuilder: make([]Builder, int(typ.MaxTypeCode())+1),
		childFields:     make([]arrow.Field, len(children)),
		typesBuilder:    NewNumericBuilder[int8](mem, arrow.PrimitiveTypes.Int8),
	}

	for i := range b.typeIDtoChildID {
		b.typeIDtoChildID[i] = arrow.InvalidUnionChildID
	}

	debug.Assert(len(children) == len(typ.TypeCodes()), "mismatched typecodes and children")

	for i, c := range children {
		c.Retain()
		typeID := typ.TypeCodes()[i]
		b.typeIDtoChildID[typeID] = i
		b.typeIDtoBuilder[typeID] = c
		b.childFields[i] = typ.Fields()[i]
	}

	return b
}

func (b *unionBuilder) NumChildren() int { return len(b.children) }

func (b *unionBuilder) Child(idx int) Builder {
	if idx < 0 || idx > len(b.children) {
		panic("arrow/array: invalid child index for union builder")
	}
	return b.children[idx]
}

// Len returns the current number of elements in the builder.
func (b *unionBuilder) Len() int { return b.typesBuilder.Len() }

func (b *unionBuilder) Cap() int { return b.typesBuilder.Cap() }

func (b *unionBuilder) NullN() int { return 0 }

func (b *unionBuilder) Mode() arrow.UnionMode { return b.mode }

func (b *unionBuilder) resolveType() arrow.UnionType {
	fields := make([]arrow.Field, len(b.children))
	for i, c := range b.children {
		fields[i] = b.childFields[i]
		if fields[i].Type == nil {
			fields[i].Type = c.Type()
		}
	}
	switch b.mode {
	case arrow.SparseMode:
		return arrow.SparseUnionOf(fields, b.codes)
	default:
		return arrow.DenseUnionOf(fields, b.codes)
	}
}

func (b *unionBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		for _, c := range b.children {
			c.Release()
		}
		b.typesBuilder.Release()
	}
}

func (b *unionBuilder) Type() arrow.DataType { return b.resolveType() }

// SparseUnionBuilder is used to build a Sparse Union array using the Append
// methods. You can also add new types to the union on the fly by using
// AppendChild.
type SparseUnionBuilder struct {
	unionBuilder
}

// NewSparseUnionBuilder returns a new builder for the provided union type,
// creating a child builder for each of the type's fields.
func NewSparseUnionBuilder(mem memory.Allocator, typ *arrow.SparseUnionType) *SparseUnionBuilder {
	children := make([]Builder, typ.NumFields())
	for i, f := range typ.Fields() {
		children[i] = NewBuilder(mem, f.Type)
		defer children[i].Release()
	}
	return NewSparseUnionBuilderWithBuilders(mem, typ, children)
}

// NewSparseUnionBuilderWithBuilders returns a new builder for the provided
// union type, using the provided builders for the children.
func NewSparseUnionBuilderWithBuilders(mem memory.Allocator, typ *arrow.SparseUnionType, children []Builder) *SparseUnionBuilder {
	return &SparseUnionBuilder{
		unionBuilder: newUnionBuilder(mem, children, typ),
	}
}

func (b *SparseUnionBuilder) Reserve(n int) {
	b.typesBuilder.Reserve(n)
}

func (b *SparseUnionBuilder) Resize(n int) {
	b.typesBuilder.Resize(n)
}

// AppendNull appends a null to the first child and an empty value
// (implementation-defined) to the rest of the children.
func (b *SparseUnionBuilder) AppendNull() {
	firstChildCode := b.codes[0]
	b.typesBuilder.Append(int8(firstChildCode))
	b.typeIDtoBuilder[firstChildCode].AppendNull()
	for _, c := range b.codes[1:] {
		b.typeIDtoBuilder[c].AppendEmptyValue()
	}
}

// AppendNulls appends n nulls.
func (b *SparseUnionBuilder) AppendNulls(n int) {
	for i := 0; i < n; i++ {
		b.AppendNull()
	}
}

// AppendEmptyValue appends an empty value to every child.
func (b *SparseUnionBuilder) AppendEmptyValue() {
	b.typesBuilder.Append(int8(b.codes[0]))
	for _, c := range b.codes {
		b.typeIDtoBuilder[c].AppendEmptyValue()
	}
}

// Append appends an element to the UnionArray indicating which typecode the
// new element should use. The child builder for the type code MUST then
// receive a value, and every other child builder an empty value, to keep
// all children equal in length.
func (b *SparseUnionBuilder) Append(nextType arrow.UnionTypeCode) {
	b.typesBuilder.Append(int8(nextType))
}

func (b *SparseUnionBuilder) NewArray() arrow.Array {
	return b.NewSparseUnionArray()
}

func (b *SparseUnionBuilder) NewSparseUnionArray() (a *SparseUnion) {
	data := b.newData()
	a = NewSparseUnionData(data)
	data.Release()
	return
}

func (b *SparseUnionBuilder) newData() *Data {
	dt := b.resolveType()
	length := b.typesBuilder.Len()

	typesArr := b.typesBuilder.NewArray()
	defer typesArr.Release()

	typeBuffer := typesArr.Data().Buffers()[1]

	childData := make([]arrow.ArrayData, len(b.children))
	for i, b := range b.children {
		arr := b.NewArray()
		defer arr.Release()
		childData[i] = arr.Data()
		debug.Assert(childData[i].Len() == length, "mismatched child lengths in sparse union")
	}

	return NewData(dt, length, []*memory.Buffer{nil, typeBuffer}, childData, arrow.UnknownNullCount, 0)
}

// DenseUnionBuilder is used to build a Dense Union array using the Append
// methods.
type DenseUnionBuilder struct {
	unionBuilder

	offsetsBuilder *NumericBuilder[int32]
}

// NewDenseUnionBuilder returns a new builder for the provided union type,
// creating a child builder for each of the type's fields.
func NewDenseUnionBuilder(mem memory.Allocator, typ *arrow.DenseUnionType) *DenseUnionBuilder {
	children := make([]Builder, typ.NumFields())
	for i, f := range typ.Fields() {
		children[i] = NewBuilder(mem, f.Type)
		defer children[i].Release()
	}
	return NewDenseUnionBuilderWithBuilders(mem, typ, children)
}

// NewDenseUnionBuilderWithBuilders returns a new builder for the provided
// union type, using the provided builders for the children.
func NewDenseUnionBuilderWithBuilders(mem memory.Allocator, typ *arrow.DenseUnionType, children []Builder) *DenseUnionBuilder {
	return &DenseUnionBuilder{
		unionBuilder:   newUnionBuilder(mem, children, typ),
		offsetsBuilder: NewNumericBuilder[int32](mem, arrow.PrimitiveTypes.Int32),
	}
}

func (b *DenseUnionBuilder) Reserve(n int) {
	b.typesBuilder.Reserve(n)
	b.offsetsBuilder.Reserve(n)
}

func (b *DenseUnionBuilder) Resize(n int) {
	b.typesBuilder.Resize(n)
	b.offsetsBuilder.Resize(n)
}

// AppendNull appends a null to the first child, which is the cheapest way
// to represent a null slot in a dense union.
func (b *DenseUnionBuilder) AppendNull() {
	firstChildCode := b.codes[0]
	childBuilder := b.typeIDtoBuilder[firstChildCode]
	b.typesBuilder.Append(int8(firstChildCode))
	b.offsetsBuilder.Append(int32(childBuilder.Len()))
	childBuilder.AppendNull()
}

// AppendNulls appends n nulls, sharing a single null slot of the first
// child between them.
func (b *DenseUnionBuilder) AppendNulls(n int) {
	firstChildCode := b.codes[0]
	childBuilder := b.typeIDtoBuilder[firstChildCode]
	if n > 0 {
		offset := int32(childBuilder.Len())
		childBuilder.AppendNull()
		for i := 0; i < n; i++ {
			b.typesBuilder.Append(int8(firstChildCode))
			b.offsetsBuilder.Append(offset)
		}
	}
}

// AppendEmptyValue appends an empty value slot, sharing the first child.
func (b *DenseUnionBuilder) AppendEmptyValue() {
	firstChildCode := b.codes[0]
	childBuilder := b.typeIDtoBuilder[firstChildCode]
	b.typesBuilder.Append(int8(firstChildCode))
	b.offsetsBuilder.Append(int32(childBuilder.Len()))
	childBuilder.AppendEmptyValue()
}

// Append appends the necessary offset and type code to the builder
// and must be followed up with an append to the appropriate child builder.
func (b *DenseUnionBuilder) Append(nextType arrow.UnionTypeCode) {
	b.typesBuilder.Append(int8(nextType))
	bldr := b.typeIDtoBuilder[nextType]
	if bldr.Len() == maxDenseUnionChildLen {
		panic("arrow/array: a dense union child has reached the maximum length")
	}
	b.offsetsBuilder.Append(int32(bldr.Len()))
}

func (b *DenseUnionBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		for _, c := range b.children {
			c.Release()
		}
		b.typesBuilder.Release()
		b.offsetsBuilder.Release()
	}
}

func (b *DenseUnionBuilder) NewArray() arrow.Array {
	return b.NewDenseUnionArray()
}

func (b *DenseUnionBuilder) NewDenseUnionArray() (a *DenseUnion) {
	data := b.newData()
	a = NewDenseUnionData(data)
	data.Release()
	return
}

func (b *DenseUnionBuilder) newData() *Data {
	dt := b.resolveType()
	length := b.typesBuilder.Len()

	typesArr := b.typesBuilder.NewArray()
	defer typesArr.Release()
	typeBuffer := typesArr.Data().Buffers()[1]

	offsetsArr := b.offsetsBuilder.NewArray()
	defer offsetsArr.Release()
	offsetBuffer := offsetsArr.Data().Buffers()[1]

	childData := make([]arrow.ArrayData, len(b.children))
	for i, b := range b.children {
		arr := b.NewArray()
		defer arr.Release()
		childData[i] = arr.Data()
	}

	return NewData(dt, length, []*memory.Buffer{nil, typeBuffer, offsetBuffer}, childData, arrow.UnknownNullCount, 0)
}

const maxDenseUnionChildLen = 1<<31 - 1

var (
	_ arrow.Array = (*SparseUnion)(nil)
	_ arrow.Array = (*DenseUnion)(nil)
	_ Builder     = (*SparseUnionBuilder)(nil)
	_ Builder     = (*DenseUnionBuilder)(nil)
)
