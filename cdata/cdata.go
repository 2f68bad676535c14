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

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/HelloBroBro/arrow"
	"github.com/HelloBroBro/arrow/array"
	"github.com/HelloBroBro/arrow/bitutil"
	"github.com/HelloBroBro/arrow/memory"
	"golang.org/x/xerrors"
)

// Map from the defined strings to their corresponding arrow.DataType
// interface object instances, for types that don't require params.
var formatToSimpleType = map[string]arrow.DataType{
	"n": arrow.Null,
	"b": arrow.FixedWidthTypes.Boolean,
	"c": arrow.PrimitiveTypes.Int8,
	"C": arrow.PrimitiveTypes.Uint8,
	"s": arrow.PrimitiveTypes.Int16,
	"S": arrow.PrimitiveTypes.Uint16,
	"i": arrow.PrimitiveTypes.Int32,
	"I": arrow.PrimitiveTypes.Uint32,
	"l": arrow.PrimitiveTypes.Int64,
	"L": arrow.PrimitiveTypes.Uint64,
	"f": arrow.PrimitiveTypes.Float32,
	"g": arrow.PrimitiveTypes.Float64,
}

// decode metadata from its ABI encoding:
//
//	 [int32] -> number of metadata pairs
//		for 0..n
//			[int32] -> number of bytes in key
//			[n bytes] -> key value
//			[int32] -> number of bytes in value
//			[n bytes] -> value
func decodeCMetadata(md []byte) arrow.Metadata {
	if len(md) == 0 {
		return arrow.Metadata{}
	}

	readint32 := func() int32 {
		v := int32(binary.LittleEndian.Uint32(md))
		md = md[arrow.Int32SizeBytes:]
		return v
	}

	readstr := func() string {
		l := readint32()
		s := string(md[:l])
		md = md[l:]
		return s
	}

	npairs := readint32()
	if npairs == 0 {
		return arrow.Metadata{}
	}

	keys := make([]string, npairs)
	vals := make([]string, npairs)

	for i := int32(0); i < npairs; i++ {
		keys[i] = readstr()
		vals[i] = readstr()
	}

	return arrow.NewMetadata(keys, vals)
}

// convert a CArrowSchema to an arrow.Field to maintain metadata with the schema
func importSchema(schema *CArrowSchema) (ret arrow.Field, err error) {
	// always release, even on error
	defer releaseSchema(schema)

	var childFields []arrow.Field
	if schema.NChildren > 0 {
		if int64(len(schema.Children)) != schema.NChildren {
			return ret, fmt.Errorf("%w: schema child count mismatch", arrow.ErrInvalid)
		}

		childFields = make([]arrow.Field, schema.NChildren)
		for i, c := range schema.Children {
			childFields[i], err = importSchema(c)
			if err != nil {
				return
			}
		}
	}

	ret.Name = schema.Name
	ret.Nullable = (schema.Flags & FlagNullable) != 0
	ret.Metadata = decodeCMetadata(schema.Metadata)

	f := schema.Format
	dt, ok := formatToSimpleType[f]
	if ok {
		ret.Type = dt

		if schema.Dictionary != nil {
			valueField, err := importSchema(schema.Dictionary)
			if err != nil {
				return ret, err
			}

			ret.Type = &arrow.DictionaryType{
				IndexType: ret.Type,
				ValueType: valueField.Type,
				Ordered:   schema.Dictionary.Flags&FlagDictionaryOrdered != 0}
		}

		return
	}

	if strings.HasPrefix(f, "+u") { // union
		var mode arrow.UnionMode
		switch {
		case strings.HasPrefix(f, "+ud:"):
			mode = arrow.DenseMode
		case strings.HasPrefix(f, "+us:"):
			mode = arrow.SparseMode
		default:
			err = fmt.Errorf("%w: invalid union format string %q", arrow.ErrInvalid, f)
			return
		}

		codes := strings.Split(strings.Split(f, ":")[1], ",")
		typeCodes := make([]arrow.UnionTypeCode, 0, len(codes))
		for _, i := range codes {
			v, e := strconv.ParseInt(i, 10, 8)
			if e != nil {
				err = fmt.Errorf("%w: invalid type code: %s", arrow.ErrInvalid, e)
				return
			}
			if v < 0 {
				err = fmt.Errorf("%w: negative type code in union: format string %s", arrow.ErrInvalid, f)
				return
			}
			typeCodes = append(typeCodes, arrow.UnionTypeCode(v))
		}

		if len(childFields) != len(typeCodes) {
			err = fmt.Errorf("%w: ArrowArray struct number of children incompatible with format string", arrow.ErrInvalid)
			return
		}

		ret.Type = arrow.UnionOf(mode, childFields, typeCodes)
		return
	}

	// not a type this implementation knows how to build
	err = xerrors.Errorf("%w: unimplemented type format %q", arrow.ErrUnsupported, f)
	return
}

// importer to keep track when importing C ArrowArray objects.
type cimporter struct {
	dt       arrow.DataType
	arr      *CArrowArray
	data     arrow.ArrayData
	parent   *cimporter
	children []cimporter
	alloc    *importAllocator
}

// importRoot takes ownership of src by moving it, imports the full tree
// and, on failure, unwinds whatever was partially built so the only
// outstanding obligation is the single release of the moved descriptor.
func (imp *cimporter) importRoot(src *CArrowArray) error {
	err := imp.doImport(src)
	if err != nil {
		imp.unwind()
		releaseArray(imp.arr)
		return err
	}
	if imp.alloc.empty() {
		// nothing borrows the imported memory, hand it back right away
		releaseArray(imp.arr)
	}
	return nil
}

// unwind releases partially constructed data objects, children first.
func (imp *cimporter) unwind() {
	for i := range imp.children {
		imp.children[i].unwind()
	}
	if imp.data != nil {
		imp.data.Release()
		imp.data = nil
	}
}

func (imp *cimporter) importChild(parent *cimporter, src *CArrowArray) error {
	imp.parent = parent
	return imp.doImport(src)
}

// import any child arrays for unions and any other nested types.
func (imp *cimporter) doImportChildren() error {
	children := imp.arr.Children
	if int64(len(children)) != imp.arr.NChildren {
		return fmt.Errorf("%w: ArrowArray child count mismatch", arrow.ErrInvalid)
	}

	if len(children) > 0 {
		imp.children = make([]cimporter, len(children))
	}

	switch imp.dt.ID() {
	case arrow.DENSE_UNION:
		dt := imp.dt.(*arrow.DenseUnionType)
		if len(children) != dt.NumFields() {
			return fmt.Errorf("%w: ArrowArray struct number of children incompatible with type", arrow.ErrInvalid)
		}
		for i, c := range children {
			imp.children[i].dt = dt.Fields()[i].Type
			if err := imp.children[i].importChild(imp, c); err != nil {
				return err
			}
		}
	case arrow.SPARSE_UNION:
		dt := imp.dt.(*arrow.SparseUnionType)
		if len(children) != dt.NumFields() {
			return fmt.Errorf("%w: ArrowArray struct number of children incompatible with type", arrow.ErrInvalid)
		}
		for i, c := range children {
			imp.children[i].dt = dt.Fields()[i].Type
			if err := imp.children[i].importChild(imp, c); err != nil {
				return err
			}
		}
	}

	return nil
}

// doImport is called recursively as needed for importing an array and its
// children in order to generate array.Data objects. The root importer moves
// the source descriptor so the caller's copy is left released; children are
// owned by the root descriptor and referenced in place.
func (imp *cimporter) doImport(src *CArrowArray) error {
	if imp.parent == nil {
		imp.arr = new(CArrowArray)
		moveArray(src, imp.arr)
		imp.alloc = &importAllocator{arr: imp.arr}
	} else {
		imp.arr = src
		imp.alloc = imp.parent.alloc
	}

	if err := imp.doImportChildren(); err != nil {
		return err
	}

	if int64(len(imp.arr.Buffers)) != imp.arr.NBuffers {
		return fmt.Errorf("%w: ArrowArray buffer count mismatch", arrow.ErrInvalid)
	}

	switch dt := imp.dt.(type) {
	case *arrow.NullType:
		if err := imp.checkNoChildren(); err != nil {
			return err
		}
		imp.data = array.NewData(dt, int(imp.arr.Length), []*memory.Buffer{nil}, nil, int(imp.arr.NullCount), int(imp.arr.Offset))
	case *arrow.DenseUnionType:
		if err := imp.checkNoNulls(); err != nil {
			return err
		}
		if err := imp.checkNumBuffers(2); err != nil {
			return err
		}

		bufs := []*memory.Buffer{nil, nil, nil}
		var err error
		if bufs[1], err = imp.importFixedSizeBuffer(0, 1); err != nil {
			return err
		}
		if bufs[2], err = imp.importFixedSizeBuffer(1, int64(arrow.Int32SizeBytes)); err != nil {
			return err
		}

		children := make([]arrow.ArrayData, len(imp.children))
		for i := range imp.children {
			children[i] = imp.children[i].data
		}
		imp.data = array.NewData(dt, int(imp.arr.Length), bufs, children, arrow.UnknownNullCount, int(imp.arr.Offset))
		releaseBuffers(bufs)
	case *arrow.SparseUnionType:
		if err := imp.checkNoNulls(); err != nil {
			return err
		}
		if err := imp.checkNumBuffers(1); err != nil {
			return err
		}

		buf, err := imp.importFixedSizeBuffer(0, 1)
		if err != nil {
			return err
		}

		children := make([]arrow.ArrayData, len(imp.children))
		for i := range imp.children {
			children[i] = imp.children[i].data
		}
		bufs := []*memory.Buffer{nil, buf}
		imp.data = array.NewData(dt, int(imp.arr.Length), bufs, children, arrow.UnknownNullCount, int(imp.arr.Offset))
		releaseBuffers(bufs)
	case arrow.FixedWidthDataType:
		return imp.importFixedSizePrimitive()
	default:
		return xerrors.Errorf("%w: unimplemented type %s", arrow.ErrUnsupported, dt)
	}

	return nil
}

func (imp *cimporter) importFixedSizePrimitive() error {
	if err := imp.checkNoChildren(); err != nil {
		return err
	}

	if err := imp.checkNumBuffers(2); err != nil {
		return err
	}

	nulls, err := imp.importNullBitmap(0)
	if err != nil {
		return err
	}

	var values *memory.Buffer

	fw := imp.dt.(arrow.FixedWidthDataType)
	if bitutil.IsMultipleOf8(int64(fw.BitWidth())) {
		values, err = imp.importFixedSizeBuffer(1, bitutil.BytesForBits(int64(fw.BitWidth())))
	} else {
		if fw.BitWidth() != 1 {
			return fmt.Errorf("%w: invalid bitwidth", arrow.ErrInvalid)
		}
		values, err = imp.importBitsBuffer(1)
	}
	if err != nil {
		return err
	}

	var dict *array.Data
	if dt, ok := imp.dt.(*arrow.DictionaryType); ok {
		if imp.arr.Dictionary == nil {
			return fmt.Errorf("%w: dictionary type array without dictionary", arrow.ErrInvalid)
		}
		dictImp := &cimporter{dt: dt.ValueType}
		if err := dictImp.importChild(imp, imp.arr.Dictionary); err != nil {
			return err
		}
		defer dictImp.data.Release()

		dict = dictImp.data.(*array.Data)
	}

	bufs := []*memory.Buffer{nulls, values}
	imp.data = array.NewDataWithDictionary(imp.dt, int(imp.arr.Length), bufs, int(imp.arr.NullCount), int(imp.arr.Offset), dict)
	releaseBuffers(bufs)
	return nil
}

func (imp *cimporter) checkNoChildren() error { return imp.checkNumChildren(0) }

func (imp *cimporter) checkNoNulls() error {
	if imp.arr.NullCount != 0 {
		return fmt.Errorf("%w: unexpected non-zero null count for imported type %s", arrow.ErrInvalid, imp.dt)
	}
	return nil
}

func (imp *cimporter) checkNumChildren(n int64) error {
	if imp.arr.NChildren != n {
		return fmt.Errorf("%w: expected %d children, for imported type %s, ArrowArray has %d", arrow.ErrInvalid, n, imp.dt, imp.arr.NChildren)
	}
	return nil
}

func (imp *cimporter) checkNumBuffers(n int64) error {
	if imp.arr.NBuffers != n {
		return fmt.Errorf("%w: expected %d buffers for imported type %s, ArrowArray has %d", arrow.ErrInvalid, n, imp.dt, imp.arr.NBuffers)
	}
	return nil
}

func (imp *cimporter) importBuffer(bufferID int, sz int64) (*memory.Buffer, error) {
	// this is not a copy, the buffer remains owned by the imported
	// descriptor and is handed back through the import allocator when the
	// last reference drops.
	p := imp.arr.Buffers[bufferID]
	if p == nil {
		if sz != 0 {
			return nil, fmt.Errorf("%w: invalid buffer", arrow.ErrInvalid)
		}
		return memory.NewBufferBytes([]byte{}), nil
	}
	data := unsafe.Slice((*byte)(p), sz)
	imp.alloc.addBuffer()
	return memory.NewBufferWithAllocator(data, imp.alloc), nil
}

func (imp *cimporter) importBitsBuffer(bufferID int) (*memory.Buffer, error) {
	bufsize := bitutil.BytesForBits(imp.arr.Length + imp.arr.Offset)
	return imp.importBuffer(bufferID, bufsize)
}

func (imp *cimporter) importNullBitmap(bufferID int) (*memory.Buffer, error) {
	if imp.arr.NullCount > 0 && imp.arr.Buffers[bufferID] == nil {
		return nil, fmt.Errorf("%w: ArrowArray struct has null bitmap buffer, but non-zero null_count %d", arrow.ErrInvalid, imp.arr.NullCount)
	}

	if imp.arr.NullCount == 0 && imp.arr.Buffers[bufferID] == nil {
		return nil, nil
	}

	return imp.importBitsBuffer(bufferID)
}

func (imp *cimporter) importFixedSizeBuffer(bufferID int, byteWidth int64) (*memory.Buffer, error) {
	bufsize := byteWidth * (imp.arr.Length + imp.arr.Offset)
	return imp.importBuffer(bufferID, bufsize)
}

func importCArrayAsType(arr *CArrowArray, dt arrow.DataType) (imp *cimporter, err error) {
	imp = &cimporter{dt: dt}
	err = imp.importRoot(arr)
	return
}

func releaseBuffers(bufs []*memory.Buffer) {
	for _, b := range bufs {
		if b != nil {
			b.Release()
		}
	}
}
