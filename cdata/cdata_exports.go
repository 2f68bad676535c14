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
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"unsafe"

	"github.com/HelloBroBro/arrow"
	"github.com/HelloBroBro/arrow/array"
)

// kZeroRegion backs exported pointers for empty buffers, to be friendly to
// consumers that do not handle NULL buffer entries properly.
var kZeroRegion [8]byte

// encode metadata as the ABI expects:
//
//	 [int32] -> number of metadata pairs
//		for 0..n
//			[int32] -> number of bytes in key
//			[n bytes] -> key value
//			[int32] -> number of bytes in value
//			[n bytes] -> value
func encodeCMetadata(keys, values []string) []byte {
	if len(keys) != len(values) {
		panic("unequal metadata key/values length")
	}
	if len(keys) == 0 {
		return nil
	}

	var b bytes.Buffer
	totalSize := 4
	for i := range keys {
		totalSize += 8 + len(keys[i]) + len(values[i])
	}
	b.Grow(totalSize)

	binary.Write(&b, binary.LittleEndian, int32(len(keys)))
	for i := range keys {
		binary.Write(&b, binary.LittleEndian, int32(len(keys[i])))
		b.WriteString(keys[i])
		binary.Write(&b, binary.LittleEndian, int32(len(values[i])))
		b.WriteString(values[i])
	}
	return b.Bytes()
}

type schemaExporter struct {
	format, name string

	metadata []byte
	flags    int64
	children []schemaExporter
	dict     *schemaExporter
}

func (exp *schemaExporter) exportFormat(dt arrow.DataType) string {
	switch dt := dt.(type) {
	case *arrow.NullType:
		return "n"
	case *arrow.BooleanType:
		return "b"
	case *arrow.Int8Type:
		return "c"
	case *arrow.Uint8Type:
		return "C"
	case *arrow.Int16Type:
		return "s"
	case *arrow.Uint16Type:
		return "S"
	case *arrow.Int32Type:
		return "i"
	case *arrow.Uint32Type:
		return "I"
	case *arrow.Int64Type:
		return "l"
	case *arrow.Uint64Type:
		return "L"
	case *arrow.Float32Type:
		return "f"
	case *arrow.Float64Type:
		return "g"
	case *arrow.DictionaryType:
		if dt.Ordered {
			exp.flags |= FlagDictionaryOrdered
		}
		return exp.exportFormat(dt.IndexType)
	case arrow.UnionType:
		var b strings.Builder
		if dt.Mode() == arrow.SparseMode {
			b.WriteString("+us:")
		} else {
			b.WriteString("+ud:")
		}
		for i, c := range dt.TypeCodes() {
			if i != 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(c)))
		}
		return b.String()
	}
	panic("unsupported data type for export")
}

func (exp *schemaExporter) export(field arrow.Field) {
	exp.name = field.Name
	exp.format = exp.exportFormat(field.Type)
	if field.Nullable {
		exp.flags |= FlagNullable
	}

	switch dt := field.Type.(type) {
	case *arrow.DictionaryType:
		exp.dict = new(schemaExporter)
		exp.dict.export(arrow.Field{Type: dt.ValueType})
	case arrow.NestedType:
		exp.children = make([]schemaExporter, len(dt.Fields()))
		for i, f := range dt.Fields() {
			exp.children[i].export(f)
		}
	}

	exp.metadata = encodeCMetadata(field.Metadata.Keys(), field.Metadata.Values())
}

func (exp *schemaExporter) finish(out *CArrowSchema) {
	out.Format = exp.format
	out.Name = exp.name
	out.Metadata = exp.metadata
	out.Flags = exp.flags
	out.NChildren = int64(len(exp.children))

	out.Dictionary = nil
	if exp.dict != nil {
		out.Dictionary = new(CArrowSchema)
		exp.dict.finish(out.Dictionary)
	}

	if len(exp.children) > 0 {
		out.Children = make([]*CArrowSchema, len(exp.children))
		for i := range exp.children {
			out.Children[i] = new(CArrowSchema)
			exp.children[i].finish(out.Children[i])
		}
	} else {
		out.Children = nil
	}

	out.Release = releaseExportedSchema
}

func exportField(field arrow.Field, out *CArrowSchema) {
	var exp schemaExporter
	exp.export(field)
	exp.finish(out)
}

// hasValidityBitmap reports whether buffer 0 of the type's layout is a
// validity bitmap. Unions and null arrays carry none.
func hasValidityBitmap(id arrow.Type) bool {
	switch id {
	case arrow.NULL, arrow.SPARSE_UNION, arrow.DENSE_UNION:
		return false
	}
	return true
}

func exportArray(arr arrow.Array, out *CArrowArray, outSchema *CArrowSchema) {
	if outSchema != nil {
		exportField(arrow.Field{Type: arr.DataType(), Nullable: true}, outSchema)
	}

	out.Dictionary = nil
	out.NullCount = int64(arr.NullN())
	if _, ok := arr.(array.Union); ok {
		// unions carry no top level validity across the ABI, their null
		// count crosses as zero and consumers recompute from the children
		out.NullCount = 0
	}
	out.Length = int64(arr.Len())
	out.Offset = int64(arr.Data().Offset())
	out.NBuffers = int64(len(arr.Data().Buffers()))
	out.Buffers = nil

	if out.NBuffers > 0 {
		bufs := arr.Data().Buffers()
		// the Go layout keeps a leading nil entry where a validity bitmap
		// would go for types that have none; the ABI does not carry it
		if !hasValidityBitmap(arr.DataType().ID()) {
			out.NBuffers--
			bufs = bufs[1:]
		}
		buffers := make([]unsafe.Pointer, len(bufs))
		for i, buf := range bufs {
			if buf == nil || buf.Len() == 0 {
				if i > 0 || !hasValidityBitmap(arr.DataType().ID()) {
					// export a dummy non-null pointer for empty buffers
					buffers[i] = unsafe.Pointer(&kZeroRegion)
				} else {
					buffers[i] = nil
				}
				continue
			}
			buffers[i] = unsafe.Pointer(&buf.Bytes()[0])
		}
		out.Buffers = buffers
	}

	out.PrivateData = storeData(arr.Data())
	out.Release = releaseExportedArray

	switch arr := arr.(type) {
	case *array.Dictionary:
		out.NChildren = 0
		out.Children = nil
		out.Dictionary = new(CArrowArray)
		exportArray(arr.Dictionary(), out.Dictionary, nil)
	case array.Union:
		out.NChildren = int64(arr.NumFields())
		out.Children = make([]*CArrowArray, arr.NumFields())
		for i := 0; i < arr.NumFields(); i++ {
			out.Children[i] = new(CArrowArray)
			exportArray(arr.Field(i), out.Children[i], nil)
		}
	default:
		out.NChildren = 0
		out.Children = nil
	}
}
