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
	"sync"
	"sync/atomic"

	"github.com/HelloBroBro/arrow"
)

// exported array data is kept alive through a handle table rather than a
// raw pointer so the garbage collector never sees a reference it cannot
// trace.
var (
	handles   = sync.Map{}
	handleIdx uintptr
)

type dataHandle uintptr

func storeData(d arrow.ArrayData) dataHandle {
	h := atomic.AddUintptr(&handleIdx, 1)
	if h == 0 {
		panic("cdata: ran out of handle space")
	}
	d.Retain()
	handles.Store(h, d)
	return dataHandle(h)
}

func (d dataHandle) releaseData() {
	arrd, ok := handles.LoadAndDelete(uintptr(d))
	if !ok {
		panic("cdata: invalid data handle")
	}
	arrd.(arrow.ArrayData).Release()
}

// releaseExportedSchema is the release callback installed on every schema
// descriptor this package exports. Children are released before the parent
// and the descriptor is marked released so a second invocation is a no-op.
func releaseExportedSchema(schema *CArrowSchema) {
	if schemaIsReleased(schema) {
		return
	}
	defer markSchemaReleased(schema)

	for _, c := range schema.Children {
		releaseSchema(c)
	}
	schema.Children = nil

	if schema.Dictionary != nil {
		releaseSchema(schema.Dictionary)
		schema.Dictionary = nil
	}
}

// releaseExportedArray is the release callback installed on every array
// descriptor this package exports. Children are released before the parent,
// then the handle pinning the Go-side ArrayData is dropped.
func releaseExportedArray(arr *CArrowArray) {
	if arrayIsReleased(arr) {
		return
	}
	defer markArrayReleased(arr)

	for _, c := range arr.Children {
		releaseArray(c)
	}
	arr.Children = nil

	if arr.Dictionary != nil {
		releaseArray(arr.Dictionary)
		arr.Dictionary = nil
	}

	arr.Buffers = nil

	h, ok := arr.PrivateData.(dataHandle)
	if !ok {
		panic("cdata: invalid private data on exported array")
	}
	h.releaseData()
}
