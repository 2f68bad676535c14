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

package memory_test

import (
	"fmt"
	"testing"

	"github.com/HelloBroBro/arrow/memory"
	"github.com/stretchr/testify/assert"
)

type reportRecorder struct {
	reports []string
}

func (r *reportRecorder) Errorf(format string, args ...interface{}) {
	r.reports = append(r.reports, fmt.Sprintf(format, args...))
}

func (r *reportRecorder) Helper() {}

func TestCheckedAllocatorReportsLeak(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(64)
	assert.Equal(t, 64, mem.CurrentAlloc())

	rec := &reportRecorder{}
	mem.AssertSize(rec, 0)
	assert.NotEmpty(t, rec.reports)

	buf.Release()
	rec.reports = nil
	mem.AssertSize(rec, 0)
	assert.Empty(t, rec.reports)
	assert.Zero(t, mem.CurrentAlloc())
}

func TestCheckedAllocatorReallocate(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())

	buf := mem.Allocate(32)
	assert.Equal(t, 32, mem.CurrentAlloc())

	buf = mem.Reallocate(128, buf)
	assert.Equal(t, 128, mem.CurrentAlloc())

	mem.Free(buf)
	mem.AssertSize(t, 0)
}
