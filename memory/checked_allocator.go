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

package memory

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// CheckedAllocator wraps another Allocator and tracks the bytes currently
// live through it, remembering the call site of every outstanding
// allocation so AssertSize can name the leak.
type CheckedAllocator struct {
	mem Allocator
	sz  int64

	sites sync.Map // base pointer -> *allocSite
}

func NewCheckedAllocator(mem Allocator) *CheckedAllocator {
	return &CheckedAllocator{mem: mem}
}

// CurrentAlloc returns the number of bytes currently allocated and not yet
// freed.
func (a *CheckedAllocator) CurrentAlloc() int { return int(atomic.LoadInt64(&a.sz)) }

// Allocations normally originate inside Buffer, so the recorded frame skips
// past Reserve/resize/Resize to the method that triggered the growth.
const (
	allocSiteSkip   = 5
	reallocSiteSkip = 4
)

type allocSite struct {
	pc   uintptr
	line int
	sz   int
}

func (a *CheckedAllocator) remember(buf []byte, skip, size int) {
	if len(buf) == 0 {
		return
	}
	if pc, _, line, ok := runtime.Caller(skip); ok {
		a.sites.Store(uintptr(unsafe.Pointer(&buf[0])), &allocSite{pc: pc, line: line, sz: size})
	}
}

func (a *CheckedAllocator) forget(buf []byte) {
	if len(buf) == 0 {
		return
	}
	a.sites.Delete(uintptr(unsafe.Pointer(&buf[0])))
}

func (a *CheckedAllocator) Allocate(size int) []byte {
	atomic.AddInt64(&a.sz, int64(size))
	out := a.mem.Allocate(size)
	a.remember(out, allocSiteSkip, size)
	return out
}

func (a *CheckedAllocator) Reallocate(size int, b []byte) []byte {
	atomic.AddInt64(&a.sz, int64(size-len(b)))
	a.forget(b)
	out := a.mem.Reallocate(size, b)
	a.remember(out, reallocSiteSkip, size)
	return out
}

func (a *CheckedAllocator) Free(b []byte) {
	atomic.AddInt64(&a.sz, -int64(len(b)))
	a.forget(b)
	a.mem.Free(b)
}

// TestingT is the subset of testing.T the leak check reports through.
type TestingT interface {
	Errorf(format string, args ...interface{})
	Helper()
}

// AssertSize fails t unless exactly sz bytes remain allocated, reporting the
// call site of every allocation still live.
func (a *CheckedAllocator) AssertSize(t TestingT, sz int) {
	t.Helper()
	a.sites.Range(func(_, v interface{}) bool {
		site := v.(*allocSite)
		f := runtime.FuncForPC(site.pc)
		t.Errorf("leaked %d bytes allocated from %s line %d", site.sz, f.Name(), site.line)
		return true
	})

	if got := a.CurrentAlloc(); got != sz {
		t.Errorf("allocated size mismatch: want %d, got %d", sz, got)
	}
}

var _ Allocator = (*CheckedAllocator)(nil)
