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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoAllocatorAllocate(t *testing.T) {
	tests := []struct {
		name string
		sz   int
	}{
		{"lt alignment", 33},
		{"eq alignment", 64},
		{"gt alignment", 65},
		{"large", 4096},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			alloc := NewGoAllocator()
			buf := alloc.Allocate(test.sz)
			assert.Equal(t, test.sz, len(buf))
			assert.Equal(t, test.sz, cap(buf))
			assert.Zero(t, int(addressOf(buf))%alignment)
		})
	}
}

func TestGoAllocatorReallocate(t *testing.T) {
	alloc := NewGoAllocator()
	buf := alloc.Allocate(16)
	for i := range buf {
		buf[i] = byte(i)
	}

	exp := make([]byte, 16)
	copy(exp, buf)

	got := alloc.Reallocate(32, buf)
	assert.Equal(t, exp, got[:16])
	assert.Equal(t, 32, len(got))
}
