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

// Package hashing provides a hash-based memo table used for interning
// values during dictionary encoding.
package hashing

import (
	"unsafe"

	"github.com/zeebo/xxh3"
	"golang.org/x/exp/constraints"
)

type fixedWidth interface {
	constraints.Integer | constraints.Float
}

func hashValue[T fixedWidth](v T) uint64 {
	return xxh3.Hash(unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)))
}

// MemoTable interns fixed-width values, assigning each distinct value the
// next dense index starting from zero. Lookups are by hash with chained
// collision buckets.
type MemoTable[T fixedWidth] struct {
	buckets map[uint64][]int32
	entries []T
}

func NewMemoTable[T fixedWidth](initial int) *MemoTable[T] {
	return &MemoTable[T]{
		buckets: make(map[uint64][]int32, initial),
		entries: make([]T, 0, initial),
	}
}

// Size returns the number of distinct values interned so far.
func (m *MemoTable[T]) Size() int { return len(m.entries) }

// GetOrInsert returns the memo index for v, interning it first if this is
// the first occurrence. found reports whether v was already present.
func (m *MemoTable[T]) GetOrInsert(v T) (idx int, found bool) {
	h := hashValue(v)
	for _, i := range m.buckets[h] {
		if m.entries[i] == v {
			return int(i), true
		}
	}
	idx = len(m.entries)
	m.entries = append(m.entries, v)
	m.buckets[h] = append(m.buckets[h], int32(idx))
	return idx, false
}

// Get returns the memo index for v if it has been interned.
func (m *MemoTable[T]) Get(v T) (idx int, found bool) {
	h := hashValue(v)
	for _, i := range m.buckets[h] {
		if m.entries[i] == v {
			return int(i), true
		}
	}
	return -1, false
}

// Values returns the interned values in insertion order. The returned slice
// is owned by the table.
func (m *MemoTable[T]) Values() []T { return m.entries }

// Reset drops all interned values.
func (m *MemoTable[T]) Reset() {
	m.buckets = make(map[uint64][]int32)
	m.entries = m.entries[:0]
}
