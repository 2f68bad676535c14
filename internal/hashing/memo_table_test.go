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

package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoTableGetOrInsert(t *testing.T) {
	m := NewMemoTable[int64](0)

	idx, found := m.GetOrInsert(42)
	assert.Equal(t, 0, idx)
	assert.False(t, found)

	idx, found = m.GetOrInsert(13)
	assert.Equal(t, 1, idx)
	assert.False(t, found)

	idx, found = m.GetOrInsert(42)
	assert.Equal(t, 0, idx)
	assert.True(t, found)

	assert.Equal(t, 2, m.Size())
	assert.Equal(t, []int64{42, 13}, m.Values())

	idx, found = m.Get(13)
	assert.Equal(t, 1, idx)
	assert.True(t, found)

	_, found = m.Get(99)
	assert.False(t, found)
}

func TestMemoTableReset(t *testing.T) {
	m := NewMemoTable[float64](0)
	m.GetOrInsert(0.5)
	m.GetOrInsert(1.5)
	assert.Equal(t, 2, m.Size())

	m.Reset()
	assert.Zero(t, m.Size())

	// indices restart from zero after a reset
	idx, found := m.GetOrInsert(1.5)
	assert.Equal(t, 0, idx)
	assert.False(t, found)
}

func TestMemoTableManyValues(t *testing.T) {
	m := NewMemoTable[int32](16)
	for i := int32(0); i < 1000; i++ {
		idx, found := m.GetOrInsert(i * 7)
		assert.Equal(t, int(i), idx)
		assert.False(t, found)
	}
	assert.Equal(t, 1000, m.Size())
	for i := int32(0); i < 1000; i++ {
		idx, found := m.Get(i * 7)
		assert.True(t, found)
		assert.Equal(t, int(i), idx)
	}
}
