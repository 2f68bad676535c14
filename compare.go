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

// TypeEqual checks if two DataType are the same, including parameters and
// child fields for nested types.
func TypeEqual(left, right DataType) bool {
	switch {
	case left == nil || right == nil:
		return left == nil && right == nil
	case left.ID() != right.ID():
		return false
	}

	switch l := left.(type) {
	case UnionType:
		r := right.(UnionType)
		if l.Mode() != r.Mode() || l.NumFields() != r.NumFields() {
			return false
		}
		for i, f := range l.Fields() {
			if f.Name != r.Fields()[i].Name || !TypeEqual(f.Type, r.Fields()[i].Type) {
				return false
			}
			if l.TypeCodes()[i] != r.TypeCodes()[i] {
				return false
			}
		}
		return true
	case *DictionaryType:
		r := right.(*DictionaryType)
		return l.Ordered == r.Ordered &&
			TypeEqual(l.IndexType, r.IndexType) &&
			TypeEqual(l.ValueType, r.ValueType)
	default:
		// fixed-width primitives carry no parameters beyond the type id
		return true
	}
}
