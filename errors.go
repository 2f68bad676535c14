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

import "errors"

var (
	// ErrInvalid is the base error for violated layout invariants, such as a
	// buffer or child count that does not match what the type mandates.
	ErrInvalid = errors.New("invalid")
	// ErrOutOfMemory indicates an allocation or growth failure. The operation
	// that surfaced it left existing data untouched.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrNullValue indicates a null slot was read through a non-nullable accessor.
	ErrNullValue = errors.New("null value")
	// ErrUnsupported indicates a layout or format string the implementation
	// does not recognize.
	ErrUnsupported = errors.New("unsupported")
	ErrType  = errors.New("type error")
	ErrIndex = errors.New("index error")
)
