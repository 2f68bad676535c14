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

/*
Package arrow provides an implementation of the columnar in-memory format:
a language-independent layout for flat and nested array data, together with
a binary-stable handoff protocol (package cdata) that lets independent
runtimes exchange arrays with zero copying.

The fundamental data structure is the type-erased array descriptor
(array.Data): a logical type plus a set of contiguous memory buffers, an
optional validity bitmap, child arrays for nested layouts and an optional
dictionary. Arrays are immutable once sealed; mutation happens through
builders, and storage moves between vectors through transfer pairs.
*/
package arrow
