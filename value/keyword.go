// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package value defines the tagged value and term model shared by every
// layer of the engine: keywords, data values, entity ids, and terms.
package value

import "strings"

// Keyword is a name drawn from a flat namespace. Keywords starting with "?"
// or "_" are bindings; everything else is an identifier.
type Keyword string

// Entry is the designated predicate name whose final tuple set is the
// query's answer.
const Entry Keyword = "ENTRY"

// reserved holds keywords that may never be used as a user-supplied
// binding name, because the engine itself assigns them meaning.
var reserved = map[Keyword]bool{
	Entry:    true,
	"true":   true,
	"false":  true,
	"null":   true,
}

// IsBinding reports whether k denotes a variable rather than a literal
// identifier.
func (k Keyword) IsBinding() bool {
	return strings.HasPrefix(string(k), "?") || strings.HasPrefix(string(k), "_")
}

// IsWildcard reports whether k is the anonymous binding "_" or begins with
// "_", which is never required to be bound by a caller.
func (k Keyword) IsWildcard() bool {
	return strings.HasPrefix(string(k), "_")
}

// IsReserved reports whether k is forbidden as a user-chosen binding name.
func (k Keyword) IsReserved() bool {
	return reserved[k]
}

func (k Keyword) String() string {
	return string(k)
}
