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

package value

import "strconv"

// EntityId is an opaque unsigned integer identifying an entity in the
// triple store. The zero value means "no such entity".
type EntityId uint64

// NoEntity is the sentinel EntityId meaning "no such entity".
const NoEntity EntityId = 0

func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// Validity is a monotonic timestamp identifying the snapshot at which
// triples are read.
type Validity int64

// Current is the default validity, meaning "as of now".
const Current Validity = -1
