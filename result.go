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

package cozo

import (
	"github.com/liangxianzhe/cozo/query"
	"github.com/liangxianzhe/cozo/value"
)

// Row is one ENTRY tuple packaged by output name.
type Row map[string]value.DataValue

// Result is the outcome of Engine.Query: ENTRY's tuples in Columns
// order, plus any pull descriptors the caller asked for verbatim. A
// column named in Pull also appears in each Row holding the raw
// (typically entity) value the pull should expand from; this engine
// does not itself execute the pull (§6).
type Result struct {
	Columns []string
	Rows    []Row
	Pull    map[string]query.PullSpec
}
