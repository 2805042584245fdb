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

package plan

import "github.com/liangxianzhe/cozo/value"

// UnitNode is the empty-arity base relation: exactly one zero-column
// row. It anchors a rule body that opens with a closed predicate or
// negation (nothing bound yet to filter) and the trivial fact rule
// (empty body, nullary head).
type UnitNode struct{}

func (UnitNode) Bindings() []value.Keyword { return nil }

func (UnitNode) Iter(ctx *Context) (RowIter, error) {
	return &unitIter{}, nil
}

type unitIter struct {
	done bool
}

func (u *unitIter) Next() (value.Tuple, bool, error) {
	if u.done {
		return nil, false, nil
	}
	u.done = true
	return value.Tuple{}, true, nil
}

func (u *unitIter) Close() error { return nil }
