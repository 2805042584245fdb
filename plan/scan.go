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

import (
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

// ScanNode reads one attribute's triple set. A constant entity is passed
// to the store scan as its entity prefix; a constant value is filtered
// as rows are read. Its raw output
// has exactly two columns (entity, value); wrap it in Unify before use
// so repeated variables and constants collapse correctly.
type ScanNode struct {
	Attr   store.Attribute
	Entity value.EntityTerm
	Value  value.ValueTerm
}

func rawName(isVar bool, name value.Keyword) value.Keyword {
	if isVar && !name.IsWildcard() {
		return name
	}
	return ""
}

func (s ScanNode) Bindings() []value.Keyword {
	return []value.Keyword{
		rawName(s.Entity.IsVariable(), s.Entity.Variable()),
		rawName(s.Value.IsVariable(), s.Value.Variable()),
	}
}

func (s ScanNode) Iter(ctx *Context) (RowIter, error) {
	prefix := value.NoEntity
	if s.Entity.IsConstant() {
		prefix = s.Entity.Constant()
	}
	triples, err := ctx.Tx.Scan(s.Attr, ctx.Validity, prefix)
	if err != nil {
		return nil, err
	}
	return &scanIter{s: s, triples: triples}, nil
}

type scanIter struct {
	s       ScanNode
	triples store.TripleIter
}

func (it *scanIter) Next() (value.Tuple, bool, error) {
	for {
		e, v, ok, err := it.triples.Next()
		if err != nil || !ok {
			return nil, ok, err
		}
		if it.s.Entity.IsConstant() && it.s.Entity.Constant() != e {
			continue
		}
		if it.s.Value.IsConstant() && !it.s.Value.Constant().Equal(v) {
			continue
		}
		return value.Tuple{value.Entity(e), v}, true, nil
	}
}

func (it *scanIter) Close() error { return it.triples.Close() }
