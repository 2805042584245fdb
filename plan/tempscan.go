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
	"fmt"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

// TempScanNode reads a derived predicate's temp store, restricted to an
// epoch's delta when the fixpoint driver names that predicate's store id
// in Context.DeltaStores. Its raw output has one column per argument;
// wrap it in Unify before use.
type TempScanNode struct {
	Predicate value.Keyword
	Args      []value.ValueTerm
}

func (t TempScanNode) Bindings() []value.Keyword {
	out := make([]value.Keyword, len(t.Args))
	for i, a := range t.Args {
		out[i] = rawName(a.IsVariable(), a.Variable())
	}
	return out
}

func (t TempScanNode) Iter(ctx *Context) (RowIter, error) {
	ts, ok := ctx.Stores[t.Predicate]
	if !ok {
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("no store allocated for predicate %s", t.Predicate))
	}

	prefix := make(value.Tuple, 0, len(t.Args))
	for _, a := range t.Args {
		if !a.IsConstant() {
			break
		}
		prefix = append(prefix, a.Constant())
	}

	filter := ctx.epochFilterFor(ts.ID())
	return &tempScanIter{t: t, inner: ts.Iter(filter, prefix)}, nil
}

type tempScanIter struct {
	t     TempScanNode
	inner store.TupleIter
}

func (it *tempScanIter) Next() (value.Tuple, bool, error) {
	for {
		tup, ok := it.inner.Next()
		if !ok {
			return nil, false, nil
		}
		match := true
		for i, a := range it.t.Args {
			if a.IsConstant() && !a.Constant().Equal(tup[i]) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		return tup, true, nil
	}
}

func (it *tempScanIter) Close() error { return it.inner.Close() }
