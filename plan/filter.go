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
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/value"
)

// FilterNode keeps only Child's tuples for which Expr evaluates true.
// Expr must already have been run through expr.FillBindingIndices
// against Child.Bindings().
type FilterNode struct {
	Child Node
	Expr  expr.Expr
}

func (f *FilterNode) Bindings() []value.Keyword { return f.Child.Bindings() }

func (f *FilterNode) Iter(ctx *Context) (RowIter, error) {
	child, err := f.Child.Iter(ctx)
	if err != nil {
		return nil, err
	}
	return &filterIter{child: child, expr: f.Expr}, nil
}

type filterIter struct {
	child RowIter
	expr  expr.Expr
}

func (it *filterIter) Next() (value.Tuple, bool, error) {
	for {
		t, ok, err := it.child.Next()
		if err != nil || !ok {
			return nil, ok, err
		}
		pass, err := expr.EvalPred(it.expr, t)
		if err != nil {
			return nil, false, err
		}
		if pass {
			return t, true, nil
		}
	}
}

func (it *filterIter) Close() error { return it.child.Close() }
