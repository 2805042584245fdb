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

// NegationJoinNode yields Left's tuples that have no matching Right
// tuple on their shared bindings — an anti-join. When Left and Right
// share no bindings, Right degenerates into a ground existence check:
// if Right produces anything at all, every Left tuple is excluded.
type NegationJoinNode struct {
	Left  Node
	Right Node
}

func (n *NegationJoinNode) Bindings() []value.Keyword { return n.Left.Bindings() }

func (n *NegationJoinNode) Iter(ctx *Context) (RowIter, error) {
	leftBindings := n.Left.Bindings()
	rightBindings := n.Right.Bindings()
	_, rightIdx := sharedPositions(leftBindings, rightBindings)
	leftIdx, _ := sharedPositions(leftBindings, rightBindings)

	rightIter, err := n.Right.Iter(ctx)
	if err != nil {
		return nil, err
	}
	defer rightIter.Close()

	seen := map[string]bool{}
	rightHasAny := false
	for {
		r, ok, err := rightIter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rightHasAny = true
		seen[keyOf(r, rightIdx)] = true
	}

	leftIter, err := n.Left.Iter(ctx)
	if err != nil {
		return nil, err
	}
	return &negationIter{child: leftIter, leftIdx: leftIdx, seen: seen, groundBlock: len(leftIdx) == 0 && rightHasAny}, nil
}

type negationIter struct {
	child       RowIter
	leftIdx     []int
	seen        map[string]bool
	groundBlock bool
}

func (it *negationIter) Next() (value.Tuple, bool, error) {
	if it.groundBlock {
		return nil, false, nil
	}
	for {
		t, ok, err := it.child.Next()
		if err != nil || !ok {
			return nil, ok, err
		}
		if it.seen[keyOf(t, it.leftIdx)] {
			continue
		}
		return t, true, nil
	}
}

func (it *negationIter) Close() error { return it.child.Close() }
