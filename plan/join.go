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

// JoinNode hash-joins Left and Right on every binding name they share.
// Left is built into the hash table; callers should place the side with
// fewer output bindings there (§4.6).
type JoinNode struct {
	Left  Node
	Right Node
}

// NewJoin builds a JoinNode with whichever of a, b has fewer output
// bindings on the left.
func NewJoin(a, b Node) *JoinNode {
	if len(a.Bindings()) <= len(b.Bindings()) {
		return &JoinNode{Left: a, Right: b}
	}
	return &JoinNode{Left: b, Right: a}
}

func (j *JoinNode) Bindings() []value.Keyword {
	out := append([]value.Keyword{}, j.Left.Bindings()...)
	left := map[value.Keyword]bool{}
	for _, k := range j.Left.Bindings() {
		left[k] = true
	}
	for _, k := range j.Right.Bindings() {
		if !left[k] {
			out = append(out, k)
		}
	}
	return out
}

func sharedPositions(left, right []value.Keyword) (leftIdx, rightIdx []int) {
	rightPos := map[value.Keyword]int{}
	for i, k := range right {
		rightPos[k] = i
	}
	for i, k := range left {
		if j, ok := rightPos[k]; ok {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, j)
		}
	}
	return
}

func rightOnlyPositions(left, right []value.Keyword) []int {
	leftSet := map[value.Keyword]bool{}
	for _, k := range left {
		leftSet[k] = true
	}
	var out []int
	for i, k := range right {
		if !leftSet[k] {
			out = append(out, i)
		}
	}
	return out
}

func keyOf(tuple value.Tuple, idx []int) string {
	t := make(value.Tuple, len(idx))
	for i, p := range idx {
		t[i] = tuple[p]
	}
	return string(t.Encode())
}

func (j *JoinNode) Iter(ctx *Context) (RowIter, error) {
	leftBindings := j.Left.Bindings()
	rightBindings := j.Right.Bindings()
	leftIdx, rightIdx := sharedPositions(leftBindings, rightBindings)
	rightOnly := rightOnlyPositions(leftBindings, rightBindings)

	leftIter, err := j.Left.Iter(ctx)
	if err != nil {
		return nil, err
	}
	defer leftIter.Close()

	table := map[string][]value.Tuple{}
	for {
		t, ok, err := leftIter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		k := keyOf(t, leftIdx)
		table[k] = append(table[k], t)
	}

	rightIter, err := j.Right.Iter(ctx)
	if err != nil {
		return nil, err
	}
	return &joinIter{right: rightIter, table: table, rightIdx: rightIdx, rightOnly: rightOnly}, nil
}

type joinIter struct {
	right     RowIter
	table     map[string][]value.Tuple
	rightIdx  []int
	rightOnly []int
	pending   []value.Tuple
	pendingR  value.Tuple
}

func (it *joinIter) Next() (value.Tuple, bool, error) {
	for {
		if len(it.pending) > 0 {
			left := it.pending[0]
			it.pending = it.pending[1:]
			out := make(value.Tuple, 0, len(left)+len(it.rightOnly))
			out = append(out, left...)
			for _, p := range it.rightOnly {
				out = append(out, it.pendingR[p])
			}
			return out, true, nil
		}
		r, ok, err := it.right.Next()
		if err != nil || !ok {
			return nil, ok, err
		}
		k := keyOf(r, it.rightIdx)
		matches := it.table[k]
		if len(matches) == 0 {
			continue
		}
		it.pending = matches
		it.pendingR = r
	}
}

func (it *joinIter) Close() error { return it.right.Close() }
