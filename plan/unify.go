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

// UnificationNode sits directly above a raw leaf (Scan or TempScan)
// whose output columns may repeat a variable name (the same binding
// used twice in one atom) or be blank (a constant or wildcard position,
// already filtered at the leaf). It enforces equality across every
// repeated name and projects down to one column per distinct binding.
type UnificationNode struct {
	child    Node
	bindings []value.Keyword
	groups   [][]int // one group of raw child-column indices per output binding
}

// Unify wraps child, whose Bindings() may contain duplicates or blanks,
// in a UnificationNode that cleans both up.
func Unify(child Node) *UnificationNode {
	raw := child.Bindings()
	firstSeen := map[value.Keyword]int{}
	var groups [][]int
	var order []value.Keyword
	for i, name := range raw {
		if name == "" {
			continue
		}
		if g, ok := firstSeen[name]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		firstSeen[name] = len(groups)
		groups = append(groups, []int{i})
		order = append(order, name)
	}
	return &UnificationNode{child: child, bindings: order, groups: groups}
}

func (u *UnificationNode) Bindings() []value.Keyword { return u.bindings }

func (u *UnificationNode) Iter(ctx *Context) (RowIter, error) {
	child, err := u.child.Iter(ctx)
	if err != nil {
		return nil, err
	}
	return &unificationIter{child: child, groups: u.groups}, nil
}

type unificationIter struct {
	child  RowIter
	groups [][]int
}

func (it *unificationIter) Next() (value.Tuple, bool, error) {
	for {
		raw, ok, err := it.child.Next()
		if err != nil || !ok {
			return nil, ok, err
		}
		consistent := true
		for _, g := range it.groups {
			for _, idx := range g[1:] {
				if !raw[idx].Equal(raw[g[0]]) {
					consistent = false
					break
				}
			}
			if !consistent {
				break
			}
		}
		if !consistent {
			continue
		}
		out := make(value.Tuple, len(it.groups))
		for i, g := range it.groups {
			out[i] = raw[g[0]]
		}
		return out, true, nil
	}
}

func (it *unificationIter) Close() error { return it.child.Close() }
