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

	"github.com/liangxianzhe/cozo/atom"
	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/value"
)

// Compile builds the relation plan for a normalized, safety-ordered rule
// body (rule.Rule.Body). The atoms must already be flat (no Conjunction
// or Disjunction at the top level, per rule.Normalize); nested
// Conjunctions may still appear as a Negation's target.
func Compile(body []atom.Atom) (Node, error) {
	return compileBody(body)
}

func compileBody(atoms []atom.Atom) (Node, error) {
	var current Node
	for _, a := range atoms {
		switch n := a.(type) {
		case atom.AttrTriple:
			leaf := Unify(ScanNode{Attr: n.Attribute, Entity: n.Entity, Value: n.Value})
			current = joinOnto(current, leaf)
		case atom.RuleApply:
			leaf := Unify(TempScanNode{Predicate: n.Name, Args: n.Args})
			current = joinOnto(current, leaf)
		case atom.Predicate:
			base := baseOrUnit(current)
			filled, err := expr.FillBindingIndices(n.Expr, indexOf(base.Bindings()))
			if err != nil {
				return nil, err
			}
			current = &FilterNode{Child: base, Expr: filled}
		case atom.Negation:
			base := baseOrUnit(current)
			inner, err := compileAtom(n.Atom)
			if err != nil {
				return nil, err
			}
			current = &NegationJoinNode{Left: base, Right: inner}
		case atom.Conjunction:
			sub, err := compileBody(n.Atoms)
			if err != nil {
				return nil, err
			}
			current = joinOnto(current, sub)
		default:
			return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("unexpected atom %T in compiled body", a))
		}
	}
	return baseOrUnit(current), nil
}

func compileAtom(a atom.Atom) (Node, error) {
	switch n := a.(type) {
	case atom.Conjunction:
		return compileBody(n.Atoms)
	case atom.AttrTriple:
		return Unify(ScanNode{Attr: n.Attribute, Entity: n.Entity, Value: n.Value}), nil
	case atom.RuleApply:
		return Unify(TempScanNode{Predicate: n.Name, Args: n.Args}), nil
	case atom.Predicate:
		filled, err := expr.FillBindingIndices(n.Expr, indexOf(nil))
		if err != nil {
			return nil, err
		}
		return &FilterNode{Child: UnitNode{}, Expr: filled}, nil
	case atom.Negation:
		inner, err := compileAtom(n.Atom)
		if err != nil {
			return nil, err
		}
		return &NegationJoinNode{Left: UnitNode{}, Right: inner}, nil
	default:
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("unexpected atom %T as negation target", a))
	}
}

func joinOnto(current Node, leaf Node) Node {
	if current == nil {
		return leaf
	}
	return NewJoin(current, leaf)
}

func baseOrUnit(current Node) Node {
	if current == nil {
		return UnitNode{}
	}
	return current
}

// HeadIndices resolves each of head's variable names to its positional
// index in node's output bindings, for projecting a compiled rule's
// result tuples down to head order.
func HeadIndices(node Node, head []value.Keyword) ([]int, error) {
	pos := indexOf(node.Bindings())
	out := make([]int, len(head))
	for i, h := range head {
		idx, ok := pos[h]
		if !ok {
			return nil, dlerrors.ErrSafety.New(fmt.Sprintf("head variable %s is never bound by the rule body", h))
		}
		out[i] = idx
	}
	return out, nil
}
