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

// Package atom parses a JSON-like payload into the Atom tree that forms
// a rule body, and validates each atom's shape as it goes (§4.1).
package atom

import (
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

// Atom is the leaf (or internal logical node) of a rule body.
type Atom interface {
	isAtom()
}

// AttrTriple matches an (entity, attribute, value) fact.
type AttrTriple struct {
	Entity    value.EntityTerm
	Attribute store.Attribute
	Value     value.ValueTerm
}

func (AttrTriple) isAtom() {}

// RuleApply invokes another predicate by name, optionally adorned with a
// bound-pattern computed by the magic-sets rewriter.
type RuleApply struct {
	Name       value.Keyword
	Args       []value.ValueTerm
	Adornment  []bool // nil until the magic-sets rewriter assigns one
	HasAdorn   bool
}

func (RuleApply) isAtom() {}

// Predicate wraps a boolean expression over already-bound variables.
type Predicate struct {
	Expr expr.Expr
}

func (Predicate) isAtom() {}

// Conjunction is a logical AND of its children.
type Conjunction struct {
	Atoms []Atom
}

func (Conjunction) isAtom() {}

// Disjunction is a logical OR of its children.
type Disjunction struct {
	Atoms []Atom
}

func (Disjunction) isAtom() {}

// Negation is "not exists" over its child.
type Negation struct {
	Atom Atom
}

func (Negation) isAtom() {}

// IsNegation reports whether a is a Negation node.
func IsNegation(a Atom) bool {
	_, ok := a.(Negation)
	return ok
}

// IsPredicateAtom reports whether a is a Predicate node.
func IsPredicateAtom(a Atom) bool {
	_, ok := a.(Predicate)
	return ok
}

// FreeVars returns every variable a references, whether it binds them
// (a positive triple or rule-apply) or merely requires them already
// bound (a predicate or negation).
func FreeVars(a Atom) map[value.Keyword]bool {
	out := map[value.Keyword]bool{}
	collectFreeVars(a, out)
	return out
}

func collectFreeVars(a Atom, out map[value.Keyword]bool) {
	switch n := a.(type) {
	case AttrTriple:
		if n.Entity.IsVariable() {
			out[n.Entity.Variable()] = true
		}
		if n.Value.IsVariable() {
			out[n.Value.Variable()] = true
		}
	case RuleApply:
		for _, arg := range n.Args {
			if arg.IsVariable() {
				out[arg.Variable()] = true
			}
		}
	case Predicate:
		for kw := range expr.BindingIndices(n.Expr) {
			out[kw] = true
		}
	case Conjunction:
		for _, c := range n.Atoms {
			collectFreeVars(c, out)
		}
	case Disjunction:
		for _, c := range n.Atoms {
			collectFreeVars(c, out)
		}
	case Negation:
		collectFreeVars(n.Atom, out)
	}
}

// BoundVars returns the variables a positive (non-negated, non-predicate)
// atom binds when evaluated. It returns an empty set for Predicate and
// Negation atoms, which never bind anything themselves.
func BoundVars(a Atom) map[value.Keyword]bool {
	out := map[value.Keyword]bool{}
	switch n := a.(type) {
	case AttrTriple, RuleApply:
		collectFreeVars(n, out)
	case Conjunction:
		for _, c := range n.Atoms {
			for k := range BoundVars(c) {
				out[k] = true
			}
		}
	case Disjunction:
		for _, c := range n.Atoms {
			for k := range BoundVars(c) {
				out[k] = true
			}
		}
	}
	return out
}
