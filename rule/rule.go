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

// Package rule normalizes parsed rule bodies into safe, flat
// conjunctions (§4.2) and assembles them into a Program (§3).
package rule

import (
	"github.com/liangxianzhe/cozo/atom"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/value"
)

// AlgoSpec names an algorithm-host application (§4.8): a built-in
// procedure run once, outside the fixpoint loop, after every relation it
// consumes has finished computing in an earlier stratum. Algo names the
// procedure ("bfs" is the only one this engine ships); Edges, Nodes, and
// StartingNodes name the predicates supplying its input relations
// (StartingNodes empty means "default to Nodes").
type AlgoSpec struct {
	Algo          string
	Edges         value.Keyword
	Nodes         value.Keyword
	StartingNodes value.Keyword
	Limit         int
	Condition     expr.Expr
}

// RawRule is a rule as the parser produced it: one head and one
// (possibly non-conjunctive) body tree. An algorithm-application rule
// carries Algo instead of Body.
type RawRule struct {
	Head     []value.Keyword
	Body     atom.Atom
	Algo     *AlgoSpec
	Validity value.Validity
}

// Rule is a rule after DNF expansion and safety reordering: the body is
// a flat conjunction whose atoms are ordered so every predicate and
// negation only references variables already bound by a preceding atom.
// An algorithm-application rule carries Algo instead of Body and is
// never split by DNF (it has no disjunction to expand).
type Rule struct {
	Head     []value.Keyword
	Body     []atom.Atom
	Algo     *AlgoSpec
	Validity value.Validity
}

// ContainedRules returns the set of predicate names r's body depends on,
// via RuleApply atoms — the "contained_rules" set used by the
// stratifier (§4.4) and by the fixpoint driver (§4.7) to decide when a
// rule may have new work.
func (r Rule) ContainedRules() map[value.Keyword]bool {
	out := map[value.Keyword]bool{}
	if r.Algo != nil {
		out[r.Algo.Edges] = true
		out[r.Algo.Nodes] = true
		if r.Algo.StartingNodes != "" {
			out[r.Algo.StartingNodes] = true
		}
		return out
	}
	for _, a := range r.Body {
		collectContainedRules(a, out)
	}
	return out
}

func collectContainedRules(a atom.Atom, out map[value.Keyword]bool) {
	switch n := a.(type) {
	case atom.RuleApply:
		out[n.Name] = true
	case atom.Negation:
		collectContainedRules(n.Atom, out)
	case atom.Conjunction:
		for _, c := range n.Atoms {
			collectContainedRules(c, out)
		}
	}
}

// NegativeRules returns the set of predicate names r depends on only
// through a negation or (in a future extension) an aggregation — used
// by the stratifier to label negative edges.
func (r Rule) NegativeRules() map[value.Keyword]bool {
	out := map[value.Keyword]bool{}
	for _, a := range r.Body {
		if neg, ok := a.(atom.Negation); ok {
			collectContainedRules(neg.Atom, out)
		}
	}
	return out
}

// Program maps a predicate name to the set of rules that produce it. All
// rules sharing a name must share the same head arity; ENTRY's rules must
// additionally share identical head variable names in order.
type Program struct {
	Rules map[value.Keyword][]Rule
}

// EntryRules returns the rules producing the designated ENTRY predicate.
func (p *Program) EntryRules() []Rule {
	return p.Rules[value.Entry]
}
