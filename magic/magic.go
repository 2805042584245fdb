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

// Package magic rewrites the entry stratum of a program under an
// adornment so that only goal-relevant tuples get derived (§4.5).
//
// Only bound-by-variable call arguments are adorned here: a rule-apply
// argument that is itself a literal constant is left to ordinary
// unification inside the callee rather than folded into the magic
// predicate's arity. The worked example in spec.md §8 only exercises
// binding propagated through caller variables, so this keeps the
// rewrite's shape simple without losing the narrowing it demonstrates.
// Likewise this rewrite inlines each rule's already-evaluated prefix
// directly into its callees' magic rules rather than factoring it
// through a separate per-position supplementary predicate — a
// factoring optimization, not a soundness requirement.
package magic

import (
	"strings"

	"github.com/liangxianzhe/cozo/atom"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/value"
)

// MagicPrefix names every synthesized demand predicate.
const MagicPrefix = "magic_"

// Result is the outcome of rewriting a program's entry stratum.
type Result struct {
	Program *rule.Program
	// Entry is the predicate name the evaluator should now read ENTRY's
	// answer from: value.Entry unchanged if no adornment applied, or a
	// synthesized "ENTRY_<pattern>" name otherwise.
	Entry value.Keyword
	// Seed, when non-empty, is the magic predicate whose demand facts
	// cannot be derived by any rule because they originate outside the
	// program, from the caller-supplied bindings. The evaluator must
	// insert SeedTuple into it directly before running stratum 0.
	Seed      value.Keyword
	SeedTuple value.Tuple
}

// Rewrite adorns p's entry stratum (the predicates named in members)
// under the caller's bound ENTRY head positions. bound[i] is true when
// the i-th ENTRY head variable was pinned by the query's "in" clause;
// seedValues holds the corresponding constants in the same order. With
// no bound position, the rewrite is a no-op: p is returned unchanged and
// the evaluator reads value.Entry directly, consistent with "none in the
// default case" (spec.md §4.5).
func Rewrite(p *rule.Program, members map[value.Keyword]bool, bound []bool, seedValues []value.DataValue) (*Result, error) {
	if !anyTrue(bound) {
		return &Result{Program: p, Entry: value.Entry}, nil
	}

	rw := &rewriter{
		source:     p,
		members:    members,
		visited:    map[string]bool{},
		newRules:   map[value.Keyword][]rule.Rule{},
		visitedSet: map[value.Keyword]bool{},
	}

	entryAdorned := adornedName(value.Entry, bound)
	rw.enqueue(value.Entry, bound)
	for len(rw.queue) > 0 {
		c := rw.queue[0]
		rw.queue = rw.queue[1:]
		rw.process(c)
	}

	result := &rule.Program{Rules: map[value.Keyword][]rule.Rule{}}
	for name, rules := range p.Rules {
		result.Rules[name] = rules
	}
	for name := range rw.visitedSet {
		if _, keptInPlace := rw.newRules[name]; !keptInPlace {
			delete(result.Rules, name)
		}
	}
	for name, rules := range rw.newRules {
		result.Rules[name] = rules
	}

	seedVals := make([]value.DataValue, 0, len(bound))
	for i, b := range bound {
		if b {
			seedVals = append(seedVals, seedValues[i])
		}
	}

	return &Result{
		Program:   result,
		Entry:     entryAdorned,
		Seed:      magicName(entryAdorned),
		SeedTuple: seedVals,
	}, nil
}

type call struct {
	name  value.Keyword
	adorn []bool
}

type rewriter struct {
	source     *rule.Program
	members    map[value.Keyword]bool
	visited    map[string]bool
	visitedSet map[value.Keyword]bool
	newRules   map[value.Keyword][]rule.Rule
	queue      []call
}

func (rw *rewriter) enqueue(name value.Keyword, adorn []bool) {
	key := callKey(name, adorn)
	if rw.visited[key] {
		return
	}
	rw.visited[key] = true
	rw.visitedSet[name] = true
	rw.queue = append(rw.queue, call{name: name, adorn: adorn})
}

func (rw *rewriter) process(c call) {
	aName := adornedName(c.name, c.adorn)
	guard := anyTrue(c.adorn) // allFree predicates need no magic guard

	for _, r := range rw.source.Rules[c.name] {
		bound := map[value.Keyword]bool{}
		for i, b := range c.adorn {
			if b {
				bound[r.Head[i]] = true
			}
		}

		var newBody []atom.Atom
		if guard {
			args := make([]value.ValueTerm, 0, len(bound))
			for i, b := range c.adorn {
				if b {
					args = append(args, value.Var[value.DataValue](r.Head[i]))
				}
			}
			newBody = append(newBody, atom.RuleApply{Name: magicName(aName), Args: args, Adornment: nil, HasAdorn: false})
		}

		for _, bodyAtom := range r.Body {
			rewritten := bodyAtom
			if ra, ok := bodyAtom.(atom.RuleApply); ok && rw.members[ra.Name] {
				calleeAdorn := computeCalleeAdorn(ra.Args, bound)
				calleeName := adornedName(ra.Name, calleeAdorn)
				if anyTrue(calleeAdorn) {
					magicHead := make([]value.Keyword, 0, len(ra.Args))
					for i, b := range calleeAdorn {
						if b {
							magicHead = append(magicHead, ra.Args[i].Variable())
						}
					}
					prefix := make([]atom.Atom, len(newBody))
					copy(prefix, newBody)
					rw.newRules[magicName(calleeName)] = append(rw.newRules[magicName(calleeName)], rule.Rule{
						Head:     magicHead,
						Body:     prefix,
						Validity: r.Validity,
					})
				}
				rw.enqueue(ra.Name, calleeAdorn)
				rewritten = atom.RuleApply{Name: calleeName, Args: ra.Args, Adornment: calleeAdorn, HasAdorn: true}
			}
			newBody = append(newBody, rewritten)
			for k := range atom.BoundVars(rewritten) {
				bound[k] = true
			}
		}

		rw.newRules[aName] = append(rw.newRules[aName], rule.Rule{Head: r.Head, Body: newBody, Validity: r.Validity})
	}
}

func computeCalleeAdorn(args []value.ValueTerm, bound map[value.Keyword]bool) []bool {
	out := make([]bool, len(args))
	for i, a := range args {
		out[i] = a.IsVariable() && bound[a.Variable()]
	}
	return out
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}

func adornedName(name value.Keyword, adorn []bool) value.Keyword {
	if !anyTrue(adorn) {
		return name
	}
	return value.Keyword(string(name) + "_" + pattern(adorn))
}

func magicName(adorned value.Keyword) value.Keyword {
	return value.Keyword(MagicPrefix + string(adorned))
}

func pattern(adorn []bool) string {
	var sb strings.Builder
	for _, b := range adorn {
		if b {
			sb.WriteByte('b')
		} else {
			sb.WriteByte('f')
		}
	}
	return sb.String()
}

func callKey(name value.Keyword, adorn []bool) string {
	return string(name) + "/" + pattern(adorn)
}
