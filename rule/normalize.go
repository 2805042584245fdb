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

package rule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/liangxianzhe/cozo/atom"
	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/value"
)

// Normalize expands raw's body into disjunction-free normal form (one
// rule per disjunct), reorders each resulting conjunction so negations
// and predicates only reference already-bound variables, and validates
// head-variable distinctness. It returns one Rule per disjunct of raw's
// body.
func Normalize(raw RawRule) ([]Rule, error) {
	if err := checkDistinctHeadVars(raw.Head); err != nil {
		return nil, err
	}

	if raw.Algo != nil {
		if len(raw.Head) != 1 {
			return nil, dlerrors.ErrSafety.New(fmt.Sprintf("algorithm rule head must be a single path-binding variable, got %d", len(raw.Head)))
		}
		return []Rule{{Head: raw.Head, Algo: raw.Algo, Validity: raw.Validity}}, nil
	}

	branches := dnf(raw.Body)
	rules := make([]Rule, 0, len(branches))
	for _, branch := range branches {
		afterNeg, err := reorderSpecials(branch, atom.IsNegation, false)
		if err != nil {
			return nil, err
		}
		afterPred, err := reorderSpecials(afterNeg, atom.IsPredicateAtom, true)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Head: raw.Head, Body: afterPred, Validity: raw.Validity})
	}
	return rules, nil
}

func checkDistinctHeadVars(head []value.Keyword) error {
	seen := map[value.Keyword]bool{}
	for _, h := range head {
		if seen[h] {
			return dlerrors.ErrSafety.New(fmt.Sprintf("duplicate head variable %s", h))
		}
		seen[h] = true
	}
	return nil
}

// dnf expands a into disjunctive normal form: a list of branches, each a
// flat conjunction of non-logical atoms (AttrTriple, RuleApply,
// Predicate, Negation).
func dnf(a atom.Atom) [][]atom.Atom {
	switch n := a.(type) {
	case atom.Conjunction:
		result := [][]atom.Atom{{}}
		for _, c := range n.Atoms {
			sub := dnf(c)
			next := make([][]atom.Atom, 0, len(result)*len(sub))
			for _, r := range result {
				for _, s := range sub {
					combined := make([]atom.Atom, 0, len(r)+len(s))
					combined = append(combined, r...)
					combined = append(combined, s...)
					next = append(next, combined)
				}
			}
			result = next
		}
		return result
	case atom.Disjunction:
		var result [][]atom.Atom
		for _, c := range n.Atoms {
			result = append(result, dnf(c)...)
		}
		return result
	case atom.Negation:
		branches := dnf(n.Atom)
		if len(branches) <= 1 {
			return [][]atom.Atom{{atom.Negation{Atom: asSingleAtom(branches)}}}
		}
		// De Morgan: not(A or B) == not(A) and not(B).
		negs := make([]atom.Atom, 0, len(branches))
		for _, br := range branches {
			negs = append(negs, atom.Negation{Atom: asSingleAtom([][]atom.Atom{br})})
		}
		return [][]atom.Atom{negs}
	default:
		return [][]atom.Atom{{a}}
	}
}

func asSingleAtom(branches [][]atom.Atom) atom.Atom {
	if len(branches) == 0 || len(branches[0]) == 0 {
		return atom.Conjunction{}
	}
	if len(branches[0]) == 1 {
		return branches[0][0]
	}
	return atom.Conjunction{Atoms: branches[0]}
}

// reorderSpecials partitions atoms into "special" (matched by isSpecial)
// and ordinary atoms, walks the ordinary atoms left to right
// accumulating bound variables, and inserts each pending special atom as
// soon as its free variables are covered. When strict, any special atom
// still pending once the walk completes is a SafetyError naming its
// unbound variables; otherwise it is appended at the end (it has "no
// required bindings", §4.2 step 2).
func reorderSpecials(atoms []atom.Atom, isSpecial func(atom.Atom) bool, strict bool) ([]atom.Atom, error) {
	var ordinary, specials []atom.Atom
	for _, a := range atoms {
		if isSpecial(a) {
			specials = append(specials, a)
		} else {
			ordinary = append(ordinary, a)
		}
	}

	bound := map[value.Keyword]bool{}
	placed := make([]bool, len(specials))
	out := make([]atom.Atom, 0, len(atoms))

	tryPlacePending := func() {
		for {
			progressed := false
			for i, s := range specials {
				if placed[i] {
					continue
				}
				if isSubset(atom.FreeVars(s), bound) {
					out = append(out, s)
					placed[i] = true
					progressed = true
				}
			}
			if !progressed {
				return
			}
		}
	}

	tryPlacePending()
	for _, a := range ordinary {
		out = append(out, a)
		for k := range atom.BoundVars(a) {
			bound[k] = true
		}
		tryPlacePending()
	}

	var unresolved []atom.Atom
	for i, s := range specials {
		if !placed[i] {
			unresolved = append(unresolved, s)
		}
	}
	if len(unresolved) == 0 {
		return out, nil
	}
	if !strict {
		out = append(out, unresolved...)
		return out, nil
	}

	missing := map[value.Keyword]bool{}
	for _, s := range unresolved {
		for v := range atom.FreeVars(s) {
			if !bound[v] {
				missing[v] = true
			}
		}
	}
	names := make([]string, 0, len(missing))
	for v := range missing {
		names = append(names, string(v))
	}
	sort.Strings(names)
	return nil, dlerrors.ErrSafety.New(fmt.Sprintf("unsafe predicate: unbound variable(s) %s", strings.Join(names, ", ")))
}

func isSubset(small, big map[value.Keyword]bool) bool {
	for k := range small {
		if !big[k] {
			return false
		}
	}
	return true
}
