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

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/value"
)

// NamedRawRule is a RawRule together with the predicate name it defines.
type NamedRawRule struct {
	Name value.Keyword
	RawRule
}

// BuildProgram normalizes every raw rule and assembles the result into a
// Program, enforcing §3's invariants: consistent arity within a
// predicate's rule set, identical ENTRY head names across disjuncts, and
// the presence of at least one ENTRY rule.
func BuildProgram(raws []NamedRawRule) (*Program, error) {
	p := &Program{Rules: map[value.Keyword][]Rule{}}
	for _, nr := range raws {
		normalized, err := Normalize(nr.RawRule)
		if err != nil {
			return nil, err
		}
		for _, r := range normalized {
			p.Rules[nr.Name] = append(p.Rules[nr.Name], r)
		}
	}

	for name, rules := range p.Rules {
		arity := len(rules[0].Head)
		for _, r := range rules[1:] {
			if len(r.Head) != arity {
				return nil, dlerrors.ErrSafety.New(fmt.Sprintf("predicate %s: inconsistent arity across rules", name))
			}
		}
	}

	entryRules := p.Rules[value.Entry]
	if len(entryRules) == 0 {
		return nil, dlerrors.ErrSafety.New("program has no ENTRY rule")
	}
	first := entryRules[0].Head
	for _, r := range entryRules[1:] {
		if !sameHeadNames(first, r.Head) {
			return nil, dlerrors.ErrSafety.New("ENTRY rules must share identical head variable names in order")
		}
	}

	return p, nil
}

func sameHeadNames(a, b []value.Keyword) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
