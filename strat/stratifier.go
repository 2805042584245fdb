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

// Package strat partitions a rule.Program into strata (§4.4): groups of
// mutually-recursive predicates that can be safely evaluated to a
// fixpoint together, ordered so a predicate's non-recursive dependencies
// are always computed in an earlier stratum.
package strat

import (
	"fmt"
	"sort"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/value"
)

// Stratum is one strongly connected component of the predicate
// dependency graph, in no particular internal order.
type Stratum struct {
	Predicates []value.Keyword
}

// Strata is the result of stratifying a program. Strata[0] is the
// stratum containing ENTRY; higher indices hold its dependencies. The
// fixpoint driver (§4.7) must therefore consume this slice in reverse,
// computing a dependency's fixpoint before the stratum that needs it.
type Strata []Stratum

// StratumOf returns the index into s of the stratum producing name.
func (s Strata) StratumOf(name value.Keyword) int {
	for i, st := range s {
		for _, p := range st.Predicates {
			if p == name {
				return i
			}
		}
	}
	return -1
}

// Stratify builds the consumer-to-producer dependency graph of p (an
// edge labelled negative where the consumer reaches the producer only
// through a Negation), computes its strongly connected components, and
// orders the condensation so consumers precede producers (ENTRY's
// stratum first, as Strata describes). An SCC that
// contains a negative edge between two of its own members is ill-formed
// (the predicate would need to be evaluated against its own
// not-yet-final negation) and rejected.
func Stratify(p *rule.Program) (Strata, error) {
	g := buildGraph(p)
	sccs := tarjanSCCs(g)

	// tarjanSCCs appends a component once DFS has explored everything it
	// depends on, so producers land earlier in sccs than the consumers
	// that reach them. We want the opposite — ENTRY's stratum at index
	// 0, dependencies at higher indices — so reverse it here.
	for i, j := 0, len(sccs)-1; i < j; i, j = i+1, j-1 {
		sccs[i], sccs[j] = sccs[j], sccs[i]
	}

	strata := make(Strata, 0, len(sccs))
	for _, scc := range sccs {
		if err := checkNoInternalNegativeEdge(g, scc); err != nil {
			return nil, err
		}
		sort.Slice(scc, func(i, j int) bool { return scc[i] < scc[j] })
		strata = append(strata, Stratum{Predicates: scc})
	}
	return strata, nil
}

type graph struct {
	nodes []value.Keyword
	index map[value.Keyword]int
	// edges[u] lists the nodes u depends on (u's body contains them).
	edges map[value.Keyword][]value.Keyword
	// negative[u][v] is true when some rule of u references v inside a
	// negation (recorded per consumer/producer pair).
	negative map[value.Keyword]map[value.Keyword]bool
}

func buildGraph(p *rule.Program) *graph {
	g := &graph{
		index:    map[value.Keyword]int{},
		edges:    map[value.Keyword][]value.Keyword{},
		negative: map[value.Keyword]map[value.Keyword]bool{},
	}
	for name := range p.Rules {
		g.index[name] = len(g.nodes)
		g.nodes = append(g.nodes, name)
	}
	for name, rules := range p.Rules {
		seen := map[value.Keyword]bool{}
		for _, r := range rules {
			for dep := range r.ContainedRules() {
				if !seen[dep] {
					seen[dep] = true
					g.edges[name] = append(g.edges[name], dep)
				}
			}
			for dep := range r.NegativeRules() {
				if g.negative[name] == nil {
					g.negative[name] = map[value.Keyword]bool{}
				}
				g.negative[name][dep] = true
			}
		}
	}
	return g
}

func checkNoInternalNegativeEdge(g *graph, scc []value.Keyword) error {
	member := map[value.Keyword]bool{}
	for _, n := range scc {
		member[n] = true
	}
	for _, n := range scc {
		for dep := range g.negative[n] {
			if member[dep] {
				return dlerrors.ErrStratification.New(fmt.Sprintf(
					"predicate %s depends on %s through negation within a recursive cycle", n, dep))
			}
		}
	}
	return nil
}

// tarjanSCCs runs Tarjan's algorithm over g and returns its strongly
// connected components in reverse topological order: a component
// appears after every component it depends on.
func tarjanSCCs(g *graph) [][]value.Keyword {
	var (
		index   = 0
		stack   []value.Keyword
		onStack = map[value.Keyword]bool{}
		indices = map[value.Keyword]int{}
		lowlink = map[value.Keyword]int{}
		result  [][]value.Keyword
	)

	var strongconnect func(v value.Keyword)
	strongconnect = func(v value.Keyword) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []value.Keyword
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			result = append(result, scc)
		}
	}

	names := make([]value.Keyword, len(g.nodes))
	copy(names, g.nodes)
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, v := range names {
		if _, visited := indices[v]; !visited {
			strongconnect(v)
		}
	}
	return result
}
