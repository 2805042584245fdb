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

// Package algo hosts the built-in algorithm applications: procedures
// that run once, outside the semi-naive fixpoint, over relations that
// have already settled in an earlier stratum.
package algo

import (
	"fmt"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/session"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

// nodeBinding is the binding a BFS condition uses for the candidate
// node; FillBindingIndices resolves it to position 0 of the one-column
// node tuple the condition is evaluated against.
const nodeBinding = value.Keyword("?node")

type runner func(spec *rule.AlgoSpec, stores map[value.Keyword]store.TempStore, cancel session.CancelToken) ([]value.Tuple, error)

// registry is keyed by algorithm name; BFS is the only procedure this
// engine ships, but adding another is a matter of registering another
// runner here.
var registry = map[string]runner{
	"bfs": runBFS,
}

// Run dispatches spec to its registered algorithm and returns the
// tuples it produces, each already shaped to the rule's single-column
// path-binding head: a list of the nodes visited from start to the
// matching node, inclusive.
func Run(spec *rule.AlgoSpec, stores map[value.Keyword]store.TempStore, cancel session.CancelToken) ([]value.Tuple, error) {
	fn, ok := registry[spec.Algo]
	if !ok {
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("unknown algorithm %q", spec.Algo))
	}
	return fn(spec, stores, cancel)
}

// runBFS breadth-first searches edges from starting_nodes (or nodes, if
// starting_nodes isn't given) until condition matches or limit results
// are found. Edges and nodes relations are arity 2 (from, to) and arity
// 1 (node) respectively; condition is evaluated against the
// single-column candidate node tuple and is required, since a BFS with
// no stopping condition would otherwise run to exhaustion.
func runBFS(spec *rule.AlgoSpec, stores map[value.Keyword]store.TempStore, cancel session.CancelToken) ([]value.Tuple, error) {
	edges, ok := stores[spec.Edges]
	if !ok {
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("bfs: no relation for edges %s", spec.Edges))
	}
	nodes, ok := stores[spec.Nodes]
	if !ok {
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("bfs: no relation for nodes %s", spec.Nodes))
	}
	starts := nodes
	if spec.StartingNodes != "" {
		starts, ok = stores[spec.StartingNodes]
		if !ok {
			return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("bfs: no relation for starting_nodes %s", spec.StartingNodes))
		}
	}

	if spec.Condition == nil {
		return nil, dlerrors.ErrEvaluation.New("terminating \"condition\" required for bfs")
	}
	condition, err := expr.FillBindingIndices(spec.Condition, map[value.Keyword]int{nodeBinding: 0})
	if err != nil {
		return nil, err
	}

	visited := map[uint64]bool{}
	nodeByKey := map[uint64]value.Tuple{}
	predecessor := map[uint64]uint64{}
	originOf := map[uint64]uint64{}

	type pair struct{ startKey, endKey uint64 }
	var found []pair

	startIter := starts.Iter(store.FullRelation, nil)
	defer startIter.Close()

outer:
	for {
		root, ok := startIter.Next()
		if !ok {
			break
		}
		rootKey := value.TupleFingerprint(root)
		if visited[rootKey] {
			continue
		}
		visited[rootKey] = true
		nodeByKey[rootKey] = root
		originOf[rootKey] = rootKey

		queue := []value.Tuple{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			curKey := value.TupleFingerprint(cur)

			edgeIter := edges.Iter(store.FullRelation, value.Tuple{cur[0]})
			for {
				if err := cancel.Check(); err != nil {
					edgeIter.Close()
					return nil, err
				}
				e, ok := edgeIter.Next()
				if !ok {
					break
				}
				target := value.Tuple{e[1]}
				targetKey := value.TupleFingerprint(target)
				if visited[targetKey] {
					continue
				}
				visited[targetKey] = true
				nodeByKey[targetKey] = target
				predecessor[targetKey] = curKey
				originOf[targetKey] = originOf[rootKey]

				pass, err := expr.EvalPred(condition, target)
				if err != nil {
					edgeIter.Close()
					return nil, err
				}
				if pass {
					found = append(found, pair{startKey: rootKey, endKey: targetKey})
					if len(found) >= spec.Limit {
						edgeIter.Close()
						break outer
					}
				}
				queue = append(queue, target)
			}
			edgeIter.Close()
		}
	}

	results := make([]value.Tuple, 0, len(found))
	for _, p := range found {
		path := reconstructPath(p.endKey, predecessor, nodeByKey)
		pathValues := make([]value.DataValue, len(path))
		for i, key := range path {
			pathValues[i] = nodeByKey[key][0]
		}
		results = append(results, value.Tuple{value.List(pathValues...)})
	}
	return results, nil
}

func reconstructPath(endKey uint64, predecessor map[uint64]uint64, nodeByKey map[uint64]value.Tuple) []uint64 {
	var reversed []uint64
	key := endKey
	for {
		reversed = append(reversed, key)
		prev, ok := predecessor[key]
		if !ok {
			break
		}
		key = prev
	}
	out := make([]uint64, len(reversed))
	for i, k := range reversed {
		out[len(reversed)-1-i] = k
	}
	return out
}
