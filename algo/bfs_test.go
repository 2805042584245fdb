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

package algo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/algo"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/session"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

func buildLineGraph(t *testing.T) map[value.Keyword]store.TempStore {
	t.Helper()
	sess := store.NewMemSession()
	t.Cleanup(func() { sess.Release() })

	edges := sess.NewThrowaway(2)
	for _, pair := range [][2]int64{{1, 2}, {2, 3}, {3, 4}} {
		_, err := edges.Put(value.Tuple{value.Int(pair[0]), value.Int(pair[1])}, 0)
		require.NoError(t, err)
	}

	nodes := sess.NewThrowaway(1)
	for _, n := range []int64{1, 2, 3, 4} {
		_, err := nodes.Put(value.Tuple{value.Int(n)}, 0)
		require.NoError(t, err)
	}

	start := sess.NewThrowaway(1)
	_, err := start.Put(value.Tuple{value.Int(1)}, 0)
	require.NoError(t, err)

	return map[value.Keyword]store.TempStore{"edge": edges, "node": nodes, "start": start}
}

// alwaysTrue is a condition that matches every candidate node, so tests
// that only care about reachability/limit behavior don't need their own.
func alwaysTrue() expr.Expr {
	return expr.Apply{Op: "==", Args: []expr.Expr{expr.Binding{Name: "?node"}, expr.Binding{Name: "?node"}}}
}

func TestRunBFSFindsReachableNodes(t *testing.T) {
	stores := buildLineGraph(t)
	spec := &rule.AlgoSpec{Algo: "bfs", Edges: "edge", Nodes: "node", StartingNodes: "start", Limit: 10, Condition: alwaysTrue()}

	results, err := algo.Run(spec, stores, session.Background())
	require.NoError(t, err)
	require.Len(t, results, 3, "three nodes reachable from 1: 2, 3, 4")
}

func TestRunBFSRespectsLimit(t *testing.T) {
	stores := buildLineGraph(t)
	spec := &rule.AlgoSpec{Algo: "bfs", Edges: "edge", Nodes: "node", StartingNodes: "start", Limit: 1, Condition: alwaysTrue()}

	results, err := algo.Run(spec, stores, session.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestRunBFSAppliesCondition(t *testing.T) {
	stores := buildLineGraph(t)
	cond := expr.Apply{Op: "==", Args: []expr.Expr{expr.Binding{Name: "?node"}, expr.Const{Value: value.Int(3)}}}
	spec := &rule.AlgoSpec{Algo: "bfs", Edges: "edge", Nodes: "node", StartingNodes: "start", Limit: 10, Condition: cond}

	results, err := algo.Run(spec, stores, session.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	path := results[0][0].AsList()
	require.Equal(t, value.Int(3), path[len(path)-1])
}

func TestRunBFSRequiresCondition(t *testing.T) {
	stores := buildLineGraph(t)
	spec := &rule.AlgoSpec{Algo: "bfs", Edges: "edge", Nodes: "node", StartingNodes: "start", Limit: 10}
	_, err := algo.Run(spec, stores, session.Background())
	require.Error(t, err)
}

func TestRunUnknownAlgorithmErrors(t *testing.T) {
	stores := buildLineGraph(t)
	spec := &rule.AlgoSpec{Algo: "dfs", Edges: "edge", Nodes: "node"}
	_, err := algo.Run(spec, stores, session.Background())
	require.Error(t, err)
}

func TestRunBFSMissingRelationErrors(t *testing.T) {
	stores := buildLineGraph(t)
	spec := &rule.AlgoSpec{Algo: "bfs", Edges: "nope", Nodes: "node", Limit: 10}
	_, err := algo.Run(spec, stores, session.Background())
	require.Error(t, err)
}
