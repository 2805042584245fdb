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

package rule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/atom"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/value"
)

func triple(e, v value.Keyword) atom.AttrTriple {
	return atom.AttrTriple{Entity: value.Var[value.EntityId](e), Value: value.Var[value.DataValue](v)}
}

func TestNormalizeRejectsDuplicateHeadVars(t *testing.T) {
	_, err := rule.Normalize(rule.RawRule{
		Head: []value.Keyword{"?x", "?x"},
		Body: triple("?x", "?y"),
	})
	require.Error(t, err)
}

func TestNormalizeSplitsDisjunctionIntoMultipleRules(t *testing.T) {
	body := atom.Disjunction{Atoms: []atom.Atom{
		triple("?x", "?y"),
		triple("?x", "?z"),
	}}
	rules, err := rule.Normalize(rule.RawRule{Head: []value.Keyword{"?x"}, Body: body})
	require.NoError(t, err)
	require.Len(t, rules, 2)
}

func TestNormalizeReordersPredicateAfterItsBindings(t *testing.T) {
	pred := atom.Predicate{Expr: expr.Apply{Op: ">", Args: []expr.Expr{expr.Binding{Name: "?n"}, expr.Const{Value: value.Int(0)}}}}
	body := atom.Conjunction{Atoms: []atom.Atom{pred, triple("?e", "?n")}}

	rules, err := rule.Normalize(rule.RawRule{Head: []value.Keyword{"?e"}, Body: body})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Body, 2)
	_, lastIsPred := rules[0].Body[1].(atom.Predicate)
	require.True(t, lastIsPred)
}

func TestNormalizeRejectsUnsafePredicate(t *testing.T) {
	pred := atom.Predicate{Expr: expr.Apply{Op: ">", Args: []expr.Expr{expr.Binding{Name: "?never_bound"}, expr.Const{Value: value.Int(0)}}}}
	body := atom.Conjunction{Atoms: []atom.Atom{pred, triple("?e", "?n")}}

	_, err := rule.Normalize(rule.RawRule{Head: []value.Keyword{"?e"}, Body: body})
	require.Error(t, err)
}

func TestNormalizeAlgoRuleRequiresSingleHeadVariable(t *testing.T) {
	spec := &rule.AlgoSpec{Algo: "bfs", Edges: "edge", Nodes: "node"}
	_, err := rule.Normalize(rule.RawRule{Head: []value.Keyword{"?a", "?b"}, Algo: spec})
	require.Error(t, err)

	rules, err := rule.Normalize(rule.RawRule{Head: []value.Keyword{"?path"}, Algo: spec})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Same(t, spec, rules[0].Algo)
}

func TestRuleContainedRulesAndNegativeRules(t *testing.T) {
	r := rule.Rule{
		Head: []value.Keyword{"?x"},
		Body: []atom.Atom{
			atom.RuleApply{Name: "parent", Args: []value.ValueTerm{value.Var[value.DataValue]("?x")}},
			atom.Negation{Atom: atom.RuleApply{Name: "excluded", Args: []value.ValueTerm{value.Var[value.DataValue]("?x")}}},
		},
	}
	require.Equal(t, map[value.Keyword]bool{"parent": true, "excluded": true}, r.ContainedRules())
	require.Equal(t, map[value.Keyword]bool{"excluded": true}, r.NegativeRules())
}

func TestRuleContainedRulesAlgo(t *testing.T) {
	r := rule.Rule{
		Head: []value.Keyword{"?path"},
		Algo: &rule.AlgoSpec{Algo: "bfs", Edges: "edge", Nodes: "node", StartingNodes: "start"},
	}
	require.Equal(t, map[value.Keyword]bool{"edge": true, "node": true, "start": true}, r.ContainedRules())
}
