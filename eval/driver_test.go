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

package eval_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/atom"
	"github.com/liangxianzhe/cozo/eval"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/session"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/strat"
	"github.com/liangxianzhe/cozo/value"
)

func edgeTriple(x, y value.Keyword, attr store.Attribute) atom.AttrTriple {
	return atom.AttrTriple{
		Entity:    value.Var[value.EntityId](x),
		Attribute: attr,
		Value:     value.Var[value.DataValue](y),
	}
}

func ruleApplyOf(name value.Keyword, args ...value.Keyword) atom.RuleApply {
	terms := make([]value.ValueTerm, len(args))
	for i, a := range args {
		terms[i] = value.Var[value.DataValue](a)
	}
	return atom.RuleApply{Name: name, Args: terms}
}

func buildTransitiveClosure(t *testing.T) (*store.MemTripleStore, *rule.Program) {
	t.Helper()
	tx := store.NewMemTripleStore()
	tx.RegisterAttribute(store.Attribute{Name: "edge/to", Type: store.TypeRef})
	attr, ok := tx.AttrByKeyword("edge/to")
	require.True(t, ok)

	require.NoError(t, tx.Assert(value.EntityId(1), "edge/to", value.Entity(2), value.Current))
	require.NoError(t, tx.Assert(value.EntityId(2), "edge/to", value.Entity(3), value.Current))

	raws := []rule.NamedRawRule{
		{Name: "edge", RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: edgeTriple("?x", "?y", attr)}},
		{Name: "path", RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: ruleApplyOf("edge", "?x", "?y")}},
		{Name: "path", RawRule: rule.RawRule{
			Head: []value.Keyword{"?x", "?y"},
			Body: atom.Conjunction{Atoms: []atom.Atom{
				ruleApplyOf("edge", "?x", "?z"),
				ruleApplyOf("path", "?z", "?y"),
			}},
		}},
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: ruleApplyOf("path", "?x", "?y")}},
	}
	p, err := rule.BuildProgram(raws)
	require.NoError(t, err)
	return tx, p
}

func collectAll(ts store.TempStore) []value.Tuple {
	iter := ts.Iter(store.FullRelation, nil)
	defer iter.Close()
	var out []value.Tuple
	for {
		tup, ok := iter.Next()
		if !ok {
			return out
		}
		out = append(out, tup)
	}
}

func TestDriverRunComputesTransitiveClosure(t *testing.T) {
	tx, p := buildTransitiveClosure(t)
	strata, err := strat.Stratify(p)
	require.NoError(t, err)

	sess := store.NewMemSession()
	defer sess.Release()

	d := &eval.Driver{Program: p, Strata: strata, Tx: tx, Sess: sess, Validity: value.Current, Cancel: session.Background()}
	result, err := d.Run(value.Entry, nil)
	require.NoError(t, err)

	tuples := collectAll(result)
	require.Len(t, tuples, 3)

	want := map[string]bool{"1-2": true, "2-3": true, "1-3": true}
	for _, tup := range tuples {
		key := tup[0].String() + "-" + tup[1].String()
		require.True(t, want[key], "unexpected tuple %v", tup)
		delete(want, key)
	}
	require.Empty(t, want)
}

// buildMutualRecursionClosure builds two predicates, reach1 and reach2,
// each recursing through the other (not itself) to compute the same
// transitive closure as buildTransitiveClosure's single self-recursive
// "path", but split across a two-predicate cycle so both land in one
// stratum together and each must see the other's deltas across epochs.
func buildMutualRecursionClosure(t *testing.T) (*store.MemTripleStore, *rule.Program) {
	t.Helper()
	tx := store.NewMemTripleStore()
	tx.RegisterAttribute(store.Attribute{Name: "edge/to", Type: store.TypeRef})
	attr, ok := tx.AttrByKeyword("edge/to")
	require.True(t, ok)

	chain := [][2]value.EntityId{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}}
	for _, pair := range chain {
		require.NoError(t, tx.Assert(pair[0], "edge/to", value.Entity(pair[1]), value.Current))
	}

	raws := []rule.NamedRawRule{
		{Name: "edge", RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: edgeTriple("?x", "?y", attr)}},
		{Name: "reach1", RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: ruleApplyOf("edge", "?x", "?y")}},
		{Name: "reach1", RawRule: rule.RawRule{
			Head: []value.Keyword{"?x", "?y"},
			Body: atom.Conjunction{Atoms: []atom.Atom{
				ruleApplyOf("edge", "?x", "?z"),
				ruleApplyOf("reach2", "?z", "?y"),
			}},
		}},
		{Name: "reach2", RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: ruleApplyOf("edge", "?x", "?y")}},
		{Name: "reach2", RawRule: rule.RawRule{
			Head: []value.Keyword{"?x", "?y"},
			Body: atom.Conjunction{Atoms: []atom.Atom{
				ruleApplyOf("edge", "?x", "?z"),
				ruleApplyOf("reach1", "?z", "?y"),
			}},
		}},
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: ruleApplyOf("reach1", "?x", "?y")}},
	}
	p, err := rule.BuildProgram(raws)
	require.NoError(t, err)
	return tx, p
}

func TestDriverRunPropagatesDeltaAcrossDistinctMutuallyRecursivePredicates(t *testing.T) {
	tx, p := buildMutualRecursionClosure(t)
	strata, err := strat.Stratify(p)
	require.NoError(t, err)

	sess := store.NewMemSession()
	defer sess.Release()

	d := &eval.Driver{Program: p, Strata: strata, Tx: tx, Sess: sess, Validity: value.Current, Cancel: session.Background()}
	result, err := d.Run(value.Entry, nil)
	require.NoError(t, err)

	tuples := collectAll(result)
	// Full transitive closure over a 6-node chain: every (i, j) with i < j.
	require.Len(t, tuples, 15)

	want := map[string]bool{}
	for i := 1; i <= 6; i++ {
		for j := i + 1; j <= 6; j++ {
			want[fmt.Sprintf("%d-%d", i, j)] = true
		}
	}
	for _, tup := range tuples {
		key := tup[0].String() + "-" + tup[1].String()
		require.True(t, want[key], "unexpected tuple %v", tup)
		delete(want, key)
	}
	require.Empty(t, want, "missing tuples: %v", want)
}

func TestDriverRunSeedsBeforeFirstStratum(t *testing.T) {
	raws := []rule.NamedRawRule{
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x"}, Body: ruleApplyOf("seeded", "?x")}},
	}
	p, err := rule.BuildProgram(raws)
	require.NoError(t, err)
	strata, err := strat.Stratify(p)
	require.NoError(t, err)

	tx := store.NewMemTripleStore()
	sess := store.NewMemSession()
	defer sess.Release()

	d := &eval.Driver{Program: p, Strata: strata, Tx: tx, Sess: sess, Validity: value.Current, Cancel: session.Background()}
	result, err := d.Run(value.Entry, map[value.Keyword]value.Tuple{"seeded": {value.Int(42)}})
	require.NoError(t, err)

	tuples := collectAll(result)
	require.Len(t, tuples, 1)
	require.Equal(t, value.Tuple{value.Int(42)}, tuples[0])
}

func TestDriverRunErrorsWhenEntryStoreMissing(t *testing.T) {
	raws := []rule.NamedRawRule{
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x"}, Body: atom.Conjunction{}}},
	}
	p, err := rule.BuildProgram(raws)
	require.NoError(t, err)
	// The empty strata run nothing, and Run is asked for a predicate the
	// program never defines, so no store exists to return.
	strata := strat.Strata{}

	tx := store.NewMemTripleStore()
	sess := store.NewMemSession()
	defer sess.Release()

	d := &eval.Driver{Program: p, Strata: strata, Tx: tx, Sess: sess, Validity: value.Current, Cancel: session.Background()}
	_, err = d.Run("nonexistent", nil)
	require.Error(t, err)
}
