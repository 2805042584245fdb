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

// Package eval drives semi-naive bottom-up evaluation of a stratified
// program (§4.7): one fixpoint per stratum, computed innermost first,
// with each rule re-run only against the deltas its dependencies
// produced in the previous epoch.
package eval

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/liangxianzhe/cozo/algo"
	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/plan"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/session"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/strat"
	"github.com/liangxianzhe/cozo/value"
)

// maxEpochs bounds the semi-naive loop per stratum. The fact domain is
// finite (§4.7's safety argument), so a real program converges well
// under this; it exists only to turn a logic bug into a loud error
// instead of a silent hang.
const maxEpochs = 100000

// Driver evaluates a stratified program against a triple-store
// transaction, allocating one temp store per predicate from sess.
type Driver struct {
	Program  *rule.Program
	Strata   strat.Strata
	Tx       store.Tx
	Sess     store.Session
	Validity value.Validity
	Cancel   session.CancelToken
	Log      *logrus.Entry
}

// Run evaluates every stratum from innermost dependency to the entry
// stratum and returns the temp store holding entryName's final tuples.
// Callers that rewrote the program with package magic should pass the
// rewrite's Result.Entry here instead of value.Entry, and should pass
// the rewrite's Result.Seed/SeedTuple (if Result.Seed is non-empty) in
// seeds: a demand fact the magic rewrite requires but no rule derives,
// since it originates outside the program from the caller-supplied
// bindings. Seeds are inserted at epoch 0 before any stratum runs.
func (d *Driver) Run(entryName value.Keyword, seeds map[value.Keyword]value.Tuple) (store.TempStore, error) {
	stores := map[value.Keyword]store.TempStore{}
	for name, rules := range d.Program.Rules {
		arity := len(rules[0].Head)
		stores[name] = d.Sess.NewThrowaway(arity)
	}
	for name, tuple := range seeds {
		ts, ok := stores[name]
		if !ok {
			ts = d.Sess.NewThrowaway(len(tuple))
			stores[name] = ts
		}
		if _, err := ts.Put(tuple, 0); err != nil {
			return nil, err
		}
	}

	for i := len(d.Strata) - 1; i >= 0; i-- {
		if err := d.Cancel.Check(); err != nil {
			return nil, err
		}
		if err := d.runStratum(i, d.Strata[i], stores); err != nil {
			return nil, err
		}
	}

	ts, ok := stores[entryName]
	if !ok {
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("no store produced for entry predicate %s", entryName))
	}
	return ts, nil
}

func (d *Driver) runStratum(index int, stratum strat.Stratum, stores map[value.Keyword]store.TempStore) error {
	if algoSpec, predicate, ok := soleAlgoRule(d.Program, stratum); ok {
		return d.runAlgoStratum(predicate, algoSpec, stores)
	}

	log := d.Log
	if log != nil {
		log = log.WithField("stratum", stratum.Predicates)
	}

	plans, err := compileStratum(d.Program, stratum)
	if err != nil {
		return err
	}

	changed := map[value.Keyword]bool{}
	for epoch := 0; ; epoch++ {
		if epoch > maxEpochs {
			return dlerrors.ErrEvaluation.New("semi-naive evaluation did not converge within the epoch budget")
		}
		if err := d.Cancel.Check(); err != nil {
			return err
		}

		if epoch == 0 {
			for _, cp := range plans {
				if err := d.runEpochZero(index, cp, stores, changed); err != nil {
					return err
				}
			}
			if log != nil {
				log.WithField("epoch", 0).Debug("initial iteration complete")
			}
			if len(changed) == 0 {
				return nil
			}
			continue
		}

		previousChanged := changed
		changed = map[value.Keyword]bool{}
		anyRuleRan := false
		for _, cp := range plans {
			deps := cp.rule.ContainedRules()
			touched := false
			for dep := range deps {
				if previousChanged[dep] {
					touched = true
					break
				}
			}
			if !touched {
				continue
			}
			anyRuleRan = true
			for dep := range deps {
				depStore, ok := stores[dep]
				if !ok {
					continue
				}
				if err := d.runDelta(index, cp, depStore.ID(), epoch, stores, changed); err != nil {
					return err
				}
			}
		}
		if log != nil {
			log.WithField("epoch", epoch).WithField("ran", anyRuleRan).Debug("delta iteration complete")
		}
		if len(changed) == 0 {
			return nil
		}
	}
}

type compiledRule struct {
	rule      rule.Rule
	predicate value.Keyword
	node      plan.Node
	headIdx   []int
}

func compileStratum(p *rule.Program, stratum strat.Stratum) ([]compiledRule, error) {
	var out []compiledRule
	for _, name := range stratum.Predicates {
		for _, r := range p.Rules[name] {
			if r.Algo != nil {
				continue
			}
			node, err := plan.Compile(r.Body)
			if err != nil {
				return nil, err
			}
			headIdx, err := plan.HeadIndices(node, r.Head)
			if err != nil {
				return nil, err
			}
			out = append(out, compiledRule{rule: r, predicate: name, node: node, headIdx: headIdx})
		}
	}
	return out, nil
}

func (d *Driver) runEpochZero(stratumIndex int, cp compiledRule, stores map[value.Keyword]store.TempStore, changed map[value.Keyword]bool) error {
	span, spanCtx := session.StartEpochSpan(d.Cancel.Context(), stratumIndex, 0, string(cp.predicate))
	defer span.Finish()
	ctx := &plan.Context{Tx: d.Tx, Validity: d.Validity, Epoch: 0, Stores: stores, Cancel: session.NewCancelToken(spanCtx)}
	return d.drain(cp, ctx, stores[cp.predicate], 0, changed)
}

func (d *Driver) runDelta(stratumIndex int, cp compiledRule, deltaStoreID string, epoch int, stores map[value.Keyword]store.TempStore, changed map[value.Keyword]bool) error {
	span, spanCtx := session.StartEpochSpan(d.Cancel.Context(), stratumIndex, epoch, string(cp.predicate))
	defer span.Finish()
	ctx := &plan.Context{
		Tx:          d.Tx,
		Validity:    d.Validity,
		Epoch:       epoch,
		DeltaStores: map[string]bool{deltaStoreID: true},
		Stores:      stores,
		Cancel:      session.NewCancelToken(spanCtx),
	}
	return d.drain(cp, ctx, stores[cp.predicate], epoch, changed)
}

func (d *Driver) drain(cp compiledRule, ctx *plan.Context, target store.TempStore, epoch int, changed map[value.Keyword]bool) (errs error) {
	iter, err := cp.node.Iter(ctx)
	if err != nil {
		return err
	}
	defer func() { errs = multierr.Append(errs, iter.Close()) }()

	for {
		if err := d.Cancel.Check(); err != nil {
			return err
		}
		t, ok, err := iter.Next()
		if err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		if !ok {
			break
		}
		head := project(t, cp.headIdx)
		if epoch == 0 {
			inserted, err := target.Put(head, 0)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if inserted {
				changed[cp.predicate] = true
			}
			continue
		}
		if target.Exists(head) {
			if d.Log != nil {
				d.Log.WithField("predicate", cp.predicate).Debug("rederivation discarded")
			}
			continue
		}
		if _, err := target.Put(head, epoch); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, err := target.Put(head, 0); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		changed[cp.predicate] = true
	}
	return errs
}

func project(t value.Tuple, idx []int) value.Tuple {
	out := make(value.Tuple, len(idx))
	for i, p := range idx {
		out[i] = t[p]
	}
	return out
}

func soleAlgoRule(p *rule.Program, stratum strat.Stratum) (*rule.AlgoSpec, value.Keyword, bool) {
	if len(stratum.Predicates) != 1 {
		return nil, "", false
	}
	name := stratum.Predicates[0]
	rules := p.Rules[name]
	if len(rules) != 1 || rules[0].Algo == nil {
		return nil, "", false
	}
	return rules[0].Algo, name, true
}

func (d *Driver) runAlgoStratum(predicate value.Keyword, spec *rule.AlgoSpec, stores map[value.Keyword]store.TempStore) error {
	if d.Log != nil {
		d.Log.WithField("algo", spec.Algo).WithField("predicate", predicate).Debug("running algorithm stratum")
	}
	span, spanCtx := session.StartAlgoSpan(d.Cancel.Context(), spec.Algo)
	defer span.Finish()
	results, err := algo.Run(spec, stores, session.NewCancelToken(spanCtx))
	if err != nil {
		return err
	}
	target := stores[predicate]
	for _, t := range results {
		if _, err := target.Put(t, 0); err != nil {
			return err
		}
	}
	return nil
}
