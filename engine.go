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

// Package cozo is the engine facade: it parses a query payload, stratifies
// and (if the caller pinned any ENTRY argument) magic-rewrites the
// resulting program, drives it to a fixpoint, and packages ENTRY's
// tuples per the payload's "out" clause. Everything below this package
// is reusable in isolation; this is the one entry point a host embeds.
package cozo

import (
	"github.com/sirupsen/logrus"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/eval"
	"github.com/liangxianzhe/cozo/magic"
	"github.com/liangxianzhe/cozo/query"
	"github.com/liangxianzhe/cozo/session"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/strat"
	"github.com/liangxianzhe/cozo/value"
)

// Config holds engine-wide settings independent of any one query, fixed
// once at construction rather than threaded through every call.
type Config struct {
	// Logger receives the fixpoint driver's Debug-level lines: one per
	// stratum/epoch, one per algorithm stratum, and one per discarded
	// rederivation. A nil Logger disables this (the zero value is a
	// silent engine).
	Logger *logrus.Logger
	// NewSession allocates the per-query temp-store session. Defaults to
	// store.NewMemSession; a host backed by boltdb passes
	// store.NewBoltSession(path) instead.
	NewSession func() store.Session
}

// Engine binds a Config to a read-only triple-store handle and runs
// queries against it. One Engine typically outlives many queries; Tx is
// expected to be safe for concurrent read access across them.
type Engine struct {
	Tx  store.Tx
	Cfg Config
}

// New creates an Engine over tx. A nil cfg uses the defaults (no
// logging, in-memory temp-store sessions).
func New(tx store.Tx, cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.NewSession == nil {
		cfg.NewSession = func() store.Session { return store.NewMemSession() }
	}
	return &Engine{Tx: tx, Cfg: *cfg}
}

func (e *Engine) logEntry() *logrus.Entry {
	if e.Cfg.Logger == nil {
		return nil
	}
	return logrus.NewEntry(e.Cfg.Logger)
}

// Query parses, plans, and evaluates one query payload (§6), returning
// ENTRY's tuples packaged per the payload's "out" clause. cancel is
// checked at every tuple the fixpoint driver and algorithm host produce;
// session.Background() never fires.
func (e *Engine) Query(raw map[string]interface{}, cancel session.CancelToken) (*Result, error) {
	parsed, err := query.ParsePayload(raw, e.Tx)
	if err != nil {
		return nil, err
	}

	baseStrata, err := strat.Stratify(parsed.Program)
	if err != nil {
		return nil, err
	}

	entryHead := parsed.Program.EntryRules()[0].Head
	bound := make([]bool, len(entryHead))
	seedValues := make([]value.DataValue, len(entryHead))
	for i, h := range entryHead {
		if v, ok := parsed.Bound[h]; ok {
			bound[i] = true
			seedValues[i] = v
		}
	}

	members := map[value.Keyword]bool{}
	if len(baseStrata) > 0 {
		for _, p := range baseStrata[0].Predicates {
			members[p] = true
		}
	}

	rewrite, err := magic.Rewrite(parsed.Program, members, bound, seedValues)
	if err != nil {
		return nil, err
	}

	finalStrata := baseStrata
	if rewrite.Entry != value.Entry {
		finalStrata, err = strat.Stratify(rewrite.Program)
		if err != nil {
			return nil, err
		}
	}

	sess := e.Cfg.NewSession()
	defer sess.Release()

	driver := &eval.Driver{
		Program:  rewrite.Program,
		Strata:   finalStrata,
		Tx:       e.Tx,
		Sess:     sess,
		Validity: parsed.Validity,
		Cancel:   cancel,
		Log:      e.logEntry(),
	}

	var seeds map[value.Keyword]value.Tuple
	if rewrite.Seed != "" {
		seeds = map[value.Keyword]value.Tuple{rewrite.Seed: rewrite.SeedTuple}
	}

	ts, err := driver.Run(rewrite.Entry, seeds)
	if err != nil {
		return nil, err
	}

	return packageResult(ts, entryHead, parsed.Out)
}

// packageResult projects ts's tuples (ordered per entryHead) into rows
// named per out, surfacing any pull descriptors untouched for an
// external collaborator to resolve (§6: pull projection is not this
// engine's job).
func packageResult(ts store.TempStore, entryHead []value.Keyword, out query.OutSpec) (*Result, error) {
	headIdx := make(map[value.Keyword]int, len(entryHead))
	for i, h := range entryHead {
		headIdx[h] = i
	}

	names := out.Names
	bindings := out.Bindings
	pulls := out.Pull
	if len(names) == 0 {
		names = make([]string, len(entryHead))
		bindings = map[string]string{}
		for i, h := range entryHead {
			names[i] = string(h)
			bindings[string(h)] = string(h)
		}
	}

	columnBinding := make([]value.Keyword, len(names))
	for i, name := range names {
		b, ok := bindings[name]
		if !ok {
			if pull, ok := pulls[name]; ok {
				b = pull.Binding
			} else {
				return nil, dlerrors.ErrParse.New("out." + name + " has neither a binding nor a pull descriptor")
			}
		}
		kw := value.Keyword(b)
		if _, ok := headIdx[kw]; !ok {
			return nil, dlerrors.ErrParse.New("out." + name + " references unknown binding " + b)
		}
		columnBinding[i] = kw
	}

	iter := ts.Iter(store.FullRelation, nil)
	defer iter.Close()

	var rows []Row
	for {
		t, ok := iter.Next()
		if !ok {
			break
		}
		row := make(Row, len(names))
		for i, name := range names {
			row[name] = t[headIdx[columnBinding[i]]]
		}
		rows = append(rows, row)
	}

	return &Result{Columns: names, Rows: rows, Pull: pulls}, nil
}
