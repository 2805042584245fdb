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

// Package plan compiles a rule body into a tree of relation operators
// (§4.6) and iterates it lazily against a triple-store transaction and
// the fixpoint driver's temp stores.
package plan

import (
	"github.com/liangxianzhe/cozo/session"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

// RowIter yields value.Tuple rows from a compiled plan node.
type RowIter interface {
	Next() (value.Tuple, bool, error)
	Close() error
}

// Node is one operator in a compiled relation plan. Bindings reports the
// ordered list of variable names the node's output tuples carry; callers
// (joins, filters, parent rules) resolve shared keys and predicate
// indices against this ordering.
type Node interface {
	Bindings() []value.Keyword
	Iter(ctx *Context) (RowIter, error)
}

// Context carries everything a plan needs to iterate once: the
// read-only triple-store handle, the temp stores backing every derived
// predicate reachable from this rule, which epoch to compute, and which
// of those stores are this epoch's "delta" sources (§4.7).
type Context struct {
	Tx          store.Tx
	Validity    value.Validity
	Epoch       int
	DeltaStores map[string]bool
	Stores      map[value.Keyword]store.TempStore
	Cancel      session.CancelToken
}

// epochFilterFor returns the EpochFilter a TempScan over the named
// predicate should use: restricted to the facts first discovered in the
// previous epoch (ctx.Epoch-1) if that predicate's store id is in the
// delta set, otherwise the full relation. An empty
// delta set (ctx.DeltaStores has no entries) always reads the full
// relation, per §4.6's "with an empty delta set, every TempScan reads
// the full relation (initial epoch)".
func (ctx *Context) epochFilterFor(storeID string) store.EpochFilter {
	if len(ctx.DeltaStores) == 0 {
		return store.FullRelation
	}
	if ctx.DeltaStores[storeID] {
		return store.AtEpoch(ctx.Epoch - 1)
	}
	return store.FullRelation
}

func indexOf(bindings []value.Keyword) map[value.Keyword]int {
	out := make(map[value.Keyword]int, len(bindings))
	for i, k := range bindings {
		out[k] = i
	}
	return out
}
