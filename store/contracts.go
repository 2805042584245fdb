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

package store

import "github.com/liangxianzhe/cozo/value"

// TripleIter yields (entity, value) pairs for a single attribute scan.
type TripleIter interface {
	// Next advances the iterator. ok is false once exhausted.
	Next() (entity value.EntityId, val value.DataValue, ok bool, err error)
	Close() error
}

// Tx is the read-only transaction handle the caller supplies for the
// duration of one evaluation (§5: "held read-only for the evaluation's
// duration").
type Tx interface {
	// AttrByKeyword looks up an attribute's schema record by name.
	AttrByKeyword(kw value.Keyword) (Attribute, bool)

	// EidByUniqueAV resolves the entity carrying value v for a's unique
	// index at validity at. ok is false when no such entity exists; an
	// error is returned if a is not a unique attribute.
	EidByUniqueAV(a Attribute, v value.DataValue, at value.Validity) (id value.EntityId, ok bool, err error)

	// Scan iterates all (entity, value) pairs for attribute a at validity
	// at. If entityPrefix is non-zero, only triples for that entity are
	// returned.
	Scan(a Attribute, at value.Validity, entityPrefix value.EntityId) (TripleIter, error)
}

// EpochFilter selects which facts a TempScan should read. A filter with
// Any set reads the full relation (the store's epoch-0 projection, which
// holds every fact ever derived); otherwise the read is restricted to
// facts first discovered at exactly Epoch.
type EpochFilter struct {
	Epoch int
	Any   bool // true means "read the full relation", Epoch is ignored
}

// FullRelation is the EpochFilter that reads every fact ever derived.
var FullRelation = EpochFilter{Any: true}

// AtEpoch builds an EpochFilter restricted to facts discovered at epoch e.
func AtEpoch(e int) EpochFilter { return EpochFilter{Epoch: e} }

// TupleIter yields value.Tuple values from a TempStore scan.
type TupleIter interface {
	Next() (t value.Tuple, ok bool)
	Close() error
}

// TempStore is an ephemeral, insert-and-probe relation of fixed arity
// used to hold one predicate's derived facts across a fixpoint
// evaluation.
type TempStore interface {
	// ID uniquely identifies this store for the lifetime of the
	// evaluation session that created it.
	ID() string

	// Arity is the fixed tuple width of this store.
	Arity() int

	// Put inserts tuple at epoch, idempotent on tuple equality within
	// that epoch. It reports whether the tuple was newly inserted at this
	// epoch (false if it was already present at this epoch).
	Put(tuple value.Tuple, epoch int) (inserted bool, err error)

	// Exists reports whether tuple has ever been derived, regardless of
	// epoch (i.e. whether it is present in the epoch-0 projection).
	Exists(tuple value.Tuple) bool

	// Iter scans the store under filter, optionally restricted to tuples
	// sharing prefix. An empty prefix matches every tuple.
	Iter(filter EpochFilter, prefix value.Tuple) TupleIter

	// Release frees the store's resources. It is safe to call multiple
	// times.
	Release() error
}

// Session allocates and releases TempStores scoped to one evaluation, per
// §6's "new_throwaway() -> TempStore" contract.
type Session interface {
	NewThrowaway(arity int) TempStore
	// Release frees every TempStore this session has allocated. It is
	// called on all exit paths: normal completion, error, and
	// cancellation.
	Release() error
}
