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

import (
	"fmt"
	"sort"
	"sync"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/value"
)

// triple is one fact held by MemTripleStore.
type triple struct {
	entity value.EntityId
	val    value.DataValue
	at     value.Validity
}

// MemTripleStore is an in-memory reference implementation of Tx, the
// triple-store contract the engine consumes. It is grounded on the
// keyword-indexed Catalog in test/test_catalog.go: a flat registry of
// attributes, plus per-attribute posting lists.
//
// It records each triple's validity but does not filter on it: Scan and
// EidByUniqueAV ignore their validity argument.
//
// It exists purely so this module is runnable end to end; the real,
// persistent, transactional triple store is out of scope (§1).
type MemTripleStore struct {
	mu    sync.RWMutex
	attrs map[value.Keyword]Attribute

	// facts holds every triple ever asserted, keyed by attribute.
	facts map[value.Keyword][]triple

	// unique holds the (attribute, value-encoding) -> entity index for
	// attributes with Index == Unique.
	unique map[value.Keyword]map[string]value.EntityId

	// posting is a non-unique (attribute, value-encoding) -> []EntityId
	// posting-list index, the in-memory analogue of the bitmap posting
	// lists a pilosa-backed index would maintain (see bitmap_index.go).
	posting map[value.Keyword]*bitmapIndex
}

// NewMemTripleStore returns an empty triple store with no registered
// attributes.
func NewMemTripleStore() *MemTripleStore {
	return &MemTripleStore{
		attrs:   make(map[value.Keyword]Attribute),
		facts:   make(map[value.Keyword][]triple),
		unique:  make(map[value.Keyword]map[string]value.EntityId),
		posting: make(map[value.Keyword]*bitmapIndex),
	}
}

// RegisterAttribute adds a to the schema. It is a test/CLI convenience;
// the production triple store would load this from persisted schema.
func (s *MemTripleStore) RegisterAttribute(a Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[a.Name] = a
	if a.Index == Unique {
		s.unique[a.Name] = make(map[string]value.EntityId)
	}
	if a.Index != NoIndex {
		s.posting[a.Name] = newBitmapIndex()
	}
}

// Assert adds one fact at validity at, maintaining the unique and
// posting-list indexes.
func (s *MemTripleStore) Assert(entity value.EntityId, attr value.Keyword, v value.DataValue, at value.Validity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attrs[attr]
	if !ok {
		return dlerrors.ErrSchema.New(fmt.Sprintf("unknown attribute %s", attr))
	}
	s.facts[attr] = append(s.facts[attr], triple{entity: entity, val: v, at: at})
	if a.Index == Unique {
		s.unique[attr][string(v.Encode())] = entity
	}
	if idx, ok := s.posting[attr]; ok {
		idx.add(v, entity)
	}
	return nil
}

func (s *MemTripleStore) AttrByKeyword(kw value.Keyword) (Attribute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attrs[kw]
	return a, ok
}

func (s *MemTripleStore) EidByUniqueAV(a Attribute, v value.DataValue, at value.Validity) (value.EntityId, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a.Index != Unique {
		return 0, false, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s has no unique index", a.Name))
	}
	idx, ok := s.unique[a.Name]
	if !ok {
		return 0, false, nil
	}
	id, ok := idx[string(v.Encode())]
	return id, ok, nil
}

func (s *MemTripleStore) Scan(a Attribute, at value.Validity, entityPrefix value.EntityId) (TripleIter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.facts[a.Name]
	out := make([]triple, 0, len(all))
	for _, t := range all {
		if entityPrefix != value.NoEntity && t.entity != entityPrefix {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].entity != out[j].entity {
			return out[i].entity < out[j].entity
		}
		return out[i].val.Compare(out[j].val) < 0
	})
	return &memTripleIter{rows: out}, nil
}

// ScanByValue returns the entities carrying value v for attribute a,
// using the posting-list index when one is maintained for a (Index !=
// NoIndex); ok is false when a carries no index at all, in which case
// the caller should fall back to Scan plus a filter.
func (s *MemTripleStore) ScanByValue(a Attribute, v value.DataValue) (ids []value.EntityId, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.posting[a.Name]
	if !ok {
		return nil, false
	}
	ids = idx.lookup(v)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, true
}

type memTripleIter struct {
	rows []triple
	pos  int
}

func (it *memTripleIter) Next() (value.EntityId, value.DataValue, bool, error) {
	if it.pos >= len(it.rows) {
		return 0, value.DataValue{}, false, nil
	}
	t := it.rows[it.pos]
	it.pos++
	return t.entity, t.val, true, nil
}

func (it *memTripleIter) Close() error { return nil }
