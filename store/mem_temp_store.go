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
	"sort"
	"sync"
	"sync/atomic"

	uuid "github.com/satori/go.uuid"

	"github.com/liangxianzhe/cozo/value"
)

// memTempStore is the in-memory reference TempStore. Each fact is
// double-keyed at its discovery epoch and at epoch 0, per §4.7: reading
// epoch 0 gives "all facts so far", reading a specific epoch gives "only
// facts new this epoch".
type memTempStore struct {
	id    string
	arity int

	mu     sync.Mutex
	epochs map[int]map[string]value.Tuple
}

func newMemTempStore(arity int) *memTempStore {
	return &memTempStore{
		id:     uuid.NewV4().String(),
		arity:  arity,
		epochs: make(map[int]map[string]value.Tuple),
	}
}

func (s *memTempStore) ID() string   { return s.id }
func (s *memTempStore) Arity() int   { return s.arity }

func (s *memTempStore) Put(tuple value.Tuple, epoch int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.epochs[epoch]
	if !ok {
		set = make(map[string]value.Tuple)
		s.epochs[epoch] = set
	}
	key := string(tuple.Encode())
	if _, exists := set[key]; exists {
		return false, nil
	}
	set[key] = append(value.Tuple{}, tuple...)
	return true, nil
}

func (s *memTempStore) Exists(tuple value.Tuple) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.epochs[0]
	if !ok {
		return false
	}
	_, exists := set[string(tuple.Encode())]
	return exists
}

func (s *memTempStore) Iter(filter EpochFilter, prefix value.Tuple) TupleIter {
	s.mu.Lock()
	defer s.mu.Unlock()
	epoch := 0
	if !filter.Any {
		epoch = filter.Epoch
	}
	set := s.epochs[epoch]
	out := make([]value.Tuple, 0, len(set))
	for _, t := range set {
		if tupleHasPrefix(t, prefix) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return &memTupleIter{rows: out}
}

func less(a, b value.Tuple) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c < 0
		}
	}
	return len(a) < len(b)
}

func tupleHasPrefix(t, prefix value.Tuple) bool {
	if len(prefix) > len(t) {
		return false
	}
	for i, p := range prefix {
		if !t[i].Equal(p) {
			return false
		}
	}
	return true
}

func (s *memTempStore) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epochs = nil
	return nil
}

type memTupleIter struct {
	rows []value.Tuple
	pos  int
}

func (it *memTupleIter) Next() (value.Tuple, bool) {
	if it.pos >= len(it.rows) {
		return nil, false
	}
	t := it.rows[it.pos]
	it.pos++
	return t, true
}

func (it *memTupleIter) Close() error { return nil }

// memSession allocates memTempStores and releases them all together when
// the evaluation session ends.
type memSession struct {
	counter int64
	mu      sync.Mutex
	stores  []*memTempStore
}

// NewMemSession returns a Session backed entirely by in-memory
// TempStores, suitable for tests and for the CLI when no on-disk backing
// is configured (see BoltSession for the persisted alternative).
func NewMemSession() Session {
	return &memSession{}
}

func (s *memSession) NewThrowaway(arity int) TempStore {
	atomic.AddInt64(&s.counter, 1)
	ts := newMemTempStore(arity)
	s.mu.Lock()
	s.stores = append(s.stores, ts)
	s.mu.Unlock()
	return ts
}

func (s *memSession) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ts := range s.stores {
		_ = ts.Release()
	}
	s.stores = nil
	return nil
}
