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

	"github.com/boltdb/bolt"
	uuid "github.com/satori/go.uuid"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/value"
)

// BoltSession is the on-disk alternative to NewMemSession: every
// TempStore it allocates keeps its epoch-0 projection (the full set of
// derived facts) mirrored into a boltdb bucket, so a derived relation
// can be inspected or resumed after the process exits. Per-epoch delta
// bookkeeping stays in memory, since deltas are never read back once an
// evaluation finishes.
type BoltSession struct {
	db     *bolt.DB
	mem    *memSession
	prefix string
}

// NewBoltSession opens (creating if absent) a boltdb file at path and
// returns a Session backed by it.
func NewBoltSession(path string) (*BoltSession, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, dlerrors.ErrStorage.New(fmt.Sprintf("opening bolt store %s: %v", path, err))
	}
	return &BoltSession{db: db, mem: &memSession{}, prefix: uuid.NewV4().String()}, nil
}

func (s *BoltSession) NewThrowaway(arity int) TempStore {
	ts := newMemTempStore(arity)
	s.mem.mu.Lock()
	s.mem.stores = append(s.mem.stores, ts)
	s.mem.mu.Unlock()
	bucket := s.prefix + "/" + ts.id
	return &boltBackedTempStore{memTempStore: ts, db: s.db, bucket: bucket}
}

// Release frees the in-memory state of every TempStore allocated by this
// session and closes the boltdb file; the mirrored buckets stay in it.
func (s *BoltSession) Release() error {
	err := s.mem.Release()
	closeErr := s.db.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return dlerrors.ErrStorage.New(fmt.Sprintf("closing bolt store: %v", closeErr))
	}
	return nil
}

// boltBackedTempStore mirrors every epoch-0 Put into a boltdb bucket,
// keyed by the tuple's canonical encoding, so the derived relation
// survives beyond the evaluation that produced it.
type boltBackedTempStore struct {
	*memTempStore
	db     *bolt.DB
	bucket string
}

func (s *boltBackedTempStore) Put(tuple value.Tuple, epoch int) (bool, error) {
	inserted, err := s.memTempStore.Put(tuple, epoch)
	if err != nil || !inserted || epoch != 0 {
		return inserted, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(s.bucket))
		if err != nil {
			return err
		}
		return b.Put(tuple.Encode(), []byte{1})
	})
	if err != nil {
		return inserted, dlerrors.ErrStorage.New(fmt.Sprintf("persisting tuple: %v", err))
	}
	return inserted, nil
}

func (s *boltBackedTempStore) Release() error {
	err := s.memTempStore.Release()
	bucketErr := s.db.Update(func(tx *bolt.Tx) error {
		return tx.DeleteBucket([]byte(s.bucket))
	})
	if err != nil {
		return err
	}
	if bucketErr != nil && bucketErr != bolt.ErrBucketNotFound {
		return dlerrors.ErrStorage.New(fmt.Sprintf("releasing bolt bucket: %v", bucketErr))
	}
	return nil
}
