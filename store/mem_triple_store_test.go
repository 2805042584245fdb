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

package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

func TestMemTripleStoreAssertAndScan(t *testing.T) {
	tx := store.NewMemTripleStore()
	tx.RegisterAttribute(store.Attribute{Name: "person/name", Type: store.TypeString})

	require.NoError(t, tx.Assert(value.EntityId(1), "person/name", value.Str("alice"), value.Current))
	require.NoError(t, tx.Assert(value.EntityId(2), "person/name", value.Str("bob"), value.Current))

	attr, ok := tx.AttrByKeyword("person/name")
	require.True(t, ok)

	iter, err := tx.Scan(attr, value.Current, value.NoEntity)
	require.NoError(t, err)
	defer iter.Close()

	var got []string
	for {
		e, v, ok, err := iter.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, e.String()+"="+v.AsString())
	}
	require.Equal(t, []string{"1=alice", "2=bob"}, got)
}

func TestMemTripleStoreAssertUnknownAttribute(t *testing.T) {
	tx := store.NewMemTripleStore()
	err := tx.Assert(value.EntityId(1), "missing", value.Str("x"), value.Current)
	require.Error(t, err)
}

func TestMemTripleStoreUniqueIndex(t *testing.T) {
	tx := store.NewMemTripleStore()
	tx.RegisterAttribute(store.Attribute{Name: "person/email", Type: store.TypeString, Index: store.Unique})
	require.NoError(t, tx.Assert(value.EntityId(7), "person/email", value.Str("a@b.com"), value.Current))

	attr, _ := tx.AttrByKeyword("person/email")
	id, ok, err := tx.EidByUniqueAV(attr, value.Str("a@b.com"), value.Current)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, value.EntityId(7), id)

	_, ok, err = tx.EidByUniqueAV(attr, value.Str("nope"), value.Current)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemTripleStoreEidByUniqueAVRejectsNonUnique(t *testing.T) {
	tx := store.NewMemTripleStore()
	tx.RegisterAttribute(store.Attribute{Name: "person/age", Type: store.TypeInt})
	attr, _ := tx.AttrByKeyword("person/age")

	_, _, err := tx.EidByUniqueAV(attr, value.Int(5), value.Current)
	require.Error(t, err)
}

func TestMemTripleStoreScanByValue(t *testing.T) {
	tx := store.NewMemTripleStore()
	tx.RegisterAttribute(store.Attribute{Name: "tag", Type: store.TypeString, Index: store.Indexed})
	require.NoError(t, tx.Assert(value.EntityId(1), "tag", value.Str("red"), value.Current))
	require.NoError(t, tx.Assert(value.EntityId(2), "tag", value.Str("red"), value.Current))
	require.NoError(t, tx.Assert(value.EntityId(3), "tag", value.Str("blue"), value.Current))

	attr, _ := tx.AttrByKeyword("tag")
	ids, ok := tx.ScanByValue(attr, value.Str("red"))
	require.True(t, ok)
	require.Equal(t, []value.EntityId{1, 2}, ids)
}

func TestMemTripleStoreScanByValueNoIndex(t *testing.T) {
	tx := store.NewMemTripleStore()
	tx.RegisterAttribute(store.Attribute{Name: "tag", Type: store.TypeString})
	attr, _ := tx.AttrByKeyword("tag")

	_, ok := tx.ScanByValue(attr, value.Str("red"))
	require.False(t, ok)
}
