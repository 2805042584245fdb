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

// bitmapIndex is a minimal posting-list index: value-encoding -> set of
// entity ids. It gives an indexed (attribute, value) -> []EntityId
// lookup that ScanByValue uses to avoid a full linear scan over every
// triple with that attribute.
type bitmapIndex struct {
	postings map[string]map[value.EntityId]struct{}
}

func newBitmapIndex() *bitmapIndex {
	return &bitmapIndex{postings: make(map[string]map[value.EntityId]struct{})}
}

func (b *bitmapIndex) add(v value.DataValue, e value.EntityId) {
	key := string(v.Encode())
	set, ok := b.postings[key]
	if !ok {
		set = make(map[value.EntityId]struct{})
		b.postings[key] = set
	}
	set[e] = struct{}{}
}

// lookup returns the entities posted under v, in no particular order.
func (b *bitmapIndex) lookup(v value.DataValue) []value.EntityId {
	set := b.postings[string(v.Encode())]
	out := make([]value.EntityId, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}
