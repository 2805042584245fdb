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

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

func TestAttributeCoerce(t *testing.T) {
	type tc struct {
		Name    string
		Attr    store.Attribute
		Literal interface{}
		Want    value.DataValue
	}

	cases := []tc{
		{"StringFromString", store.Attribute{Name: "a", Type: store.TypeString}, "hi", value.Str("hi")},
		{"IntFromFloat64", store.Attribute{Name: "a", Type: store.TypeInt}, float64(3), value.Int(3)},
		{"FloatFromInt", store.Attribute{Name: "a", Type: store.TypeFloat}, 3, value.Float(3)},
		{"BoolFromString", store.Attribute{Name: "a", Type: store.TypeBool}, "true", value.Bool(true)},
		{"KeywordFromString", store.Attribute{Name: "a", Type: store.TypeKeyword}, "person/name", value.Kw("person/name")},
		{"BytesFromString", store.Attribute{Name: "a", Type: store.TypeBytes}, "xy", value.Bytes([]byte("xy"))},
		{"RefFromFloat64", store.Attribute{Name: "a", Type: store.TypeRef}, float64(42), value.Entity(value.EntityId(42))},
		{"NilIsNull", store.Attribute{Name: "a", Type: store.TypeString}, nil, value.Null()},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			got, err := c.Attr.Coerce(c.Literal)
			require.NoError(t, err)
			require.True(t, c.Want.Equal(got))
		})
	}
}

func TestAttributeCoerceFailure(t *testing.T) {
	attr := store.Attribute{Name: "a", Type: store.TypeInt}
	_, err := attr.Coerce("not a number")
	require.Error(t, err)
	require.True(t, dlerrors.ErrSchema.Is(err))
}

func TestAttributeIsUniqueAndIsRef(t *testing.T) {
	unique := store.Attribute{Name: "a", Type: store.TypeString, Index: store.Unique}
	require.True(t, unique.IsUnique())

	ref := store.Attribute{Name: "b", Type: store.TypeRef}
	require.True(t, ref.IsRef())
	require.False(t, unique.IsRef())
}
