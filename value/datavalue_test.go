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

package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataValueCompare(t *testing.T) {
	type tc struct {
		Name string
		A, B DataValue
		Want int
	}

	cases := []tc{
		{"IntLess", Int(1), Int(2), -1},
		{"IntEqual", Int(5), Int(5), 0},
		{"IntGreater", Int(9), Int(2), 1},
		{"FloatLess", Float(1.5), Float(2.5), -1},
		{"StringLess", Str("a"), Str("b"), -1},
		{"KindOrdering", Null(), Bool(false), -1},
		{"EntityLess", Entity(EntityId(1)), Entity(EntityId(2)), -1},
		{"ListPrefix", List(Int(1)), List(Int(1), Int(2)), -1},
		{"ListElemDiffers", List(Int(1), Int(9)), List(Int(1), Int(2)), 1},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			require.Equal(t, c.Want, c.A.Compare(c.B))
			require.Equal(t, -c.Want, c.B.Compare(c.A))
		})
	}
}

func TestDataValueEqual(t *testing.T) {
	require.True(t, Int(3).Equal(Int(3)))
	require.False(t, Int(3).Equal(Int(4)))
	require.True(t, List(Str("a"), Int(1)).Equal(List(Str("a"), Int(1))))
	require.False(t, List(Str("a")).Equal(List(Str("a"), Int(1))))
}

func TestDataValueEncodeRoundTripsEquality(t *testing.T) {
	a := List(Int(1), Str("x"), Bool(true))
	b := List(Int(1), Str("x"), Bool(true))
	c := List(Int(1), Str("y"), Bool(true))

	require.Equal(t, a.Encode(), b.Encode())
	require.NotEqual(t, a.Encode(), c.Encode())
}

func TestDataValueStringKinds(t *testing.T) {
	require.Equal(t, "null", Null().String())
	require.Equal(t, "true", Bool(true).String())
	require.Equal(t, "42", Int(42).String())
	require.Equal(t, `"hi"`, Str("hi").String())
	require.Equal(t, "#1", Entity(EntityId(1)).String())
}

func TestSortValues(t *testing.T) {
	vs := []DataValue{Int(3), Int(1), Int(2)}
	SortValues(vs)
	require.Equal(t, []DataValue{Int(1), Int(2), Int(3)}, vs)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "int", KindInt.String())
	require.Equal(t, "list", KindList.String())
}
