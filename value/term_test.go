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

func TestTermVarAndConst(t *testing.T) {
	v := Var[DataValue]("?x")
	require.True(t, v.IsVariable())
	require.False(t, v.IsConstant())
	require.Equal(t, Keyword("?x"), v.Variable())

	c := Const[DataValue](Int(7))
	require.True(t, c.IsConstant())
	require.False(t, c.IsVariable())
	require.Equal(t, Int(7), c.Constant())
}

func TestTupleEqualAndEncode(t *testing.T) {
	a := Tuple{Int(1), Str("x")}
	b := Tuple{Int(1), Str("x")}
	c := Tuple{Int(1), Str("y")}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(Tuple{Int(1)}))

	require.Equal(t, a.Encode(), b.Encode())
	require.NotEqual(t, a.Encode(), c.Encode())
}
