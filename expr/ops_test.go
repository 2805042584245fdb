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

package expr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/value"
)

func TestLookupKnownAndUnknownOperator(t *testing.T) {
	d, ok := expr.Lookup("==")
	require.True(t, ok)
	require.True(t, d.IsPredicate)
	require.Equal(t, 2, d.Arity)

	_, ok = expr.Lookup("nope")
	require.False(t, ok)
}

func TestCheckArityFixedAndVarargs(t *testing.T) {
	eq, _ := expr.Lookup("==")
	require.NoError(t, eq.CheckArity(2))
	require.Error(t, eq.CheckArity(3))

	plus, _ := expr.Lookup("+")
	require.NoError(t, plus.CheckArity(2))
	require.NoError(t, plus.CheckArity(5))
	require.Error(t, plus.CheckArity(1))
}

func TestArithMixedIntAndFloatPromotesToFloat(t *testing.T) {
	e := expr.Apply{Op: "+", Args: []expr.Expr{
		expr.Const{Value: value.Int(1)},
		expr.Const{Value: value.Float(2.5)},
	}}
	folded, err := expr.PartialEval(e)
	require.NoError(t, err)
	c := folded.(expr.Const)
	require.Equal(t, value.KindFloat, c.Value.Kind())
	require.Equal(t, 3.5, c.Value.AsFloat())
}

func TestArithAllIntStaysInt(t *testing.T) {
	e := expr.Apply{Op: "*", Args: []expr.Expr{expr.Const{Value: value.Int(3)}, expr.Const{Value: value.Int(4)}}}
	folded, err := expr.PartialEval(e)
	require.NoError(t, err)
	c := folded.(expr.Const)
	require.Equal(t, value.KindInt, c.Value.Kind())
	require.Equal(t, int64(12), c.Value.AsInt())
}

func TestAndOrNotRequireBooleanOperands(t *testing.T) {
	_, err := expr.Eval(expr.Apply{Op: "and", Args: []expr.Expr{expr.Const{Value: value.Int(1)}, expr.Const{Value: value.Bool(true)}}}, nil)
	require.Error(t, err)

	v, err := expr.Eval(expr.Apply{Op: "not", Args: []expr.Expr{expr.Const{Value: value.Bool(false)}}}, nil)
	require.NoError(t, err)
	require.True(t, v.AsBool())
}

func TestCompareAcrossIntAndFloatUsesNumericCoercion(t *testing.T) {
	v, err := expr.Eval(expr.Apply{Op: "<", Args: []expr.Expr{
		expr.Const{Value: value.Int(1)},
		expr.Const{Value: value.Float(1.5)},
	}}, nil)
	require.NoError(t, err)
	require.True(t, v.AsBool())
}
