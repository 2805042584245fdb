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

// Package expr implements predicate expressions over bound tuples:
// partial evaluation of constant subtrees, and resolution of variable
// references to positional tuple indices ahead of repeated evaluation.
package expr

import (
	"fmt"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/value"
)

// Expr is a tree of Apply, Const, and Binding nodes.
type Expr interface {
	isExpr()
}

// Const wraps a literal value.
type Const struct {
	Value value.DataValue
}

func (Const) isExpr() {}

// Binding references a bound variable by name. Index is resolved by
// FillBindingIndices and is meaningless until HasIndex is true.
type Binding struct {
	Name     value.Keyword
	Index    int
	HasIndex bool
}

func (Binding) isExpr() {}

// Apply invokes the named operator on Args.
type Apply struct {
	Op   string
	Args []Expr
}

func (Apply) isExpr() {}

// BindingIndices returns the set of variable names referenced anywhere
// in e.
func BindingIndices(e Expr) map[value.Keyword]bool {
	out := map[value.Keyword]bool{}
	collectBindings(e, out)
	return out
}

func collectBindings(e Expr, out map[value.Keyword]bool) {
	switch n := e.(type) {
	case Binding:
		out[n.Name] = true
	case Apply:
		for _, a := range n.Args {
			collectBindings(a, out)
		}
	}
}

// PartialEval folds every fully-constant subtree of e into a Const,
// leaving Binding-rooted subtrees untouched. It is run once at parse
// time so repeated evaluation during the fixpoint never redoes constant
// folding.
func PartialEval(e Expr) (Expr, error) {
	switch n := e.(type) {
	case Const, Binding:
		return n, nil
	case Apply:
		args := make([]Expr, len(n.Args))
		allConst := true
		for i, a := range n.Args {
			folded, err := PartialEval(a)
			if err != nil {
				return nil, err
			}
			args[i] = folded
			if _, ok := folded.(Const); !ok {
				allConst = false
			}
		}
		folded := Apply{Op: n.Op, Args: args}
		if !allConst {
			return folded, nil
		}
		vals := make([]value.DataValue, len(args))
		for i, a := range args {
			vals[i] = a.(Const).Value
		}
		v, err := applyOp(n.Op, vals)
		if err != nil {
			return nil, err
		}
		return Const{Value: v}, nil
	default:
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("unknown expression node %T", e))
	}
}

// FillBindingIndices resolves every Binding in e to a positional index
// in indexOf, returning a new tree with Index/HasIndex populated. It
// fails with dlerrors.ErrSafety if a referenced binding has no entry in
// indexOf — the caller is expected to have already verified safety
// (§4.2) before compiling the relation plan that calls this.
func FillBindingIndices(e Expr, indexOf map[value.Keyword]int) (Expr, error) {
	switch n := e.(type) {
	case Const:
		return n, nil
	case Binding:
		idx, ok := indexOf[n.Name]
		if !ok {
			return nil, dlerrors.ErrSafety.New(fmt.Sprintf("unbound variable %s in predicate", n.Name))
		}
		return Binding{Name: n.Name, Index: idx, HasIndex: true}, nil
	case Apply:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			filled, err := FillBindingIndices(a, indexOf)
			if err != nil {
				return nil, err
			}
			args[i] = filled
		}
		return Apply{Op: n.Op, Args: args}, nil
	default:
		return nil, dlerrors.ErrEvaluation.New(fmt.Sprintf("unknown expression node %T", e))
	}
}

// Eval evaluates e against tuple, which must be indexed consistently
// with a prior FillBindingIndices call.
func Eval(e Expr, tuple value.Tuple) (value.DataValue, error) {
	switch n := e.(type) {
	case Const:
		return n.Value, nil
	case Binding:
		if !n.HasIndex {
			return value.DataValue{}, dlerrors.ErrEvaluation.New(fmt.Sprintf("binding %s never indexed", n.Name))
		}
		if n.Index < 0 || n.Index >= len(tuple) {
			return value.DataValue{}, dlerrors.ErrEvaluation.New(fmt.Sprintf("binding %s index %d out of range for tuple of width %d", n.Name, n.Index, len(tuple)))
		}
		return tuple[n.Index], nil
	case Apply:
		vals := make([]value.DataValue, len(n.Args))
		for i, a := range n.Args {
			v, err := Eval(a, tuple)
			if err != nil {
				return value.DataValue{}, err
			}
			vals[i] = v
		}
		return applyOp(n.Op, vals)
	default:
		return value.DataValue{}, dlerrors.ErrEvaluation.New(fmt.Sprintf("unknown expression node %T", e))
	}
}

// EvalPred evaluates e against tuple and requires a boolean result.
func EvalPred(e Expr, tuple value.Tuple) (bool, error) {
	v, err := Eval(e, tuple)
	if err != nil {
		return false, err
	}
	if v.Kind() != value.KindBool {
		return false, dlerrors.ErrEvaluation.New(fmt.Sprintf("predicate evaluated to %s, not bool", v.Kind()))
	}
	return v.AsBool(), nil
}
