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

package expr

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/value"
)

// OperatorDescriptor names an operator reachable from an expression tree:
// its arity, whether it's usable as a predicate-atom head operator
// (§4.1), and whether it accepts a variable number of arguments.
type OperatorDescriptor struct {
	Name        string
	Arity       int
	IsPredicate bool
	Varargs     bool
}

var registry = map[string]OperatorDescriptor{
	"==": {Name: "==", Arity: 2, IsPredicate: true},
	"!=": {Name: "!=", Arity: 2, IsPredicate: true},
	"<":  {Name: "<", Arity: 2, IsPredicate: true},
	"<=": {Name: "<=", Arity: 2, IsPredicate: true},
	">":  {Name: ">", Arity: 2, IsPredicate: true},
	">=": {Name: ">=", Arity: 2, IsPredicate: true},
	"and": {Name: "and", Arity: 2, IsPredicate: true, Varargs: true},
	"or":   {Name: "or", Arity: 2, IsPredicate: true, Varargs: true},
	"not":  {Name: "not", Arity: 1, IsPredicate: true},
	"+": {Name: "+", Arity: 2, Varargs: true},
	"-": {Name: "-", Arity: 2},
	"*": {Name: "*", Arity: 2, Varargs: true},
	"/": {Name: "/", Arity: 2},
}

// Lookup returns the descriptor for name, or !ok if name is not a known
// operator.
func Lookup(name string) (OperatorDescriptor, bool) {
	d, ok := registry[name]
	return d, ok
}

// CheckArity validates that argc arguments are acceptable for d, failing
// with dlerrors.ErrParse otherwise.
func (d OperatorDescriptor) CheckArity(argc int) error {
	if d.Varargs {
		if argc < d.Arity {
			return dlerrors.ErrParse.New(fmt.Sprintf("operator %s requires at least %d arguments, got %d", d.Name, d.Arity, argc))
		}
		return nil
	}
	if argc != d.Arity {
		return dlerrors.ErrParse.New(fmt.Sprintf("operator %s requires exactly %d arguments, got %d", d.Name, d.Arity, argc))
	}
	return nil
}

// asFloat coerces a numeric-ish DataValue to float64 for cross-kind
// arithmetic comparison (e.g. a stored int64 compared against a
// JSON-decoded float64 literal).
func asFloat(v value.DataValue) (float64, error) {
	switch v.Kind() {
	case value.KindInt:
		return cast.ToFloat64E(v.AsInt())
	case value.KindFloat:
		return v.AsFloat(), nil
	default:
		return 0, dlerrors.ErrEvaluation.New(fmt.Sprintf("expected numeric value, got %s", v.Kind()))
	}
}

func numeric(v value.DataValue) bool {
	return v.Kind() == value.KindInt || v.Kind() == value.KindFloat
}

func applyOp(op string, args []value.DataValue) (value.DataValue, error) {
	d, ok := Lookup(op)
	if !ok {
		return value.DataValue{}, dlerrors.ErrParse.New(fmt.Sprintf("unknown operator %s", op))
	}
	if err := d.CheckArity(len(args)); err != nil {
		return value.DataValue{}, err
	}
	switch op {
	case "==":
		return value.Bool(args[0].Equal(args[1])), nil
	case "!=":
		return value.Bool(!args[0].Equal(args[1])), nil
	case "<", "<=", ">", ">=":
		return compareOp(op, args[0], args[1])
	case "and":
		for _, a := range args {
			if a.Kind() != value.KindBool {
				return value.DataValue{}, dlerrors.ErrEvaluation.New("and: non-boolean operand")
			}
			if !a.AsBool() {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	case "or":
		for _, a := range args {
			if a.Kind() != value.KindBool {
				return value.DataValue{}, dlerrors.ErrEvaluation.New("or: non-boolean operand")
			}
			if a.AsBool() {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case "not":
		if args[0].Kind() != value.KindBool {
			return value.DataValue{}, dlerrors.ErrEvaluation.New("not: non-boolean operand")
		}
		return value.Bool(!args[0].AsBool()), nil
	case "+", "-", "*", "/":
		return arithOp(op, args)
	}
	return value.DataValue{}, dlerrors.ErrEvaluation.New(fmt.Sprintf("unhandled operator %s", op))
}

func compareOp(op string, a, b value.DataValue) (value.DataValue, error) {
	var c int
	if numeric(a) && numeric(b) {
		fa, err := asFloat(a)
		if err != nil {
			return value.DataValue{}, err
		}
		fb, err := asFloat(b)
		if err != nil {
			return value.DataValue{}, err
		}
		switch {
		case fa < fb:
			c = -1
		case fa > fb:
			c = 1
		default:
			c = 0
		}
	} else {
		c = a.Compare(b)
	}
	switch op {
	case "<":
		return value.Bool(c < 0), nil
	case "<=":
		return value.Bool(c <= 0), nil
	case ">":
		return value.Bool(c > 0), nil
	case ">=":
		return value.Bool(c >= 0), nil
	}
	return value.DataValue{}, dlerrors.ErrEvaluation.New(fmt.Sprintf("unhandled comparison %s", op))
}

func arithOp(op string, args []value.DataValue) (value.DataValue, error) {
	allInt := true
	for _, a := range args {
		if !numeric(a) {
			return value.DataValue{}, dlerrors.ErrEvaluation.New(fmt.Sprintf("%s: non-numeric operand", op))
		}
		if a.Kind() != value.KindInt {
			allInt = false
		}
	}
	if allInt {
		acc := args[0].AsInt()
		for _, a := range args[1:] {
			acc = intArith(op, acc, a.AsInt())
		}
		return value.Int(acc), nil
	}
	accF, err := asFloat(args[0])
	if err != nil {
		return value.DataValue{}, err
	}
	for _, a := range args[1:] {
		fb, err := asFloat(a)
		if err != nil {
			return value.DataValue{}, err
		}
		accF = floatArith(op, accF, fb)
	}
	return value.Float(accF), nil
}

func intArith(op string, a, b int64) int64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	}
	return 0
}

func floatArith(op string, a, b float64) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	}
	return 0
}
