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

package atom

import (
	"fmt"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/value"
)

// ParseExpr parses a predicate-expression payload: {"op": name, "args":
// [...]}, a binding string, or a literal. The root of a "pred" atom must
// resolve to an is_predicate operator; ParseExpr itself is also used
// recursively for sub-expressions, which may be non-predicate operators
// (e.g. arithmetic feeding a comparison).
func ParseExpr(payload interface{}) (expr.Expr, error) {
	switch p := payload.(type) {
	case map[string]interface{}:
		opName, ok := p["op"].(string)
		if !ok {
			return nil, dlerrors.ErrParse.New("expression object requires a string \"op\" key")
		}
		desc, ok := expr.Lookup(opName)
		if !ok {
			return nil, dlerrors.ErrParse.New(fmt.Sprintf("unknown operator %q", opName))
		}
		argsPayload, _ := p["args"].([]interface{})
		if err := desc.CheckArity(len(argsPayload)); err != nil {
			return nil, err
		}
		args := make([]expr.Expr, 0, len(argsPayload))
		for _, a := range argsPayload {
			sub, err := ParseExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, sub)
		}
		return expr.Apply{Op: opName, Args: args}, nil
	case string:
		kw := value.Keyword(p)
		if kw.IsBinding() {
			return expr.Binding{Name: kw}, nil
		}
		if kw.IsReserved() {
			return nil, dlerrors.ErrParse.New(fmt.Sprintf("reserved keyword %q used unquoted in an expression", p))
		}
		return expr.Const{Value: value.Str(p)}, nil
	default:
		lit, err := InferLiteral(payload)
		if err != nil {
			return nil, err
		}
		return expr.Const{Value: lit}, nil
	}
}

// ParsePredicateRoot parses payload as ParseExpr does, but additionally
// rejects a root operator that isn't usable as a predicate (§4.1: "Parsing
// rejects non-predicate operators in predicate position").
func ParsePredicateRoot(payload interface{}) (expr.Expr, error) {
	e, err := ParseExpr(payload)
	if err != nil {
		return nil, err
	}
	if ap, ok := e.(expr.Apply); ok {
		desc, ok := expr.Lookup(ap.Op)
		if !ok || !desc.IsPredicate {
			return nil, dlerrors.ErrParse.New(fmt.Sprintf("operator %q is not usable as a predicate", ap.Op))
		}
	}
	return e, nil
}
