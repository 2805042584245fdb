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
	"math"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

// ParseAtom dispatches on payload's shape per §4.1 and builds the
// corresponding Atom, resolving attribute lookups and unique-index
// literals against tx.
func ParseAtom(payload interface{}, tx store.Tx, at value.Validity) (Atom, error) {
	switch p := payload.(type) {
	case []interface{}:
		return parseTriple(p, tx, at)
	case map[string]interface{}:
		return parseObjectAtom(p, tx, at)
	default:
		return nil, dlerrors.ErrParse.New(fmt.Sprintf("atom must be a 3-element array or an object, got %T", payload))
	}
}

func parseTriple(p []interface{}, tx store.Tx, at value.Validity) (Atom, error) {
	if len(p) != 3 {
		return nil, dlerrors.ErrParse.New(fmt.Sprintf("triple atom requires exactly 3 elements, got %d", len(p)))
	}
	attrKw, ok := p[1].(string)
	if !ok {
		return nil, dlerrors.ErrParse.New("triple atom's attribute position must be a keyword string")
	}
	attr, ok := tx.AttrByKeyword(value.Keyword(attrKw))
	if !ok {
		return nil, dlerrors.ErrSchema.New(fmt.Sprintf("unknown attribute %s", attrKw))
	}
	eTerm, err := ParseEntityTerm(p[0], tx, at)
	if err != nil {
		return nil, err
	}
	vTerm, err := ParseValueTerm(p[2], attr, tx, at)
	if err != nil {
		return nil, err
	}
	return AttrTriple{Entity: eTerm, Attribute: attr, Value: vTerm}, nil
}

func parseObjectAtom(p map[string]interface{}, tx store.Tx, at value.Validity) (Atom, error) {
	if _, ok := p["rule"]; ok {
		return parseRuleApply(p, tx, at)
	}
	if predPayload, ok := p["pred"]; ok {
		e, err := ParsePredicateRoot(predPayload)
		if err != nil {
			return nil, err
		}
		folded, err := expr.PartialEval(e)
		if err != nil {
			return nil, err
		}
		return Predicate{Expr: folded}, nil
	}

	logicalKeys := []string{"conj", "disj", "not_exists"}
	present := 0
	var which string
	for _, k := range logicalKeys {
		if _, ok := p[k]; ok {
			present++
			which = k
		}
	}
	if present != 1 {
		return nil, dlerrors.ErrParse.New("object atom must have exactly one of: rule, pred, conj, disj, not_exists")
	}

	switch which {
	case "conj":
		atoms, err := parseAtomList(p["conj"], tx, at)
		if err != nil {
			return nil, err
		}
		return Conjunction{Atoms: atoms}, nil
	case "disj":
		atoms, err := parseAtomList(p["disj"], tx, at)
		if err != nil {
			return nil, err
		}
		return Disjunction{Atoms: atoms}, nil
	case "not_exists":
		inner, err := ParseAtom(p["not_exists"], tx, at)
		if err != nil {
			return nil, err
		}
		return Negation{Atom: inner}, nil
	}
	return nil, dlerrors.ErrParse.New("unreachable")
}

func parseAtomList(payload interface{}, tx store.Tx, at value.Validity) ([]Atom, error) {
	list, ok := payload.([]interface{})
	if !ok {
		return nil, dlerrors.ErrParse.New("conj/disj payload must be an array of atoms")
	}
	out := make([]Atom, 0, len(list))
	for _, elem := range list {
		a, err := ParseAtom(elem, tx, at)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func parseRuleApply(p map[string]interface{}, tx store.Tx, at value.Validity) (Atom, error) {
	name, ok := p["rule"].(string)
	if !ok {
		return nil, dlerrors.ErrParse.New("rule-apply atom's \"rule\" key must be a string")
	}
	argsPayload, _ := p["args"].([]interface{})
	args := make([]value.ValueTerm, 0, len(argsPayload))
	for _, a := range argsPayload {
		term, err := parseValueTermUnschemaed(a, tx, at)
		if err != nil {
			return nil, err
		}
		args = append(args, term)
	}
	return RuleApply{Name: value.Keyword(name), Args: args}, nil
}

// ParseEntityTerm parses an entity-position term: a binding, an unsigned
// integer literal entity id, or a single-key object resolved through the
// store's unique index.
func ParseEntityTerm(payload interface{}, tx store.Tx, at value.Validity) (value.EntityTerm, error) {
	switch p := payload.(type) {
	case string:
		kw := value.Keyword(p)
		if kw.IsBinding() {
			return value.Var[value.EntityId](kw), nil
		}
		return value.EntityTerm{}, dlerrors.ErrParse.New(fmt.Sprintf("entity position string %q is neither a binding nor a literal entity id", p))
	case float64:
		if p < 0 || math.Trunc(p) != p {
			return value.EntityTerm{}, dlerrors.ErrParse.New(fmt.Sprintf("entity literal must be a non-negative integer, got %v", p))
		}
		return value.Const[value.EntityId](value.EntityId(p)), nil
	case map[string]interface{}:
		if len(p) != 1 {
			return value.EntityTerm{}, dlerrors.ErrParse.New("entity lookup object must have exactly one key")
		}
		for k, v := range p {
			attr, ok := tx.AttrByKeyword(value.Keyword(k))
			if !ok {
				return value.EntityTerm{}, dlerrors.ErrSchema.New(fmt.Sprintf("unknown attribute %s in entity lookup", k))
			}
			lit, err := attr.Coerce(v)
			if err != nil {
				return value.EntityTerm{}, err
			}
			id, found, err := tx.EidByUniqueAV(attr, lit, at)
			if err != nil {
				return value.EntityTerm{}, err
			}
			if !found {
				id = value.NoEntity
			}
			return value.Const[value.EntityId](id), nil
		}
	}
	return value.EntityTerm{}, dlerrors.ErrParse.New(fmt.Sprintf("unsupported entity term shape %T", payload))
}

// ParseValueTerm parses a value-position term: a binding, or a literal
// coerced through attr's value type.
func ParseValueTerm(payload interface{}, attr store.Attribute, tx store.Tx, at value.Validity) (value.ValueTerm, error) {
	if s, ok := payload.(string); ok {
		kw := value.Keyword(s)
		if kw.IsBinding() {
			return value.Var[value.DataValue](kw), nil
		}
		if kw.IsReserved() {
			return value.ValueTerm{}, dlerrors.ErrParse.New(fmt.Sprintf("reserved keyword %q used unquoted in value position", s))
		}
	}
	lit, err := attr.Coerce(payload)
	if err != nil {
		return value.ValueTerm{}, err
	}
	return value.Const[value.DataValue](lit), nil
}

// parseValueTermUnschemaed parses a rule-apply argument, which has no
// attribute to coerce through: literals are inferred from their JSON
// shape directly.
func parseValueTermUnschemaed(payload interface{}, tx store.Tx, at value.Validity) (value.ValueTerm, error) {
	if s, ok := payload.(string); ok {
		kw := value.Keyword(s)
		if kw.IsBinding() {
			return value.Var[value.DataValue](kw), nil
		}
		if kw.IsReserved() {
			return value.ValueTerm{}, dlerrors.ErrParse.New(fmt.Sprintf("reserved keyword %q used unquoted as a rule argument", s))
		}
	}
	lit, err := InferLiteral(payload)
	if err != nil {
		return value.ValueTerm{}, err
	}
	return value.Const[value.DataValue](lit), nil
}

// InferLiteral converts a raw JSON-decoded literal into a DataValue by
// its own shape, used wherever no Attribute is available to drive
// coercion (rule-apply arguments, expression constants).
func InferLiteral(payload interface{}) (value.DataValue, error) {
	switch p := payload.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(p), nil
	case float64:
		if math.Trunc(p) == p && !math.IsInf(p, 0) {
			return value.Int(int64(p)), nil
		}
		return value.Float(p), nil
	case string:
		return value.Str(p), nil
	case []interface{}:
		out := make([]value.DataValue, 0, len(p))
		for _, e := range p {
			v, err := InferLiteral(e)
			if err != nil {
				return value.DataValue{}, err
			}
			out = append(out, v)
		}
		return value.List(out...), nil
	default:
		return value.DataValue{}, dlerrors.ErrParse.New(fmt.Sprintf("unsupported literal shape %T", payload))
	}
}
