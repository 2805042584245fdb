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

// Package query parses the top-level input payload (§6) into a
// rule.Program, an entry-point adornment, and an output specification.
package query

import (
	"fmt"
	"sort"

	"github.com/liangxianzhe/cozo/atom"
	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/expr"
	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

// Parsed holds the result of parsing one query payload.
type Parsed struct {
	Program  *rule.Program
	Validity value.Validity
	// Bound holds the ENTRY head variables the caller has pinned to a
	// constant value, via the optional top-level "in" object. An empty
	// map means the default, fully-open query (§4.5: "none in the
	// default case").
	Bound map[value.Keyword]value.DataValue
	Out   OutSpec
}

// ParsePayload parses raw into a Parsed query, resolving attribute and
// unique-index literals against tx.
func ParsePayload(raw map[string]interface{}, tx store.Tx) (*Parsed, error) {
	validity, err := parseValidity(raw["since"])
	if err != nil {
		return nil, err
	}

	qPayload, ok := raw["q"]
	if !ok {
		return nil, dlerrors.ErrParse.New("payload missing required \"q\" key")
	}
	qList, ok := qPayload.([]interface{})
	if !ok {
		return nil, dlerrors.ErrParse.New("\"q\" must be an array")
	}

	var named []rule.NamedRawRule
	if isShorthand(qList) {
		nr, err := parseShorthandEntry(qList, tx, validity)
		if err != nil {
			return nil, err
		}
		named = append(named, nr)
	} else {
		for _, elem := range qList {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, dlerrors.ErrParse.New("each element of \"q\" must be a rule definition object")
			}
			nr, err := parseRuleDef(obj, tx, validity)
			if err != nil {
				return nil, err
			}
			named = append(named, nr)
		}
	}

	program, err := rule.BuildProgram(named)
	if err != nil {
		return nil, err
	}

	bound, err := parseBound(raw["in"], program)
	if err != nil {
		return nil, err
	}

	out, err := parseOutSpec(raw["out"])
	if err != nil {
		return nil, err
	}

	return &Parsed{Program: program, Validity: validity, Bound: bound, Out: out}, nil
}

func isShorthand(q []interface{}) bool {
	if len(q) == 0 {
		return false
	}
	_, ok := q[0].([]interface{})
	return ok
}

func parseShorthandEntry(q []interface{}, tx store.Tx, at value.Validity) (rule.NamedRawRule, error) {
	bodyAtoms := make([]atom.Atom, 0, len(q))
	for _, elem := range q {
		a, err := atom.ParseAtom(elem, tx, at)
		if err != nil {
			return rule.NamedRawRule{}, err
		}
		bodyAtoms = append(bodyAtoms, a)
	}
	head := inferHead(bodyAtoms)
	body := atom.Atom(atom.Conjunction{Atoms: bodyAtoms})
	return rule.NamedRawRule{
		Name: value.Entry,
		RawRule: rule.RawRule{
			Head:     head,
			Body:     body,
			Validity: at,
		},
	}, nil
}

// inferHead collects every non-wildcard binding referenced by bodyAtoms,
// sorted by name, for use as the implicit head of a
// shorthand ENTRY rule (§6: the shorthand has no explicit head).
func inferHead(bodyAtoms []atom.Atom) []value.Keyword {
	seen := map[value.Keyword]bool{}
	var order []value.Keyword
	for _, a := range bodyAtoms {
		for v := range atom.FreeVars(a) {
			if v.IsWildcard() || seen[v] {
				continue
			}
			seen[v] = true
			order = append(order, v)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return order
}

func parseRuleDef(obj map[string]interface{}, tx store.Tx, defaultValidity value.Validity) (rule.NamedRawRule, error) {
	name, ok := obj["rule"].(string)
	if !ok {
		return rule.NamedRawRule{}, dlerrors.ErrParse.New("rule definition requires a string \"rule\" key")
	}
	argsRaw, ok := obj["args"].([]interface{})
	if !ok || len(argsRaw) == 0 {
		return rule.NamedRawRule{}, dlerrors.ErrParse.New(fmt.Sprintf("rule %s: \"args\" must be a non-empty array headed by the head-variable list", name))
	}

	headRaw, ok := argsRaw[0].([]interface{})
	if !ok {
		return rule.NamedRawRule{}, dlerrors.ErrParse.New(fmt.Sprintf("rule %s: head must be an array of binding strings", name))
	}
	head := make([]value.Keyword, 0, len(headRaw))
	for _, h := range headRaw {
		s, ok := h.(string)
		if !ok {
			// Open Question (spec.md §9): head items other than plain
			// binding strings (e.g. aggregator slots) are explicitly
			// rejected rather than silently ignored.
			return rule.NamedRawRule{}, dlerrors.ErrParse.New(fmt.Sprintf("rule %s: head item %v is not a binding string", name, h))
		}
		kw := value.Keyword(s)
		if !kw.IsBinding() {
			return rule.NamedRawRule{}, dlerrors.ErrParse.New(fmt.Sprintf("rule %s: head item %q does not start with ? or _", name, s))
		}
		head = append(head, kw)
	}

	validity := defaultValidity
	if atRaw, ok := obj["at"]; ok {
		v, err := parseValidity(atRaw)
		if err != nil {
			return rule.NamedRawRule{}, err
		}
		validity = v
	}

	if algoRaw, ok := obj["algo"]; ok {
		algoName, ok := algoRaw.(string)
		if !ok {
			return rule.NamedRawRule{}, dlerrors.ErrParse.New(fmt.Sprintf("rule %s: \"algo\" must be a string", name))
		}
		if len(argsRaw) != 2 {
			return rule.NamedRawRule{}, dlerrors.ErrParse.New(fmt.Sprintf("rule %s: algorithm rule \"args\" must be [head, options]", name))
		}
		opts, ok := argsRaw[1].(map[string]interface{})
		if !ok {
			return rule.NamedRawRule{}, dlerrors.ErrParse.New(fmt.Sprintf("rule %s: algorithm options must be an object", name))
		}
		spec, err := parseAlgoSpec(algoName, opts)
		if err != nil {
			return rule.NamedRawRule{}, err
		}
		return rule.NamedRawRule{
			Name: value.Keyword(name),
			RawRule: rule.RawRule{
				Head:     head,
				Algo:     spec,
				Validity: validity,
			},
		}, nil
	}

	bodyAtoms := make([]atom.Atom, 0, len(argsRaw)-1)
	for _, elem := range argsRaw[1:] {
		a, err := atom.ParseAtom(elem, tx, validity)
		if err != nil {
			return rule.NamedRawRule{}, err
		}
		bodyAtoms = append(bodyAtoms, a)
	}

	return rule.NamedRawRule{
		Name: value.Keyword(name),
		RawRule: rule.RawRule{
			Head:     head,
			Body:     atom.Conjunction{Atoms: bodyAtoms},
			Validity: validity,
		},
	}, nil
}

// parseAlgoSpec parses the options object of an algorithm-application
// rule (§4.8's BFS contract): edges/nodes/starting_nodes name input
// predicates, limit defaults to 1, and condition is a predicate
// expression whose only binding is "?node", naming the candidate
// terminal node's value.
func parseAlgoSpec(algoName string, opts map[string]interface{}) (*rule.AlgoSpec, error) {
	edges, ok := opts["edges"].(string)
	if !ok {
		return nil, dlerrors.ErrParse.New(fmt.Sprintf("algo %s: \"edges\" must name a relation", algoName))
	}
	nodes, ok := opts["nodes"].(string)
	if !ok {
		return nil, dlerrors.ErrParse.New(fmt.Sprintf("algo %s: \"nodes\" must name a relation", algoName))
	}
	starting := ""
	if s, ok := opts["starting_nodes"]; ok {
		starting, ok = s.(string)
		if !ok {
			return nil, dlerrors.ErrParse.New(fmt.Sprintf("algo %s: \"starting_nodes\" must be a relation name", algoName))
		}
	}
	limit := 1
	if l, ok := opts["limit"]; ok {
		f, ok := l.(float64)
		if !ok || f < 1 {
			return nil, dlerrors.ErrParse.New(fmt.Sprintf("algo %s: \"limit\" must be a positive integer", algoName))
		}
		limit = int(f)
	}
	var cond expr.Expr
	if c, ok := opts["condition"]; ok {
		parsed, err := atom.ParsePredicateRoot(c)
		if err != nil {
			return nil, err
		}
		cond, err = expr.PartialEval(parsed)
		if err != nil {
			return nil, err
		}
	}
	return &rule.AlgoSpec{
		Algo:          algoName,
		Edges:         value.Keyword(edges),
		Nodes:         value.Keyword(nodes),
		StartingNodes: value.Keyword(starting),
		Limit:         limit,
		Condition:     cond,
	}, nil
}

func parseValidity(raw interface{}) (value.Validity, error) {
	switch v := raw.(type) {
	case nil:
		return value.Current, nil
	case string:
		if v == "current" {
			return value.Current, nil
		}
		return 0, dlerrors.ErrParse.New(fmt.Sprintf("unrecognized validity %q", v))
	case float64:
		return value.Validity(int64(v)), nil
	default:
		return 0, dlerrors.ErrParse.New(fmt.Sprintf("unsupported validity shape %T", raw))
	}
}

// parseBound parses the optional "in" object binding some of ENTRY's head
// variables to a constant, which the magic-sets rewriter (§4.5) turns
// into an adornment.
func parseBound(raw interface{}, program *rule.Program) (map[value.Keyword]value.DataValue, error) {
	out := map[value.Keyword]value.DataValue{}
	if raw == nil {
		return out, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, dlerrors.ErrParse.New("\"in\" must be an object mapping head variables to values")
	}
	entryHead := program.EntryRules()[0].Head
	headSet := map[value.Keyword]bool{}
	for _, h := range entryHead {
		headSet[h] = true
	}
	for k, v := range obj {
		kw := value.Keyword(k)
		if !headSet[kw] {
			return nil, dlerrors.ErrParse.New(fmt.Sprintf("\"in\" references %s, which is not an ENTRY head variable", k))
		}
		lit, err := atom.InferLiteral(v)
		if err != nil {
			return nil, err
		}
		out[kw] = lit
	}
	return out, nil
}
