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

// Package store specifies the triple-store and temp-store contracts the
// engine depends on (§6 of the design), plus a single in-memory reference
// implementation of each used for testing and the CLI.
package store

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/value"
)

// ValueType names the coercion discipline for an Attribute's value
// position.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeKeyword
	TypeBytes
	TypeRef // the value is an EntityId reference to another entity
)

// Index names the indexing discipline carried by an Attribute.
type Index int

const (
	// NoIndex attributes support scans but no direct (attr, value) lookup.
	NoIndex Index = iota
	// Indexed attributes support (attr, value) -> []EntityId lookup.
	Indexed
	// Unique attributes additionally guarantee at most one entity per
	// value, supporting (attr, value) -> EntityId lookup.
	Unique
)

// Attribute is a schema record describing one (entity, attribute, value)
// triple position: its keyword name, the coercion applied to literal
// values, its indexing discipline, and whether its value type is itself
// an entity reference.
type Attribute struct {
	Name  value.Keyword
	Type  ValueType
	Index Index
}

// IsUnique reports whether a holds the unique-index discipline.
func (a Attribute) IsUnique() bool { return a.Index == Unique }

// IsRef reports whether a's value type is a reference to another entity.
func (a Attribute) IsRef() bool { return a.Type == TypeRef }

// Coerce converts an arbitrary literal (as decoded from a JSON-like
// payload) into a value.DataValue of a's declared type, matching the
// permissive coercion a caller expects from a schema (e.g. a JSON number
// 3 coerced into a TypeFloat attribute). Coercion failures are reported
// as dlerrors.ErrSchema.
func (a Attribute) Coerce(lit interface{}) (value.DataValue, error) {
	if lit == nil {
		return value.Null(), nil
	}
	switch a.Type {
	case TypeString:
		s, err := cast.ToStringE(lit)
		if err != nil {
			return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: cannot coerce %v to string: %v", a.Name, lit, err))
		}
		return value.Str(s), nil
	case TypeInt:
		i, err := cast.ToInt64E(lit)
		if err != nil {
			return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: cannot coerce %v to int: %v", a.Name, lit, err))
		}
		return value.Int(i), nil
	case TypeFloat:
		f, err := cast.ToFloat64E(lit)
		if err != nil {
			return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: cannot coerce %v to float: %v", a.Name, lit, err))
		}
		return value.Float(f), nil
	case TypeBool:
		b, err := cast.ToBoolE(lit)
		if err != nil {
			return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: cannot coerce %v to bool: %v", a.Name, lit, err))
		}
		return value.Bool(b), nil
	case TypeKeyword:
		s, err := cast.ToStringE(lit)
		if err != nil {
			return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: cannot coerce %v to keyword: %v", a.Name, lit, err))
		}
		return value.Kw(value.Keyword(s)), nil
	case TypeBytes:
		switch b := lit.(type) {
		case []byte:
			return value.Bytes(b), nil
		case string:
			return value.Bytes([]byte(b)), nil
		default:
			return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: cannot coerce %v to bytes", a.Name, lit))
		}
	case TypeRef:
		i, err := cast.ToUint64E(lit)
		if err != nil {
			return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: cannot coerce %v to entity ref: %v", a.Name, lit, err))
		}
		return value.Entity(value.EntityId(i)), nil
	}
	return value.DataValue{}, dlerrors.ErrSchema.New(fmt.Sprintf("attribute %s: unknown value type", a.Name))
}
