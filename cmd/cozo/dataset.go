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

package main

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/store"
	"github.com/liangxianzhe/cozo/value"
)

var attrTypes = map[string]store.ValueType{
	"string":  store.TypeString,
	"int":     store.TypeInt,
	"float":   store.TypeFloat,
	"bool":    store.TypeBool,
	"keyword": store.TypeKeyword,
	"bytes":   store.TypeBytes,
	"ref":     store.TypeRef,
}

var attrIndexes = map[string]store.Index{
	"none":   store.NoIndex,
	"index":  store.Indexed,
	"unique": store.Unique,
}

// buildTripleStore builds a store.MemTripleStore from doc's optional
// "schema" (attribute declarations) and "facts" (entity/attr/value
// triples) arrays, the CLI's own extension to the query payload shape
// since the engine's store contract is consumed, not produced, by the
// rest of the module.
func buildTripleStore(doc map[string]interface{}) (*store.MemTripleStore, error) {
	tx := store.NewMemTripleStore()

	if schemaRaw, ok := doc["schema"]; ok {
		schema, ok := schemaRaw.([]interface{})
		if !ok {
			return nil, dlerrors.ErrParse.New("\"schema\" must be an array")
		}
		for _, elem := range schema {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, dlerrors.ErrParse.New("each schema entry must be an object")
			}
			attr, err := parseAttribute(obj)
			if err != nil {
				return nil, err
			}
			tx.RegisterAttribute(attr)
		}
	}

	if factsRaw, ok := doc["facts"]; ok {
		facts, ok := factsRaw.([]interface{})
		if !ok {
			return nil, dlerrors.ErrParse.New("\"facts\" must be an array")
		}
		for _, elem := range facts {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, dlerrors.ErrParse.New("each fact must be an object")
			}
			if err := assertFact(tx, obj); err != nil {
				return nil, err
			}
		}
	}

	return tx, nil
}

func parseAttribute(obj map[string]interface{}) (store.Attribute, error) {
	name, ok := obj["name"].(string)
	if !ok {
		return store.Attribute{}, dlerrors.ErrParse.New("schema entry requires a string \"name\"")
	}
	typeName, _ := obj["type"].(string)
	valType, ok := attrTypes[typeName]
	if !ok {
		return store.Attribute{}, dlerrors.ErrParse.New(fmt.Sprintf("attribute %s: unknown type %q", name, typeName))
	}
	indexName, ok := obj["index"].(string)
	idx := store.NoIndex
	if ok {
		idx, ok = attrIndexes[indexName]
		if !ok {
			return store.Attribute{}, dlerrors.ErrParse.New(fmt.Sprintf("attribute %s: unknown index %q", name, indexName))
		}
	}
	return store.Attribute{Name: value.Keyword(name), Type: valType, Index: idx}, nil
}

func assertFact(tx *store.MemTripleStore, obj map[string]interface{}) error {
	entityNum, err := cast.ToUint64E(obj["entity"])
	if err != nil {
		return dlerrors.ErrParse.New(fmt.Sprintf("fact: invalid \"entity\": %v", err))
	}
	attrName, ok := obj["attr"].(string)
	if !ok {
		return dlerrors.ErrParse.New("fact requires a string \"attr\"")
	}
	attr, ok := tx.AttrByKeyword(value.Keyword(attrName))
	if !ok {
		return dlerrors.ErrSchema.New(fmt.Sprintf("fact references unknown attribute %s", attrName))
	}
	coerced, err := attr.Coerce(obj["value"])
	if err != nil {
		return err
	}
	at := value.Current
	if atRaw, ok := obj["at"]; ok {
		atNum, err := cast.ToInt64E(atRaw)
		if err != nil {
			return dlerrors.ErrParse.New(fmt.Sprintf("fact: invalid \"at\": %v", err))
		}
		at = value.Validity(atNum)
	}
	return tx.Assert(value.EntityId(entityNum), attr.Name, coerced, at)
}

// dataValueToJSON converts a DataValue into a plain interface{} suitable
// for encoding/json, matching how a host embedding this engine would
// hand ENTRY's rows back to its own API layer.
func dataValueToJSON(v value.DataValue) interface{} {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		return v.AsBool()
	case value.KindInt:
		return v.AsInt()
	case value.KindFloat:
		return v.AsFloat()
	case value.KindString:
		return v.AsString()
	case value.KindBytes:
		return v.AsBytes()
	case value.KindKeyword:
		return string(v.AsKeyword())
	case value.KindEntity:
		return uint64(v.AsEntity())
	case value.KindList:
		list := v.AsList()
		out := make([]interface{}, len(list))
		for i, e := range list {
			out[i] = dataValueToJSON(e)
		}
		return out
	default:
		return nil
	}
}
