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
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind tags the variant held by a DataValue.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindKeyword
	KindEntity
	KindList
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindBytes:   "bytes",
	KindKeyword: "keyword",
	KindEntity:  "entity",
	KindList:    "list",
}

func (k Kind) String() string { return kindNames[k] }

// DataValue is a tagged union over the value types a triple's value
// position, a rule's head, or a predicate's tuple may carry.
//
// DataValue is not directly usable as a Go map key when it holds a list
// (slices aren't comparable); use Encode for that purpose instead.
type DataValue struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string // also backs Bytes and Keyword
	e    EntityId
	list []DataValue
}

func Null() DataValue                { return DataValue{kind: KindNull} }
func Bool(b bool) DataValue          { return DataValue{kind: KindBool, b: b} }
func Int(i int64) DataValue          { return DataValue{kind: KindInt, i: i} }
func Float(f float64) DataValue      { return DataValue{kind: KindFloat, f: f} }
func Str(s string) DataValue         { return DataValue{kind: KindString, s: s} }
func Bytes(b []byte) DataValue       { return DataValue{kind: KindBytes, s: string(b)} }
func Kw(k Keyword) DataValue         { return DataValue{kind: KindKeyword, s: string(k)} }
func Entity(e EntityId) DataValue    { return DataValue{kind: KindEntity, e: e} }
func List(vs ...DataValue) DataValue { return DataValue{kind: KindList, list: vs} }

func (v DataValue) Kind() Kind { return v.kind }

func (v DataValue) AsBool() bool         { return v.b }
func (v DataValue) AsInt() int64         { return v.i }
func (v DataValue) AsFloat() float64     { return v.f }
func (v DataValue) AsString() string     { return v.s }
func (v DataValue) AsBytes() []byte      { return []byte(v.s) }
func (v DataValue) AsKeyword() Keyword   { return Keyword(v.s) }
func (v DataValue) AsEntity() EntityId   { return v.e }
func (v DataValue) AsList() []DataValue  { return v.list }

// Equal reports whether v and other denote the same value.
func (v DataValue) Equal(other DataValue) bool {
	return v.Compare(other) == 0
}

// Compare defines a total, stable order across all variants, first by
// Kind, then by variant-specific payload. It is used for deterministic
// iteration and as the tie-breaker in any place that must behave
// identically across runs, such as temp-store iteration order in tests.
func (v DataValue) Compare(other DataValue) int {
	if v.kind != other.kind {
		if v.kind < other.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		if v.b == other.b {
			return 0
		}
		if !v.b {
			return -1
		}
		return 1
	case KindInt:
		switch {
		case v.i < other.i:
			return -1
		case v.i > other.i:
			return 1
		default:
			return 0
		}
	case KindFloat:
		switch {
		case v.f < other.f:
			return -1
		case v.f > other.f:
			return 1
		default:
			return 0
		}
	case KindString, KindBytes, KindKeyword:
		switch {
		case v.s < other.s:
			return -1
		case v.s > other.s:
			return 1
		default:
			return 0
		}
	case KindEntity:
		switch {
		case v.e < other.e:
			return -1
		case v.e > other.e:
			return 1
		default:
			return 0
		}
	case KindList:
		n := len(v.list)
		if len(other.list) < n {
			n = len(other.list)
		}
		for i := 0; i < n; i++ {
			if c := v.list[i].Compare(other.list[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(v.list) < len(other.list):
			return -1
		case len(v.list) > len(other.list):
			return 1
		default:
			return 0
		}
	}
	return 0
}

// Less reports whether v sorts before other under Compare; it satisfies
// sort.Interface-style comparators used by stable tuple ordering.
func (v DataValue) Less(other DataValue) bool { return v.Compare(other) < 0 }

func (v DataValue) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindBytes:
		return fmt.Sprintf("#bytes[%d]", len(v.s))
	case KindKeyword:
		return v.s
	case KindEntity:
		return "#" + v.e.String()
	case KindList:
		buf := &bytes.Buffer{}
		buf.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(e.String())
		}
		buf.WriteByte(']')
		return buf.String()
	}
	return "<invalid>"
}

// Encode produces a canonical byte encoding of v, stable across runs on
// the same Go version's float formatting; byte order of encodings does
// not follow Compare (negative numbers, length-prefixed strings). It is
// used as the map key for temp-store tuple deduplication, since
// DataValue itself is not comparable when it holds a KindList.
func (v DataValue) Encode() []byte {
	buf := &bytes.Buffer{}
	v.encodeInto(buf)
	return buf.Bytes()
}

func (v DataValue) encodeInto(buf *bytes.Buffer) {
	buf.WriteByte(byte(v.kind))
	switch v.kind {
	case KindNull:
	case KindBool:
		if v.b {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case KindInt:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v.i))
		buf.Write(tmp[:])
	case KindFloat:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v.f))
		buf.Write(tmp[:])
	case KindString, KindBytes, KindKeyword:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(len(v.s)))
		buf.Write(tmp[:])
		buf.WriteString(v.s)
	case KindEntity:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v.e))
		buf.Write(tmp[:])
	case KindList:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(len(v.list)))
		buf.Write(tmp[:])
		for _, e := range v.list {
			e.encodeInto(buf)
		}
	}
}

// SortValues sorts vs in place using Compare, for deterministic output.
func SortValues(vs []DataValue) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Compare(vs[j]) < 0 })
}
