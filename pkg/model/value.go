package model

import (
	"fmt"
	"time"
)

// ValueKind discriminates the tagged Value union (spec.md §3).
type ValueKind uint8

const (
	ValueEmpty ValueKind = iota
	ValueString
	ValueInteger
	ValueFloat
	ValueBoolean
	ValueArray
	ValueObject
	ValueDate
)

func (k ValueKind) String() string {
	switch k {
	case ValueEmpty:
		return "Empty"
	case ValueString:
		return "String"
	case ValueInteger:
		return "Integer"
	case ValueFloat:
		return "Float"
	case ValueBoolean:
		return "Boolean"
	case ValueArray:
		return "Array"
	case ValueObject:
		return "Object"
	case ValueDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// Value is the tagged union stored in node/edge/vector property maps.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind    ValueKind
	Str     string
	Int     int64
	Float   float64
	Bool    bool
	Arr     []Value
	Obj     map[string]Value
	Date    time.Time
}

// Empty is the canonical Value::Empty.
var Empty = Value{Kind: ValueEmpty}

func String(s string) Value           { return Value{Kind: ValueString, Str: s} }
func Integer(i int64) Value           { return Value{Kind: ValueInteger, Int: i} }
func Float(f float64) Value           { return Value{Kind: ValueFloat, Float: f} }
func Boolean(b bool) Value            { return Value{Kind: ValueBoolean, Bool: b} }
func Array(vs []Value) Value          { return Value{Kind: ValueArray, Arr: vs} }
func Object(m map[string]Value) Value { return Value{Kind: ValueObject, Obj: m} }
func Date(t time.Time) Value          { return Value{Kind: ValueDate, Date: t} }

// FromAny converts a plain Go value (as produced by a JSON-decoded request
// body, for instance) into a Value. It is the inverse of Value.Any.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Empty
	case string:
		return String(x)
	case int:
		return Integer(int64(x))
	case int64:
		return Integer(x)
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case bool:
		return Boolean(x)
	case time.Time:
		return Date(x)
	case []any:
		arr := make([]Value, len(x))
		for i, e := range x {
			arr[i] = FromAny(e)
		}
		return Array(arr)
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			obj[k] = FromAny(e)
		}
		return Object(obj)
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// Any converts a Value back into a plain Go value suitable for JSON
// marshaling by a response-shaping collaborator.
func (v Value) Any() any {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueInteger:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueBoolean:
		return v.Bool
	case ValueDate:
		return v.Date
	case ValueArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = e.Any()
		}
		return out
	case ValueObject:
		out := make(map[string]any, len(v.Obj))
		for k, e := range v.Obj {
			out[k] = e.Any()
		}
		return out
	default:
		return nil
	}
}

// Properties is the property map attached to nodes, edges, and vectors.
type Properties map[string]Value

// Clone returns a deep-enough copy for safe mutation without aliasing the
// original map (Value itself is immutable once constructed, so only the
// map needs copying).
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge patches src into a clone of p, overwriting any keys present in
// src, and returns the result. Used by the traversal `update` adapter
// (spec.md §4.3: "patch-merges into existing property map").
func (p Properties) Merge(src Properties) Properties {
	out := p.Clone()
	if out == nil {
		out = make(Properties, len(src))
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
