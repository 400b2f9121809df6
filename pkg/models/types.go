package models

import (
	"strconv"
)

// Value is a field value with a wire representation.
//
// The set of implementations is closed: Null, String, Int, Float, Bool, Array,
// Map, Date, GeoPoint, Pointer and RelationEdit. Encode returns the form that is
// handed to the JSON encoder.
type Value interface {
	Encode() any
	isValue()
}

// Null is the explicit null marker. A removed field holds Null so that it is
// sent as JSON null, which tells the service to clear it.
type Null struct{}

func (Null) Encode() any { return nil }
func (Null) isValue()    {}

type String string

func (s String) Encode() any { return string(s) }
func (String) isValue()      {}

type Int int64

func (i Int) Encode() any { return int64(i) }
func (Int) isValue()      {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (f Float) Encode() any { return float64(f) }
func (Float) isValue()      {}

type Bool bool

func (b Bool) Encode() any { return bool(b) }
func (Bool) isValue()      {}

type Array []Value

func (a Array) Encode() any {
	out := make([]any, 0, len(a))
	for _, v := range a {
		out = append(out, encodeOrNil(v))
	}
	return out
}
func (Array) isValue() {}

type Map map[string]Value

func (m Map) Encode() any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = encodeOrNil(v)
	}
	return out
}
func (Map) isValue() {}

// Strings builds an Array of String values.
func Strings(values ...string) Array {
	out := make(Array, 0, len(values))
	for _, v := range values {
		out = append(out, String(v))
	}
	return out
}

func encodeOrNil(v Value) any {
	if v == nil {
		return nil
	}
	return v.Encode()
}

// Encode returns the wire form of v, or nil when v is nil.
func Encode(v Value) any {
	return encodeOrNil(v)
}

// EncodeMap encodes every value of fields.
func EncodeMap(fields map[string]Value) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = encodeOrNil(v)
	}
	return out
}
