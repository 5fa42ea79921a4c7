package msgpacklite

import (
	"errors"
	"math"
)

var ErrTypeMismatch = errors.New("value accessor used on wrong variant")

// Kind discriminates the active variant of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
)

// String returns the kind name, for error messages and debugging.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	}
	return "invalid"
}

// MapEntry is one key/value pair of a map Value. Entries keep the order in
// which they were added, so encoding a decoded map reproduces the original
// entry order.
type MapEntry struct {
	Key   string
	Value Value
}

// Value is a tagged union holding exactly one of: nil, bool, int64, float64,
// string, array of Value, or map from string to Value. The zero Value is nil.
//
// Values form finite trees: arrays and maps own their children and never
// contain back-references.
type Value struct {
	kind    Kind
	boolVal bool
	intVal  int64
	fltVal  float64
	strVal  string
	arr     []Value
	entries []MapEntry
}

// nilValue is the shared sentinel returned by lookups on absent paths.
var nilValue = Value{kind: KindNil}

// Nil returns the nil Value.
func Nil() Value { return nilValue }

// Bool returns a bool Value.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, intVal: v} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, fltVal: f} }

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindString, strVal: s} }

// NewArray returns an array Value holding the given elements.
func NewArray(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// NewMap returns a map Value holding the given entries in order. A repeated
// key keeps its first position and takes the last value.
func NewMap(entries ...MapEntry) Value {
	v := Value{kind: KindMap, entries: make([]MapEntry, 0, len(entries))}
	for _, e := range entries {
		v.entries = putEntry(v.entries, e.Key, e.Value)
	}
	return v
}

// putEntry appends or replaces the entry for key, keeping keys unique.
func putEntry(entries []MapEntry, key string, val Value) []MapEntry {
	for i := range entries {
		if entries[i].Key == key {
			entries[i].Value = val
			return entries
		}
	}
	return append(entries, MapEntry{Key: key, Value: val})
}

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) IsBool() bool { return v.kind == KindBool }

func (v Value) IsInt() bool { return v.kind == KindInt }

func (v Value) IsFloat() bool { return v.kind == KindFloat }

func (v Value) IsString() bool { return v.kind == KindString }

func (v Value) IsArray() bool { return v.kind == KindArray }

func (v Value) IsMap() bool { return v.kind == KindMap }

// Bool returns the bool payload, or ErrTypeMismatch for any other variant.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, ErrTypeMismatch
	}
	return v.boolVal, nil
}

// Int returns the integer payload, or ErrTypeMismatch for any other variant.
func (v Value) Int() (int64, error) {
	if v.kind != KindInt {
		return 0, ErrTypeMismatch
	}
	return v.intVal, nil
}

// Float returns the float payload. An integer Value is widened to float64;
// this is the only cross-variant coercion the model allows.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.fltVal, nil
	case KindInt:
		return float64(v.intVal), nil
	}
	return 0, ErrTypeMismatch
}

// Str returns the string payload, or ErrTypeMismatch for any other variant.
func (v Value) Str() (string, error) {
	if v.kind != KindString {
		return "", ErrTypeMismatch
	}
	return v.strVal, nil
}

// Array returns the element slice, or ErrTypeMismatch for any other variant.
func (v Value) Array() ([]Value, error) {
	if v.kind != KindArray {
		return nil, ErrTypeMismatch
	}
	return v.arr, nil
}

// Map returns the entry slice, or ErrTypeMismatch for any other variant.
func (v Value) Map() ([]MapEntry, error) {
	if v.kind != KindMap {
		return nil, ErrTypeMismatch
	}
	return v.entries, nil
}

// Len returns the number of elements of an array or entries of a map, and 0
// for every other variant.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindMap:
		return len(v.entries)
	}
	return 0
}

// Has reports whether v is a map containing key.
func (v Value) Has(key string) bool {
	if v.kind != KindMap {
		return false
	}
	for i := range v.entries {
		if v.entries[i].Key == key {
			return true
		}
	}
	return false
}

// Get returns the map value for key. Lookups on a non-map, or for a missing
// key, return the nil Value, so chained lookups over possibly-absent paths
// need no presence checks.
func (v Value) Get(key string) Value {
	if v.kind != KindMap {
		return nilValue
	}
	for i := range v.entries {
		if v.entries[i].Key == key {
			return v.entries[i].Value
		}
	}
	return nilValue
}

// Index returns the array element at i, or the nil Value when v is not an
// array or i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nilValue
	}
	return v.arr[i]
}

// Equal reports structural equality: the same variant with recursively equal
// contents. Floats compare by IEEE 754 bit pattern, so NaN equals an
// identical NaN and 0.0 differs from -0.0. Maps compare by key set
// regardless of entry order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt:
		return v.intVal == o.intVal
	case KindFloat:
		return math.Float64bits(v.fltVal) == math.Float64bits(o.fltVal)
	case KindString:
		return v.strVal == o.strVal
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			e := v.entries[i]
			if !o.Has(e.Key) || !e.Value.Equal(o.Get(e.Key)) {
				return false
			}
		}
		return true
	}
	return false
}
