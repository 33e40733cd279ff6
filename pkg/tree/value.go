// Package tree defines the normalized, format-agnostic value model that
// semdiff operates on. Parsers for JSON, YAML and TOML all produce the same
// Value representation, so the diff engine never sees a source format.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of a Value.
type Kind string

const (
	KindNull   Kind = "null"
	KindBool   Kind = "boolean"
	KindNumber Kind = "number"
	KindString Kind = "string"
	KindArray  Kind = "array"
	KindObject Kind = "object"
)

// Value is one node in a normalized document tree. Exactly one of the
// payload fields is meaningful, selected by Kind. All source-format numbers
// (ints and floats alike) are normalized into Num so that 30 and 30.0
// compare equal. Values are treated as immutable once constructed.
type Value struct {
	Kind  Kind
	Bool  bool
	Num   float64
	Str   string
	Items []*Value
	Obj   *Object
}

// Object is an ordered string-keyed mapping with unique keys. Key order is
// preserved for display but never affects equality.
type Object struct {
	keys   []string
	fields map[string]*Value
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{fields: make(map[string]*Value)}
}

// Set inserts or replaces a key. Insertion order is kept; replacing an
// existing key keeps its original position.
func (o *Object) Set(key string, v *Value) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (*Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

func Null() *Value {
	return &Value{Kind: KindNull}
}

func Bool(b bool) *Value {
	return &Value{Kind: KindBool, Bool: b}
}

func Number(n float64) *Value {
	return &Value{Kind: KindNumber, Num: n}
}

func String(s string) *Value {
	return &Value{Kind: KindString, Str: s}
}

func Array(items ...*Value) *Value {
	return &Value{Kind: KindArray, Items: items}
}

// Field is a key/value pair for building object literals in order.
type Field struct {
	Key   string
	Value *Value
}

// ObjectOf builds an object value from ordered fields.
func ObjectOf(fields ...Field) *Value {
	obj := NewObject()
	for _, f := range fields {
		obj.Set(f.Key, f.Value)
	}
	return &Value{Kind: KindObject, Obj: obj}
}

// EqualOptions controls structural equality.
type EqualOptions struct {
	// IgnoreWhitespace normalizes strings (collapse whitespace runs to a
	// single space, trim ends) before comparing.
	IgnoreWhitespace bool
}

// Equal reports whether two values are structurally equal. Object key order
// is ignored; number equality is exact after the int→float normalization.
func Equal(a, b *Value, opts EqualOptions) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		if opts.IgnoreWhitespace {
			return NormalizeWhitespace(a.Str) == NormalizeWhitespace(b.Str)
		}
		return a.Str == b.Str
	case KindArray:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i], opts) {
				return false
			}
		}
		return true
	case KindObject:
		if a.Obj.Len() != b.Obj.Len() {
			return false
		}
		for _, key := range a.Obj.Keys() {
			av, _ := a.Obj.Get(key)
			bv, ok := b.Obj.Get(key)
			if !ok || !Equal(av, bv, opts) {
				return false
			}
		}
		return true
	}
	return false
}

// NormalizeWhitespace collapses every run of whitespace to a single space
// and trims leading/trailing whitespace.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Preview returns a short human-readable rendering of the value, truncated
// to maxLen with a trailing ellipsis. Containers render as size summaries.
func (v *Value) Preview(maxLen int) string {
	var preview string
	switch v.Kind {
	case KindNull:
		preview = "null"
	case KindBool:
		preview = strconv.FormatBool(v.Bool)
	case KindNumber:
		preview = formatNumber(v.Num)
	case KindString:
		preview = `"` + v.Str + `"`
	case KindObject:
		switch n := v.Obj.Len(); n {
		case 0:
			preview = "{}"
		case 1:
			preview = "{ 1 key }"
		default:
			preview = fmt.Sprintf("{ %d keys }", n)
		}
	case KindArray:
		switch n := len(v.Items); n {
		case 0:
			preview = "[]"
		case 1:
			preview = "[ 1 item ]"
		default:
			preview = fmt.Sprintf("[ %d items ]", n)
		}
	}

	if len(preview) > maxLen {
		cut := maxLen - 3
		if cut < 0 {
			cut = 0
		}
		return preview[:cut] + "..."
	}
	return preview
}

// MarshalJSON renders the value as native JSON, preserving object key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.Bool)), nil
	case KindNumber:
		return []byte(formatNumber(v.Num)), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range v.Obj.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyData, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(keyData)
			buf.WriteByte(':')
			field, _ := v.Obj.Get(key)
			data, err := field.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown value kind %q", v.Kind)
}

// formatNumber renders whole numbers without a fractional part.
func formatNumber(n float64) string {
	if math.Trunc(n) == n && !math.IsInf(n, 0) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
