// Package document defines the read-only capability the solver evaluates
// expressions against (spec.md §3's Document/Value model): a dotted
// field-path lookup over a tree of scalars, arrays and nested objects.
// Loading a document from JSON/YAML/whatever wire format is an external
// collaborator's job (spec.md §1) -- this package only defines the shape
// and the coercions the solver needs.
package document

import (
	"github.com/spf13/cast"
)

// Document is the capability the solver needs: look up a dotted field path
// and get back a Value, or learn that nothing is there. The dotted-path
// syntax itself (how "a.b.c" is split, whether array indices are
// supported) is inherited from the concrete Document implementation, not
// specified here -- this mirrors spec.md §6's "dotted field-path syntax
// ... is inherited from the document collaborator".
type Document interface {
	Find(path string) (Value, bool)
}

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// Value is the sum type every Document field resolves to.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	arr    []Value
	object Document
}

func Null() Value                 { return Value{kind: KindNull} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func Int(i int64) Value           { return Value{kind: KindInt, i: i} }
func FloatVal(f float64) Value    { return Value{kind: KindFloat, f: f} }
func String(s string) Value       { return Value{kind: KindString, s: s} }
func Array(vs []Value) Value      { return Value{kind: KindArray, arr: vs} }
func Object(d Document) Value     { return Value{kind: KindObject, object: d} }

// Kind reports the variant held.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean value and whether v actually held one.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsString returns the string value and whether v actually held one.
// Unlike ToString, this does not coerce -- only a KindString value
// satisfies it (used by Search dispatch, spec.md §4.2.4, which without a
// cast only matches "a string value" or "an array of strings", not a
// stringified int).
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsArray returns the array elements and whether v actually held an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns the sub-document and whether v actually held an object.
func (v Value) AsObject() (Document, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.object, true
}

// ToInt64 coerces v to an int64 for BooleanExpression comparisons
// (spec.md §4.2.2). Bools, floats and numeric strings all coerce; anything
// else does not. Uses spf13/cast, the teacher's own scalar-coercion
// dependency (go.mod's github.com/spf13/cast, non-indirect).
func (v Value) ToInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int64(v.f), true
	case KindString:
		i, err := cast.ToInt64E(v.s)
		if err != nil {
			return 0, false
		}
		return i, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ToString coerces v to a string for Cast(path, Str) comparisons
// (spec.md §4.2.2). Unlike AsString, this stringifies scalars too.
func (v Value) ToString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindInt:
		return cast.ToString(v.i), true
	case KindFloat:
		return cast.ToString(v.f), true
	case KindBool:
		return cast.ToString(v.b), true
	default:
		return "", false
	}
}
