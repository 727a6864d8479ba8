package models

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindOther Kind = iota
	KindSequence
	KindMapping
	KindBool
	KindInt
	KindFloat
	KindStr
)

// String returns the short label used when rendering a value of this kind.
func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "List"
	case KindMapping:
		return "Dict"
	case KindBool:
		return "Bol"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Flt"
	case KindStr:
		return "Str"
	default:
		return "Other"
	}
}

// Member is a single key/value entry of a mapping.
type Member struct {
	Key   string
	Value Value
}

// Value is a node of a parsed document. Exactly one of the payload fields
// is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	Items   []Value  // KindSequence
	Members []Member // KindMapping
	Bool    bool     // KindBool
	Text    string   // KindInt and KindFloat literal, KindStr content
	Float   float64  // KindFloat
	Raw     any      // KindOther
}

// Sequence builds a sequence value.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindSequence, Items: items}
}

// Mapping builds a mapping value. Later members with a key that has
// already been seen replace the earlier value in place.
func Mapping(members ...Member) Value {
	out := make([]Member, 0, len(members))
	index := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		index[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{Kind: KindMapping, Members: out}
}

// Bool builds a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Int builds an integer value.
func Int(i int64) Value {
	return Value{Kind: KindInt, Text: strconv.FormatInt(i, 10)}
}

// IntLiteral builds an integer value from its decimal literal, which may
// exceed the range of int64.
func IntLiteral(literal string) Value {
	return Value{Kind: KindInt, Text: literal}
}

// Float builds a floating-point value.
func Float(f float64) Value {
	return Value{Kind: KindFloat, Float: f, Text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// FloatLiteral builds a floating-point value keeping its source literal in Text.
func FloatLiteral(literal string, f float64) Value {
	return Value{Kind: KindFloat, Float: f, Text: literal}
}

// Str builds a string value.
func Str(s string) Value {
	return Value{Kind: KindStr, Text: s}
}

// Null builds the value for a JSON null.
func Null() Value {
	return Value{Kind: KindOther}
}

// Other wraps any value that is not one of the recognised kinds.
func Other(raw any) Value {
	return Value{Kind: KindOther, Raw: raw}
}

// Len returns the number of elements of a sequence or members of a mapping.
func (v Value) Len() int {
	switch v.Kind {
	case KindSequence:
		return len(v.Items)
	case KindMapping:
		return len(v.Members)
	default:
		return 0
	}
}

// IsInline reports whether a mapping member holding v is rendered on the
// same line as its key.
func (v Value) IsInline() bool {
	return v.Kind == KindInt || v.Kind == KindBool || v.Kind == KindStr
}

// TypeName describes the runtime type of v. For KindOther it is the Go type
// of the wrapped value, "<nil>" for a JSON null.
func (v Value) TypeName() string {
	if v.Kind == KindOther {
		return fmt.Sprintf("%T", v.Raw)
	}
	return v.Kind.String()
}

// Repr returns the literal form of a scalar value.
func (v Value) Repr() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return v.Text
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindStr:
		return strconv.Quote(v.Text)
	case KindOther:
		return fmt.Sprintf("%v", v.Raw)
	default:
		return v.Kind.String()
	}
}

// Document is a parsed input together with where it came from.
type Document struct {
	Root   Value
	Source string
}
