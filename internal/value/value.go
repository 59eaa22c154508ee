// Package value defines the engine's runtime value representation: a
// tagged variant over Null, Bool, Number, String, and DateTime (§3 Value).
//
// Deliberately NOT an interface-per-kind design (the teacher's own
// `interp.Value` interface with `IntegerValue`/`FloatValue`/`StringValue`/
// `BooleanValue` implementations) nor a generic `any` box: §9's design note
// calls for "a tagged variant... do not use a generic object box" so every
// call site switches on a closed Kind rather than doing interface type
// assertions. Number is `shopspring/decimal.Decimal`, an exact
// scale-preserving decimal, not float64 — the teacher's own Number split
// (int64/float64) cannot represent "96-128 bit scale-preserving decimal"
// from §3, so this is the one place the engine departs from the teacher's
// own runtime value shape.
package value

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which field of a Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindDateTime:
		return "DateTime"
	}
	return "Unknown"
}

// Value is an immutable, copyable tagged union of the engine's five value
// kinds.
type Value struct {
	kind Kind
	b    bool
	n    decimal.Decimal
	s    string
	t    time.Time
}

// Null is the singleton null value.
var Null = Value{kind: KindNull}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number constructs a Number value from a decimal.Decimal.
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, n: d} }

// NumberFromInt constructs a Number value from an int64.
func NumberFromInt(i int64) Value { return Value{kind: KindNumber, n: decimal.NewFromInt(i)} }

// NumberFromFloat constructs a Number value from a float64. The evaluator's
// arithmetic operators never round-trip through float64; built-ins that
// compute in float64 (such as TimeSpan) use this to return their result.
func NumberFromFloat(f float64) Value { return Value{kind: KindNumber, n: decimal.NewFromFloat(f)} }

// String constructs a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// DateTime constructs a DateTime value.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the Bool payload; only meaningful when Kind() == KindBool.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the Number payload; only meaningful when Kind() == KindNumber.
func (v Value) AsNumber() decimal.Decimal { return v.n }

// AsString returns the String payload; only meaningful when Kind() == KindString.
func (v Value) AsString() string { return v.s }

// AsDateTime returns the DateTime payload; only meaningful when Kind() == KindDateTime.
func (v Value) AsDateTime() time.Time { return v.t }

// String renders a Value for diagnostics and implicit string coercion.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindDateTime:
		return v.t.Format(time.RFC3339)
	}
	return fmt.Sprintf("<unknown kind %d>", v.kind)
}

// Truthy implements the engine's boolean-coercion rule for conditions
// (§4.4): Bool values are used directly, Null is always false, every other
// kind is an evaluation error the caller must raise explicitly — Truthy
// itself never fabricates a result for those, it returns false, ok=false so
// the evaluator can surface a TypeMismatch.
func (v Value) Truthy() (result bool, ok bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindNull:
		return false, true
	default:
		return false, false
	}
}

// Equal implements raw structural equality between two values of the same
// Kind. Cross-kind comparisons are handled by internal/eval's equality
// coercion modes (§4.4, §9 Open Question 1), not here.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n.Equal(b.n)
	case KindString:
		return a.s == b.s
	case KindDateTime:
		return a.t.Equal(b.t)
	}
	return false
}
