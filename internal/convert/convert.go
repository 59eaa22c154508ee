// Package convert implements the Converter registry (§4.3, §9): a runtime,
// host-extensible set of value coercion rules, tried most-recently-
// registered-first.
//
// DWScript itself has no equivalent of this — its implicit conversions are
// baked into the static type checker at compile time (see the now-deleted
// `internal/semantic` package). This registry is grounded instead on the
// general "most specific wins, tried in registration order" dispatch shape
// the teacher uses for its lexer's `tokenHandlers` map
// (`internal/lexer/lexer.go`), adapted from a fixed compile-time table to a
// runtime, prepend-ordered slice so a host can layer its own conversions
// over the built-ins.
package convert

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cwbudde/exprlang/internal/value"
)

// Func attempts to convert v to the target Kind. It returns ok=false when
// this particular converter does not apply to v's kind, letting the
// registry fall through to the next one; a converter that does apply but
// fails (e.g. non-numeric string to Number) returns an error.
type Func func(v value.Value, target value.Kind) (result value.Value, ok bool, err error)

// Registry holds an ordered list of Funcs, most recently registered first
// (§4.3 — "last-registered wins").
type Registry struct {
	funcs []Func
}

// NewRegistry creates a Registry seeded with the built-in conversions.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(builtinConversions)
	return r
}

// Register prepends fn so it is tried before every previously registered
// converter.
func (r *Registry) Register(fn Func) {
	r.funcs = append([]Func{fn}, r.funcs...)
}

// Convert tries each registered Func in order until one applies. Returns an
// error carrying both kinds when no converter applies or the first
// applicable one fails.
func (r *Registry) Convert(v value.Value, target value.Kind) (value.Value, error) {
	if v.Kind() == target {
		return v, nil
	}
	for _, fn := range r.funcs {
		result, ok, err := fn(v, target)
		if !ok {
			continue
		}
		if err != nil {
			return value.Value{}, err
		}
		return result, nil
	}
	return value.Value{}, fmt.Errorf("no conversion from %s to %s", v.Kind(), target)
}

// builtinConversions implements the engine's default coercion rules: Number
// <-> String, Bool <-> String, Null -> anything (defaults), DateTime <->
// String (RFC3339).
func builtinConversions(v value.Value, target value.Kind) (value.Value, bool, error) {
	if v.Kind() == value.KindNull {
		return nullDefault(target), true, nil
	}

	switch target {
	case value.KindString:
		return value.String(v.String()), true, nil
	case value.KindNumber:
		if v.Kind() == value.KindString {
			d, err := decimal.NewFromString(strings.TrimSpace(v.AsString()))
			if err != nil {
				return value.Value{}, true, fmt.Errorf("cannot convert %q to Number: %w", v.AsString(), err)
			}
			return value.Number(d), true, nil
		}
		if v.Kind() == value.KindBool {
			if v.AsBool() {
				return value.NumberFromInt(1), true, nil
			}
			return value.NumberFromInt(0), true, nil
		}
	case value.KindBool:
		if v.Kind() == value.KindString {
			b, err := strconv.ParseBool(strings.TrimSpace(v.AsString()))
			if err != nil {
				return value.Value{}, true, fmt.Errorf("cannot convert %q to Bool: %w", v.AsString(), err)
			}
			return value.Bool(b), true, nil
		}
		if v.Kind() == value.KindNumber {
			return value.Bool(!v.AsNumber().IsZero()), true, nil
		}
	case value.KindDateTime:
		if v.Kind() == value.KindString {
			t, err := time.Parse(time.RFC3339, strings.TrimSpace(v.AsString()))
			if err != nil {
				return value.Value{}, true, fmt.Errorf("cannot convert %q to DateTime: %w", v.AsString(), err)
			}
			return value.DateTime(t), true, nil
		}
	}
	return value.Value{}, false, nil
}

// nullDefault returns the §4.4 "null defaulting" zero value for each kind:
// Null converts to the target's default rather than erroring.
func nullDefault(target value.Kind) value.Value {
	switch target {
	case value.KindBool:
		return value.Bool(false)
	case value.KindNumber:
		return value.NumberFromInt(0)
	case value.KindString:
		return value.String("")
	case value.KindDateTime:
		return value.DateTime(time.Time{})
	default:
		return value.Null
	}
}
