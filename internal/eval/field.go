package eval

import (
	"fmt"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/token"
	"github.com/cwbudde/exprlang/internal/value"
)

// evalField resolves a field reference — `[name]`, `[name:type]`, or a bare
// Identifier (equivalent to `[name]` with no type hint, §4.2) — against the
// scope's mutableFields (§3, §4.4 step 2). A field absent from
// mutableFields is UnknownField; it is never silently defaulted to Null.
func (e *Evaluator) evalField(name, typeHint string, pos token.Position, sc *scope) (value.Value, error) {
	v, ok, err := sc.lookupMutable(name)
	if err != nil {
		return value.Value{}, errors.New(errors.CodeInvalidFieldName, pos, err.Error())
	}
	if !ok {
		return value.Value{}, errors.New(errors.CodeUnknownField, pos, "unknown field "+name)
	}

	target, ok := e.effectiveTarget(typeHint, v)
	if !ok {
		return value.Value{}, errors.New(errors.CodeTypeMismatch, pos, fmt.Sprintf("unknown field type hint %q", typeHint))
	}

	if v.IsNull() {
		return e.nullDefaultFor(target, pos)
	}
	if v.Kind() == target {
		return v, nil
	}
	converted, cerr := e.converters.Convert(v, target)
	if cerr != nil {
		return value.Value{}, errors.New(errors.CodeConversionFailed, pos, cerr.Error())
	}
	return converted, nil
}

// effectiveTarget resolves the Kind a field read should produce (§4.4 step
// 3): an explicit type hint wins; otherwise a non-null value keeps its own
// Kind; a null value with no hint defaults to String.
func (e *Evaluator) effectiveTarget(typeHint string, v value.Value) (value.Kind, bool) {
	if typeHint == "" {
		if v.IsNull() {
			return value.KindString, true
		}
		return v.Kind(), true
	}
	return kindForTypeHint(typeHint)
}

// nullDefaultFor produces the default value a null field read resolves to
// for target (§4.4 step 4): String always defaults to empty; Number and
// Bool default only when the corresponding Options flag is set, else the
// read fails as ConversionError; DateTime always uses
// Options.NullDateTimeDefault.
func (e *Evaluator) nullDefaultFor(target value.Kind, pos token.Position) (value.Value, error) {
	switch target {
	case value.KindString:
		return value.String(""), nil
	case value.KindNumber:
		if e.opts.TreatNullDecimalAsZero {
			return value.NumberFromInt(0), nil
		}
		return value.Value{}, errors.New(errors.CodeConversionFailed, pos, "null field has no Number default")
	case value.KindBool:
		if e.opts.TreatNullBoolAsFalse {
			return value.Bool(false), nil
		}
		return value.Value{}, errors.New(errors.CodeConversionFailed, pos, "null field has no Bool default")
	case value.KindDateTime:
		return value.DateTime(e.opts.NullDateTimeDefault), nil
	}
	return value.Value{}, errors.New(errors.CodeConversionFailed, pos, "null field has no default for its target type")
}

func kindForTypeHint(hint string) (value.Kind, bool) {
	switch hint {
	case "number":
		return value.KindNumber, true
	case "string":
		return value.KindString, true
	case "bool", "boolean":
		return value.KindBool, true
	case "datetime":
		return value.KindDateTime, true
	}
	return value.KindNull, false
}
