package eval

import (
	"github.com/shopspring/decimal"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/token"
	"github.com/cwbudde/exprlang/internal/value"
)

// evalBinary dispatches a BinaryExpr by operator. `||` and `&&` short-
// circuit (§4.4 — the right operand is never evaluated, and never counted
// against the node-visit budget, when the left operand already determines
// the result), every other operator evaluates both sides first.
func (e *Evaluator) evalBinary(b *ast.BinaryExpr, sc *scope, bud *budget) (value.Value, error) {
	switch b.Operator {
	case "||":
		return e.evalOr(b, sc, bud)
	case "&&":
		return e.evalAnd(b, sc, bud)
	case "==", "!=":
		return e.evalEquality(b, sc, bud)
	case "<", "<=", ">", ">=":
		return e.evalRelational(b, sc, bud)
	case "+", "-", "*", "/", "%":
		return e.evalArithmetic(b, sc, bud)
	}
	return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Pos(), "unknown operator "+b.Operator)
}

func (e *Evaluator) evalOr(b *ast.BinaryExpr, sc *scope, bud *budget) (value.Value, error) {
	left, err := e.evalExpr(b.Left, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	lt, ok := left.Truthy()
	if !ok {
		return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Left.Pos(), "'||' requires Bool operands")
	}
	if lt {
		return value.Bool(true), nil // short-circuit: right is never evaluated
	}
	right, err := e.evalExpr(b.Right, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	rt, ok := right.Truthy()
	if !ok {
		return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Right.Pos(), "'||' requires Bool operands")
	}
	return value.Bool(rt), nil
}

func (e *Evaluator) evalAnd(b *ast.BinaryExpr, sc *scope, bud *budget) (value.Value, error) {
	left, err := e.evalExpr(b.Left, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	lt, ok := left.Truthy()
	if !ok {
		return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Left.Pos(), "'&&' requires Bool operands")
	}
	if !lt {
		return value.Bool(false), nil // short-circuit
	}
	right, err := e.evalExpr(b.Right, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	rt, ok := right.Truthy()
	if !ok {
		return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Right.Pos(), "'&&' requires Bool operands")
	}
	return value.Bool(rt), nil
}

func (e *Evaluator) evalArithmetic(b *ast.BinaryExpr, sc *scope, bud *budget) (value.Value, error) {
	left, err := e.evalExpr(b.Left, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.evalExpr(b.Right, sc, bud)
	if err != nil {
		return value.Value{}, err
	}

	// String '+' is concatenation, matching the common scripting-language
	// overload of '+' (§4.4); every other arithmetic operator requires
	// Number on both sides.
	if b.Operator == "+" && (left.Kind() == value.KindString || right.Kind() == value.KindString) {
		if e.opts.StringConcat == PreferNumericIfParsable {
			if ln, lok := tryDecimal(left); lok {
				if rn, rok := tryDecimal(right); rok {
					return value.Number(ln.Add(rn)), nil
				}
			}
		}
		ls, err := e.stringOf(left, b.Left.Pos())
		if err != nil {
			return value.Value{}, err
		}
		rs, err := e.stringOf(right, b.Right.Pos())
		if err != nil {
			return value.Value{}, err
		}
		return value.String(ls + rs), nil
	}

	ln, err := e.numberOf(left, b.Left.Pos())
	if err != nil {
		return value.Value{}, err
	}
	rn, err := e.numberOf(right, b.Right.Pos())
	if err != nil {
		return value.Value{}, err
	}

	switch b.Operator {
	case "+":
		return value.Number(ln.Add(rn)), nil
	case "-":
		return value.Number(ln.Sub(rn)), nil
	case "*":
		return value.Number(ln.Mul(rn)), nil
	case "/":
		if rn.IsZero() {
			return value.Value{}, errors.New(errors.CodeDivisionByZero, b.Pos(), "division by zero")
		}
		return value.Number(ln.Div(rn)), nil
	case "%":
		if rn.IsZero() {
			return value.Value{}, errors.New(errors.CodeModuloByZero, b.Pos(), "modulo by zero")
		}
		return value.Number(ln.Mod(rn)), nil
	}
	return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Pos(), "unknown arithmetic operator "+b.Operator)
}

func (e *Evaluator) numberOf(v value.Value, pos token.Position) (decimal.Decimal, error) {
	if v.Kind() == value.KindNumber {
		return v.AsNumber(), nil
	}
	converted, err := e.converters.Convert(v, value.KindNumber)
	if err != nil {
		return decimal.Decimal{}, errors.New(errors.CodeTypeMismatch, pos, err.Error())
	}
	return converted.AsNumber(), nil
}

// stringOf stringifies v for concatenation's default-stringification
// fallback. A Null operand emits an empty string when
// Options.TreatNullStringAsEmpty is set; otherwise it falls through to the
// converter registry's own (always-on) null-to-empty-string default (§4.4,
// §6 — TreatNullStringAsEmpty governs concatenation specifically, not
// typed field reads, which have their own unconditional null-to-empty rule
// in evalField).
func (e *Evaluator) stringOf(v value.Value, pos token.Position) (string, error) {
	if v.Kind() == value.KindString {
		return v.AsString(), nil
	}
	if v.IsNull() && e.opts.TreatNullStringAsEmpty {
		return "", nil
	}
	converted, err := e.converters.Convert(v, value.KindString)
	if err != nil {
		return "", errors.New(errors.CodeTypeMismatch, pos, err.Error())
	}
	return converted.AsString(), nil
}
