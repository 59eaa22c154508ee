package eval

import (
	"golang.org/x/text/cases"

	"github.com/shopspring/decimal"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/token"
	"github.com/cwbudde/exprlang/internal/value"
)

var foldCaser = cases.Fold()

// evalEquality implements `==`/`!=` per the configured EqualityCoercion
// (§4.4, §9 Open Question 1: `'1' == 1` under Strict is a string
// comparison, not a type error).
func (e *Evaluator) evalEquality(b *ast.BinaryExpr, sc *scope, bud *budget) (value.Value, error) {
	left, err := e.evalExpr(b.Left, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.evalExpr(b.Right, sc, bud)
	if err != nil {
		return value.Value{}, err
	}

	eq, err := e.valuesEqual(left, right, b.Pos())
	if err != nil {
		return value.Value{}, err
	}
	if b.Operator == "!=" {
		return value.Bool(!eq), nil
	}
	return value.Bool(eq), nil
}

// valuesEqual compares left and right for `==`. When both share a Kind, the
// comparison never consults EqualityCoercion at all — Strings compare per
// StringComparison and everything else compares by value. Coercion only
// applies across differing Kinds, per mode (§4.4, §8 scenario 4).
func (e *Evaluator) valuesEqual(left, right value.Value, pos token.Position) (bool, error) {
	if left.Kind() == right.Kind() {
		if left.Kind() == value.KindString {
			return e.stringsEqual(left.AsString(), right.AsString()), nil
		}
		return value.Equal(left, right), nil
	}

	switch e.opts.EqualityCoercion {
	case Strict:
		// Stringify both sides unconditionally and compare as strings.
		return e.stringsEqual(left.String(), right.String()), nil

	case NumberFriendly:
		if ln, lok := tryDecimal(left); lok {
			if rn, rok := tryDecimal(right); rok {
				return ln.Equal(rn), nil
			}
		}
		if left.Kind() == value.KindString || right.Kind() == value.KindString {
			return e.stringsEqual(left.String(), right.String()), nil
		}
		return false, errors.New(errors.CodeTypeMismatch, pos, "cannot compare mismatched types for equality")

	case Permissive:
		if ln, lok := tryDecimal(left); lok {
			if rn, rok := tryDecimal(right); rok {
				return ln.Equal(rn), nil
			}
		}
		return e.stringsEqual(left.String(), right.String()), nil

	case MixedNumericOnly:
		// Two Strings never reach here (handled by the same-Kind branch
		// above). A String paired with a Number attempts numeric coercion
		// of the string operand, falling back to string comparison.
		if left.Kind() == value.KindNumber && right.Kind() == value.KindString {
			if rn, ok := tryDecimal(right); ok {
				return left.AsNumber().Equal(rn), nil
			}
			return e.stringsEqual(left.String(), right.String()), nil
		}
		if left.Kind() == value.KindString && right.Kind() == value.KindNumber {
			if ln, ok := tryDecimal(left); ok {
				return ln.Equal(right.AsNumber()), nil
			}
			return e.stringsEqual(left.String(), right.String()), nil
		}
		return false, errors.New(errors.CodeTypeMismatch, pos, "cannot compare mismatched types for equality")
	}
	return false, nil
}

func tryDecimal(v value.Value) (decimal.Decimal, bool) {
	if v.Kind() == value.KindNumber {
		return v.AsNumber(), true
	}
	if v.Kind() == value.KindString {
		d, err := decimal.NewFromString(v.AsString())
		if err == nil {
			return d, true
		}
	}
	return decimal.Decimal{}, false
}

func (e *Evaluator) stringsEqual(a, b string) bool {
	if e.opts.StringComparison == IgnoreCaseStringComparison {
		return foldCaser.String(a) == foldCaser.String(b)
	}
	return a == b
}

// evalRelational implements `<`, `<=`, `>`, `>=` over Number, String (by
// StringComparison), and DateTime operands.
func (e *Evaluator) evalRelational(b *ast.BinaryExpr, sc *scope, bud *budget) (value.Value, error) {
	left, err := e.evalExpr(b.Left, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.evalExpr(b.Right, sc, bud)
	if err != nil {
		return value.Value{}, err
	}

	var cmp int
	switch {
	case left.Kind() == value.KindNumber && right.Kind() == value.KindNumber:
		cmp = left.AsNumber().Cmp(right.AsNumber())
	case left.Kind() == value.KindString && right.Kind() == value.KindString:
		ls, rs := left.AsString(), right.AsString()
		if e.opts.StringComparison == IgnoreCaseStringComparison {
			ls, rs = foldCaser.String(ls), foldCaser.String(rs)
		}
		switch {
		case ls < rs:
			cmp = -1
		case ls > rs:
			cmp = 1
		default:
			cmp = 0
		}
	case left.Kind() == value.KindDateTime && right.Kind() == value.KindDateTime:
		switch {
		case left.AsDateTime().Before(right.AsDateTime()):
			cmp = -1
		case left.AsDateTime().After(right.AsDateTime()):
			cmp = 1
		default:
			cmp = 0
		}
	default:
		return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Pos(),
			"relational operators require matching Number, String, or DateTime operands")
	}

	switch b.Operator {
	case "<":
		return value.Bool(cmp < 0), nil
	case "<=":
		return value.Bool(cmp <= 0), nil
	case ">":
		return value.Bool(cmp > 0), nil
	case ">=":
		return value.Bool(cmp >= 0), nil
	}
	return value.Value{}, errors.New(errors.CodeTypeMismatch, b.Pos(), "unknown relational operator "+b.Operator)
}
