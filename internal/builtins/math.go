package builtins

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/value"
)

func registerMathFuncs(reg *function.Registry) {
	reg.Register("Abs", Abs)
	reg.Register("Round", Round)
	reg.Register("Floor", Floor)
	reg.Register("Ceil", Ceil)
	reg.Register("Min", Min)
	reg.Register("Max", Max)
	reg.Register("Pow", Pow)
	reg.Register("ToDecimal", ToDecimal)
	reg.Register("Sum", Sum)
	reg.Register("Average", Average)
}

// ToDecimal converts a String or Bool argument to Number (§6). A Number
// argument passes through unchanged.
func ToDecimal(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "ToDecimal expects 1 argument, got %d", len(args))
	}
	switch args[0].Kind() {
	case value.KindNumber:
		return args[0], nil
	case value.KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(args[0].AsString()))
		if err != nil {
			return value.Value{}, ctx.NewError(errors.CodeConversionFailed, "ToDecimal: cannot convert %q to Number", args[0].AsString())
		}
		return value.Number(d), nil
	case value.KindBool:
		if args[0].AsBool() {
			return value.NumberFromInt(1), nil
		}
		return value.NumberFromInt(0), nil
	default:
		return value.Value{}, ctx.NewError(errors.CodeTypeMismatch, "ToDecimal: argument 1 is not convertible to Number")
	}
}

// Sum adds any number of Number arguments (zero arguments sums to 0).
func Sum(ctx function.Context, args []value.Value) (value.Value, error) {
	total := decimal.Zero
	for i := range args {
		n, err := argNumber(ctx, args, i, "Sum")
		if err != nil {
			return value.Value{}, err
		}
		total = total.Add(n)
	}
	return value.Number(total), nil
}

// Average returns the arithmetic mean of at least one Number argument.
func Average(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "Average expects at least 1 argument, got 0")
	}
	total := decimal.Zero
	for i := range args {
		n, err := argNumber(ctx, args, i, "Average")
		if err != nil {
			return value.Value{}, err
		}
		total = total.Add(n)
	}
	return value.Number(total.Div(decimal.NewFromInt(int64(len(args))))), nil
}

// Abs returns the absolute value of a Number argument.
func Abs(ctx function.Context, args []value.Value) (value.Value, error) {
	n, err := argNumber(ctx, args, 0, "Abs")
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(n.Abs()), nil
}

// Round rounds a Number argument to the number of decimal places given by
// an optional second argument (to the nearest integer when omitted), half
// away from zero (decimal.Decimal.Round uses half-up, matching common spreadsheet
// rounding conventions rather than banker's rounding).
func Round(ctx function.Context, args []value.Value) (value.Value, error) {
	n, err := argNumber(ctx, args, 0, "Round")
	if err != nil {
		return value.Value{}, err
	}
	places := int32(0)
	if len(args) == 2 {
		p, perr := argNumber(ctx, args, 1, "Round")
		if perr != nil {
			return value.Value{}, perr
		}
		places = int32(p.IntPart())
	}
	return value.Number(n.Round(places)), nil
}

// Floor rounds a Number argument down toward negative infinity.
func Floor(ctx function.Context, args []value.Value) (value.Value, error) {
	n, err := argNumber(ctx, args, 0, "Floor")
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(n.Floor()), nil
}

// Ceil rounds a Number argument up toward positive infinity.
func Ceil(ctx function.Context, args []value.Value) (value.Value, error) {
	n, err := argNumber(ctx, args, 0, "Ceil")
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(n.Ceil()), nil
}

// Min returns the smaller of two Number arguments.
func Min(ctx function.Context, args []value.Value) (value.Value, error) {
	a, b, err := argNumberPair(ctx, args, "Min")
	if err != nil {
		return value.Value{}, err
	}
	if a.Cmp(b) <= 0 {
		return value.Number(a), nil
	}
	return value.Number(b), nil
}

// Max returns the larger of two Number arguments.
func Max(ctx function.Context, args []value.Value) (value.Value, error) {
	a, b, err := argNumberPair(ctx, args, "Max")
	if err != nil {
		return value.Value{}, err
	}
	if a.Cmp(b) >= 0 {
		return value.Number(a), nil
	}
	return value.Number(b), nil
}

// Pow raises the first Number argument to the power of the second.
func Pow(ctx function.Context, args []value.Value) (value.Value, error) {
	a, b, err := argNumberPair(ctx, args, "Pow")
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(a.Pow(b)), nil
}

func argNumber(ctx function.Context, args []value.Value, i int, fn string) (decimal.Decimal, error) {
	if i >= len(args) {
		return decimal.Decimal{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "%s: missing argument %d", fn, i+1)
	}
	if args[i].Kind() != value.KindNumber {
		return decimal.Decimal{}, ctx.NewError(errors.CodeTypeMismatch, "%s: argument %d is not a Number", fn, i+1)
	}
	return args[i].AsNumber(), nil
}

func argNumberPair(ctx function.Context, args []value.Value, fn string) (decimal.Decimal, decimal.Decimal, error) {
	if len(args) != 2 {
		return decimal.Decimal{}, decimal.Decimal{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "%s expects 2 arguments, got %d", fn, len(args))
	}
	a, err := argNumber(ctx, args, 0, fn)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	b, err := argNumber(ctx, args, 1, fn)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return a, b, nil
}
