// Date/time built-ins, grounded on CWBudde-go-dws's
// internal/builtins/datetime_calc.go (EncodeDate/date-arithmetic shape),
// re-typed against value.Value/time.Time instead of the teacher's
// runtime.IntegerValue.
package builtins

import (
	"strings"
	"time"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/value"
)

func registerDateTimeFuncs(reg *function.Registry) {
	reg.Register("DateAdd", DateAdd)
	reg.Register("DateDiffDays", DateDiffDays)
	reg.Register("Year", Year)
	reg.Register("Month", Month)
	reg.Register("Day", Day)
	reg.Register("ToDateTime", ToDateTime)
	reg.Register("FormatDateTime", FormatDateTime)
	reg.Register("AddDays", addDuration(24*time.Hour, "AddDays"))
	reg.Register("AddHours", addDuration(time.Hour, "AddHours"))
	reg.Register("AddMinutes", addDuration(time.Minute, "AddMinutes"))
	reg.Register("AddSeconds", addDuration(time.Second, "AddSeconds"))
	reg.Register("TimeSpan", TimeSpan)
}

// DateAdd(dt, days) adds an integer number of days (may be negative) to a
// DateTime argument.
func DateAdd(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "DateAdd expects 2 arguments, got %d", len(args))
	}
	dt, err := argDateTime(ctx, args, 0, "DateAdd")
	if err != nil {
		return value.Value{}, err
	}
	days, err := argNumber(ctx, args, 1, "DateAdd")
	if err != nil {
		return value.Value{}, err
	}
	return value.DateTime(dt.AddDate(0, 0, int(days.IntPart()))), nil
}

// DateDiffDays returns the whole number of days between two DateTime
// arguments (first minus second).
func DateDiffDays(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "DateDiffDays expects 2 arguments, got %d", len(args))
	}
	a, err := argDateTime(ctx, args, 0, "DateDiffDays")
	if err != nil {
		return value.Value{}, err
	}
	b, err := argDateTime(ctx, args, 1, "DateDiffDays")
	if err != nil {
		return value.Value{}, err
	}
	days := a.Sub(b).Hours() / 24
	return value.NumberFromInt(int64(days)), nil
}

// Year returns the calendar year of a DateTime argument.
func Year(ctx function.Context, args []value.Value) (value.Value, error) {
	dt, err := argDateTime(ctx, args, 0, "Year")
	if err != nil {
		return value.Value{}, err
	}
	return value.NumberFromInt(int64(dt.Year())), nil
}

// Month returns the calendar month (1-12) of a DateTime argument.
func Month(ctx function.Context, args []value.Value) (value.Value, error) {
	dt, err := argDateTime(ctx, args, 0, "Month")
	if err != nil {
		return value.Value{}, err
	}
	return value.NumberFromInt(int64(dt.Month())), nil
}

// Day returns the day-of-month of a DateTime argument.
func Day(ctx function.Context, args []value.Value) (value.Value, error) {
	dt, err := argDateTime(ctx, args, 0, "Day")
	if err != nil {
		return value.Value{}, err
	}
	return value.NumberFromInt(int64(dt.Day())), nil
}

func argDateTime(ctx function.Context, args []value.Value, i int, fn string) (time.Time, error) {
	if i >= len(args) {
		return time.Time{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "%s: missing argument %d", fn, i+1)
	}
	if args[i].Kind() != value.KindDateTime {
		return time.Time{}, ctx.NewError(errors.CodeTypeMismatch, "%s: argument %d is not a DateTime", fn, i+1)
	}
	return args[i].AsDateTime(), nil
}

// ToDateTime parses a String argument as RFC3339 into a DateTime (§6). A
// DateTime argument passes through unchanged.
func ToDateTime(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "ToDateTime expects 1 argument, got %d", len(args))
	}
	switch args[0].Kind() {
	case value.KindDateTime:
		return args[0], nil
	case value.KindString:
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(args[0].AsString()))
		if err != nil {
			return value.Value{}, ctx.NewError(errors.CodeConversionFailed, "ToDateTime: cannot parse %q as RFC3339", args[0].AsString())
		}
		return value.DateTime(t), nil
	default:
		return value.Value{}, ctx.NewError(errors.CodeTypeMismatch, "ToDateTime: argument 1 is not convertible to DateTime")
	}
}

// FormatDateTime(dt, layout) renders a DateTime argument using a Go
// reference-time layout string (e.g. "2006-01-02 15:04:05"), the stdlib
// time package's own formatting convention rather than a custom strftime
// dialect — kept since this package already represents DateTime as a plain
// time.Time (§6).
func FormatDateTime(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "FormatDateTime expects 2 arguments, got %d", len(args))
	}
	dt, err := argDateTime(ctx, args, 0, "FormatDateTime")
	if err != nil {
		return value.Value{}, err
	}
	layout, err := argString(ctx, args, 1, "FormatDateTime")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(dt.Format(layout)), nil
}

// addDuration builds an AddDays/AddHours/AddMinutes/AddSeconds built-in:
// AddX(dt, n) adds n*unit (n may be fractional or negative) to a DateTime
// argument.
func addDuration(unit time.Duration, name string) function.Func {
	return func(ctx function.Context, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "%s expects 2 arguments, got %d", name, len(args))
		}
		dt, err := argDateTime(ctx, args, 0, name)
		if err != nil {
			return value.Value{}, err
		}
		n, err := argNumber(ctx, args, 1, name)
		if err != nil {
			return value.Value{}, err
		}
		nf, _ := n.Float64()
		return value.DateTime(dt.Add(time.Duration(nf * float64(unit)))), nil
	}
}

// TimeSpan(a, b) returns the number of seconds, including any fractional
// part, between two DateTime arguments (first minus second), the general-purpose counterpart to
// DateDiffDays when sub-day precision matters (§6).
func TimeSpan(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "TimeSpan expects 2 arguments, got %d", len(args))
	}
	a, err := argDateTime(ctx, args, 0, "TimeSpan")
	if err != nil {
		return value.Value{}, err
	}
	b, err := argDateTime(ctx, args, 1, "TimeSpan")
	if err != nil {
		return value.Value{}, err
	}
	return value.NumberFromFloat(a.Sub(b).Seconds()), nil
}
