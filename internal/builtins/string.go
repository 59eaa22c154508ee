package builtins

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/value"
)

func registerStringFuncs(reg *function.Registry, regexTimeoutMillis int) {
	reg.Register("Len", Len)
	reg.Register("Trim", Trim)
	reg.Register("Upper", Upper)
	reg.Register("Lower", Lower)
	reg.Register("ToUpper", Upper)
	reg.Register("ToLower", Lower)
	reg.Register("Concat", Concat)
	reg.Register("Contains", Contains)
	reg.Register("StartsWith", StartsWith)
	reg.Register("EndsWith", EndsWith)
	reg.Register("Substring", Substring)
	reg.Register("Replace", Replace)
	reg.Register("ToString", ToString)

	timeout := time.Duration(regexTimeoutMillis) * time.Millisecond
	reg.Register("RegexMatch", regexMatch(timeout))
}

// ToString renders any Value as a String, using the same per-kind
// rendering Value.String already provides for messages and snapshots
// (§4.3, §6 — "ToString(v): the value's default string rendering").
// Coalesce/Iif/FieldExists are not here: they need scope/lazy-evaluation
// access a function.Func signature doesn't carry, so they are implemented
// as evaluator special forms (internal/eval/special.go) instead.
func ToString(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "ToString expects 1 argument, got %d", len(args))
	}
	return value.String(args[0].String()), nil
}

// Len returns the rune length of a String argument (§6 — "Len(s): number of
// characters, not bytes").
func Len(ctx function.Context, args []value.Value) (value.Value, error) {
	s, err := argString(ctx, args, 0, "Len")
	if err != nil {
		return value.Value{}, err
	}
	return value.NumberFromInt(int64(len([]rune(s)))), nil
}

// Trim strips leading and trailing whitespace from a String argument.
func Trim(ctx function.Context, args []value.Value) (value.Value, error) {
	s, err := argString(ctx, args, 0, "Trim")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.TrimSpace(s)), nil
}

// Upper returns the uppercased form of a String argument.
func Upper(ctx function.Context, args []value.Value) (value.Value, error) {
	s, err := argString(ctx, args, 0, "Upper")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToUpper(s)), nil
}

// Lower returns the lowercased form of a String argument.
func Lower(ctx function.Context, args []value.Value) (value.Value, error) {
	s, err := argString(ctx, args, 0, "Lower")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToLower(s)), nil
}

// Concat joins any number of String arguments.
func Concat(ctx function.Context, args []value.Value) (value.Value, error) {
	var sb strings.Builder
	for i, a := range args {
		if a.Kind() != value.KindString {
			return value.Value{}, ctx.NewError(errors.CodeTypeMismatch, "Concat: argument %d is not a String", i+1)
		}
		sb.WriteString(a.AsString())
	}
	return value.String(sb.String()), nil
}

// Contains reports whether the first String argument contains the second.
func Contains(ctx function.Context, args []value.Value) (value.Value, error) {
	s, substr, err := argStringPair(ctx, args, "Contains")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.Contains(s, substr)), nil
}

// StartsWith reports whether the first String argument starts with the second.
func StartsWith(ctx function.Context, args []value.Value) (value.Value, error) {
	s, prefix, err := argStringPair(ctx, args, "StartsWith")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.HasPrefix(s, prefix)), nil
}

// EndsWith reports whether the first String argument ends with the second.
func EndsWith(ctx function.Context, args []value.Value) (value.Value, error) {
	s, suffix, err := argStringPair(ctx, args, "EndsWith")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.HasSuffix(s, suffix)), nil
}

// Substring(s, start, length) returns a rune-indexed slice of s, clamped to
// the string's bounds rather than erroring on out-of-range indices.
func Substring(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "Substring expects 3 arguments, got %d", len(args))
	}
	s, err := argString(ctx, args, 0, "Substring")
	if err != nil {
		return value.Value{}, err
	}
	start := args[1].AsNumber().IntPart()
	length := args[2].AsNumber().IntPart()

	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start > int64(len(runes)) {
		start = int64(len(runes))
	}
	end := start + length
	if length < 0 || end > int64(len(runes)) {
		end = int64(len(runes))
	}
	if end < start {
		end = start
	}
	return value.String(string(runes[start:end])), nil
}

// Replace(s, old, new) replaces all non-overlapping occurrences of old with
// new in s.
func Replace(ctx function.Context, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "Replace expects 3 arguments, got %d", len(args))
	}
	s, err := argString(ctx, args, 0, "Replace")
	if err != nil {
		return value.Value{}, err
	}
	old, err := argString(ctx, args, 1, "Replace")
	if err != nil {
		return value.Value{}, err
	}
	repl, err := argString(ctx, args, 2, "Replace")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ReplaceAll(s, old, repl)), nil
}

// regexMatch builds RegexMatch(s, pattern): true if pattern matches
// anywhere in s. Uses dlclark/regexp2 rather than stdlib regexp because the
// stdlib's RE2 engine has no way to bound match time — regexp2's
// MatchTimeout directly implements Options.regexTimeoutMilliseconds
// (§6, §9), which bounds catastrophic backtracking from host-supplied
// patterns.
func regexMatch(timeout time.Duration) function.Func {
	return func(ctx function.Context, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return value.Value{}, ctx.NewError(errors.CodeInvalidFunctionArguments, "RegexMatch expects 2 arguments, got %d", len(args))
		}
		s, err := argString(ctx, args, 0, "RegexMatch")
		if err != nil {
			return value.Value{}, err
		}
		pattern, err := argString(ctx, args, 1, "RegexMatch")
		if err != nil {
			return value.Value{}, err
		}

		re, reErr := regexp2.Compile(pattern, regexp2.None)
		if reErr != nil {
			return value.Value{}, ctx.NewError(errors.CodeConversionFailed, "RegexMatch: invalid pattern %q: %v", pattern, reErr)
		}
		if timeout > 0 {
			re.MatchTimeout = timeout
		}

		matched, matchErr := re.MatchString(s)
		if matchErr != nil {
			return value.Value{}, ctx.NewError(errors.CodeRegexTimeout, "RegexMatch: %v", matchErr)
		}
		return value.Bool(matched), nil
	}
}

func argString(ctx function.Context, args []value.Value, i int, fn string) (string, error) {
	if i >= len(args) {
		return "", ctx.NewError(errors.CodeInvalidFunctionArguments, "%s: missing argument %d", fn, i+1)
	}
	if args[i].Kind() != value.KindString {
		return "", ctx.NewError(errors.CodeTypeMismatch, "%s: argument %d is not a String", fn, i+1)
	}
	return args[i].AsString(), nil
}

func argStringPair(ctx function.Context, args []value.Value, fn string) (string, string, error) {
	if len(args) != 2 {
		return "", "", ctx.NewError(errors.CodeInvalidFunctionArguments, "%s expects 2 arguments, got %d", fn, len(args))
	}
	a, err := argString(ctx, args, 0, fn)
	if err != nil {
		return "", "", err
	}
	b, err := argString(ctx, args, 1, fn)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}
