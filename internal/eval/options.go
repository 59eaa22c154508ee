// Package eval implements the tree-walking evaluator (§4.4), the execution
// budget controller (§4.5), and the Options record a host configures both
// with.
//
// Grounded on §4.4/§4.5 directly; the file-per-concern split (budget.go,
// scope.go, flow.go, binary.go, equality.go, field.go, statements.go)
// follows the teacher's one-file-per-visitor-concern convention (its
// deleted internal/interp/evaluator package split `visitor_*.go` the same
// way).
package eval

import "time"

// EqualityCoercion selects how `==`/`!=` treat operands of different Kinds
// (§4.4, §6, §9 Open Question 1).
type EqualityCoercion int

const (
	// Strict stringifies both operands and compares as strings whenever at
	// least one side is String or the Kinds otherwise differ (the engine's
	// resolution of §9's open question: `'1' == 1` is true under Strict,
	// not a type error).
	Strict EqualityCoercion = iota
	// NumberFriendly: when both sides parse as decimal, compare
	// numerically; otherwise compare as strings. Raises TypeMismatch for
	// the neither-side-String mismatched-kind case (§4.4).
	NumberFriendly
	// Permissive behaves like NumberFriendly for the at-least-one-String
	// case, but falls back to stringified equality (rather than raising)
	// when neither side is String and the kinds still don't match.
	Permissive
	// MixedNumericOnly: two strings always compare as strings; a
	// String/Number pair attempts numeric coercion of the string operand,
	// falling back to string comparison on failure (§4.4, §8 scenario 4).
	MixedNumericOnly
)

// StringComparison selects how String operands are ordered/compared for
// relational and equality operators.
type StringComparison int

const (
	// ExactStringComparison compares strings byte-for-byte.
	ExactStringComparison StringComparison = iota
	// IgnoreCaseStringComparison folds case before comparing, using
	// golang.org/x/text/cases for locale-aware folding rather than
	// strings.EqualFold's ASCII-only behavior.
	IgnoreCaseStringComparison
)

// StringConcat selects how binary `+` behaves when at least one operand is
// String (§4.4, §6).
type StringConcat int

const (
	// PreferStringIfAnyString coerces both sides to String via converters
	// (falling back to default stringification) and concatenates.
	PreferStringIfAnyString StringConcat = iota
	// PreferNumericIfParsable tries to parse both sides as decimal first;
	// if both parse, their sum is returned as a Number, otherwise it falls
	// back to the PreferStringIfAnyString behavior.
	PreferNumericIfParsable
)

// MidpointRounding selects how Set-commit output rounding breaks ties
// (§4.4, §6, §8).
type MidpointRounding int

const (
	// RoundAwayFromZero rounds a tied digit away from zero (1.5 -> 2).
	RoundAwayFromZero MidpointRounding = iota
	// RoundToEven rounds a tied digit to the nearest even digit (banker's
	// rounding; 1.5 -> 2, 2.5 -> 2).
	RoundToEven
)

// FieldNameValidator lets a host reject field references before they reach
// the input map lookup (e.g. to enforce a naming convention). It runs
// against the field name's original spelling, before any case folding
// (§9 Open Question 2).
type FieldNameValidator func(name string) error

// Options configures a single Evaluator instance. Constructed before engine
// creation and immutable after construction (§5) — the Evaluator never
// mutates its own Options.
type Options struct {
	// EnableComments toggles lexer comment skipping (§4.1).
	EnableComments bool

	// MaxDepth bounds expression nesting depth (§4.5, default 64); nested
	// statements and blocks are not counted.
	MaxDepth int
	// MaxNodeVisits bounds the total number of AST node evaluations in one
	// run (§4.5, default 10000), distinct from MaxNodes's static
	// script-size check.
	MaxNodeVisits int
	// MaxNodes bounds the total AST node count a script may compile to
	// (§4.2, §4.5, §4.7, default 2000). Enforced by the facade after
	// parsing and before caching, not by the parser itself.
	MaxNodes int
	// TimeoutMilliseconds bounds wall-clock execution time (§4.5). Zero
	// means no timeout.
	TimeoutMilliseconds int

	// EqualityCoercion selects `==`/`!=` cross-kind behavior (§4.4).
	EqualityCoercion EqualityCoercion
	// StringComparison selects case sensitivity for string comparisons
	// (default ignore-case).
	StringComparison StringComparison
	// StringConcat selects binary `+`'s behavior when a String operand is
	// present (§4.4).
	StringConcat StringConcat

	// CaseInsensitiveFieldNames folds field-name lookups against the
	// mutable/input field maps case-insensitively when true (default
	// true).
	CaseInsensitiveFieldNames bool
	// FieldNameValidator, if non-nil, is called with the field's original
	// spelling before scope lookup (§9 Open Question 2), overriding
	// StrictFieldNameValidation.
	FieldNameValidator FieldNameValidator
	// StrictFieldNameValidation enforces `[A-Za-z0-9_ ]+` on field names
	// when FieldNameValidator is nil (§4.4, §6).
	StrictFieldNameValidation bool

	// RegexTimeoutMilliseconds bounds RegexMatch's match time (§6, §9).
	RegexTimeoutMilliseconds int

	// RoundingDigits, when >= 0, rounds every Number committed by a `set`
	// statement to this many decimal places before storing it (§4.4, §8).
	// Negative means no rounding.
	RoundingDigits int32
	// MidpointRounding selects the tie-breaking rule RoundingDigits uses.
	MidpointRounding MidpointRounding

	// TreatNullStringAsEmpty: when a Null participates in string
	// concatenation via default stringification, emit an empty string
	// (§4.4, §6). With it unset, the converter registry's null-to-String
	// default also yields an empty string, so the concatenated text is the
	// same either way.
	TreatNullStringAsEmpty bool
	// TreatNullDecimalAsZero: a typed field read of a Null field with a
	// decimal target defaults to zero instead of raising ConversionError.
	TreatNullDecimalAsZero bool
	// TreatNullBoolAsFalse: a typed field read of a Null field with a bool
	// target defaults to false instead of raising ConversionError.
	TreatNullBoolAsFalse bool
	// NullDateTimeDefault is the DateTime a typed field read of a Null
	// field with a datetime target defaults to.
	NullDateTimeDefault time.Time

	// NowUseLocalTime selects the time zone of the `now` literal: local
	// time when true, UTC when false (§4.4, §9).
	NowUseLocalTime bool
	// DateTimeFormat is the canonical datetime pattern built-in
	// parsers/formatters fall back to (§6). Expressed as a Go reference-
	// time layout (package time's formatting convention), consistent with
	// how this engine represents DateTime as a plain time.Time.
	DateTimeFormat string
}

// DefaultOptions returns the engine's out-of-the-box configuration per §6:
// comments enabled, depth/visit/size budgets at their documented defaults,
// Strict equality, case-insensitive field names and string comparison, a
// 250ms regex timeout, and no output rounding.
func DefaultOptions() Options {
	return Options{
		EnableComments:            true,
		MaxDepth:                  64,
		MaxNodeVisits:             10_000,
		MaxNodes:                  2_000,
		TimeoutMilliseconds:       1_000,
		EqualityCoercion:          Strict,
		StringComparison:          IgnoreCaseStringComparison,
		StringConcat:              PreferStringIfAnyString,
		CaseInsensitiveFieldNames: true,
		RegexTimeoutMilliseconds:  250,
		RoundingDigits:            -1,
		MidpointRounding:          RoundAwayFromZero,
		DateTimeFormat:            "2006-01-02 15:04:05",
	}
}
