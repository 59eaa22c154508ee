// Package builtins implements the string, math, and date/time functions
// contracted in spec §6 and registers them into an internal/function.Registry.
//
// Grounded on CWBudde-go-dws's internal/builtins package: the
// `func(ctx Context, args []Value) (Value, error)` signature and the
// per-function doc-comment register (one short paragraph naming arity and
// behavior) come from `datetime_calc.go`/`datetime_format.go`, re-typed
// against this engine's value.Value/decimal.Decimal instead of the
// teacher's IntegerValue/FloatValue split.
package builtins

import "github.com/cwbudde/exprlang/internal/function"

// RegisterAll installs every built-in function from this package into reg.
// Host code calling engine.WithFunction afterwards can still override any
// of these names, since function.Registry.Register always replaces.
func RegisterAll(reg *function.Registry, regexTimeoutMillis int) {
	registerStringFuncs(reg, regexTimeoutMillis)
	registerMathFuncs(reg)
	registerDateTimeFuncs(reg)
}
