package eval

import (
	"fmt"
	"strings"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/value"
)

// specialForms are call-syntax operators that need the evaluator's scope
// (field lookups) or lazy-argument evaluation (skipping the untaken
// branch), neither of which a plain function.Func registered in
// internal/function/internal/builtins has access to (§6 — Coalesce, Iif,
// FieldExists). Matched case-insensitively like every other call, and
// checked before the function registry so a host cannot shadow them by
// registering its own function under the same name.
func (e *Evaluator) evalSpecialForm(c *ast.CallExpr, sc *scope, bud *budget) (value.Value, bool, error) {
	switch strings.ToLower(c.Function) {
	case "coalesce":
		v, err := e.evalCoalesce(c, sc, bud)
		return v, true, err
	case "iif":
		v, err := e.evalIif(c, sc, bud)
		return v, true, err
	case "fieldexists":
		v, err := e.evalFieldExists(c, sc)
		return v, true, err
	}
	return value.Value{}, false, nil
}

// evalCoalesce returns the first non-null argument, evaluating arguments
// left to right and stopping as soon as one is non-null (later arguments,
// and whatever errors they might raise, are never evaluated).
func (e *Evaluator) evalCoalesce(c *ast.CallExpr, sc *scope, bud *budget) (value.Value, error) {
	if len(c.Args) == 0 {
		return value.Value{}, errors.New(errors.CodeInvalidFunctionArguments, c.Pos(), "Coalesce expects at least 1 argument, got 0")
	}
	for _, arg := range c.Args {
		v, err := e.evalExpr(arg, sc, bud)
		if err != nil {
			return value.Value{}, err
		}
		if !v.IsNull() {
			return v, nil
		}
	}
	return value.Null, nil
}

// evalIif evaluates cond and then only the taken branch (§6 — "Iif(cond,
// whenTrue, whenFalse): the branch not taken is never evaluated").
func (e *Evaluator) evalIif(c *ast.CallExpr, sc *scope, bud *budget) (value.Value, error) {
	if len(c.Args) != 3 {
		return value.Value{}, errors.New(errors.CodeInvalidFunctionArguments, c.Pos(), fmt.Sprintf("Iif expects 3 arguments, got %d", len(c.Args)))
	}
	cond, err := e.evalExpr(c.Args[0], sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	truthy, ok := cond.Truthy()
	if !ok {
		return value.Value{}, errors.New(errors.CodeTypeMismatch, c.Args[0].Pos(), "Iif: condition is not a Bool")
	}
	if truthy {
		return e.evalExpr(c.Args[1], sc, bud)
	}
	return e.evalExpr(c.Args[2], sc, bud)
}

// evalFieldExists reports whether its sole `[field]` argument is present in
// the input map at all, distinct from a field access (which raises
// UnknownField for a missing field). Its argument must be a literal field reference, not an
// arbitrary expression — there is nothing to look up otherwise.
func (e *Evaluator) evalFieldExists(c *ast.CallExpr, sc *scope) (value.Value, error) {
	if len(c.Args) != 1 {
		return value.Value{}, errors.New(errors.CodeInvalidFunctionArguments, c.Pos(), fmt.Sprintf("FieldExists expects 1 argument, got %d", len(c.Args)))
	}
	field, ok := c.Args[0].(*ast.FieldExpr)
	if !ok {
		return value.Value{}, errors.New(errors.CodeTypeMismatch, c.Args[0].Pos(), "FieldExists expects a [field] reference")
	}
	_, present, err := sc.lookupInput(field.Name)
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(present), nil
}
