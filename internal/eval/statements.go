package eval

import (
	"fmt"
	"strings"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/value"
)

// MsgLevel classifies a Msg statement's severity.
type MsgLevel int

const (
	LevelInfo MsgLevel = iota
	LevelWarning
	LevelError
)

func msgLevelFromString(s string) (MsgLevel, bool) {
	switch strings.ToLower(s) {
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarning, true
	case "error":
		return LevelError, true
	}
	return 0, false
}

// Message is one diagnostic emitted by a Msg statement, collected in
// execution order into ExecutionResult.Messages.
type Message struct {
	Level MsgLevel
	Text  string
	Line  int
	Column int
}

// execBlock runs every statement in block in order, stopping early and
// propagating a signal the moment one fires (§4.4 — Return/ReturnLocal end
// evaluation immediately, including from inside a nested if-block).
func (e *Evaluator) execBlock(block *ast.Block, sc *scope, bud *budget) (signal, error) {
	for _, stmt := range block.Statements {
		sig, err := e.execStmt(stmt, sc, bud)
		if err != nil {
			return noSignal, err
		}
		if sig.isActive() {
			return sig, nil
		}
	}
	return noSignal, nil
}

func (e *Evaluator) execStmt(stmt ast.Stmt, sc *scope, bud *budget) (signal, error) {
	if err := bud.visit(stmt.Pos()); err != nil {
		return noSignal, err
	}

	switch s := stmt.(type) {
	case *ast.ExprStmt:
		if _, err := e.evalExpr(s.Expr, sc, bud); err != nil {
			return noSignal, err
		}
		return noSignal, nil

	case *ast.SetStmt:
		return e.execSet(s, sc, bud)

	case *ast.LocalStmt:
		return e.execLocal(s, sc, bud)

	case *ast.MsgStmt:
		return e.execMsg(s, sc, bud)

	case *ast.ReturnStmt:
		if s.Kind == ast.ReturnReturnLocal {
			return returnLocalSignal, nil
		}
		return returnSignal, nil

	case *ast.AssertStmt:
		return e.execAssert(s, sc, bud)

	case *ast.IfStmt:
		return e.execIf(s, sc, bud)
	}

	return noSignal, errors.New(errors.CodeParseError, stmt.Pos(), fmt.Sprintf("unhandled statement type %T", stmt))
}

// execSet evaluates the assignment expression, optionally coerces it
// through the converter registry when the target carries a type hint
// (`set([x:type], expr)`, §4.2, §4.3), optionally rounds a Number result
// per Options.RoundingDigits/MidpointRounding, and commits it to
// mutableFields (§4.4).
func (e *Evaluator) execSet(s *ast.SetStmt, sc *scope, bud *budget) (signal, error) {
	v, err := e.evalExpr(s.Value, sc, bud)
	if err != nil {
		return noSignal, err
	}

	if s.TypeHint != "" {
		target, ok := kindForTypeHint(s.TypeHint)
		if !ok {
			return noSignal, errors.New(errors.CodeTypeMismatch, s.Pos(), fmt.Sprintf("unknown field type hint %q", s.TypeHint))
		}
		if v.IsNull() {
			v, err = e.nullDefaultFor(target, s.Pos())
			if err != nil {
				return noSignal, err
			}
		} else if v.Kind() != target {
			converted, cerr := e.converters.Convert(v, target)
			if cerr != nil {
				return noSignal, errors.New(errors.CodeConversionFailed, s.Pos(), cerr.Error())
			}
			v = converted
		}
	}

	if e.opts.RoundingDigits >= 0 && v.Kind() == value.KindNumber {
		n := v.AsNumber()
		if e.opts.MidpointRounding == RoundToEven {
			v = value.Number(n.RoundBank(e.opts.RoundingDigits))
		} else {
			v = value.Number(n.Round(e.opts.RoundingDigits))
		}
	}

	if err := sc.validateName(s.Field); err != nil {
		return noSignal, errors.New(errors.CodeInvalidFieldName, s.Pos(), err.Error())
	}
	sc.setMutable(s.Field, v)
	return noSignal, nil
}

// execLocal runs body as a nested block (§3, §4.4 "Local(body)"). A bare
// `return_local` inside it is swallowed here, resuming execution after the
// Local statement rather than propagating further; every other signal
// (`return`, or none) propagates to the caller unchanged.
func (e *Evaluator) execLocal(s *ast.LocalStmt, sc *scope, bud *budget) (signal, error) {
	sig, err := e.execBlock(s.Body, sc, bud)
	if err != nil {
		return noSignal, err
	}
	if sig.kind == signalReturnLocal {
		return noSignal, nil
	}
	return sig, nil
}

func (e *Evaluator) execMsg(s *ast.MsgStmt, sc *scope, bud *budget) (signal, error) {
	level := LevelInfo
	if s.Level != "" {
		// §9 Open Question 3: an unrecognized level silently falls through
		// to Info rather than erroring.
		if resolved, ok := msgLevelFromString(s.Level); ok {
			level = resolved
		}
	}

	e.messages = append(e.messages, Message{
		Level:  level,
		Text:   s.Text,
		Line:   s.Pos().Line,
		Column: s.Pos().Column,
	})
	return noSignal, nil
}

// execAssert implements the 4-argument form assert(cond, action, message,
// level?) (§3, §4.2, §4.4, §8 scenario 6): a false condition always appends
// a message first, then dispatches on action — "none" is a no-op, "return"
// and "return_local" fire the matching flow signal, and any other spelling
// is UnknownOperator.
func (e *Evaluator) execAssert(s *ast.AssertStmt, sc *scope, bud *budget) (signal, error) {
	condVal, err := e.evalExpr(s.Condition, sc, bud)
	if err != nil {
		return noSignal, err
	}
	truthy, ok := condVal.Truthy()
	if !ok {
		return noSignal, errors.New(errors.CodeTypeMismatch, s.Condition.Pos(), "assert condition must be Bool")
	}
	if truthy {
		return noSignal, nil
	}

	level := LevelInfo
	if s.Level != "" {
		if resolved, ok := msgLevelFromString(s.Level); ok {
			level = resolved
		}
	}
	e.messages = append(e.messages, Message{
		Level:  level,
		Text:   s.Message,
		Line:   s.Pos().Line,
		Column: s.Pos().Column,
	})

	switch strings.ToLower(s.Action) {
	case "none":
		return noSignal, nil
	case "return":
		return returnSignal, nil
	case "return_local":
		return returnLocalSignal, nil
	}
	return noSignal, errors.New(errors.CodeUnknownOperator, s.Pos(), "assert: unknown action "+s.Action)
}

func (e *Evaluator) execIf(s *ast.IfStmt, sc *scope, bud *budget) (signal, error) {
	condVal, err := e.evalExpr(s.Condition, sc, bud)
	if err != nil {
		return noSignal, err
	}
	truthy, ok := condVal.Truthy()
	if !ok {
		return noSignal, errors.New(errors.CodeTypeMismatch, s.Condition.Pos(), "if condition must be Bool")
	}
	if truthy {
		return e.execBlock(s.Then, sc, bud)
	}

	for _, ei := range s.ElseIfs {
		eiVal, err := e.evalExpr(ei.Condition, sc, bud)
		if err != nil {
			return noSignal, err
		}
		eiTruthy, ok := eiVal.Truthy()
		if !ok {
			return noSignal, errors.New(errors.CodeTypeMismatch, ei.Condition.Pos(), "elseif condition must be Bool")
		}
		if eiTruthy {
			return e.execBlock(ei.Body, sc, bud)
		}
	}

	if s.Else != nil {
		return e.execBlock(s.Else, sc, bud)
	}
	return noSignal, nil
}
