package eval

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/convert"
	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/token"
	"github.com/cwbudde/exprlang/internal/value"
)

// ExecutionResult is what Evaluate produces (§3, §4.7): the fields any `set`
// statement assigned, any Msg diagnostics emitted along the way, timing and
// end-of-script position, and — when evaluation stopped on an error — the
// error's own position, snippet, and code. Unlike a call-form expression
// language with an implicit return value, the spec's ExecutionResult has no
// result/value field at all: a script communicates outward only through
// Set and Msg.
type ExecutionResult struct {
	Assignments map[string]value.Value
	Messages    []Message

	Elapsed   time.Duration
	EndLine   int
	EndColumn int

	HasError     bool
	ErrorMessage string
	ErrorLine    int
	ErrorColumn  int
	ErrorSnippet string
	ErrorCode    string
}

// Evaluator walks a compiled *ast.Block against a set of input fields.
// Scope and budget are allocated fresh inside each Evaluate call, but the
// accumulated messages live on the Evaluator itself, so one Evaluator is not
// safe for concurrent Evaluate calls; pkg/engine builds a new Evaluator for
// every execution. The *ast.Block it walks is only read and may be shared.
type Evaluator struct {
	opts       Options
	converters *convert.Registry
	functions  *function.Registry

	// messages is per-call state, reset at the top of Evaluate; it lives on
	// the struct only so the statement-execution helpers in
	// statements.go/binary.go can be plain methods instead of threading an
	// extra result-accumulator parameter through every call.
	messages []Message
}

// New creates an Evaluator. converters and functions may be nil, in which
// case empty registries are used (a host that wants the built-in functions
// registers internal/builtins.RegisterAll on its own Registry before
// passing it in — this package has no built-ins dependency itself to keep
// the dependency graph acyclic and the evaluator usable standalone).
func New(opts Options, converters *convert.Registry, functions *function.Registry) *Evaluator {
	if converters == nil {
		converters = convert.NewRegistry()
	}
	if functions == nil {
		functions = function.NewRegistry()
	}
	return &Evaluator{opts: opts, converters: converters, functions: functions}
}

// Evaluate runs block against the given input fields. On success it
// returns the resulting assignments and messages with HasError false; on
// failure it still returns every assignment and message accumulated before
// the failing statement, with HasError true and the error fields populated
// (§3 — "partial results survive a mid-script error"). The *errors.
// EngineError is also returned directly so a Go caller can type-switch on
// its Code without re-parsing ErrorCode.
func (e *Evaluator) Evaluate(block *ast.Block, input map[string]value.Value) (ExecutionResult, error) {
	start := time.Now()
	sc := newScope(input, e.opts)
	bud := newBudget(e.opts)
	e.messages = nil

	sig, err := e.execBlock(block, sc, bud)
	_ = sig

	endLine, endCol := block.Pos().Line, block.Pos().Column
	if len(block.Statements) > 0 {
		last := block.Statements[len(block.Statements)-1]
		endLine, endCol = last.Pos().Line, last.Pos().Column
	}

	result := ExecutionResult{
		Assignments: sc.assignments(),
		Messages:    e.messages,
		Elapsed:     time.Since(start),
		EndLine:     endLine,
		EndColumn:   endCol,
	}

	if err != nil {
		result.HasError = true
		if ee, ok := err.(*errors.EngineError); ok {
			result.ErrorMessage = ee.Message
			result.ErrorLine = ee.Pos.Line
			result.ErrorColumn = ee.Pos.Column
			result.ErrorSnippet = ee.FormatWithContext(0, false)
			result.ErrorCode = ee.Code.String()
		} else {
			result.ErrorMessage = err.Error()
		}
		return result, err
	}

	return result, nil
}

// evalExpr dispatches a single expression node, charging one budget visit
// and one depth unit for the call (§4.5).
func (e *Evaluator) evalExpr(expr ast.Expr, sc *scope, bud *budget) (value.Value, error) {
	if err := bud.visit(expr.Pos()); err != nil {
		return value.Value{}, err
	}
	if depthErr, exit := bud.enter(expr.Pos()); depthErr != nil {
		exit()
		return value.Value{}, depthErr
	} else {
		defer exit()
	}

	switch node := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(node)
	case *ast.FieldExpr:
		return e.evalField(node.Name, node.TypeHint, node.Pos(), sc)
	case *ast.Identifier:
		// A bare identifier denotes a field reference, equivalent to
		// [name] with no type hint (§4.2) — never a local-variable lookup.
		return e.evalField(node.Value, "", node.Pos(), sc)
	case *ast.UnaryExpr:
		return e.evalUnary(node, sc, bud)
	case *ast.BinaryExpr:
		return e.evalBinary(node, sc, bud)
	case *ast.GroupedExpr:
		return e.evalExpr(node.Inner, sc, bud)
	case *ast.CallExpr:
		return e.evalCall(node, sc, bud)
	}
	return value.Value{}, errors.New(errors.CodeTypeMismatch, expr.Pos(), "unhandled expression node")
}

func (e *Evaluator) evalLiteral(lit *ast.Literal) (value.Value, error) {
	switch lit.Kind {
	case token.NUMBER:
		return parseNumberLiteral(lit.Token.Text, lit.Pos())
	case token.STRING:
		return value.String(lit.Token.Text), nil
	case token.TRUE:
		return value.Bool(true), nil
	case token.FALSE:
		return value.Bool(false), nil
	case token.NULL:
		return value.Null, nil
	case token.NOW:
		return value.DateTime(e.now()), nil
	}
	return value.Value{}, errors.New(errors.CodeTypeMismatch, lit.Pos(), "unknown literal kind")
}

func (e *Evaluator) evalUnary(u *ast.UnaryExpr, sc *scope, bud *budget) (value.Value, error) {
	operand, err := e.evalExpr(u.Operand, sc, bud)
	if err != nil {
		return value.Value{}, err
	}
	switch u.Operator {
	case "!":
		t, ok := operand.Truthy()
		if !ok {
			return value.Value{}, errors.New(errors.CodeTypeMismatch, u.Pos(), "'!' requires a Bool operand")
		}
		return value.Bool(!t), nil
	case "-":
		n, err := e.numberOf(operand, u.Operand.Pos())
		if err != nil {
			return value.Value{}, err
		}
		return value.Number(n.Neg()), nil
	}
	return value.Value{}, errors.New(errors.CodeTypeMismatch, u.Pos(), "unknown unary operator "+u.Operator)
}

func (e *Evaluator) evalCall(c *ast.CallExpr, sc *scope, bud *budget) (value.Value, error) {
	if v, handled, err := e.evalSpecialForm(c, sc, bud); handled {
		return v, err
	}

	fn, ok := e.functions.Lookup(c.Function)
	if !ok {
		return value.Value{}, errors.New(errors.CodeUnknownFunction, c.Pos(), "unknown function "+c.Function)
	}

	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := e.evalExpr(a, sc, bud)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	ctx := &funcContext{pos: c.Pos()}
	result, err := fn(ctx, args)
	if err != nil {
		if ee, ok := err.(*errors.EngineError); ok {
			return value.Value{}, ee
		}
		return value.Value{}, errors.New(errors.CodeInvalidFunctionArguments, c.Pos(), err.Error())
	}
	return result, nil
}

// funcContext implements function.Context for a single call expression.
type funcContext struct {
	pos token.Position
}

func (f *funcContext) NewError(code errors.Code, format string, args ...any) error {
	return errors.New(code, f.pos, fmt.Sprintf(format, args...))
}

func (f *funcContext) Pos() token.Position { return f.pos }

// now returns the current time used for the `now` literal, in local time or
// UTC per Options.NowUseLocalTime (§4.4, §9).
func (e *Evaluator) now() time.Time {
	n := time.Now()
	if e.opts.NowUseLocalTime {
		return n.Local()
	}
	return n.UTC()
}

// parseNumberLiteral converts a NUMBER token's text into a Number value.
// Leading-dot forms (".5") are accepted directly by decimal.NewFromString.
func parseNumberLiteral(text string, pos token.Position) (value.Value, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return value.Value{}, errors.New(errors.CodeInvalidNumber, pos, fmt.Sprintf("invalid number literal %q", text))
	}
	return value.Number(d), nil
}
