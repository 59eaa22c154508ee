// Package analyzer implements the read-only validation analyzer boundary
// (§6): a single AST traversal that reports script statistics without
// executing anything, shared by pkg/engine.Validate.
//
// Grounded on §9's design note "provide a single node-visiting traversal
// used by three clients: compile-time size check, budget pre-check on
// statements, and the validation analyzer" — the parser's node count
// (checked against MaxNodes by pkg/engine) and the evaluator's budget.visit are the other two traversals that note
// describes; this package is the third, specified as a boundary rather
// than shared code because it walks the whole tree up front instead of
// interleaving with execution.
package analyzer

import (
	"fmt"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/token"
)

// Complexity summarizes a script's structural shape.
type Complexity struct {
	ArithmeticOps    int
	ComparisonOps    int
	LogicalOps       int
	FunctionCalls    int
	ConditionalCount int
	LocalBlockCount  int
	MaxBlockDepth    int
	TotalExpressions int
}

// FieldReference is one `[name]`/`name` read, with its source position.
type FieldReference struct {
	Name string
	Pos  token.Position
}

// Warning flags something the analyzer noticed that isn't a hard error
// (e.g. a call to an unregistered function) — a script carrying warnings
// still executes; it may simply fail at that call site.
type Warning struct {
	Message string
	Pos     token.Position
}

// Result is the outcome of analyzing one compiled Block.
type Result struct {
	TotalNodes       int
	Complexity       Complexity
	UsedFunctions    []string
	ReferencedFields []FieldReference
	Warnings         []Warning
}

// Analyze walks block and produces a Result. functions may be nil, in
// which case no unregistered-function warnings are ever raised (every
// call is reported as used, none flagged).
func Analyze(block *ast.Block, functions *function.Registry) Result {
	a := &analysis{functions: functions, usedFunctions: map[string]bool{}}
	a.walkBlock(block, 0)

	res := Result{
		TotalNodes:       a.totalNodes,
		Complexity:       a.complexity,
		ReferencedFields: a.referencedFields,
		Warnings:         a.warnings,
	}
	res.Complexity.TotalExpressions = a.totalExpressions
	res.Complexity.MaxBlockDepth = a.maxBlockDepth
	for name := range a.usedFunctions {
		res.UsedFunctions = append(res.UsedFunctions, name)
	}
	return res
}

type analysis struct {
	functions *function.Registry

	totalNodes      int
	totalExpressions int
	maxBlockDepth   int
	complexity      Complexity

	usedFunctions    map[string]bool
	referencedFields []FieldReference
	warnings         []Warning
}

func (a *analysis) walkBlock(b *ast.Block, depth int) {
	if depth > a.maxBlockDepth {
		a.maxBlockDepth = depth
	}
	for _, stmt := range b.Statements {
		a.walkStmt(stmt, depth)
	}
}

func (a *analysis) walkStmt(stmt ast.Stmt, depth int) {
	a.totalNodes++

	switch s := stmt.(type) {
	case *ast.ExprStmt:
		a.walkExpr(s.Expr)
	case *ast.SetStmt:
		a.walkExpr(s.Value)
	case *ast.LocalStmt:
		a.complexity.LocalBlockCount++
		a.walkBlock(s.Body, depth+1)
	case *ast.MsgStmt:
		// Text/Level are literal strings, not sub-expressions (§4.2).
	case *ast.ReturnStmt:
		// bare keyword, no sub-expressions (§3, §4.2)
	case *ast.AssertStmt:
		a.walkExpr(s.Condition)
		// Action/Message/Level are literal strings, not sub-expressions.
	case *ast.IfStmt:
		a.complexity.ConditionalCount++
		a.walkExpr(s.Condition)
		a.walkBlock(s.Then, depth+1)
		for _, ei := range s.ElseIfs {
			a.complexity.ConditionalCount++
			a.walkExpr(ei.Condition)
			a.walkBlock(ei.Body, depth+1)
		}
		if s.Else != nil {
			a.walkBlock(s.Else, depth+1)
		}
	}
}

func (a *analysis) walkExpr(expr ast.Expr) {
	a.totalNodes++
	a.totalExpressions++

	switch e := expr.(type) {
	case *ast.Literal:
		// leaf
	case *ast.FieldExpr:
		a.referencedFields = append(a.referencedFields, FieldReference{Name: e.Name, Pos: e.Pos()})
	case *ast.Identifier:
		a.referencedFields = append(a.referencedFields, FieldReference{Name: e.Value, Pos: e.Pos()})
	case *ast.UnaryExpr:
		a.walkExpr(e.Operand)
	case *ast.BinaryExpr:
		a.classifyOperator(e.Operator)
		a.walkExpr(e.Left)
		a.walkExpr(e.Right)
	case *ast.GroupedExpr:
		a.walkExpr(e.Inner)
	case *ast.CallExpr:
		a.complexity.FunctionCalls++
		a.usedFunctions[e.Function] = true
		if a.functions != nil {
			if _, ok := a.functions.Lookup(e.Function); !ok {
				a.warnings = append(a.warnings, Warning{
					Message: fmt.Sprintf("call to unregistered function %q", e.Function),
					Pos:     e.Pos(),
				})
			}
		}
		for _, arg := range e.Args {
			a.walkExpr(arg)
		}
	}
}

func (a *analysis) classifyOperator(op string) {
	switch op {
	case "+", "-", "*", "/", "%":
		a.complexity.ArithmeticOps++
	case "==", "!=", "<", "<=", ">", ">=":
		a.complexity.ComparisonOps++
	case "&&", "||":
		a.complexity.LogicalOps++
	}
}
