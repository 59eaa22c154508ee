package parser

import (
	"testing"

	"github.com/cwbudde/exprlang/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Block {
	t.Helper()
	p := New(src, true)
	block := p.ParseScript()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return block
}

func setValue(t *testing.T, block *ast.Block, idx int) ast.Expr {
	t.Helper()
	stmt, ok := block.Statements[idx].(*ast.SetStmt)
	if !ok {
		t.Fatalf("expected SetStmt at %d, got %#v", idx, block.Statements[idx])
	}
	return stmt.Value
}

func TestParse_ArithmeticPrecedence(t *testing.T) {
	block := parseOK(t, "set(Out, 1 + 2 * 3)")
	if len(block.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Statements))
	}
	bin, ok := setValue(t, block, 0).(*ast.BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected top-level '+', got %#v", block.Statements[0])
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Operator != "*" {
		t.Fatalf("expected '*' nested on the right, got %#v", bin.Right)
	}
}

func TestParse_FieldExpr(t *testing.T) {
	block := parseOK(t, "set(Out, [Account Balance])")
	field, ok := setValue(t, block, 0).(*ast.FieldExpr)
	if !ok || field.Name != "Account Balance" {
		t.Fatalf("expected field expr, got %#v", block.Statements[0])
	}
}

func TestParse_FieldExprWithTypeHint(t *testing.T) {
	block := parseOK(t, "set(Out, [Balance:number])")
	field := setValue(t, block, 0).(*ast.FieldExpr)
	if field.Name != "Balance" || field.TypeHint != "number" {
		t.Fatalf("unexpected field: %#v", field)
	}
}

func TestParse_SetStmtBareIdentTarget(t *testing.T) {
	block := parseOK(t, "set(Result, 1 + 1)")
	stmt, ok := block.Statements[0].(*ast.SetStmt)
	if !ok || stmt.Field != "Result" || stmt.Bracketed {
		t.Fatalf("expected SetStmt targeting bare Result, got %#v", block.Statements[0])
	}
}

func TestParse_SetStmtBracketedTargetWithTypeHint(t *testing.T) {
	block := parseOK(t, "set([Result:number], 1 + 1)")
	stmt, ok := block.Statements[0].(*ast.SetStmt)
	if !ok || stmt.Field != "Result" || !stmt.Bracketed || stmt.TypeHint != "number" {
		t.Fatalf("expected bracketed SetStmt with type hint, got %#v", block.Statements[0])
	}
}

func TestParse_LocalAndReturnLocal(t *testing.T) {
	block := parseOK(t, "local {\nset(X, 5)\nreturn_local\n}")
	local, ok := block.Statements[0].(*ast.LocalStmt)
	if !ok {
		t.Fatalf("expected LocalStmt, got %#v", block.Statements[0])
	}
	if len(local.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements inside local block, got %d", len(local.Body.Statements))
	}
	rl, ok := local.Body.Statements[1].(*ast.ReturnStmt)
	if !ok || rl.Kind != ast.ReturnReturnLocal {
		t.Fatalf("expected bare return_local, got %#v", local.Body.Statements[1])
	}
}

func TestParse_BareReturn(t *testing.T) {
	block := parseOK(t, "return")
	stmt, ok := block.Statements[0].(*ast.ReturnStmt)
	if !ok || stmt.Kind != ast.ReturnReturn {
		t.Fatalf("expected bare ReturnStmt, got %#v", block.Statements[0])
	}
}

func TestParse_IfElseIfElse(t *testing.T) {
	block := parseOK(t, "if(true) {\nreturn\n} elseif(false) {\nreturn\n} else {\nreturn\n}")
	stmt, ok := block.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %#v", block.Statements[0])
	}
	if len(stmt.ElseIfs) != 1 {
		t.Fatalf("expected 1 elseif clause, got %d", len(stmt.ElseIfs))
	}
	if stmt.Else == nil {
		t.Fatal("expected else clause")
	}
}

func TestParse_CallExpr(t *testing.T) {
	block := parseOK(t, "set(Out, Len([Name]))")
	call, ok := setValue(t, block, 0).(*ast.CallExpr)
	if !ok || call.Function != "Len" || len(call.Args) != 1 {
		t.Fatalf("expected call expr, got %#v", block.Statements[0])
	}
}

func TestParse_ShortCircuitOperatorsAssociateLeft(t *testing.T) {
	block := parseOK(t, "set(Out, true || false && true)")
	bin, ok := setValue(t, block, 0).(*ast.BinaryExpr)
	if !ok || bin.Operator != "||" {
		t.Fatalf("expected top-level '||', got %#v", block.Statements[0])
	}
}

func TestParse_AssertWithLevel(t *testing.T) {
	block := parseOK(t, `assert([Balance] >= 0, 'return', 'balance must be non-negative', 'error')`)
	stmt, ok := block.Statements[0].(*ast.AssertStmt)
	if !ok || stmt.Level != "error" || stmt.Action != "return" {
		t.Fatalf("expected AssertStmt with level, got %#v", block.Statements[0])
	}
}

func TestParse_AssertRequiresLiteralStringArgs(t *testing.T) {
	p := New(`assert([Balance] >= 0, action, 'message')`, true)
	p.ParseScript()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for a non-literal action argument")
	}
}

func TestParse_MsgWithLevel(t *testing.T) {
	block := parseOK(t, `msg('careful', 'warn')`)
	stmt, ok := block.Statements[0].(*ast.MsgStmt)
	if !ok || stmt.Level != "warn" || stmt.Text != "careful" {
		t.Fatalf("expected MsgStmt with level, got %#v", block.Statements[0])
	}
}

func TestParse_MsgRequiresLiteralStringArgs(t *testing.T) {
	p := New(`msg(x)`, true)
	p.ParseScript()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for a non-literal msg argument")
	}
}

func TestParse_ErrorRecoveryContinuesToNextStatement(t *testing.T) {
	p := New("set(Out, 1 +)\nreturn", true)
	p.ParseScript()
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one parse error")
	}
}

func TestParse_UnterminatedParenAccumulatesError(t *testing.T) {
	p := New("set(Out, (1 + 2)", true)
	p.ParseScript()
	if len(p.Errors()) == 0 {
		t.Fatal("expected parse error for unterminated paren")
	}
}
